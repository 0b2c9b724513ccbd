package spin

import (
	"github.com/akmonengine/spin/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_WORKERS  = 1
	DEFAULT_SUBSTEPS = 1
)

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Gravity acceleration (m/s², or N/kg)
	Gravity  mgl64.Vec3
	Substeps int
	Workers  int

	// Sleep is skipped while either threshold is zero
	SleepTimeThreshold     float64
	SleepVelocityThreshold float64

	Events Events

	steps uint64
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
	w.Events.track(body)
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	w.Events.forget(body)
}

// Steps returns the number of steps done so far
func (w *World) Steps() uint64 {
	return w.steps
}

// Step advances the world by dt.
// Forces and torques accumulated since the previous step apply over the whole dt,
// then they are cleared.
func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.Substeps = max(DEFAULT_SUBSTEPS, w.Substeps)
	h := dt / float64(w.Substeps)

	for i := 0; i < w.Substeps; i++ {
		w.integrate(h)
		w.trySleep(h)
	}
	w.clearForces()
	w.steps++

	w.Events.processSleepEvents(w.Bodies)
	w.Events.emitStepEnd(w.steps, dt)
	w.Events.flush()
}

func (w *World) integrate(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Integrate(h, w.Gravity)
	})
}

func (w *World) clearForces() {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.ClearForces()
	})
}

// trySleep sets the body to sleep if its velocity is lower than the threshold, for a given duration
// this method is too simple to use a task, it slows down in multiple goroutines
func (w *World) trySleep(h float64) {
	if w.SleepTimeThreshold <= 0 || w.SleepVelocityThreshold <= 0 {
		return
	}

	for _, body := range w.Bodies {
		body.TrySleep(h, w.SleepTimeThreshold, w.SleepVelocityThreshold)
	}
}
