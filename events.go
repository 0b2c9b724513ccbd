package spin

import "github.com/akmonengine/spin/actor"

const (
	ON_SLEEP EventType = iota
	ON_WAKE
	STEP_END
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Sleep/Wake events
type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// StepEndEvent is sent once a full World.Step is done, all substeps included
type StepEndEvent struct {
	Step uint64  // number of steps done so far, this one included
	Dt   float64 // duration of the step
}

func (e StepEndEvent) Type() EventType { return STEP_END }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	sleepStates map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		listeners:   make(map[EventType][]EventListener),
		buffer:      make([]Event, 0, 16),
		sleepStates: make(map[*actor.RigidBody]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		*e = NewEvents()
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// track records the sleep state of a new body, so a change during its first step is reported
func (e *Events) track(body *actor.RigidBody) {
	if e.sleepStates == nil {
		e.sleepStates = make(map[*actor.RigidBody]bool)
	}
	e.sleepStates[body] = body.IsSleeping
}

func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	if e.sleepStates == nil {
		e.sleepStates = make(map[*actor.RigidBody]bool)
	}

	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body]
		if !exists {
			e.sleepStates[body] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body] = false
		}
	}
}

func (e *Events) emitStepEnd(step uint64, dt float64) {
	e.buffer = append(e.buffer, StepEndEvent{Step: step, Dt: dt})
}

func (e *Events) forget(body *actor.RigidBody) {
	delete(e.sleepStates, body)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
