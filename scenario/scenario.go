// Package scenario runs scripted torque scenarios against the reference
// integrator and checks the predicted angular velocity change.
package scenario

import (
	"fmt"
	"math"

	"github.com/akmonengine/spin/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Euler holds rotation angles in degrees, applied around Z, then X, then Y.
type Euler struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Quat converts the angles into a rotation.
func (e Euler) Quat() mgl64.Quat {
	return actor.FromEuler(e.X, e.Y, e.Z)
}

func (e Euler) String() string {
	return fmt.Sprintf("(%g, %g, %g)", e.X, e.Y, e.Z)
}

// Shapes a Body can take.
const (
	ShapeSphere = "sphere"
	ShapeBox    = "box"
)

// Body describes the rigid body every scenario starts from.
// Its shape and density give the principal moments when a scenario does not set them.
type Body struct {
	Shape       string     `yaml:"shape"`
	Radius      float64    `yaml:"radius,omitempty"`
	HalfExtents mgl64.Vec3 `yaml:"half_extents,omitempty"`
	Density     float64    `yaml:"density"`
}

// NewShape builds the shape of the body.
func (b Body) NewShape() (actor.ShapeInterface, error) {
	switch b.Shape {
	case ShapeSphere:
		if !(b.Radius > 0) {
			return nil, fmt.Errorf("sphere radius must be positive, got %v", b.Radius)
		}
		return &actor.Sphere{Radius: b.Radius}, nil
	case ShapeBox:
		for i, extent := range b.HalfExtents {
			if !(extent > 0) {
				return nil, fmt.Errorf("box half extent %d must be positive, got %v", i, extent)
			}
		}
		return &actor.Box{HalfExtents: b.HalfExtents}, nil
	}

	return nil, fmt.Errorf("unknown shape %q", b.Shape)
}

// Validate checks the shape and the density.
func (b Body) Validate() error {
	if _, err := b.NewShape(); err != nil {
		return err
	}
	if !(b.Density > 0) || math.IsInf(b.Density, 0) {
		return fmt.Errorf("density must be a positive number, got %v", b.Density)
	}

	return nil
}

// Scenario is one body set-up, one torque and one physics step.
type Scenario struct {
	Name string `yaml:"name"`
	// InertiaTensor left at zero keeps the moments of the body shape
	InertiaTensor         mgl64.Vec3 `yaml:"inertia_tensor"`
	InertiaTensorRotation Euler      `yaml:"inertia_tensor_rotation"`
	Orientation           Euler      `yaml:"orientation"`
	Torque                mgl64.Vec3 `yaml:"torque"`
	// Relative applies the torque in the body local frame
	Relative bool `yaml:"relative,omitempty"`
	// Static bodies ignore the torque, nothing may change
	Static bool `yaml:"static,omitempty"`
}

// Group shares a body set-up between every torque of the suite.
type Group struct {
	Name string `yaml:"name"`
	// InertiaTensor overrides the suite tensor when set
	InertiaTensor         *mgl64.Vec3 `yaml:"inertia_tensor,omitempty"`
	InertiaTensorRotation Euler       `yaml:"inertia_tensor_rotation"`
	Orientation           Euler       `yaml:"orientation"`
	Relative              bool        `yaml:"relative,omitempty"`
	Static                bool        `yaml:"static,omitempty"`
}

func torqueLabel(torque mgl64.Vec3) string {
	return fmt.Sprintf("torque(%g,%g,%g)", torque.X(), torque.Y(), torque.Z())
}
