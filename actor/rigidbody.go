package actor

import (
	"math"

	"github.com/akmonengine/spin/inertia"
	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, torques and gravity
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	BodyTypeStatic
)

type Material struct {
	Density float64
	mass    float64

	LinearDamping  float64 // 1/s, 0 disables it
	AngularDamping float64 // 1/s, 0 disables it
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	// Spatial properties
	PreviousTransform Transform
	Transform         Transform

	// Linear motion
	Velocity mgl64.Vec3 // Linear velocity (m/s), world space

	// Angular motion
	AngularVelocity mgl64.Vec3 // Angular velocity (rad/s), world space

	// Inertia, principal moments and the rotation of the principal axes in local space
	InertiaTensor         mgl64.Vec3
	InertiaTensorRotation mgl64.Quat
	InertiaLocal          mgl64.Mat3
	InverseInertiaLocal   mgl64.Mat3

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	IsSleeping bool
	SleepTimer float64

	// Physical properties
	Material Material
	BodyType BodyType // Dynamic or Static

	Shape ShapeInterface
}

// NewRigidBody creates a new rigid body with the given properties
// density is used to calculate mass and inertia for dynamic bodies (ignored for static)
func NewRigidBody(transform Transform, shape ShapeInterface, bodyType BodyType, density float64) *RigidBody {
	transform.SetRotation(normalizedRotation(transform.Rotation))

	rb := &RigidBody{
		PreviousTransform:     transform,
		Transform:             transform,
		Shape:                 shape,
		BodyType:              bodyType,
		InertiaTensorRotation: mgl64.QuatIdent(),
	}

	if bodyType == BodyTypeStatic {
		// Static bodies have infinite mass
		rb.Material = Material{
			Density: 0,
			mass:    math.Inf(1),
		}
		rb.InertiaTensor = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}

		return rb
	}

	rb.Material = Material{
		Density: density,
		mass:    shape.ComputeMass(density),
	}
	rb.InertiaTensor = shape.ComputeInertia(rb.Material.mass)
	rb.updateInertia()

	return rb
}

// zero quaternions (a Transform literal without rotation) stand for identity
func normalizedRotation(q mgl64.Quat) mgl64.Quat {
	if q.Len() == 0 {
		return mgl64.QuatIdent()
	}

	return q.Normalize()
}

// SetInertiaTensor overrides the principal moments computed from the shape
func (rb *RigidBody) SetInertiaTensor(tensor mgl64.Vec3) error {
	if err := inertia.Validate(tensor); err != nil {
		return err
	}
	rb.InertiaTensor = tensor
	rb.updateInertia()

	return nil
}

// SetInertiaTensorRotation overrides the rotation of the principal axes
func (rb *RigidBody) SetInertiaTensorRotation(rotation mgl64.Quat) {
	rb.InertiaTensorRotation = normalizedRotation(rotation)
	rb.updateInertia()
}

func (rb *RigidBody) updateInertia() {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	// I_local = R * diag(I) * R^T
	R := rb.InertiaTensorRotation.Mat4().Mat3()
	rb.InertiaLocal = R.Mul3(mgl64.Diag3(rb.InertiaTensor)).Mul3(R.Transpose())
	rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
}

// Tensor returns the inertia of the body as an inertia.Tensor
func (rb *RigidBody) Tensor() inertia.Tensor {
	return inertia.Tensor{
		Diagonal: rb.InertiaTensor,
		Rotation: rb.InertiaTensorRotation,
	}
}

// Reset puts the body back at the origin, at rest, with the given orientation
func (rb *RigidBody) Reset(orientation mgl64.Quat) {
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}

	rb.Transform.Position = mgl64.Vec3{}
	rb.Transform.SetRotation(normalizedRotation(orientation))
	rb.PreviousTransform = rb.Transform

	rb.Awake()
}

func (rb *RigidBody) TrySleep(dt float64, timethreshold float64, velocityThreshold float64) {
	if rb.Velocity.Len() < velocityThreshold && rb.AngularVelocity.Len() < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timethreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.ClearForces()
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// Integrate advances the body by dt with semi-implicit Euler.
// Accumulated forces and torques are applied over the whole dt and are not
// cleared, the world clears them once the full step is done.
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	rb.PreviousTransform = rb.Transform

	// ========== LINEAR ==========
	acceleration := gravity.Add(rb.accumulatedForce.Mul(1.0 / rb.Material.GetMass()))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))
	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	// ========== ANGULAR ==========
	angularAccel := rb.GetInverseInertiaWorld().Mul3x1(rb.accumulatedTorque)
	rb.AngularVelocity = rb.AngularVelocity.Add(angularAccel.Mul(dt))
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.Material.AngularDamping * dt))

	// ========== QUATERNION ==========
	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
	rb.Transform.SetRotation(rb.Transform.Rotation.Add(qDot.Scale(dt)))
}

// AddForce adds a world space force (N), applied at the center of mass
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()

		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// AddTorque adds a world space torque (N⋅m)
func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()

		rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
	}
}

// AddRelativeTorque adds a torque given in the body local frame (N⋅m)
func (rb *RigidBody) AddRelativeTorque(torque mgl64.Vec3) {
	rb.AddTorque(rb.Transform.LocalToWorld(torque))
}

// AccumulatedForce returns the force applied since the last step
func (rb *RigidBody) AccumulatedForce() mgl64.Vec3 {
	return rb.accumulatedForce
}

// AccumulatedTorque returns the torque applied since the last step
func (rb *RigidBody) AccumulatedTorque() mgl64.Vec3 {
	return rb.accumulatedTorque
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

// LocalAngularVelocity returns the angular velocity in the body local frame
func (rb *RigidBody) LocalAngularVelocity() mgl64.Vec3 {
	return rb.Transform.WorldToLocal(rb.AngularVelocity)
}

// RotationDelta returns the world space rotation applied by the last integration
func (rb *RigidBody) RotationDelta() mgl64.Quat {
	return rb.Transform.Rotation.Mul(rb.PreviousTransform.InverseRotation)
}

func (rb *RigidBody) GetInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Diag3(rb.InertiaTensor)
	}

	// I_world = B * I_local * B^T
	B := rb.Transform.Rotation.Mat4().Mat3()
	return B.Mul3(rb.InertiaLocal).Mul3(B.Transpose())
}

// GetInverseInertiaWorld is zero for static bodies
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{0, 0, 0, 0, 0, 0, 0, 0, 0}
	}

	// I_world^-1 = B * I_local^-1 * B^T
	B := rb.Transform.Rotation.Mat4().Mat3()
	return B.Mul3(rb.InverseInertiaLocal).Mul3(B.Transpose())
}
