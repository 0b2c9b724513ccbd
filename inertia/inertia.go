// Package inertia predicts how a rigid body's angular velocity changes when a
// torque is applied for one timestep.
//
// The moment of inertia is stored the way physics engines usually store it:
// a diagonal of principal moments plus a rotation aligning the principal axes
// with the body local frame.
package inertia

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidTensor is returned when a principal moment is not a finite positive number.
var ErrInvalidTensor = errors.New("invalid inertia tensor")

// Tensor is a moment of inertia expressed in the body local frame.
type Tensor struct {
	Diagonal mgl64.Vec3 // principal moments (kg⋅m²)
	Rotation mgl64.Quat // principal axes -> body local frame
}

// NewTensor creates a tensor with the given principal moments and no rotation.
func NewTensor(diagonal mgl64.Vec3) Tensor {
	return Tensor{
		Diagonal: diagonal,
		Rotation: mgl64.QuatIdent(),
	}
}

// Validate checks that every principal moment is finite and strictly positive.
func Validate(diagonal mgl64.Vec3) error {
	for i, moment := range diagonal {
		if math.IsNaN(moment) || math.IsInf(moment, 0) || moment <= 0 {
			return fmt.Errorf("%w: moment %d is %v", ErrInvalidTensor, i, moment)
		}
	}

	return nil
}

// Validate checks the principal moments of the tensor.
func (t Tensor) Validate() error {
	return Validate(t.Diagonal)
}

// IsIsotropic reports whether all principal moments are equal.
func (t Tensor) IsIsotropic() bool {
	return t.Diagonal.X() == t.Diagonal.Y() && t.Diagonal.Y() == t.Diagonal.Z()
}

// Matrix builds the local inertia matrix R * diag(diagonal) * R^T.
// R is orthogonal, so R^T is its inverse.
func Matrix(diagonal mgl64.Vec3, rotation mgl64.Quat) mgl64.Mat3 {
	R := rotation.Mat4().Mat3()

	return R.Mul3(mgl64.Diag3(diagonal)).Mul3(R.Transpose())
}

// InverseMatrix builds the inverse of Matrix(diagonal, rotation).
// Inverting the diagonal is enough since the rotation part is orthogonal.
func InverseMatrix(diagonal mgl64.Vec3, rotation mgl64.Quat) mgl64.Mat3 {
	inverse := mgl64.Vec3{1 / diagonal.X(), 1 / diagonal.Y(), 1 / diagonal.Z()}

	return Matrix(inverse, rotation)
}

// Matrix returns the local inertia matrix of the tensor.
func (t Tensor) Matrix() mgl64.Mat3 {
	return Matrix(t.Diagonal, t.Rotation)
}

// InverseMatrix returns the inverse local inertia matrix of the tensor.
func (t Tensor) InverseMatrix() mgl64.Mat3 {
	return InverseMatrix(t.Diagonal, t.Rotation)
}

// World returns the inertia matrix in world space for a body with the given orientation.
func (t Tensor) World(orientation mgl64.Quat) mgl64.Mat3 {
	// I_world = B * I_local * B^T
	B := orientation.Mat4().Mat3()

	return B.Mul3(t.Matrix()).Mul3(B.Transpose())
}

// WorldInverse returns the inverse inertia matrix in world space for a body with the given orientation.
func (t Tensor) WorldInverse(orientation mgl64.Quat) mgl64.Mat3 {
	// I_world^-1 = B * I_local^-1 * B^T
	B := orientation.Mat4().Mat3()

	return B.Mul3(t.InverseMatrix()).Mul3(B.Transpose())
}

// AngularVelocityChange returns the angular velocity change produced by
// applying a world space torque for one timestep.
// The change is expressed in world space, the frame rigid bodies report their
// angular velocity in, so it does not depend on the orientation when all
// principal moments are equal.
func (t Tensor) AngularVelocityChange(orientation mgl64.Quat, torque mgl64.Vec3, timestep float64) mgl64.Vec3 {
	angularAcceleration := t.WorldInverse(orientation).Mul3x1(torque)

	return angularAcceleration.Mul(timestep)
}

// AngularVelocityChangeLocal returns the angular velocity change in the body local frame.
func (t Tensor) AngularVelocityChangeLocal(orientation mgl64.Quat, torque mgl64.Vec3, timestep float64) mgl64.Vec3 {
	deltaWorld := t.AngularVelocityChange(orientation, torque, timestep)

	// B^T * Δω_world
	B := orientation.Mat4().Mat3()
	return B.Transpose().Mul3x1(deltaWorld)
}

// AngularVelocityChange predicts the world space angular velocity change of a
// body after one timestep under a world space torque.
func AngularVelocityChange(diagonal mgl64.Vec3, rotation, orientation mgl64.Quat, torque mgl64.Vec3, timestep float64) mgl64.Vec3 {
	return Tensor{Diagonal: diagonal, Rotation: rotation}.AngularVelocityChange(orientation, torque, timestep)
}

// AngularVelocityChangeLocal predicts the same change expressed in the body local frame.
func AngularVelocityChangeLocal(diagonal mgl64.Vec3, rotation, orientation mgl64.Quat, torque mgl64.Vec3, timestep float64) mgl64.Vec3 {
	return Tensor{Diagonal: diagonal, Rotation: rotation}.AngularVelocityChangeLocal(orientation, torque, timestep)
}
