package inertia

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// Matrix Tests
// =============================================================================

func TestMatrix_IdentityRotationIsDiagonal(t *testing.T) {
	diagonal := mgl64.Vec3{1, 2, 3}

	m := Matrix(diagonal, mgl64.QuatIdent())

	want := mgl64.Diag3(diagonal)
	if !mat3AlmostEqual(m, want, 1e-12) {
		t.Errorf("Matrix() = %v, want %v", m, want)
	}
}

func TestMatrix_Symmetric(t *testing.T) {
	rotations := []mgl64.Quat{
		mgl64.QuatIdent(),
		mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}),
		mgl64.QuatRotate(0.3, mgl64.Vec3{1, 2, 3}.Normalize()),
		mgl64.QuatRotate(-1.7, mgl64.Vec3{0, 1, 1}.Normalize()),
	}

	for _, rotation := range rotations {
		m := Matrix(mgl64.Vec3{1, 4, 9}, rotation)
		if !mat3AlmostEqual(m, m.Transpose(), 1e-12) {
			t.Errorf("Matrix() with rotation %v is not symmetric: %v", rotation, m)
		}
	}
}

func TestMatrix_QuarterTurnSwapsAxes(t *testing.T) {
	// 90° around X exchanges the Y and Z principal moments
	rotation := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})

	m := Matrix(mgl64.Vec3{1, 2, 3}, rotation)

	want := mgl64.Diag3(mgl64.Vec3{1, 3, 2})
	if !mat3AlmostEqual(m, want, 1e-12) {
		t.Errorf("Matrix() = %v, want %v", m, want)
	}
}

func TestMatrix_PreservesTrace(t *testing.T) {
	diagonal := mgl64.Vec3{2, 5, 7}
	rotation := mgl64.QuatRotate(1.1, mgl64.Vec3{3, -1, 2}.Normalize())

	m := Matrix(diagonal, rotation)

	trace := m.At(0, 0) + m.At(1, 1) + m.At(2, 2)
	if !almostEqual(trace, 14, 1e-12) {
		t.Errorf("trace = %v, want 14", trace)
	}
}

func TestInverseMatrix_IsInverse(t *testing.T) {
	tests := []struct {
		name     string
		diagonal mgl64.Vec3
		rotation mgl64.Quat
	}{
		{"uniform", mgl64.Vec3{2, 2, 2}, mgl64.QuatIdent()},
		{"non uniform", mgl64.Vec3{1, 2, 3}, mgl64.QuatIdent()},
		{"rotated", mgl64.Vec3{0.5, 2, 8}, mgl64.QuatRotate(0.7, mgl64.Vec3{1, 1, 0}.Normalize())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := Matrix(tt.diagonal, tt.rotation).Mul3(InverseMatrix(tt.diagonal, tt.rotation))
			if !mat3AlmostEqual(product, mgl64.Ident3(), 1e-12) {
				t.Errorf("I * I^-1 = %v, want identity", product)
			}

			general := Matrix(tt.diagonal, tt.rotation).Inv()
			if !mat3AlmostEqual(general, InverseMatrix(tt.diagonal, tt.rotation), 1e-12) {
				t.Errorf("InverseMatrix() = %v, want %v", InverseMatrix(tt.diagonal, tt.rotation), general)
			}
		})
	}
}

// =============================================================================
// World space Tests
// =============================================================================

func TestWorldInverse_IsotropicIsOrientationInvariant(t *testing.T) {
	tensor := NewTensor(mgl64.Vec3{2, 2, 2})
	want := mgl64.Diag3(mgl64.Vec3{0.5, 0.5, 0.5})

	for _, orientation := range sampleOrientations() {
		got := tensor.WorldInverse(orientation)
		if !mat3AlmostEqual(got, want, 1e-12) {
			t.Errorf("WorldInverse(%v) = %v, want %v", orientation, got, want)
		}
	}
}

func TestWorld_MatchesInverse(t *testing.T) {
	tensor := Tensor{
		Diagonal: mgl64.Vec3{1, 3, 6},
		Rotation: mgl64.QuatRotate(0.4, mgl64.Vec3{0, 0, 1}),
	}
	orientation := mgl64.QuatRotate(2.1, mgl64.Vec3{1, -2, 0.5}.Normalize())

	product := tensor.World(orientation).Mul3(tensor.WorldInverse(orientation))
	if !mat3AlmostEqual(product, mgl64.Ident3(), 1e-12) {
		t.Errorf("I_world * I_world^-1 = %v, want identity", product)
	}
}

// =============================================================================
// AngularVelocityChange Tests
// =============================================================================

func TestAngularVelocityChange_IdentityOrientation(t *testing.T) {
	tests := []struct {
		name   string
		torque mgl64.Vec3
		want   mgl64.Vec3
	}{
		{"torque x", mgl64.Vec3{3, 0, 0}, mgl64.Vec3{0.03, 0, 0}},
		{"torque y", mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0, 0.03, 0}},
		{"torque z", mgl64.Vec3{0, 0, 3}, mgl64.Vec3{0, 0, 0.03}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularVelocityChange(mgl64.Vec3{2, 2, 2}, mgl64.QuatIdent(), mgl64.QuatIdent(), tt.torque, 0.02)
			if !vec3AlmostEqual(got, tt.want, 1e-12) {
				t.Errorf("AngularVelocityChange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAngularVelocityChange_NonUniformTensor(t *testing.T) {
	// each axis divides by its own moment
	got := AngularVelocityChange(mgl64.Vec3{1, 2, 4}, mgl64.QuatIdent(), mgl64.QuatIdent(), mgl64.Vec3{4, 4, 4}, 0.5)

	want := mgl64.Vec3{2, 1, 0.5}
	if !vec3AlmostEqual(got, want, 1e-12) {
		t.Errorf("AngularVelocityChange() = %v, want %v", got, want)
	}
}

func TestAngularVelocityChange_RotatedBodyUsesLocalMoments(t *testing.T) {
	// body turned 90° around Z: world X is the local Y axis, which resists with the Y moment
	orientation := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})

	got := AngularVelocityChange(mgl64.Vec3{1, 2, 4}, mgl64.QuatIdent(), orientation, mgl64.Vec3{2, 0, 0}, 1)

	want := mgl64.Vec3{1, 0, 0}
	if !vec3AlmostEqual(got, want, 1e-12) {
		t.Errorf("AngularVelocityChange() = %v, want %v", got, want)
	}

	// same change seen from the body: around local -Y
	local := AngularVelocityChangeLocal(mgl64.Vec3{1, 2, 4}, mgl64.QuatIdent(), orientation, mgl64.Vec3{2, 0, 0}, 1)
	if wantLocal := (mgl64.Vec3{0, -1, 0}); !vec3AlmostEqual(local, wantLocal, 1e-12) {
		t.Errorf("AngularVelocityChangeLocal() = %v, want %v", local, wantLocal)
	}
}

func TestAngularVelocityChange_RotatedTensor(t *testing.T) {
	// tensor turned 90° around X: local Y axis resists with the Z moment
	rotation := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})

	got := AngularVelocityChange(mgl64.Vec3{1, 2, 4}, rotation, mgl64.QuatIdent(), mgl64.Vec3{0, 4, 0}, 1)

	want := mgl64.Vec3{0, 1, 0}
	if !vec3AlmostEqual(got, want, 1e-12) {
		t.Errorf("AngularVelocityChange() = %v, want %v", got, want)
	}
}

func TestAngularVelocityChange_IsotropicIsOrientationInvariant(t *testing.T) {
	torques := []mgl64.Vec3{{3, 0, 0}, {0, 3, 0}, {0, 0, 3}, {1, -2, 3}}

	for _, torque := range torques {
		want := torque.Mul(0.02 / 2)

		for _, orientation := range sampleOrientations() {
			got := AngularVelocityChange(mgl64.Vec3{2, 2, 2}, mgl64.QuatIdent(), orientation, torque, 0.02)
			if !vec3AlmostEqual(got, want, 1e-12) {
				t.Errorf("AngularVelocityChange(%v, torque %v) = %v, want %v", orientation, torque, got, want)
			}
		}
	}
}

func TestAngularVelocityChange_IsotropicIgnoresTensorRotation(t *testing.T) {
	torque := mgl64.Vec3{0, 3, 0}
	want := mgl64.Vec3{0, 0.03, 0}

	for _, rotation := range sampleOrientations() {
		got := AngularVelocityChange(mgl64.Vec3{2, 2, 2}, rotation, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}), torque, 0.02)
		if !vec3AlmostEqual(got, want, 1e-12) {
			t.Errorf("AngularVelocityChange(rotation %v) = %v, want %v", rotation, got, want)
		}
	}
}

func TestAngularVelocityChange_LocalIsWorldInBodyFrame(t *testing.T) {
	tensor := Tensor{
		Diagonal: mgl64.Vec3{1, 2, 3},
		Rotation: mgl64.QuatRotate(0.9, mgl64.Vec3{0, 1, 0}),
	}
	torque := mgl64.Vec3{0.3, 1, -2}

	for _, orientation := range sampleOrientations() {
		local := tensor.AngularVelocityChangeLocal(orientation, torque, 0.02)
		world := tensor.AngularVelocityChange(orientation, torque, 0.02)

		if !vec3AlmostEqual(orientation.Rotate(local), world, 1e-12) {
			t.Errorf("orientation %v: rotated local %v != world %v", orientation, orientation.Rotate(local), world)
		}
	}
}

func TestAngularVelocityChange_LinearInTorqueAndTime(t *testing.T) {
	tensor := Tensor{Diagonal: mgl64.Vec3{1, 5, 2}, Rotation: mgl64.QuatRotate(0.2, mgl64.Vec3{1, 0, 0})}
	orientation := mgl64.QuatRotate(1.3, mgl64.Vec3{0, 1, 1}.Normalize())
	torque := mgl64.Vec3{1, 2, 3}

	base := tensor.AngularVelocityChange(orientation, torque, 0.01)

	if got := tensor.AngularVelocityChange(orientation, torque.Mul(2), 0.01); !vec3AlmostEqual(got, base.Mul(2), 1e-12) {
		t.Errorf("doubling torque: got %v, want %v", got, base.Mul(2))
	}
	if got := tensor.AngularVelocityChange(orientation, torque, 0.03); !vec3AlmostEqual(got, base.Mul(3), 1e-12) {
		t.Errorf("tripling timestep: got %v, want %v", got, base.Mul(3))
	}
	if got := tensor.AngularVelocityChange(orientation, mgl64.Vec3{}, 0.01); !vec3AlmostEqual(got, mgl64.Vec3{}, 1e-15) {
		t.Errorf("zero torque: got %v, want zero", got)
	}
}

// =============================================================================
// Validate Tests
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		diagonal mgl64.Vec3
		wantErr  bool
	}{
		{"positive", mgl64.Vec3{1, 2, 3}, false},
		{"tiny", mgl64.Vec3{1e-9, 1e-9, 1e-9}, false},
		{"zero", mgl64.Vec3{1, 0, 1}, true},
		{"negative", mgl64.Vec3{-1, 1, 1}, true},
		{"nan", mgl64.Vec3{1, 1, math.NaN()}, true},
		{"inf", mgl64.Vec3{math.Inf(1), 1, 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTensor(tt.diagonal).Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTensor) {
				t.Errorf("Validate() error = %v, want ErrInvalidTensor", err)
			}
		})
	}
}

func TestTensor_IsIsotropic(t *testing.T) {
	if !NewTensor(mgl64.Vec3{2, 2, 2}).IsIsotropic() {
		t.Error("(2, 2, 2) should be isotropic")
	}
	if NewTensor(mgl64.Vec3{2, 2, 3}).IsIsotropic() {
		t.Error("(2, 2, 3) should not be isotropic")
	}
}

// Helper function to compare floats with epsilon tolerance
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// Helper function to compare Vec3 with epsilon tolerance
func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return almostEqual(a.X(), b.X(), epsilon) &&
		almostEqual(a.Y(), b.Y(), epsilon) &&
		almostEqual(a.Z(), b.Z(), epsilon)
}

// Helper function to compare Mat3 with epsilon tolerance
func mat3AlmostEqual(a, b mgl64.Mat3, epsilon float64) bool {
	for i := range a {
		if !almostEqual(a[i], b[i], epsilon) {
			return false
		}
	}
	return true
}

func sampleOrientations() []mgl64.Quat {
	return []mgl64.Quat{
		mgl64.QuatIdent(),
		mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}),
		mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}),
		mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
		mgl64.QuatRotate(2.3, mgl64.Vec3{1, 2, 3}.Normalize()),
		mgl64.QuatRotate(-0.4, mgl64.Vec3{-1, 0.5, 2}.Normalize()),
	}
}
