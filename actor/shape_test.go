package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// ========== MASS TESTS ==========
func TestBoxComputeMass(t *testing.T) {
	tests := []struct {
		name     string
		box      *Box
		density  float64
		expected float64
	}{
		{"unit cube", &Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, 1.0, 1.0},
		{"2x2x2 cube", &Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, 2.0, 16.0},
		{"rectangular", &Box{HalfExtents: mgl64.Vec3{1, 2, 3}}, 0.5, 24.0},
		{"zero density", &Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mass := tt.box.ComputeMass(tt.density)
			if !floatEqual(mass, tt.expected, 1e-10) {
				t.Errorf("ComputeMass() = %v, want %v", mass, tt.expected)
			}
		})
	}
}

func TestSphereComputeMass(t *testing.T) {
	sphere := &Sphere{Radius: 2}

	mass := sphere.ComputeMass(3)

	expected := 3 * (4.0 / 3.0) * math.Pi * 8
	if !floatEqual(mass, expected, 1e-10) {
		t.Errorf("ComputeMass() = %v, want %v", mass, expected)
	}
}

// ========== INERTIA TESTS ==========
func TestBoxComputeInertia(t *testing.T) {
	tests := []struct {
		name         string
		box          *Box
		mass         float64
		expectedDiag mgl64.Vec3
	}{
		{
			name:         "unit cube",
			box:          &Box{HalfExtents: mgl64.Vec3{1, 1, 1}},
			mass:         12.0,                // m/12 = 1.0
			expectedDiag: mgl64.Vec3{8, 8, 8}, // (2*2 + 2*2, 2*2 + 2*2, 2*2 + 2*2)
		},
		{
			name:         "rectangular box 2x3x4",
			box:          &Box{HalfExtents: mgl64.Vec3{2, 3, 4}},
			mass:         12.0,
			expectedDiag: mgl64.Vec3{100, 80, 52}, // (m/12)*(6²+8²), (m/12)*(4²+8²), (m/12)*(4²+6²)
		},
		{
			name:         "thin box",
			box:          &Box{HalfExtents: mgl64.Vec3{0.1, 5, 0.1}},
			mass:         60.0,
			expectedDiag: mgl64.Vec3{500.2, 0.4, 500.2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inertia := tt.box.ComputeInertia(tt.mass)
			if !vec3Equal(inertia, tt.expectedDiag, 1e-9) {
				t.Errorf("ComputeInertia() = %v, want %v", inertia, tt.expectedDiag)
			}
		})
	}
}

func TestSphereComputeInertia(t *testing.T) {
	sphere := &Sphere{Radius: 2}

	inertia := sphere.ComputeInertia(5)

	// (2/5) * 5 * 4
	expected := mgl64.Vec3{8, 8, 8}
	if !vec3Equal(inertia, expected, 1e-10) {
		t.Errorf("ComputeInertia() = %v, want %v", inertia, expected)
	}
}

func TestShapeType(t *testing.T) {
	if (&Box{}).Type() != ShapeTypeBox {
		t.Error("Box.Type() should be ShapeTypeBox")
	}
	if (&Sphere{}).Type() != ShapeTypeSphere {
		t.Error("Sphere.Type() should be ShapeTypeSphere")
	}
}

// Helper functions
func vec3Equal(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance &&
		math.Abs(a.Z()-b.Z()) < tolerance
}

func floatEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}
