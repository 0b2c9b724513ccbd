package inertia

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

var errFactorize = errors.New("eigen decomposition did not converge")

// Diagonalize splits a symmetric local inertia matrix into principal moments
// and the rotation of the principal axes, so that
// Matrix(t.Diagonal, t.Rotation) reproduces m.
// Moments are returned in ascending order.
func Diagonalize(m mgl64.Mat3) (Tensor, error) {
	sym := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			// average the two halves, m is expected to be symmetric already
			sym.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return Tensor{}, fmt.Errorf("diagonalize: %w", errFactorize)
	}

	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	axes := [3]mgl64.Vec3{}
	for c := 0; c < 3; c++ {
		axes[c] = mgl64.Vec3{vectors.At(0, c), vectors.At(1, c), vectors.At(2, c)}.Normalize()
	}
	// keep a proper rotation (det = +1)
	if axes[0].Cross(axes[1]).Dot(axes[2]) < 0 {
		axes[2] = axes[2].Mul(-1)
	}

	R := mgl64.Mat3FromCols(axes[0], axes[1], axes[2])
	tensor := Tensor{
		Diagonal: mgl64.Vec3{values[0], values[1], values[2]},
		Rotation: mgl64.Mat4ToQuat(R.Mat4()).Normalize(),
	}

	if err := tensor.Validate(); err != nil {
		return tensor, fmt.Errorf("diagonalize: %w", err)
	}

	return tensor, nil
}
