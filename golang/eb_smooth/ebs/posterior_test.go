package ebs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPosteriorMeanMatchesLeastSquaresWithoutPrior(t *testing.T) {
	ss := SuffStats{
		Xx: mat.NewDense(2, 2, []float64{2, 0, 0, 3}),
		Xy: mat.NewVecDense(2, []float64{1, 1}),
		Yy: 5,
		Ny: 10,
	}
	cinv := mat.NewDense(2, 2, nil)

	mu, err := posteriorMean(ss, 1.0, cinv)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mu.AtVec(0), 1e-12)
	assert.InDelta(t, 1.0/3.0, mu.AtVec(1), 1e-12)
}

func TestPosteriorCovarianceSymmetry(t *testing.T) {
	// xx = A'A + I is well conditioned and dense
	A := mat.NewDense(3, 3, []float64{1, 2, 0, -1, 1, 3, 2, 0.5, 1})
	var xx mat.Dense
	xx.Mul(A.T(), A)
	for p := 0; p < 3; p++ {
		xx.Set(p, p, xx.At(p, p)+1)
	}
	ss := SuffStats{Xx: &xx, Xy: mat.NewVecDense(3, []float64{1, 2, 3}), Yy: 14, Ny: 50}

	sm, err := NewStructuralMatrices(3, []int{1})
	require.NoError(t, err)
	cinv := sm.PriorPrecision(1.5, 0.3)

	L, err := posteriorCov(ss, 0.7, cinv)
	require.NoError(t, err)

	maxAbs, maxAsym := 0.0, 0.0
	for p := 0; p < 3; p++ {
		for q := 0; q < 3; q++ {
			if a := math.Abs(L.At(p, q)); a > maxAbs {
				maxAbs = a
			}
			if d := math.Abs(L.At(p, q) - L.At(q, p)); d > maxAsym {
				maxAsym = d
			}
		}
	}
	assert.Less(t, maxAsym, 1e-8*maxAbs)
}

func TestPosteriorSolveSingular(t *testing.T) {
	ss := SuffStats{
		Xx: mat.NewDense(2, 2, nil),
		Xy: mat.NewVecDense(2, []float64{1, 1}),
		Yy: 1,
		Ny: 3,
	}
	cinv := mat.NewDense(2, 2, nil)

	_, err := posteriorMean(ss, 1.0, cinv)
	assert.Error(t, err)

	_, err = posteriorCov(ss, 1.0, cinv)
	assert.Error(t, err)
}

func TestResidualError(t *testing.T) {
	ss := SuffStats{
		Xx: mat.NewDense(2, 2, []float64{4, 1, 1, 2}),
		Xy: mat.NewVecDense(2, []float64{2, 1}),
		Yy: 10,
		Ny: 20,
	}
	mu := mat.NewVecDense(2, []float64{1, -1})
	// 10 - 2*(2-1) + (4 - 1 - 1 + 2) = 10 - 2 + 4
	assert.InDelta(t, 12.0, residualError(ss, mu), 1e-12)
}
