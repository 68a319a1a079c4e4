package ebs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

//TestUpdateRecoversDecayFromAR1Moments feeds the updater the exact second
//moments of a unit-variance process with correlation decay 0.5. For nx=4
//the cubic factors as (r - 1/2)(-2r^2 + 4), so all three roots are real
//and the median picks 1/2 over the spurious extremes at +-sqrt(2); the
//precision estimate then comes out at exactly 1.
func TestUpdateRecoversDecayFromAR1Moments(t *testing.T) {
	nx := 4
	rho0 := 0.5
	L := mat.NewDense(nx, nx, nil)
	for p := 0; p < nx; p++ {
		for q := 0; q < nx; q++ {
			L.Set(p, q, math.Pow(rho0, math.Abs(float64(p-q))))
		}
	}
	mu := mat.NewVecDense(nx, nil)
	sm, err := NewStructuralMatrices(nx, []int{1})
	require.NoError(t, err)

	alpha, rho, err := updateDecayAndPrecision(mu, L, sm, 1-1e-4)
	require.NoError(t, err)
	assert.InDelta(t, rho0, rho, 1e-10)
	assert.InDelta(t, 1.0, alpha, 1e-10)
}

func TestUpdateClampsDecayAtMaxRho(t *testing.T) {
	// near-perfectly correlated moments push the root beyond maxrho
	nx := 4
	rho0 := 0.999999
	L := mat.NewDense(nx, nx, nil)
	for p := 0; p < nx; p++ {
		for q := 0; q < nx; q++ {
			L.Set(p, q, math.Pow(rho0, math.Abs(float64(p-q))))
		}
	}
	mu := mat.NewVecDense(nx, nil)
	sm, err := NewStructuralMatrices(nx, []int{1})
	require.NoError(t, err)

	maxrho := 0.9
	_, rho, err := updateDecayAndPrecision(mu, L, sm, maxrho)
	require.NoError(t, err)
	assert.Equal(t, maxrho, rho)
}

func TestUpdateDegeneratePosterior(t *testing.T) {
	nx := 4
	mu := mat.NewVecDense(nx, nil)
	L := mat.NewDense(nx, nx, nil)
	sm, err := NewStructuralMatrices(nx, []int{1})
	require.NoError(t, err)

	_, _, err = updateDecayAndPrecision(mu, L, sm, 1-1e-4)
	require.Error(t, err)
	var numErr *NumericalError
	assert.ErrorAs(t, err, &numErr)
}

func TestClampBounds(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-0.3, 0, 0.9))
	assert.Equal(t, 0.9, clamp(1.2, 0, 0.9))
	assert.Equal(t, 0.4, clamp(0.4, 0, 0.9))
}
