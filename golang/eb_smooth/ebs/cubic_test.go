package ebs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealRootsThreeKnownRoots(t *testing.T) {
	// (x-1)(x-2)(x-3) = x^3 - 6x^2 + 11x - 6
	roots := realRoots([]float64{-6, 11, -6, 1})
	require.Len(t, roots, 3)
	assert.InDelta(t, 1.0, roots[0], 1e-8)
	assert.InDelta(t, 2.0, roots[1], 1e-8)
	assert.InDelta(t, 3.0, roots[2], 1e-8)
	assert.InDelta(t, 2.0, medianRoot(roots), 1e-8)
}

func TestRealRootsSingleRealRoot(t *testing.T) {
	// x^3 - 1 has one real root at 1 and a complex conjugate pair
	roots := realRoots([]float64{-1, 0, 0, 1})
	require.Len(t, roots, 1)
	assert.InDelta(t, 1.0, roots[0], 1e-8)
	assert.InDelta(t, 1.0, medianRoot(roots), 1e-8)
}

func TestRealRootsDegenerateLeadingCoefficient(t *testing.T) {
	// vanishing cubic term: 0*x^3 + x^2 - 4 = 0
	roots := realRoots([]float64{-4, 0, 1, 0})
	require.Len(t, roots, 2)
	assert.InDelta(t, -2.0, roots[0], 1e-8)
	assert.InDelta(t, 2.0, roots[1], 1e-8)
	assert.InDelta(t, 0.0, medianRoot(roots), 1e-8)
}

func TestRealRootsLinearFallback(t *testing.T) {
	// 2x - 3 = 0
	roots := realRoots([]float64{-3, 2, 0, 0})
	require.Len(t, roots, 1)
	assert.InDelta(t, 1.5, roots[0], 1e-12)
}

func TestRealRootsAllZero(t *testing.T) {
	assert.Empty(t, realRoots([]float64{0, 0, 0, 0}))
}
