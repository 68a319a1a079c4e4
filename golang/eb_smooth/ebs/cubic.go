package ebs

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

//realRoots returns the real roots of the polynomial
//c[0] + c[1]*x + ... + c[len(c)-1]*x^(len(c)-1) in increasing order.
//Roots are the eigenvalues of the companion matrix; an eigenvalue counts as
//real when its imaginary part is negligible against its magnitude. Leading
//coefficients that vanish numerically are stripped first, so a degenerate
//cubic falls back to the quadratic or linear case.
func realRoots(c []float64) []float64 {
	maxAbs := 0.0
	for _, v := range c {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	deg := len(c) - 1
	for deg > 0 && math.Abs(c[deg]) <= 1e-14*maxAbs {
		deg--
	}
	if deg < 1 {
		return nil
	}
	if deg == 1 {
		return []float64{-c[0] / c[1]}
	}

	companion := mat.NewDense(deg, deg, nil)
	for p := 1; p < deg; p++ {
		companion.Set(p, p-1, 1)
	}
	for p := 0; p < deg; p++ {
		companion.Set(p, deg-1, -c[p]/c[deg])
	}

	var eig mat.Eigen
	if !eig.Factorize(companion, mat.EigenNone) {
		return nil
	}

	roots := make([]float64, 0, deg)
	for _, v := range eig.Values(nil) {
		if math.Abs(imag(v)) <= 1e-8*(1+math.Abs(real(v))) {
			roots = append(roots, real(v))
		}
	}
	sort.Float64s(roots)
	return roots
}

//medianRoot picks the median of a sorted root list; for an even count,
//which only occurs for degenerate double roots, the two middle roots are
//averaged.
func medianRoot(roots []float64) float64 {
	n := len(roots)
	if n%2 == 1 {
		return roots[n/2]
	}
	return (roots[n/2-1] + roots[n/2]) / 2
}
