package ebs

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//updateDecayAndPrecision re-estimates the correlation decay rho and the
//prior precision alpha from the current posterior moments. The moments are
//the total second moment A, its restriction B to block-interior positions
//and the neighbor-pair cross term C; the admissible rho is the median real
//root of the cubic
//
//	-B*r^3 + (2-aa)*C*r^2 + ((aa-1)*A + aa*B)*r - aa*C = 0
//
//with aa = nx/(nx-1), clamped to [0, maxrho]. Alpha then follows in closed
//form. A cubic without real roots or a non-positive alpha denominator
//signals a degenerate posterior and is returned as a NumericalError.
func updateDecayAndPrecision(mu *mat.VecDense, L *mat.Dense, sm StructuralMatrices, maxrho float64) (alpha, rho float64, err error) {
	nx := mu.Len()
	aa := float64(nx) / float64(nx-1)

	A := mat.Dot(mu, mu) + mat.Trace(L)
	B := quadForm(mu, sm.Mdiag) + maskedSum(sm.Mdiag, L)
	C := 0.5 * (quadForm(mu, sm.Moffdiag) + maskedSum(sm.Moffdiag, L))

	roots := realRoots([]float64{-aa * C, (aa-1)*A + aa*B, (2 - aa) * C, -B})
	if len(roots) == 0 {
		return 0, 0, &NumericalError{Msg: "no real root for the correlation decay cubic"}
	}
	rho = clamp(medianRoot(roots), 0, maxrho)

	denom := A + rho*rho*B - 2*rho*C
	if denom <= 0 {
		return 0, 0, &NumericalError{Msg: fmt.Sprintf("non-positive precision denominator %g", denom)}
	}
	alpha = float64(nx) * (1 - rho*rho) / denom
	return alpha, rho, nil
}
