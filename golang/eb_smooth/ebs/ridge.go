package ebs

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	ridgeMaxIter  = 1000
	ridgeTol      = 1e-6
	ridgeMaxAlpha = 1e8
)

//ridgeWarmStart runs the scalar ridge evidence fixed point and returns the
//prior precision and noise variance it settles on. Each round solves the
//ridge posterior under the current hyperparameters, measures the effective
//dimensionality gamma = nx - alpha*trace(L) and re-estimates
//alpha = gamma/(mu'mu). dofCorrection selects the residual denominator:
//ny - gamma when set, plain ny otherwise.
func ridgeWarmStart(ss SuffStats, dofCorrection bool) (alpha, nsevar float64, err error) {
	nx := ss.Nx()
	alpha = 1
	nsevar = ss.Yy / float64(ss.Ny)

	for iter := 1; iter <= ridgeMaxIter; iter++ {
		cinv := mat.NewDense(nx, nx, nil)
		for p := 0; p < nx; p++ {
			cinv.Set(p, p, alpha)
		}

		mu, solveErr := posteriorMean(ss, nsevar, cinv)
		if solveErr != nil {
			return 0, 0, numErrorAt(iter, Hyperparameters{Alpha: alpha, Nsevar: nsevar},
				"ridge posterior solve: "+solveErr.Error())
		}
		L, covErr := posteriorCov(ss, nsevar, cinv)
		if covErr != nil {
			return 0, 0, numErrorAt(iter, Hyperparameters{Alpha: alpha, Nsevar: nsevar},
				"ridge posterior covariance: "+covErr.Error())
		}

		gamma := float64(nx) - alpha*mat.Trace(L)
		alpha2 := gamma / mat.Dot(mu, mu)
		if alpha2 > ridgeMaxAlpha || math.IsNaN(alpha2) {
			alpha2 = ridgeMaxAlpha
		}

		dof := float64(ss.Ny)
		if dofCorrection {
			dof = float64(ss.Ny) - gamma
		}
		nsevar2 := residualError(ss, mu) / dof

		dparams := math.Hypot(alpha2-alpha, nsevar2-nsevar)
		alpha, nsevar = alpha2, nsevar2
		if dparams <= ridgeTol {
			break
		}
	}
	return alpha, nsevar, nil
}
