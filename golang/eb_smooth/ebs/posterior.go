package ebs

import "gonum.org/v1/gonum/mat"

//posteriorMean returns the mode of the Gaussian posterior over the filter,
//solve(xx + nsevar*cinv, xy). For cinv = 0 this degenerates to the
//ordinary least squares solution.
func posteriorMean(ss SuffStats, nsevar float64, cinv *mat.Dense) (*mat.VecDense, error) {
	var lhs mat.Dense
	lhs.Scale(nsevar, cinv)
	lhs.Add(&lhs, ss.Xx)

	mu := mat.NewVecDense(ss.Nx(), nil)
	if err := mu.SolveVec(&lhs, ss.Xy); err != nil {
		return nil, err
	}
	return mu, nil
}

//posteriorCov returns the posterior covariance inv(xx/nsevar + cinv).
func posteriorCov(ss SuffStats, nsevar float64, cinv *mat.Dense) (*mat.Dense, error) {
	var prec mat.Dense
	prec.Scale(1/nsevar, ss.Xx)
	prec.Add(&prec, cinv)

	var L mat.Dense
	if err := L.Inverse(&prec); err != nil {
		return nil, err
	}
	return &L, nil
}

//residualError evaluates yy - 2*mu'xy + mu'xx*mu, the total squared error
//of the mean filter on the summarized data.
func residualError(ss SuffStats, mu *mat.VecDense) float64 {
	return ss.Yy - 2*mat.Dot(mu, ss.Xy) + quadForm(mu, ss.Xx)
}

//quadForm computes mu' M mu.
func quadForm(mu *mat.VecDense, M *mat.Dense) float64 {
	var tmp mat.VecDense
	tmp.MulVec(M, mu)
	return mat.Dot(mu, &tmp)
}

//maskedSum computes the sum of the elementwise product of a 0/1 mask and a
//matrix. For a diagonal mask this is the masked trace.
func maskedSum(mask, m *mat.Dense) float64 {
	r, c := mask.Dims()
	s := 0.0
	for p := 0; p < r; p++ {
		for q := 0; q < c; q++ {
			if v := mask.At(p, q); v != 0 {
				s += v * m.At(p, q)
			}
		}
	}
	return s
}
