package ebs

import "gonum.org/v1/gonum/mat"

//StructuralMatrices encode, once per fit, which filter positions are
//interior to a block and which neighbor pairs may be smoothed across.
//Meye is the identity, Mdiag carries ones on the diagonal at interior
//positions only, and Moffdiag carries ones on the +-1 bands for neighbor
//pairs that stay inside a block. No coupling crosses a block boundary.
type StructuralMatrices struct {
	Meye     *mat.Dense
	Mdiag    *mat.Dense
	Moffdiag *mat.Dense
}

//validateBlockStarts checks that the 1-based start indices describe a
//partition of [1, nx]: non-empty, first index 1, strictly increasing,
//all within range.
func validateBlockStarts(nx int, strtInds []int) error {
	if len(strtInds) == 0 {
		return configErrorf("block starts must not be empty")
	}
	if strtInds[0] != 1 {
		return configErrorf("first block must start at 1, got %d", strtInds[0])
	}
	prev := 0
	for _, ind := range strtInds {
		if ind < 1 || ind > nx {
			return configErrorf("block start %d outside [1, %d]", ind, nx)
		}
		if ind <= prev {
			return configErrorf("block starts must be strictly increasing, got %d after %d", ind, prev)
		}
		prev = ind
	}
	return nil
}

//NewStructuralMatrices builds the fixed mask matrices for a filter of
//length nx split into blocks at the given 1-based start indices. Each
//block ends one position before the next start; the last block ends at nx.
func NewStructuralMatrices(nx int, strtInds []int) (StructuralMatrices, error) {
	if err := validateBlockStarts(nx, strtInds); err != nil {
		return StructuralMatrices{}, err
	}

	interior := make([]float64, nx)
	lookRight := make([]float64, nx)
	lookLeft := make([]float64, nx)
	for p := 0; p < nx; p++ {
		interior[p], lookRight[p], lookLeft[p] = 1, 1, 1
	}
	for k, strt := range strtInds {
		end := nx
		if k+1 < len(strtInds) {
			end = strtInds[k+1] - 1
		}
		interior[strt-1] = 0
		interior[end-1] = 0
		lookRight[end-1] = 0
		lookLeft[strt-1] = 0
	}

	sm := StructuralMatrices{
		Meye:     mat.NewDense(nx, nx, nil),
		Mdiag:    mat.NewDense(nx, nx, nil),
		Moffdiag: mat.NewDense(nx, nx, nil),
	}
	for p := 0; p < nx; p++ {
		sm.Meye.Set(p, p, 1)
		sm.Mdiag.Set(p, p, interior[p])
	}
	for p := 0; p+1 < nx; p++ {
		sm.Moffdiag.Set(p, p+1, lookRight[p])
		sm.Moffdiag.Set(p+1, p, lookLeft[p+1])
	}
	return sm, nil
}

//PriorPrecision assembles the banded inverse prior covariance for the
//current hyperparameters:
//
//	alpha * (Meye + rho^2*Mdiag - rho*Moffdiag) / (1 - rho^2)
func (sm StructuralMatrices) PriorPrecision(alpha, rho float64) *mat.Dense {
	n, _ := sm.Meye.Dims()
	cinv := mat.NewDense(n, n, nil)
	tmp := mat.NewDense(n, n, nil)

	tmp.Scale(rho*rho, sm.Mdiag)
	cinv.Add(sm.Meye, tmp)
	tmp.Scale(rho, sm.Moffdiag)
	cinv.Sub(cinv, tmp)
	cinv.Scale(alpha/(1-rho*rho), cinv)
	return cinv
}
