//Package ebs estimates linear regression filters from sufficient
//statistics by empirical Bayes, under a smoothness prior with
//exponentially decaying correlation inside independent filter blocks.
package ebs

import (
	"encoding/json"
	"log"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

//TerminalStatus names the way the fixed point stopped. All three states
//deliver a usable result; the caller decides whether a saturated or
//non-converged estimate is acceptable.
type TerminalStatus int

const (
	Converged TerminalStatus = iota
	MaxIterReached
	AlphaSaturated
)

func (s TerminalStatus) String() string {
	switch s {
	case Converged:
		return "converged"
	case MaxIterReached:
		return "max iterations reached"
	case AlphaSaturated:
		return "alpha saturated"
	}
	return "unknown"
}

//Hyperparameters are the three scalars the fixed point estimates: the
//prior precision alpha, the correlation decay rho and the observation
//noise variance nsevar.
type Hyperparameters struct {
	Alpha  float64
	Rho    float64
	Nsevar float64
}

//Options bound the fixed-point iteration.
type Options struct {
	MaxIter  int
	Tol      float64
	MaxAlpha float64
	MaxRho   float64
}

//DefaultOptions returns the standard iteration bounds.
func DefaultOptions() Options {
	return Options{MaxIter: 5000, Tol: 1e-5, MaxAlpha: 1e8, MaxRho: 1 - 1e-4}
}

func (o Options) validate() error {
	if o.MaxIter <= 0 {
		return configErrorf("maxiter must be positive, got %d", o.MaxIter)
	}
	if o.Tol <= 0 {
		return configErrorf("tol must be positive, got %g", o.Tol)
	}
	if o.MaxAlpha <= 0 {
		return configErrorf("maxalpha must be positive, got %g", o.MaxAlpha)
	}
	if o.MaxRho <= 0 || o.MaxRho >= 1 {
		return configErrorf("maxrho must lie in (0, 1), got %g", o.MaxRho)
	}
	return nil
}

//IterationPoint is one row of the convergence trace.
type IterationPoint struct {
	Iteration int
	Alpha     float64
	Rho       float64
	Nsevar    float64
	Dparams   float64
}

//FitParams collect the arguments required to run a fit.
type FitParams struct {
	Stats       SuffStats
	BlockStarts []int            // 1-based block start indices; nil means one block
	Options     *Options         // nil means DefaultOptions
	Init        *Hyperparameters // nil triggers the ridge warm start
}

//FitResult is the MAP filter together with the hyperparameters and prior
//precision matrix that produced it, plus the convergence trace.
type FitResult struct {
	KHat       []float64
	Hyperprs   Hyperparameters
	CpriorInv  [][]float64
	Status     TerminalStatus
	Iterations int
	Trace      []IterationPoint
}

//noiseVarianceUpdate applies the effective-degrees-of-freedom corrected
//residual variance estimate resids / (ny - (nx - traceTrm)).
func noiseVarianceUpdate(resids float64, ny, nx int, traceTrm float64) float64 {
	return resids / (float64(ny) - (float64(nx) - traceTrm))
}

//paramDistance is the Euclidean distance between two hyperparameter triples.
func paramDistance(a, b Hyperparameters) float64 {
	da := a.Alpha - b.Alpha
	dr := a.Rho - b.Rho
	dn := a.Nsevar - b.Nsevar
	return math.Sqrt(da*da + dr*dr + dn*dn)
}

//Fit estimates the smoothing hyperparameters and the MAP filter from
//sufficient statistics. It iterates the empirical-Bayes fixed point: build
//the prior precision, solve the posterior, re-estimate (alpha, rho) from
//the posterior moments and nsevar from the residual error, until the
//parameter change drops below Tol, alpha saturates at MaxAlpha or the
//iteration cap is hit. Those three exits are checked in that order every
//round (saturation first) and all of them return a usable result; only
//invalid configuration or a numerical failure yields an error.
func Fit(params FitParams) (*FitResult, error) {
	ss := params.Stats
	if err := ss.validate(); err != nil {
		return nil, err
	}
	nx := ss.Nx()
	if nx < 2 {
		return nil, configErrorf("filter length must be at least 2, got %d", nx)
	}

	opts := DefaultOptions()
	if params.Options != nil {
		opts = *params.Options
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	blockStarts := params.BlockStarts
	if blockStarts == nil {
		blockStarts = []int{1}
	}
	sm, err := NewStructuralMatrices(nx, blockStarts)
	if err != nil {
		return nil, err
	}

	var cur Hyperparameters
	if params.Init != nil {
		cur = *params.Init
	} else {
		log.Print("no initial hyperparameters, running ridge warm start")
		alpha0, nsevar0, warmErr := ridgeWarmStart(ss, true)
		if warmErr != nil {
			return nil, warmErr
		}
		cur = Hyperparameters{Alpha: alpha0, Rho: 0.5, Nsevar: nsevar0}
	}

	var (
		status  TerminalStatus
		trace   []IterationPoint
		dparams = math.Inf(1)
		iter    = 1
	)
	for {
		if cur.Alpha >= opts.MaxAlpha {
			status = AlphaSaturated
			break
		}
		if dparams <= opts.Tol {
			status = Converged
			break
		}
		if iter > opts.MaxIter {
			status = MaxIterReached
			break
		}

		cinv := sm.PriorPrecision(cur.Alpha, cur.Rho)
		mu, solveErr := posteriorMean(ss, cur.Nsevar, cinv)
		if solveErr != nil {
			return nil, numErrorAt(iter, cur, "posterior solve: "+solveErr.Error())
		}
		L, covErr := posteriorCov(ss, cur.Nsevar, cinv)
		if covErr != nil {
			return nil, numErrorAt(iter, cur, "posterior covariance: "+covErr.Error())
		}

		alpha2, rho2, updErr := updateDecayAndPrecision(mu, L, sm, opts.MaxRho)
		if updErr != nil {
			if numErr, ok := updErr.(*NumericalError); ok {
				numErr.Iteration = iter
				numErr.Hyperprs = cur
			}
			return nil, updErr
		}

		var lc mat.Dense
		lc.Mul(L, cinv)
		nsevar2 := noiseVarianceUpdate(residualError(ss, mu), ss.Ny, nx, mat.Trace(&lc))

		next := Hyperparameters{Alpha: alpha2, Rho: rho2, Nsevar: nsevar2}
		dparams = paramDistance(cur, next)
		cur = next
		trace = append(trace, IterationPoint{Iteration: iter, Alpha: cur.Alpha, Rho: cur.Rho, Nsevar: cur.Nsevar, Dparams: dparams})
		iter++
	}

	iterations := iter - 1
	if status == MaxIterReached {
		log.Printf("finished: %s after %d iterations, dparams = %g", status, iterations, dparams)
	} else {
		log.Printf("finished: %s after %d iterations", status, iterations)
	}

	// final mean-only solve under the terminal hyperparameters
	cinv := sm.PriorPrecision(cur.Alpha, cur.Rho)
	kHat, solveErr := posteriorMean(ss, cur.Nsevar, cinv)
	if solveErr != nil {
		return nil, numErrorAt(iterations, cur, "final posterior solve: "+solveErr.Error())
	}

	return &FitResult{
		KHat:       append([]float64(nil), kHat.RawVector().Data...),
		Hyperprs:   cur,
		CpriorInv:  denseToRows(cinv),
		Status:     status,
		Iterations: iterations,
		Trace:      trace,
	}, nil
}

//denseToRows copies a dense matrix into a row-major slice of slices.
func denseToRows(m *mat.Dense) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for p := 0; p < r; p++ {
		rows[p] = make([]float64, c)
		for q := 0; q < c; q++ {
			rows[p][q] = m.At(p, q)
		}
	}
	return rows
}

//Save stores the result as indented JSON.
func (res FitResult) Save(filename string) {
	dest, err := os.Create(filename)
	if err != nil {
		log.Print("can't open file ", filename, " to write")
	}
	HandleError(err)
	defer func() { HandleError(dest.Close()) }()

	byteRepr, err := json.MarshalIndent(res, "", "  ")
	HandleError(err)

	_, err = dest.Write(byteRepr)
	HandleError(err)
}

//LoadFitResult reads a result saved by Save.
func LoadFitResult(filename string) (res FitResult) {
	source, err := os.Open(filename)
	HandleError(err)
	defer func() { HandleError(source.Close()) }()

	decoder := json.NewDecoder(source)
	HandleError(decoder.Decode(&res))
	return
}

//DumpTrace stores the convergence trace as indented JSON.
func (res FitResult) DumpTrace(filename string) {
	destination, err := os.Create(filename)
	HandleError(err)
	defer func() { HandleError(destination.Close()) }()

	bytesResult, err := json.MarshalIndent(res.Trace, "", "  ")
	HandleError(err)
	_, err = destination.Write(bytesResult)
	HandleError(err)
}
