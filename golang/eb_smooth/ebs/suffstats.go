package ebs

import (
	"log"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//SuffStats holds the second-order summary of a regression problem: the Gram
//matrix X'X, the cross-correlation X'Y, the response energy Y'Y and the
//number of observations. It is all the fitting loop ever sees of the data,
//so recordings of any length reduce to nx*(nx+1) numbers.
type SuffStats struct {
	Xx *mat.Dense
	Xy *mat.VecDense
	Yy float64
	Ny int
}

//Nx returns the filter length implied by the statistics.
func (ss SuffStats) Nx() int {
	n, _ := ss.Xx.Dims()
	return n
}

//NewSuffStats allocates empty statistics for a filter of length nx, ready
//for chunked accumulation.
func NewSuffStats(nx int) *SuffStats {
	return &SuffStats{
		Xx: mat.NewDense(nx, nx, nil),
		Xy: mat.NewVecDense(nx, nil),
	}
}

//Accumulate folds one chunk of raw data into the statistics. X is
//(rows x nx) and y carries the matching rows of the response. Chunks may
//arrive in any order; the result equals the statistics of the concatenated
//data.
func (ss *SuffStats) Accumulate(X *mat.Dense, y *mat.VecDense) {
	rows, cols := X.Dims()
	if cols != ss.Nx() {
		log.Panicf("chunk width %d does not match filter length %d", cols, ss.Nx())
	}
	if y.Len() != rows {
		log.Panicf("chunk height %d does not match response length %d", rows, y.Len())
	}

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	ss.Xx.Add(ss.Xx, &xtx)

	var xty mat.VecDense
	xty.MulVec(X.T(), y)
	ss.Xy.AddVec(ss.Xy, &xty)

	ss.Yy += mat.Dot(y, y)
	ss.Ny += rows
}

//validate checks the structural invariants of the input contract.
func (ss SuffStats) validate() error {
	if ss.Xx == nil || ss.Xy == nil {
		return configErrorf("sufficient statistics require both xx and xy")
	}
	r, c := ss.Xx.Dims()
	if r != c {
		return configErrorf("xx must be square, got %dx%d", r, c)
	}
	if ss.Xy.Len() != r {
		return configErrorf("xy length %d does not match xx size %d", ss.Xy.Len(), r)
	}
	if ss.Ny <= 0 {
		return configErrorf("sample count must be positive, got %d", ss.Ny)
	}
	return nil
}

//SuffStatsFromTrials reduces a trial-stacked design tensor of shape
//(trials, nt, nx) and a (trials x nt) response matrix to sufficient
//statistics one trial at a time, so the stacked design matrix is never
//materialized.
func SuffStatsFromTrials(design *tensor.Dense, resp *mat.Dense) *SuffStats {
	shape := design.Shape()
	if len(shape) != 3 {
		log.Panicf("design tensor must have 3 axes, got %d", len(shape))
	}
	trials, nt, nx := shape[0], shape[1], shape[2]
	respH, respW := resp.Dims()
	if respH != trials || respW != nt {
		log.Panicf("response is %dx%d, want %dx%d", respH, respW, trials, nt)
	}

	ss := NewSuffStats(nx)
	X := mat.NewDense(nt, nx, nil)
	y := mat.NewVecDense(nt, nil)
	for tr := 0; tr < trials; tr++ {
		for p := 0; p < nt; p++ {
			for q := 0; q < nx; q++ {
				element, err := design.At(tr, p, q)
				HandleError(err)
				X.Set(p, q, element.(float64))
			}
			y.SetVec(p, resp.At(tr, p))
		}
		ss.Accumulate(X, y)
	}
	return ss
}

//ReadNpy reads the content of an npy file into a dense matrix.
func ReadNpy(fileName string) (denseMat *mat.Dense) {
	f, err := os.Open(fileName)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { HandleError(f.Close()) }()

	r, err := npyio.NewReader(f)
	if err != nil {
		log.Fatal(err)
	}

	denseMat = &mat.Dense{}
	HandleError(r.Read(denseMat))
	return
}

//WriteNpy stores a dense matrix as an npy file.
func WriteNpy(fileName string, m *mat.Dense) {
	f, err := os.Create(fileName)
	HandleError(err)
	defer func() { HandleError(f.Close()) }()
	HandleError(npyio.Write(f, m))
}

//SuffStatsFromNpy loads a numpy-exported design matrix and response vector
//and reduces them to sufficient statistics. The response may be stored as
//either a column or a row.
func SuffStatsFromNpy(designFile, responseFile string) *SuffStats {
	log.Print("\ttry to load design <", designFile, ">")
	X := ReadNpy(designFile)
	log.Print("\ttry to load response <", responseFile, ">")
	Y := ReadNpy(responseFile)

	h, w := Y.Dims()
	if w != 1 && h == 1 {
		Y = mat.DenseCopyOf(Y.T())
		h, w = Y.Dims()
	}
	if w != 1 {
		log.Panicf("response must be a vector, got %dx%d", h, w)
	}
	rows, nx := X.Dims()
	if rows != h {
		log.Panicf("design height %d does not match response length %d", rows, h)
	}

	ss := NewSuffStats(nx)
	ss.Accumulate(X, mat.VecDenseCopyOf(Y.ColView(0)))
	return ss
}
