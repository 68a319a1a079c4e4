package ebs

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//RenderFilter draws the fitted filter against its position index and saves
//the figure; the format follows the file extension.
func (res FitResult) RenderFilter(filename string) error {
	p := plot.New()
	p.Title.Text = "estimated filter"
	p.X.Label.Text = "position"
	p.Y.Label.Text = "weight"

	pts := make(plotter.XYs, len(res.KHat))
	for ind, val := range res.KHat {
		pts[ind].X = float64(ind + 1)
		pts[ind].Y = val
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}

//RenderTrace draws the per-iteration hyperparameter change, a quick way to
//see whether a run converged, stalled or saturated.
func (res FitResult) RenderTrace(filename string) error {
	p := plot.New()
	p.Title.Text = "fixed point convergence"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "dparams"

	pts := make(plotter.XYs, len(res.Trace))
	for ind, row := range res.Trace {
		pts[ind].X = float64(row.Iteration)
		pts[ind].Y = row.Dparams
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}
