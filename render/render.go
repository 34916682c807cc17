// Package render draws benchmark series as charts.
package render

import (
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	bench "github.com/rqbench/rqbench-plot"
)

// ErrNoData is returned when none of the given series has a point to draw.
var ErrNoData = errors.New("nothing to plot")

// Scale selects how x values are placed on the axis.
type Scale int

const (
	Linear   Scale = iota
	Log            // logarithmic, x must be positive
	Category       // evenly spaced, labeled with the x values
)

// Layout holds the settings of one chart. It is passed by value, so a
// chart never sees changes made for another one.
type Layout struct {
	Title  string
	XLabel string
	YLabel string
	YUnit  string // appended to y tick labels

	Width, Height vg.Length
	Legend        bool
	XScale        Scale

	// The y axis range is fixed if YMin < YMax.
	YMin, YMax float64

	// RefLines are drawn as horizontal lines at the given y values.
	RefLines []float64
}

// DefaultLayout returns the layout all charts start from.
func DefaultLayout() Layout {
	return Layout{
		Width:  15 * vg.Centimeter,
		Height: 10 * vg.Centimeter,
	}
}

// Trace is one line of a line chart.
type Trace struct {
	Name   string // defaults to Style.Label
	Style  Algorithm
	Series bench.Series
}

func (t Trace) name() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Style.Label
}

// Lines draws each trace as a line with point markers.
func Lines(l Layout, traces []Trace) (*plot.Plot, error) {
	p, err := newPlot(l)
	if err != nil {
		return nil, err
	}
	var categories []string
	if l.XScale == Category {
		categories = collectCategories(traces)
	}
	drawn := 0
	for _, tr := range traces {
		xys, err := points(l.XScale, tr.Series, categories)
		if err != nil {
			return nil, errors.Wrapf(err, "trace %s", tr.name())
		}
		if len(xys) == 0 {
			log.WithField("trace", tr.name()).Debug("Skipping trace without data")
			continue
		}
		line, pts, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, errors.Wrapf(err, "trace %s", tr.name())
		}
		line.Color = tr.Style.Color
		line.Width = vg.Points(2)
		pts.Color = tr.Style.Color
		pts.Shape = tr.Style.Glyph()
		pts.Radius = vg.Points(4)
		p.Add(line, pts)
		if l.Legend {
			p.Legend.Add(tr.name(), line, pts)
		}
		drawn++
	}
	if drawn == 0 {
		return nil, ErrNoData
	}
	switch l.XScale {
	case Log:
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{}
	case Category:
		p.NominalX(categories...)
	default:
		p.X.Tick.Marker = SITicks{}
	}
	finish(p, l)
	return p, nil
}

// collectCategories returns the distinct x labels of all traces in order of
// first appearance.
func collectCategories(traces []Trace) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, tr := range traces {
		for _, label := range tr.Series.XLabels() {
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
	}
	return labels
}

// points pairs x and y values up to the shorter of the two. Points that
// can't be drawn on the scale are dropped.
func points(scale Scale, s bench.Series, categories []string) (plotter.XYs, error) {
	n := s.XLen()
	if len(s.Y) < n {
		n = len(s.Y)
	}
	if n == 0 {
		return nil, nil
	}
	var xs []float64
	if scale == Category {
		index := make(map[string]int, len(categories))
		for i, c := range categories {
			index[c] = i
		}
		for _, label := range s.XLabels() {
			xs = append(xs, float64(index[label]))
		}
	} else {
		var ok bool
		if xs, ok = s.XFloats(); !ok {
			return nil, errors.New("x values are not numeric")
		}
	}
	xys := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		x, y := xs[i], s.Y[i]
		if !finite(x) || !finite(y) || (scale == Log && x <= 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
	}
	return xys, nil
}

// Bar is one series of a grouped bar chart. Values[i] belongs to the i-th
// category.
type Bar struct {
	Name   string
	Color  color.NRGBA
	Values []float64
}

// Bars draws a grouped bar chart with one group per category.
func Bars(l Layout, categories []string, bars []Bar) (*plot.Plot, error) {
	if len(categories) == 0 || len(bars) == 0 {
		return nil, ErrNoData
	}
	p, err := newPlot(l)
	if err != nil {
		return nil, err
	}
	// Groups take 80% of the space of a category.
	area := l.Width * 0.8
	width := area / vg.Length(len(categories)) * 0.8 / vg.Length(len(bars))
	if width < 1 {
		width = 1
	}
	drawn := 0
	for i, b := range bars {
		vals := barValues(b, len(categories))
		if len(vals) == 0 {
			continue
		}
		bc, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return nil, errors.Wrapf(err, "bar %s", b.Name)
		}
		bc.Color = b.Color
		bc.LineStyle.Width = vg.Points(0.5)
		bc.Offset = (vg.Length(i) - vg.Length(len(bars)-1)/2) * width
		p.Add(bc)
		if l.Legend {
			p.Legend.Add(b.Name, bc)
		}
		drawn++
	}
	if drawn == 0 {
		return nil, ErrNoData
	}
	p.NominalX(categories...)
	finish(p, l)
	return p, nil
}

func barValues(b Bar, n int) plotter.Values {
	vals := b.Values
	if len(vals) > n {
		vals = vals[:n]
	}
	out := make(plotter.Values, len(vals))
	for i, v := range vals {
		if !finite(v) {
			log.WithFields(log.Fields{"bar": b.Name, "index": i}).Debugf("Drawing %v as 0", v)
			continue
		}
		out[i] = v
	}
	return out
}

func newPlot(l Layout) (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = l.Title
	p.X.Label.Text = l.XLabel
	p.Y.Label.Text = l.YLabel
	p.Y.Tick.Marker = SITicks{Unit: l.YUnit}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p, nil
}

// finish applies the settings that must come after all data was added.
func finish(p *plot.Plot, l Layout) {
	for _, y := range l.RefLines {
		y := y
		f := plotter.NewFunction(func(float64) float64 { return y })
		f.Color = color.Black
		f.Width = vg.Points(1.5)
		p.Add(f)
	}
	if l.YMin < l.YMax {
		p.Y.Min, p.Y.Max = l.YMin, l.YMax
	}
}

// Save writes the chart to path, creating its directory. The image format
// follows from the file extension.
func Save(p *plot.Plot, l Layout, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "can't create output directory")
	}
	if err := p.Save(l.Width, l.Height, path); err != nil {
		return errors.Wrapf(err, "can't save %s", path)
	}
	log.WithField("file", path).Info("Saved chart")
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
