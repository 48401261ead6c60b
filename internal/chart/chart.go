// Package chart draws profile summaries as image files with gonum/plot. The
// image format follows the file extension (png, svg, pdf).
package chart

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/colprof-cli/internal/profile"
	"github.com/KaramelBytes/colprof-cli/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const size = 4 * vg.Inch

var palette = []color.NRGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
}

func hueColor(i int, alpha uint8) color.NRGBA {
	c := palette[i%len(palette)]
	c.A = alpha
	return c
}

// HistogramFile is the file Histogram output for column gets under dir.
func HistogramFile(dir, column string) string {
	return filepath.Join(dir, "hist_"+fileSafe(column)+".png")
}

// Histogram draws the bins of column into path.
func Histogram(path, column string, bins []profile.Bin) error {
	if len(bins) == 0 {
		return fmt.Errorf("no bins to draw for %s", column)
	}
	p := newPlot(column, column, "count")
	p.Legend.Top = false
	p.Add(histogram(bins, hueColor(0, 255)))
	return save(p, path)
}

// histogram wraps already computed bins; plotter.NewHistogram would re-bin raw values.
func histogram(bins []profile.Bin, fill color.Color) *plotter.Histogram {
	h := &plotter.Histogram{
		Bins:      make([]plotter.HistogramBin, len(bins)),
		FillColor: fill,
		LineStyle: plotter.DefaultLineStyle,
	}
	for i, b := range bins {
		h.Bins[i] = plotter.HistogramBin{Min: b.Low, Max: b.High, Weight: float64(b.Count)}
	}
	if len(bins) > 0 {
		h.Width = bins[0].High - bins[0].Low
	}
	return h
}

// PairGrid draws one image per grid cell into dir: overlaid per-hue histograms
// on the diagonal and per-hue scatter points elsewhere. Paths are returned in
// row-major order.
func PairGrid(dir string, g *profile.PairGrid) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}
	var paths []string
	for _, y := range g.YVars {
		for _, x := range g.XVars {
			var (
				p    *plot.Plot
				name string
				err  error
			)
			if x == y {
				p, err = diagonal(g, x)
				name = "pairs_" + fileSafe(x) + ".png"
			} else {
				p, err = scatter(g, x, y)
				name = "pairs_" + fileSafe(x) + "_" + fileSafe(y) + ".png"
			}
			if err != nil {
				return paths, err
			}
			path := filepath.Join(dir, name)
			if err := save(p, path); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func scatter(g *profile.PairGrid, x, y string) (*plot.Plot, error) {
	panel, err := g.Panel(x, y)
	if err != nil {
		return nil, err
	}
	p := newPlot(fmt.Sprintf("%s by %s", y, g.Hue), x, y)
	for i, s := range panel.Series {
		if s.Len() == 0 {
			continue
		}
		pts := make(plotter.XYs, s.Len())
		for k := range s.X {
			pts[k] = plotter.XY{X: s.X[k], Y: s.Y[k]}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		sc.Color = hueColor(i, 160)
		sc.Radius = vg.Points(2)
		p.Add(sc)
		p.Legend.Add(s.Hue, sc)
	}
	return p, nil
}

func diagonal(g *profile.PairGrid, v string) (*plot.Plot, error) {
	for _, d := range g.Diagonal {
		if d.Var != v {
			continue
		}
		p := newPlot(fmt.Sprintf("%s by %s", v, g.Hue), v, "count")
		for i, s := range d.Series {
			h := histogram(s.Bins, hueColor(i, 110))
			p.Add(h)
			p.Legend.Add(s.Hue, h)
		}
		return p, nil
	}
	return nil, fmt.Errorf("no diagonal panel for %s", v)
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Legend.Top = true
	return p
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(size, size, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// fileSafe keeps letters, digits, '-' and '_' of a column name.
func fileSafe(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if s == "" {
		return "column"
	}
	return s
}
