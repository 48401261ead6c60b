package profile

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/colprof-cli/internal/dataset"
)

// PairOptions selects the grid of a PairGrid.
type PairOptions struct {
	// XVars and YVars are numerical columns. An empty YVars means YVars = XVars.
	XVars []string
	YVars []string
	// Hue is a categorical or target column splitting every panel into series.
	Hue string
	// Samples limits the grid to the first rows of the table; <= 0 means all rows.
	Samples int
	// Bins is the histogram bin count on the diagonal; <= 0 means 10.
	Bins int
}

// PointSeries holds the points of one hue level in a scatter panel.
type PointSeries struct {
	Hue string    `json:"hue"`
	X   []float64 `json:"x"`
	Y   []float64 `json:"y"`
}

// Len returns the number of points.
func (s PointSeries) Len() int { return len(s.X) }

// Mean returns the centroid of the points.
func (s PointSeries) Mean() (mx, my float64) {
	if len(s.X) == 0 {
		return math.NaN(), math.NaN()
	}
	for i := range s.X {
		mx += s.X[i]
		my += s.Y[i]
	}
	n := float64(len(s.X))
	return mx / n, my / n
}

// Pearson returns the correlation of the points, 0 when undefined.
func (s PointSeries) Pearson() float64 {
	var pa pairAcc
	for i := range s.X {
		pa.add(s.X[i], s.Y[i])
	}
	return pa.r()
}

// ScatterPanel is an off-diagonal cell of the grid.
type ScatterPanel struct {
	X      string        `json:"x"`
	Y      string        `json:"y"`
	Series []PointSeries `json:"series"`
}

// HistSeries holds the histogram of one hue level.
type HistSeries struct {
	Hue  string `json:"hue"`
	Bins []Bin  `json:"bins"`
}

// DiagPanel is a diagonal cell of the grid; all series share bin edges.
type DiagPanel struct {
	Var    string       `json:"var"`
	Series []HistSeries `json:"series"`
}

// PairGrid is the data behind a pairwise scatter plot colored by hue.
type PairGrid struct {
	XVars     []string       `json:"x_vars"`
	YVars     []string       `json:"y_vars"`
	Hue       string         `json:"hue"`
	HueLevels []string       `json:"hue_levels"`
	Samples   int            `json:"samples"`
	Diagonal  []DiagPanel    `json:"diagonal"`
	Panels    []ScatterPanel `json:"panels"`
}

// PairGrid splits the first opt.Samples rows by hue and builds a scatter panel
// for every (x, y) pair with x != y and a per-hue histogram for every x == y.
// Rows missing any needed value are skipped for that panel.
func (p *Profiler) PairGrid(opt PairOptions) (*PairGrid, error) {
	if len(opt.XVars) == 0 {
		return nil, &dataset.DataError{Reason: dataset.ReasonMalformed, Path: p.table.Name(), Detail: "pair grid needs at least one variable"}
	}
	yVars := opt.YVars
	if len(yVars) == 0 {
		yVars = opt.XVars
	}
	bins := opt.Bins
	if bins <= 0 {
		bins = 10
	}
	if err := checkBins(p.table.Name(), "", bins); err != nil {
		return nil, err
	}
	if err := p.requireRole(opt.Hue, isDiscrete, "categorical or target"); err != nil {
		return nil, err
	}
	t := p.table
	if opt.Samples > 0 {
		t = t.Head(opt.Samples)
	}
	sub, err := New(t, p.schema)
	if err != nil {
		return nil, err
	}

	numeric := map[string][]dataset.Value{}
	for _, v := range append(append([]string{}, opt.XVars...), yVars...) {
		if _, ok := numeric[v]; ok {
			continue
		}
		if _, _, err := sub.numbers(v); err != nil {
			return nil, err
		}
		vals, _ := t.Column(v)
		numeric[v] = vals
	}
	hues, err := sub.values(opt.Hue)
	if err != nil {
		return nil, err
	}

	g := &PairGrid{XVars: opt.XVars, YVars: yVars, Hue: opt.Hue, Samples: t.Len()}
	levelIdx := map[string]int{}
	for _, h := range hues {
		if h.Missing {
			continue
		}
		if _, ok := levelIdx[h.Raw]; !ok {
			levelIdx[h.Raw] = len(g.HueLevels)
			g.HueLevels = append(g.HueLevels, h.Raw)
		}
	}

	for _, y := range yVars {
		for _, x := range opt.XVars {
			if x == y {
				g.Diagonal = append(g.Diagonal, diagPanel(x, numeric[x], hues, g.HueLevels, levelIdx, bins))
				continue
			}
			panel := ScatterPanel{X: x, Y: y, Series: make([]PointSeries, len(g.HueLevels))}
			for i, h := range g.HueLevels {
				panel.Series[i].Hue = h
			}
			xs, ys := numeric[x], numeric[y]
			for k := range hues {
				if hues[k].Missing || xs[k].Missing || ys[k].Missing {
					continue
				}
				s := &panel.Series[levelIdx[hues[k].Raw]]
				s.X = append(s.X, xs[k].Num)
				s.Y = append(s.Y, ys[k].Num)
			}
			g.Panels = append(g.Panels, panel)
		}
	}
	return g, nil
}

func diagPanel(name string, vals, hues []dataset.Value, levels []string, levelIdx map[string]int, bins int) DiagPanel {
	perHue := make([][]float64, len(levels))
	var all []float64
	for k := range vals {
		if vals[k].Missing || hues[k].Missing {
			continue
		}
		i := levelIdx[hues[k].Raw]
		perHue[i] = append(perHue[i], vals[k].Num)
		all = append(all, vals[k].Num)
	}
	d := DiagPanel{Var: name}
	if len(all) == 0 {
		return d
	}
	lo, hi := valueRange(all)
	for i, h := range levels {
		d.Series = append(d.Series, HistSeries{Hue: h, Bins: histogram(perHue[i], lo, hi, bins)})
	}
	return d
}

// Panel returns the scatter panel for (x, y).
func (g *PairGrid) Panel(x, y string) (ScatterPanel, error) {
	for _, p := range g.Panels {
		if p.X == x && p.Y == y {
			return p, nil
		}
	}
	return ScatterPanel{}, fmt.Errorf("no panel for %s x %s", x, y)
}
