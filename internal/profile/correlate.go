package profile

import (
	"math"
	"sort"

	"github.com/KaramelBytes/colprof-cli/internal/schema"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numerical columns.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
}

// PairCorr is one off-diagonal entry of a CorrMatrix.
type PairCorr struct {
	A string  `json:"a"`
	B string  `json:"b"`
	R float64 `json:"r"`
}

// TopPairs returns up to n column pairs ordered by |r| descending.
func (m *CorrMatrix) TopPairs(n int) []PairCorr {
	var pairs []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

type pairAcc struct {
	n, sumX, sumY, sumXX, sumYY, sumXY float64
}

func (pa *pairAcc) add(x, y float64) {
	pa.n++
	pa.sumX += x
	pa.sumY += y
	pa.sumXX += x * x
	pa.sumYY += y * y
	pa.sumXY += x * y
}

// r returns the Pearson coefficient, 0 when undefined.
func (pa *pairAcc) r() float64 {
	if pa.n < 2 {
		return 0
	}
	denom := math.Sqrt((pa.n*pa.sumXX - pa.sumX*pa.sumX) * (pa.n*pa.sumYY - pa.sumY*pa.sumY))
	if denom == 0 || math.IsNaN(denom) {
		return 0
	}
	r := (pa.n*pa.sumXY - pa.sumX*pa.sumY) / denom
	return math.Max(-1, math.Min(1, r))
}

// Correlations computes pairwise-complete Pearson correlations between all
// numerical columns. Fewer than two numerical columns yields an empty matrix.
func (p *Profiler) Correlations() (*CorrMatrix, error) {
	cols := p.schema.ByRole(schema.Numerical)
	m := &CorrMatrix{}
	if len(cols) < 2 {
		return m, nil
	}
	data := make([][]float64, len(cols))
	present := make([][]bool, len(cols))
	for i, c := range cols {
		if _, _, err := p.numbers(c); err != nil {
			return nil, err
		}
		vals, _ := p.table.Column(c)
		data[i] = make([]float64, len(vals))
		present[i] = make([]bool, len(vals))
		for k, v := range vals {
			data[i][k] = v.Num
			present[i][k] = !v.Missing
		}
	}
	m.Columns = cols
	m.Values = make([][]float64, len(cols))
	for i := range m.Values {
		m.Values[i] = make([]float64, len(cols))
		m.Values[i][i] = 1
	}
	for a := 0; a < len(cols); a++ {
		for b := a + 1; b < len(cols); b++ {
			var pa pairAcc
			for k := range data[a] {
				if present[a][k] && present[b][k] {
					pa.add(data[a][k], data[b][k])
				}
			}
			r := pa.r()
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m, nil
}
