package profile

import (
	"github.com/KaramelBytes/colprof-cli/internal/schema"
)

// Redundancy names two columns that map one-to-one onto each other, such as a
// text label and its numeric code.
type Redundancy struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Levels int    `json:"levels"`
}

// Redundancies cross-tabulates every pair of non-target columns and reports the
// bijective ones. Numerical columns only take part when they have at most
// maxLevels distinct values; maxLevels <= 0 means 64.
func (p *Profiler) Redundancies(maxLevels int) ([]Redundancy, error) {
	if maxLevels <= 0 {
		maxLevels = 64
	}
	var candidates []string
	for _, c := range p.schema.Columns() {
		switch c.Role {
		case schema.Categorical:
			candidates = append(candidates, c.Name)
		case schema.Numerical:
			vals, err := p.values(c.Name)
			if err != nil {
				return nil, err
			}
			if len(countValues(c.Name, vals).Counts) <= maxLevels {
				candidates = append(candidates, c.Name)
			}
		}
	}
	var out []Redundancy
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			ct, err := p.CrossTabulate(candidates[i], candidates[j])
			if err != nil {
				return nil, err
			}
			// a constant column maps onto anything with one level; not informative
			if len(ct.RowLabels) < 2 {
				continue
			}
			if ct.IsBijective() {
				out = append(out, Redundancy{A: candidates[i], B: candidates[j], Levels: len(ct.RowLabels)})
			}
		}
	}
	return out, nil
}
