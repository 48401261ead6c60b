package profile

import (
	"sort"

	"github.com/KaramelBytes/colprof-cli/internal/dataset"
)

// ValueCount is one distinct value and how often it occurs.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts lists the distinct non-missing values of a column by descending
// count, ties broken by value. Counts plus Missing equals the table's rows.
type ValueCounts struct {
	Column  string       `json:"column"`
	Counts  []ValueCount `json:"counts"`
	Missing int          `json:"missing"`
}

// Total is the number of non-missing values counted.
func (vc *ValueCounts) Total() int {
	n := 0
	for _, c := range vc.Counts {
		n += c.Count
	}
	return n
}

// Get returns the count of value, 0 when absent.
func (vc *ValueCounts) Get(value string) int {
	for _, c := range vc.Counts {
		if c.Value == value {
			return c.Count
		}
	}
	return 0
}

// Top returns at most n leading entries.
func (vc *ValueCounts) Top(n int) []ValueCount {
	if n <= 0 || n >= len(vc.Counts) {
		return vc.Counts
	}
	return vc.Counts[:n]
}

// ValueCounts counts distinct values of a categorical or target column.
func (p *Profiler) ValueCounts(column string) (*ValueCounts, error) {
	if err := p.requireRole(column, isDiscrete, "categorical or target"); err != nil {
		return nil, err
	}
	vals, err := p.values(column)
	if err != nil {
		return nil, err
	}
	return countValues(column, vals), nil
}

func countValues(column string, vals []dataset.Value) *ValueCounts {
	counts := map[string]int{}
	out := &ValueCounts{Column: column}
	for _, v := range vals {
		if v.Missing {
			out.Missing++
			continue
		}
		counts[v.Raw]++
	}
	out.Counts = make([]ValueCount, 0, len(counts))
	for k, n := range counts {
		out.Counts = append(out.Counts, ValueCount{Value: k, Count: n})
	}
	sort.Slice(out.Counts, func(i, j int) bool {
		if out.Counts[i].Count == out.Counts[j].Count {
			return out.Counts[i].Value < out.Counts[j].Value
		}
		return out.Counts[i].Count > out.Counts[j].Count
	})
	return out
}
