// Package profile computes descriptive summaries over a loaded Table using the
// column roles declared in a Schema. Every operation is a pure function of the
// table: calling it twice returns equal results.
package profile

import (
	"sort"
	"strconv"

	"github.com/KaramelBytes/colprof-cli/internal/dataset"
	"github.com/KaramelBytes/colprof-cli/internal/schema"
)

// Profiler binds a table to the schema describing its columns.
type Profiler struct {
	table  *dataset.Table
	schema *schema.Schema
}

// New checks that every schema column is present in the table.
func New(t *dataset.Table, s *schema.Schema) (*Profiler, error) {
	for _, c := range s.Names() {
		if !t.Has(c) {
			return nil, &dataset.DataError{Reason: dataset.ReasonMissingColumn, Path: t.Name(), Column: c, Detail: "declared in schema"}
		}
	}
	return &Profiler{table: t, schema: s}, nil
}

// Table returns the profiled table.
func (p *Profiler) Table() *dataset.Table { return p.table }

// Schema returns the schema the profiler was built with.
func (p *Profiler) Schema() *schema.Schema { return p.schema }

func (p *Profiler) values(column string) ([]dataset.Value, error) {
	vals, err := p.table.Column(column)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, &dataset.DataError{Reason: dataset.ReasonEmptyTable, Path: p.table.Name(), Column: column}
	}
	return vals, nil
}

func (p *Profiler) requireRole(column string, accept func(schema.Role) bool, want string) error {
	role, ok := p.schema.Role(column)
	if !ok {
		if !p.table.Has(column) {
			return &dataset.DataError{Reason: dataset.ReasonMissingColumn, Path: p.table.Name(), Column: column}
		}
		return dataset.Errorf(dataset.ReasonRoleMismatch, p.table.Name(), column, "no declared role, need %s", want)
	}
	if !accept(role) {
		return dataset.Errorf(dataset.ReasonRoleMismatch, p.table.Name(), column, "role is %s, need %s", role, want)
	}
	return nil
}

func isDiscrete(r schema.Role) bool  { return r.Discrete() }
func isNumerical(r schema.Role) bool { return r == schema.Numerical }

// numbers returns the non-missing values of a numerical column.
func (p *Profiler) numbers(column string) (nums []float64, missing int, err error) {
	if err := p.requireRole(column, isNumerical, "numerical"); err != nil {
		return nil, 0, err
	}
	vals, err := p.values(column)
	if err != nil {
		return nil, 0, err
	}
	nums = make([]float64, 0, len(vals))
	for i, v := range vals {
		if v.Missing {
			missing++
			continue
		}
		if !v.IsNum {
			return nil, 0, dataset.Errorf(dataset.ReasonTypeMismatch, p.table.Name(), column, "row %d: %q is not numeric", i+1, v.Raw)
		}
		nums = append(nums, v.Num)
	}
	if len(nums) == 0 {
		return nil, missing, &dataset.DataError{Reason: dataset.ReasonEmptyTable, Path: p.table.Name(), Column: column, Detail: "no non-missing values"}
	}
	return nums, missing, nil
}

// sortLabels orders labels numerically when all of them are numbers, and
// lexically otherwise.
func sortLabels(labels []string) {
	nums := make(map[string]float64, len(labels))
	for _, l := range labels {
		f, err := strconv.ParseFloat(l, 64)
		if err != nil {
			sort.Strings(labels)
			return
		}
		nums[l] = f
	}
	sort.Slice(labels, func(i, j int) bool {
		if nums[labels[i]] == nums[labels[j]] {
			return labels[i] < labels[j]
		}
		return nums[labels[i]] < nums[labels[j]]
	})
}
