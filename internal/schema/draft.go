package schema

import (
	"fmt"

	"github.com/KaramelBytes/colprof-cli/internal/dataset"
)

// Draft proposes a schema for a freshly seen file so a user can review and edit
// it. A column is numerical when every non-missing value parses as a number;
// everything else is categorical. Profiling never calls Draft.
func Draft(name string, t *dataset.Table, target string) (*Schema, error) {
	if target != "" && !t.Has(target) {
		return nil, fmt.Errorf("target column %q not in %s", target, t.Name())
	}
	var cols []Column
	for _, c := range t.Columns() {
		if c == target {
			continue
		}
		vals, err := t.Column(c)
		if err != nil {
			return nil, err
		}
		role := Numerical
		seen := 0
		for _, v := range vals {
			if v.Missing {
				continue
			}
			seen++
			if !v.IsNum {
				role = Categorical
				break
			}
		}
		if seen == 0 {
			role = Categorical
		}
		cols = append(cols, Column{Name: c, Role: role})
	}
	f := File{Name: name, Target: target}
	for _, c := range cols {
		if c.Role == Numerical {
			f.Numerical = append(f.Numerical, c.Name)
		} else {
			f.Categorical = append(f.Categorical, c.Name)
		}
	}
	return FromFile(f)
}
