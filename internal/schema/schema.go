// Package schema declares the role of every profiled column up front, so the
// profiler never guesses a column's type from its values.
package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/colprof-cli/internal/utils"
	"gopkg.in/yaml.v3"
)

// Role classifies a column.
type Role string

const (
	Numerical   Role = "numerical"
	Categorical Role = "categorical"
	Target      Role = "target"
)

// ParseRole accepts the role names used in schema files and on the command line.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numerical", "numeric", "num":
		return Numerical, nil
	case "categorical", "category", "cat":
		return Categorical, nil
	case "target", "label", "class":
		return Target, nil
	default:
		return "", fmt.Errorf("unknown column role: %q (use numerical, categorical or target)", s)
	}
}

// Discrete reports whether values of the role form a finite set of labels.
func (r Role) Discrete() bool { return r == Categorical || r == Target }

// Column pairs a column name with its role.
type Column struct {
	Name string
	Role Role
}

// Schema is an ordered, immutable column to role mapping.
type Schema struct {
	name    string
	columns []Column
	roles   map[string]Role
}

// New validates columns and builds a Schema. Names must be unique and at most
// one column may be the target.
func New(name string, columns ...Column) (*Schema, error) {
	if len(columns) == 0 {
		return nil, errors.New("schema has no columns")
	}
	roles := make(map[string]Role, len(columns))
	cols := make([]Column, 0, len(columns))
	targets := 0
	for _, c := range columns {
		if strings.TrimSpace(c.Name) == "" {
			return nil, errors.New("schema column with empty name")
		}
		r, err := ParseRole(string(c.Role))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		c.Role = r
		if prev, dup := roles[c.Name]; dup {
			return nil, fmt.Errorf("column %q declared twice (%s and %s)", c.Name, prev, c.Role)
		}
		if c.Role == Target {
			targets++
		}
		roles[c.Name] = c.Role
		cols = append(cols, c)
	}
	if targets > 1 {
		return nil, fmt.Errorf("schema declares %d target columns; at most one is allowed", targets)
	}
	return &Schema{name: name, columns: cols, roles: roles}, nil
}

// Name of the schema, e.g. the dataset it was written for.
func (s *Schema) Name() string { return s.name }

// Columns returns every column in declaration order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns every column name in declaration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.Name
	}
	return out
}

// Role looks up the declared role of a column.
func (s *Schema) Role(column string) (Role, bool) {
	r, ok := s.roles[column]
	return r, ok
}

// ByRole returns the names of all columns with the given role, in order.
func (s *Schema) ByRole(r Role) []string {
	var out []string
	for _, c := range s.columns {
		if c.Role == r {
			out = append(out, c.Name)
		}
	}
	return out
}

// Target returns the target column, if one is declared.
func (s *Schema) Target() (string, bool) {
	for _, c := range s.columns {
		if c.Role == Target {
			return c.Name, true
		}
	}
	return "", false
}

// File is the on-disk YAML layout of a schema.
type File struct {
	Name        string   `yaml:"name,omitempty" json:"name,omitempty"`
	Numerical   []string `yaml:"numerical" json:"numerical"`
	Categorical []string `yaml:"categorical" json:"categorical"`
	Target      string   `yaml:"target,omitempty" json:"target,omitempty"`
}

// FromFile builds a schema ordered numerical, categorical, then target.
func FromFile(f File) (*Schema, error) {
	var cols []Column
	for _, n := range f.Numerical {
		cols = append(cols, Column{Name: strings.TrimSpace(n), Role: Numerical})
	}
	for _, n := range f.Categorical {
		cols = append(cols, Column{Name: strings.TrimSpace(n), Role: Categorical})
	}
	if t := strings.TrimSpace(f.Target); t != "" {
		cols = append(cols, Column{Name: t, Role: Target})
	}
	return New(f.Name, cols...)
}

// File converts the schema back to its YAML layout.
func (s *Schema) File() File {
	f := File{Name: s.name, Numerical: s.ByRole(Numerical), Categorical: s.ByRole(Categorical)}
	f.Target, _ = s.Target()
	return f
}

// Load reads a YAML schema file.
func Load(path string) (*Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	s, err := FromFile(f)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}

// Save writes the schema as YAML.
func (s *Schema) Save(path string) error {
	b, err := yaml.Marshal(s.File())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}

// AdultCensus is the column layout of the 1994 adult census extract from OpenML
// (dataset 1590). fnlwgt is a sampling weight and is left out.
func AdultCensus() *Schema {
	s, err := FromFile(File{
		Name:        "adult-census",
		Numerical:   []string{"age", "education-num", "capital-gain", "capital-loss", "hours-per-week"},
		Categorical: []string{"workclass", "education", "marital-status", "occupation", "relationship", "race", "sex", "native-country"},
		Target:      "class",
	})
	if err != nil {
		panic(err)
	}
	return s
}
