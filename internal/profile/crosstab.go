package profile

// CrossTab is a contingency table of co-occurrence counts between two columns.
// Rows where either value is missing are left out.
type CrossTab struct {
	RowColumn string   `json:"row_column"`
	ColColumn string   `json:"col_column"`
	RowLabels []string `json:"row_labels"`
	ColLabels []string `json:"col_labels"`
	// Counts[i][j] counts rows with RowLabels[i] and ColLabels[j].
	Counts    [][]int `json:"counts"`
	RowTotals []int   `json:"row_totals"`
	ColTotals []int   `json:"col_totals"`
	Total     int     `json:"total"`
}

// Count returns the cell for a (row, col) label pair, 0 when either is unknown.
func (c *CrossTab) Count(row, col string) int {
	i, j := indexOf(c.RowLabels, row), indexOf(c.ColLabels, col)
	if i < 0 || j < 0 {
		return 0
	}
	return c.Counts[i][j]
}

// NonZero returns the number of non-zero cells in row i.
func (c *CrossTab) NonZero(i int) int {
	n := 0
	for _, v := range c.Counts[i] {
		if v != 0 {
			n++
		}
	}
	return n
}

// IsOneToOne reports whether every row has exactly one non-zero cell, i.e. the
// row column determines the column column.
func (c *CrossTab) IsOneToOne() bool {
	if len(c.RowLabels) == 0 {
		return false
	}
	for i := range c.RowLabels {
		if c.NonZero(i) != 1 {
			return false
		}
	}
	return true
}

// IsBijective reports whether both columns determine each other, which makes
// one of them redundant.
func (c *CrossTab) IsBijective() bool {
	if !c.IsOneToOne() {
		return false
	}
	for j := range c.ColLabels {
		n := 0
		for i := range c.RowLabels {
			if c.Counts[i][j] != 0 {
				n++
			}
		}
		if n != 1 {
			return false
		}
	}
	return true
}

// Mapping returns, for a one-to-one table, the column label each row label maps to.
func (c *CrossTab) Mapping() map[string]string {
	if !c.IsOneToOne() {
		return nil
	}
	out := make(map[string]string, len(c.RowLabels))
	for i, r := range c.RowLabels {
		for j, v := range c.Counts[i] {
			if v != 0 {
				out[r] = c.ColLabels[j]
			}
		}
	}
	return out
}

// CrossTabulate counts co-occurrences of rowColumn and colColumn values. Either
// column may have any role: numeric codes such as education-num are discrete
// for this purpose.
func (p *Profiler) CrossTabulate(rowColumn, colColumn string) (*CrossTab, error) {
	rows, err := p.values(rowColumn)
	if err != nil {
		return nil, err
	}
	cols, err := p.values(colColumn)
	if err != nil {
		return nil, err
	}
	type key struct{ r, c string }
	cells := map[key]int{}
	rowSet := map[string]struct{}{}
	colSet := map[string]struct{}{}
	for i := range rows {
		if rows[i].Missing || cols[i].Missing {
			continue
		}
		k := key{rows[i].Raw, cols[i].Raw}
		cells[k]++
		rowSet[k.r] = struct{}{}
		colSet[k.c] = struct{}{}
	}
	ct := &CrossTab{RowColumn: rowColumn, ColColumn: colColumn}
	for r := range rowSet {
		ct.RowLabels = append(ct.RowLabels, r)
	}
	for c := range colSet {
		ct.ColLabels = append(ct.ColLabels, c)
	}
	sortLabels(ct.RowLabels)
	sortLabels(ct.ColLabels)

	ct.Counts = make([][]int, len(ct.RowLabels))
	ct.RowTotals = make([]int, len(ct.RowLabels))
	ct.ColTotals = make([]int, len(ct.ColLabels))
	for i, r := range ct.RowLabels {
		ct.Counts[i] = make([]int, len(ct.ColLabels))
		for j, c := range ct.ColLabels {
			n := cells[key{r, c}]
			ct.Counts[i][j] = n
			ct.RowTotals[i] += n
			ct.ColTotals[j] += n
			ct.Total += n
		}
	}
	return ct, nil
}

func indexOf(labels []string, s string) int {
	for i, l := range labels {
		if l == s {
			return i
		}
	}
	return -1
}
