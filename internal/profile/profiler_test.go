package profile

import (
	"math"
	"testing"

	"github.com/KaramelBytes/colprof-cli/internal/dataset"
	"github.com/KaramelBytes/colprof-cli/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var censusColumns = []string{"age", "education-num", "hours-per-week", "education", "sex", "class"}

// censusRecords mirrors the adult census layout: education and education-num
// encode the same thing.
var censusRecords = []map[string]string{
	{"age": "25", "education-num": "7", "hours-per-week": "40", "education": "11th", "sex": "Male", "class": "<=50K"},
	{"age": "38", "education-num": "9", "hours-per-week": "50", "education": "HS-grad", "sex": "Male", "class": "<=50K"},
	{"age": "28", "education-num": "12", "hours-per-week": "40", "education": "Assoc-acdm", "sex": "Male", "class": ">50K"},
	{"age": "44", "education-num": "10", "hours-per-week": "40", "education": "Some-college", "sex": "Male", "class": ">50K"},
	{"age": "18", "education-num": "10", "hours-per-week": "30", "education": "Some-college", "sex": "Female", "class": "<=50K"},
	{"age": "34", "education-num": "6", "hours-per-week": "30", "education": "10th", "sex": "Male", "class": "<=50K"},
	{"age": "29", "education-num": "9", "hours-per-week": "40", "education": "HS-grad", "sex": "Female", "class": "<=50K"},
	{"age": "63", "education-num": "15", "hours-per-week": "32", "education": "Prof-school", "sex": "Male", "class": ">50K"},
	{"age": "24", "education-num": "10", "hours-per-week": "40", "education": "Some-college", "sex": "Female", "class": "<=50K"},
	{"age": "55", "education-num": "4", "hours-per-week": "", "education": "7th-8th", "sex": "Male", "class": "<=50K"},
}

func censusSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.FromFile(schema.File{
		Numerical:   []string{"age", "education-num", "hours-per-week"},
		Categorical: []string{"education", "sex"},
		Target:      "class",
	})
	require.NoError(t, err)
	return s
}

func newCensusProfiler(t *testing.T) *Profiler {
	t.Helper()
	tbl, err := dataset.FromRecords("adult-census.csv", censusColumns, censusRecords)
	require.NoError(t, err)
	p, err := New(tbl, censusSchema(t))
	require.NoError(t, err)
	return p
}

func TestNewRequiresSchemaColumns(t *testing.T) {
	tbl, err := dataset.FromRecords("t", []string{"age"}, []map[string]string{{"age": "1"}})
	require.NoError(t, err)
	_, err = New(tbl, censusSchema(t))
	assert.True(t, dataset.IsReason(err, dataset.ReasonMissingColumn), "got %v", err)
}

func TestValueCountsOrdering(t *testing.T) {
	tbl, err := dataset.FromRecords("t", []string{"sex"}, []map[string]string{
		{"sex": "Male"}, {"sex": "Female"}, {"sex": "Male"},
	})
	require.NoError(t, err)
	s, err := schema.New("t", schema.Column{Name: "sex", Role: schema.Categorical})
	require.NoError(t, err)
	p, err := New(tbl, s)
	require.NoError(t, err)

	vc, err := p.ValueCounts("sex")
	require.NoError(t, err)
	assert.Equal(t, []ValueCount{{Value: "Male", Count: 2}, {Value: "Female", Count: 1}}, vc.Counts)
	assert.Equal(t, 2, vc.Get("Male"))
	assert.Equal(t, 0, vc.Get("Other"))
	assert.Len(t, vc.Top(1), 1)
}

func TestValueCountsSumToRows(t *testing.T) {
	p := newCensusProfiler(t)
	for _, c := range []string{"education", "sex", "class"} {
		vc, err := p.ValueCounts(c)
		require.NoError(t, err, c)
		assert.Equal(t, p.Table().Len(), vc.Total()+vc.Missing, c)
		assert.Zero(t, vc.Missing, c)
	}
	vc, err := p.ValueCounts("class")
	require.NoError(t, err)
	assert.Equal(t, "<=50K", vc.Counts[0].Value)
	assert.Equal(t, 7, vc.Counts[0].Count)
}

func TestValueCountsRejectsNumerical(t *testing.T) {
	p := newCensusProfiler(t)
	_, err := p.ValueCounts("age")
	require.Error(t, err)
	assert.True(t, dataset.IsReason(err, dataset.ReasonRoleMismatch), "got %v", err)

	_, err = p.ValueCounts("race")
	assert.True(t, dataset.IsReason(err, dataset.ReasonMissingColumn), "got %v", err)
}

func TestCrossTabulateRedundantColumns(t *testing.T) {
	p := newCensusProfiler(t)
	ct, err := p.CrossTabulate("education", "education-num")
	require.NoError(t, err)

	for i, label := range ct.RowLabels {
		assert.Equal(t, 1, ct.NonZero(i), "row %s", label)
	}
	assert.True(t, ct.IsOneToOne())
	assert.True(t, ct.IsBijective())
	assert.Equal(t, []string{"4", "6", "7", "9", "10", "12", "15"}, ct.ColLabels, "numeric labels sort numerically")
	assert.Equal(t, 3, ct.Count("Some-college", "10"))
	assert.Equal(t, 0, ct.Count("Some-college", "9"))
	assert.Equal(t, "9", ct.Mapping()["HS-grad"])
	assert.Equal(t, p.Table().Len(), ct.Total)

	sum := 0
	for _, n := range ct.RowTotals {
		sum += n
	}
	assert.Equal(t, ct.Total, sum)
}

func TestCrossTabulateNotOneToOne(t *testing.T) {
	p := newCensusProfiler(t)
	ct, err := p.CrossTabulate("sex", "class")
	require.NoError(t, err)
	assert.False(t, ct.IsOneToOne())
	assert.Nil(t, ct.Mapping())
	assert.Equal(t, []string{"Female", "Male"}, ct.RowLabels)
	assert.Equal(t, 3, ct.Count("Female", "<=50K"))
}

func TestCrossTabulateSkipsMissing(t *testing.T) {
	p := newCensusProfiler(t)
	ct, err := p.CrossTabulate("hours-per-week", "class")
	require.NoError(t, err)
	assert.Equal(t, p.Table().Len()-1, ct.Total)
}

func TestHistogramBinsSumToNonMissing(t *testing.T) {
	p := newCensusProfiler(t)
	for _, c := range []string{"age", "education-num", "hours-per-week"} {
		bins, err := p.HistogramBins(c, 4)
		require.NoError(t, err, c)
		require.Len(t, bins, 4)
		vals, err := p.Table().Column(c)
		require.NoError(t, err)
		want := 0
		for _, v := range vals {
			if !v.Missing {
				want++
			}
		}
		got := 0
		for _, b := range bins {
			got += b.Count
		}
		assert.Equal(t, want, got, c)
	}
}

func TestHistogramEdges(t *testing.T) {
	bins := histogram([]float64{0, 1, 2, 3, 4}, 0, 4, 2)
	assert.Equal(t, []Bin{{Low: 0, High: 2, Count: 2}, {Low: 2, High: 4, Count: 3}}, bins)

	flat := histogram([]float64{5, 5}, 5, 5, 1)
	assert.Equal(t, []Bin{{Low: 4.5, High: 5.5, Count: 2}}, flat)

	tenths := histogram([]float64{0.1, 0.2, 0.3, 0.7, 1.0}, 0.1, 1.0, 3)
	total := 0
	for _, b := range tenths {
		total += b.Count
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 1.0, tenths[2].High)
}

func TestHistogramErrors(t *testing.T) {
	p := newCensusProfiler(t)

	_, err := p.HistogramBins("sex", 10)
	assert.True(t, dataset.IsReason(err, dataset.ReasonRoleMismatch), "got %v", err)

	_, err = p.HistogramBins("age", 0)
	assert.True(t, dataset.IsReason(err, dataset.ReasonMalformed), "got %v", err)

	tbl, err := dataset.FromRecords("t", []string{"age"}, []map[string]string{{"age": "30"}, {"age": "thirty"}})
	require.NoError(t, err)
	s, err := schema.New("t", schema.Column{Name: "age", Role: schema.Numerical})
	require.NoError(t, err)
	bad, err := New(tbl, s)
	require.NoError(t, err)
	_, err = bad.HistogramBins("age", 3)
	require.Error(t, err)
	assert.True(t, dataset.IsReason(err, dataset.ReasonTypeMismatch), "got %v", err)
	assert.Contains(t, err.Error(), `"thirty"`)

	empty, err := New(tbl.Head(0), s)
	require.NoError(t, err)
	_, err = empty.HistogramBins("age", 3)
	assert.True(t, dataset.IsReason(err, dataset.ReasonEmptyTable), "got %v", err)
}

func TestHistogramExtremeRange(t *testing.T) {
	tbl, err := dataset.FromRecords("t", []string{"v"}, []map[string]string{
		{"v": "-1e308"}, {"v": "0"}, {"v": "1e308"},
	})
	require.NoError(t, err)
	s, err := schema.New("t", schema.Column{Name: "v", Role: schema.Numerical})
	require.NoError(t, err)
	p, err := New(tbl, s)
	require.NoError(t, err)

	bins, err := p.HistogramBins("v", 4)
	require.NoError(t, err)
	require.Len(t, bins, 4)
	assert.Equal(t, -1e308, bins[0].Low)
	assert.Equal(t, 1e308, bins[3].High)
	counts := make([]int, len(bins))
	for i, b := range bins {
		assert.False(t, math.IsNaN(b.Low) || math.IsInf(b.Low, 0), "bin %d low %v", i, b.Low)
		assert.Less(t, b.Low, b.High)
		counts[i] = b.Count
	}
	assert.Equal(t, []int{1, 0, 1, 1}, counts)
}

func TestHistogramBinCountBounds(t *testing.T) {
	p := newCensusProfiler(t)

	_, err := p.HistogramBins("age", MaxBins+1)
	assert.True(t, dataset.IsReason(err, dataset.ReasonMalformed), "got %v", err)
	bins, err := p.HistogramBins("age", MaxBins)
	require.NoError(t, err)
	assert.Len(t, bins, MaxBins)

	_, err = p.PairGrid(PairOptions{XVars: []string{"age"}, Hue: "class", Bins: MaxBins + 1})
	assert.True(t, dataset.IsReason(err, dataset.ReasonMalformed), "got %v", err)
}

func TestOperationsAreIdempotent(t *testing.T) {
	p := newCensusProfiler(t)

	vc1, err := p.ValueCounts("education")
	require.NoError(t, err)
	vc2, err := p.ValueCounts("education")
	require.NoError(t, err)
	assert.Equal(t, vc1, vc2)

	ct1, err := p.CrossTabulate("education", "education-num")
	require.NoError(t, err)
	ct2, err := p.CrossTabulate("education", "education-num")
	require.NoError(t, err)
	assert.Equal(t, ct1, ct2)

	h1, err := p.HistogramBins("age", 5)
	require.NoError(t, err)
	h2, err := p.HistogramBins("age", 5)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestDescribe(t *testing.T) {
	tbl, err := dataset.FromRecords("t", []string{"x"}, []map[string]string{
		{"x": "3"}, {"x": "1"}, {"x": ""}, {"x": "5"}, {"x": "2"}, {"x": "4"},
	})
	require.NoError(t, err)
	s, err := schema.New("t", schema.Column{Name: "x", Role: schema.Numerical})
	require.NoError(t, err)
	p, err := New(tbl, s)
	require.NoError(t, err)

	d, err := p.Describe("x")
	require.NoError(t, err)
	assert.Equal(t, 5, d.Count)
	assert.Equal(t, 1, d.Missing)
	assert.InDelta(t, 3.0, d.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), d.Std, 1e-12)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 2.0, d.Q25)
	assert.Equal(t, 3.0, d.Median)
	assert.Equal(t, 4.0, d.Q75)
	assert.Equal(t, 5.0, d.Max)

	all, err := p.DescribeAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOutliers(t *testing.T) {
	tbl, err := dataset.FromRecords("t", []string{"x"}, []map[string]string{
		{"x": "10"}, {"x": "11"}, {"x": "9.5"}, {"x": "10.5"}, {"x": "9.8"},
		{"x": "10.2"}, {"x": "8.8"}, {"x": "9.7"}, {"x": "50"},
	})
	require.NoError(t, err)
	s, err := schema.New("t", schema.Column{Name: "x", Role: schema.Numerical})
	require.NoError(t, err)
	p, err := New(tbl, s)
	require.NoError(t, err)

	o, err := p.Outliers("x", 0)
	require.NoError(t, err)
	assert.Equal(t, 3.5, o.Threshold)
	assert.Equal(t, 1, o.Count)
	assert.InDelta(t, 10.0, o.Median, 1e-12)
	assert.Greater(t, o.MaxAbsZ, 3.5)
}

func TestCorrelations(t *testing.T) {
	tbl, err := dataset.FromRecords("t", []string{"a", "b", "c"}, []map[string]string{
		{"a": "1", "b": "2", "c": "5"},
		{"a": "2", "b": "4", "c": "3"},
		{"a": "3", "b": "6", "c": "4"},
		{"a": "4", "b": "", "c": "1"},
	})
	require.NoError(t, err)
	s, err := schema.FromFile(schema.File{Numerical: []string{"a", "b", "c"}})
	require.NoError(t, err)
	p, err := New(tbl, s)
	require.NoError(t, err)

	m, err := p.Correlations()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, m.Columns)
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-9)
	assert.Equal(t, m.Values[0][2], m.Values[2][0])
	assert.Equal(t, 1.0, m.Values[2][2])

	top := m.TopPairs(1)
	require.Len(t, top, 1)
	assert.Equal(t, "a", top[0].A)
	assert.Equal(t, "b", top[0].B)
}

func TestRedundancies(t *testing.T) {
	p := newCensusProfiler(t)
	red, err := p.Redundancies(0)
	require.NoError(t, err)
	require.Len(t, red, 1)
	assert.Equal(t, Redundancy{A: "education-num", B: "education", Levels: 7}, red[0])

	none, err := p.Redundancies(3)
	require.NoError(t, err)
	assert.Empty(t, none, "education-num has more than 3 levels")
}

func TestPairGrid(t *testing.T) {
	p := newCensusProfiler(t)
	g, err := p.PairGrid(PairOptions{
		XVars:   []string{"age", "education-num", "hours-per-week"},
		Hue:     "class",
		Samples: 8,
		Bins:    4,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, g.Samples)
	assert.Equal(t, []string{"<=50K", ">50K"}, g.HueLevels)
	assert.Len(t, g.Diagonal, 3)
	assert.Len(t, g.Panels, 6)

	panel, err := g.Panel("age", "hours-per-week")
	require.NoError(t, err)
	total := 0
	for _, s := range panel.Series {
		total += s.Len()
	}
	assert.Equal(t, 8, total)

	for _, d := range g.Diagonal {
		n := 0
		for _, s := range d.Series {
			for _, b := range s.Bins {
				n += b.Count
			}
		}
		assert.Equal(t, 8, n, d.Var)
	}

	_, err = g.Panel("age", "age")
	assert.Error(t, err)
}

func TestPairGridXY(t *testing.T) {
	p := newCensusProfiler(t)
	g, err := p.PairGrid(PairOptions{XVars: []string{"age"}, YVars: []string{"hours-per-week"}, Hue: "class"})
	require.NoError(t, err)
	assert.Empty(t, g.Diagonal)
	require.Len(t, g.Panels, 1)
	// one row lacks hours-per-week
	total := 0
	for _, s := range g.Panels[0].Series {
		total += s.Len()
	}
	assert.Equal(t, 9, total)

	_, err = p.PairGrid(PairOptions{XVars: []string{"age"}, Hue: "hours-per-week"})
	assert.True(t, dataset.IsReason(err, dataset.ReasonRoleMismatch), "got %v", err)

	_, err = p.PairGrid(PairOptions{XVars: []string{"sex"}, Hue: "class"})
	assert.True(t, dataset.IsReason(err, dataset.ReasonRoleMismatch), "got %v", err)
}

func TestPointSeriesStats(t *testing.T) {
	s := PointSeries{X: []float64{1, 2, 3}, Y: []float64{2, 4, 6}}
	mx, my := s.Mean()
	assert.Equal(t, 2.0, mx)
	assert.Equal(t, 4.0, my)
	assert.InDelta(t, 1.0, s.Pearson(), 1e-12)

	mx, _ = PointSeries{}.Mean()
	assert.True(t, math.IsNaN(mx))
}
