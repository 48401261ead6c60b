package profile

import (
	"math"
	"sort"

	"github.com/KaramelBytes/colprof-cli/internal/schema"
)

// Description holds the summary statistics of a numerical column.
type Description struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Mean    float64 `json:"mean"`
	Std     float64 `json:"std"`
	Min     float64 `json:"min"`
	Q25     float64 `json:"q25"`
	Median  float64 `json:"median"`
	Q75     float64 `json:"q75"`
	Max     float64 `json:"max"`
}

// Describe computes count, mean, sample standard deviation, min, quartiles and
// max of a numerical column. Quartiles interpolate linearly between order statistics.
func (p *Profiler) Describe(column string) (*Description, error) {
	nums, missing, err := p.numbers(column)
	if err != nil {
		return nil, err
	}
	d := &Description{Column: column, Count: len(nums), Missing: missing}

	// Welford
	var mean, m2 float64
	for i, x := range nums {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	d.Mean = mean
	if len(nums) > 1 {
		d.Std = math.Sqrt(m2 / float64(len(nums)-1))
	}

	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)
	d.Min = sorted[0]
	d.Max = sorted[len(sorted)-1]
	d.Q25 = quantile(sorted, 0.25)
	d.Median = quantile(sorted, 0.5)
	d.Q75 = quantile(sorted, 0.75)
	return d, nil
}

// DescribeAll describes every numerical column in schema order.
func (p *Profiler) DescribeAll() ([]*Description, error) {
	var out []*Description
	for _, c := range p.schema.ByRole(schema.Numerical) {
		d, err := p.Describe(c)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// OutlierSummary counts values whose robust z-score (median and MAD based)
// exceeds Threshold in absolute value.
type OutlierSummary struct {
	Column    string  `json:"column"`
	Threshold float64 `json:"threshold"`
	Median    float64 `json:"median"`
	MAD       float64 `json:"mad"`
	Count     int     `json:"count"`
	MaxAbsZ   float64 `json:"max_abs_z"`
}

// Outliers scores a numerical column with z = 0.6745*(x-median)/MAD. A zero MAD
// yields no outliers. threshold <= 0 means 3.5.
func (p *Profiler) Outliers(column string, threshold float64) (*OutlierSummary, error) {
	nums, _, err := p.numbers(column)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 {
		threshold = 3.5
	}
	median, mad := medianMAD(nums)
	s := &OutlierSummary{Column: column, Threshold: threshold, Median: median, MAD: mad}
	if mad == 0 {
		return s, nil
	}
	for _, v := range nums {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > threshold {
			s.Count++
		}
		if az > s.MaxAbsZ {
			s.MaxAbsZ = az
		}
	}
	return s, nil
}

func medianMAD(vals []float64) (median, mad float64) {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	return median, quantile(dev, 0.5)
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
