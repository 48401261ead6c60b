package profile

import (
	"math"

	"github.com/KaramelBytes/colprof-cli/internal/dataset"
)

// Bin is one equal-width histogram bucket. Every bin is [Low, High) except the
// last, which also includes High.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// MaxBins bounds the bin count of a histogram.
const MaxBins = 10000

// HistogramBins splits the range of a numerical column into binCount equal-width
// bins. The counts sum to the number of non-missing values.
func (p *Profiler) HistogramBins(column string, binCount int) ([]Bin, error) {
	if err := checkBins(p.table.Name(), column, binCount); err != nil {
		return nil, err
	}
	nums, _, err := p.numbers(column)
	if err != nil {
		return nil, err
	}
	lo, hi := valueRange(nums)
	return histogram(nums, lo, hi, binCount), nil
}

func checkBins(path, column string, n int) error {
	if n < 1 || n > MaxBins {
		return dataset.Errorf(dataset.ReasonMalformed, path, column, "bin count %d outside [1, %d]", n, MaxBins)
	}
	return nil
}

func valueRange(nums []float64) (lo, hi float64) {
	lo, hi = nums[0], nums[0]
	for _, x := range nums[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

// histogram buckets nums into n bins spanning [lo, hi]. A zero-width range is
// widened to [lo-0.5, hi+0.5]. lo and hi are finite, but hi-lo may still
// overflow, so positions are computed on halved values in that case.
func histogram(nums []float64, lo, hi float64, n int) []Bin {
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	span := hi - lo
	wide := math.IsInf(span, 0)
	edge := func(i int) float64 {
		t := float64(i) / float64(n)
		if wide {
			return lo*(1-t) + hi*t
		}
		return lo + t*span
	}
	frac := func(x float64) float64 {
		if wide {
			return (x/2 - lo/2) / (hi/2 - lo/2)
		}
		return (x - lo) / span
	}

	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Low = edge(i)
		bins[i].High = edge(i + 1)
	}
	bins[n-1].High = hi
	for _, x := range nums {
		if x < lo || x > hi {
			continue
		}
		f := frac(x) * float64(n)
		i := n - 1
		switch {
		case math.IsNaN(f) || f < 0:
			i = 0
		case f < float64(n):
			i = int(f)
		}
		// float rounding can place x just across an edge
		for i > 0 && x < bins[i].Low {
			i--
		}
		for i < n-1 && x >= bins[i].High {
			i++
		}
		bins[i].Count++
	}
	return bins
}
