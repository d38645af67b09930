package analysis

import (
	"errors"
	"math"
	"sort"
)

// ErrNoData signals that a statistic was requested over an empty value set.
var ErrNoData = errors.New("no data")

// Bundle is the descriptive and outlier statistic set for one value set. Times are seconds.
type Bundle struct {
	N               int     `json:"n"`
	Mean            float64 `json:"mean"`
	StdDev          float64 `json:"std_dev"`
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	Q1              float64 `json:"q1"`
	Median          float64 `json:"median"`
	Q3              float64 `json:"q3"`
	IQR             float64 `json:"iqr"`
	LowerFence      float64 `json:"lower_fence"`
	UpperFence      float64 `json:"upper_fence"`
	OutlierCount    int     `json:"outlier_count"`
	NonOutlierCount int     `json:"non_outlier_count"`
	MeanAll         float64 `json:"mean_all"`
	MeanNoOutliers  float64 `json:"mean_no_outliers"`
	// Minutes derived from MeanNoOutliers and MeanAll.
	NormalizedMinutes    float64 `json:"normalized_minutes"`
	NonNormalizedMinutes float64 `json:"non_normalized_minutes"`
}

// Compute returns the statistic bundle for values, or nil when values is empty.
// Values are not modified.
func Compute(values []float64) *Bundle {
	n := len(values)
	if n == 0 {
		return nil
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	b := &Bundle{N: n, Min: sorted[0], Max: sorted[n-1]}
	b.Q1 = quantile(sorted, 0.25)
	b.Median = quantile(sorted, 0.5)
	b.Q3 = quantile(sorted, 0.75)
	b.IQR = b.Q3 - b.Q1
	b.LowerFence = b.Q1 - 1.5*b.IQR
	b.UpperFence = b.Q3 + 1.5*b.IQR

	var sum, keptSum float64
	for _, v := range sorted {
		sum += v
		if v < b.LowerFence || v > b.UpperFence {
			b.OutlierCount++
			continue
		}
		b.NonOutlierCount++
		keptSum += v
	}
	b.Mean = sum / float64(n)
	b.MeanAll = b.Mean
	if b.NonOutlierCount > 0 {
		b.MeanNoOutliers = keptSum / float64(b.NonOutlierCount)
	}
	b.StdDev = sampleStdDev(sorted, b.Mean)
	b.NonNormalizedMinutes = b.MeanAll / 60
	b.NormalizedMinutes = b.MeanNoOutliers / 60
	return b
}

// sampleStdDev uses the n-1 denominator and is 0 for fewer than two values.
func sampleStdDev(vals []float64, mean float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

// quantile interpolates linearly between the closest ranks of sorted.
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
