// Package stats computes group descriptives and between-group tests over the
// flattened behavior and mastery tables.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SignificanceLevel marks a comparison as notable in reports.
const SignificanceLevel = 0.05

// Descriptive holds mean and sample standard deviation for one feature
// within one group.
type Descriptive struct {
	Feature string  `json:"feature"`
	Group   string  `json:"group"`
	N       int     `json:"n"`
	Mean    float64 `json:"mean"`
	Std     float64 `json:"std"`
}

// TTestResult is a Welch two-sample t-test between two groups on one feature.
type TTestResult struct {
	Feature     string  `json:"feature"`
	GroupA      string  `json:"group_a"`
	GroupB      string  `json:"group_b"`
	NA          int     `json:"n_a"`
	NB          int     `json:"n_b"`
	MeanA       float64 `json:"mean_a"`
	MeanB       float64 `json:"mean_b"`
	T           float64 `json:"t"`
	DF          float64 `json:"df"`
	P           float64 `json:"p"`
	Significant bool    `json:"significant"`
}

// Describe summarizes one feature's values under a group label.
func Describe(feature, group string, values []float64) Descriptive {
	d := Descriptive{Feature: feature, Group: group, N: len(values)}
	if len(values) == 0 {
		return d
	}
	d.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		d.Std = stat.StdDev(values, nil)
	}
	return d
}

// Standardize z-scores a column in place semantics-free: it returns a new
// slice together with the mean and std used, so callers can invert the
// transform later. A zero-variance column maps to all zeros.
func Standardize(values []float64) (scaled []float64, mean, std float64) {
	scaled = make([]float64, len(values))
	if len(values) == 0 {
		return scaled, 0, 0
	}
	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	if std == 0 {
		return scaled, mean, 0
	}
	for i, v := range values {
		scaled[i] = (v - mean) / std
	}
	return scaled, mean, std
}

// WelchT runs Welch's two-sample t-test. It returns a zero-valued result when
// either sample is too small or both variances vanish.
func WelchT(feature, groupA, groupB string, a, b []float64) TTestResult {
	r := TTestResult{Feature: feature, GroupA: groupA, GroupB: groupB, NA: len(a), NB: len(b), P: 1}
	if len(a) < 2 || len(b) < 2 {
		return r
	}
	r.MeanA = stat.Mean(a, nil)
	r.MeanB = stat.Mean(b, nil)
	varA := stat.Variance(a, nil)
	varB := stat.Variance(b, nil)

	sa := varA / float64(len(a))
	sb := varB / float64(len(b))
	se := math.Sqrt(sa + sb)
	if se == 0 {
		return r
	}
	r.T = (r.MeanA - r.MeanB) / se

	// Welch–Satterthwaite degrees of freedom.
	r.DF = (sa + sb) * (sa + sb) /
		(sa*sa/float64(len(a)-1) + sb*sb/float64(len(b)-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: r.DF}
	r.P = 2 * dist.CDF(-math.Abs(r.T))
	r.Significant = r.P < SignificanceLevel
	return r
}

// Tercile labels for SplitTerciles.
const (
	TercileLow  = "low"
	TercileMid  = "mid"
	TercileHigh = "high"
)

// SplitTerciles partitions indices of values into low/mid/high thirds by
// rank. Ties fall into the lower tercile; the split is stable in input order
// within each group.
func SplitTerciles(values []float64) map[string][]int {
	groups := map[string][]int{TercileLow: nil, TercileMid: nil, TercileHigh: nil}
	n := len(values)
	if n == 0 {
		return groups
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return values[idx[i]] < values[idx[j]] })

	lo := n / 3
	hi := n - n/3
	for rank, i := range idx {
		switch {
		case rank < lo:
			groups[TercileLow] = append(groups[TercileLow], i)
		case rank < hi:
			groups[TercileMid] = append(groups[TercileMid], i)
		default:
			groups[TercileHigh] = append(groups[TercileHigh], i)
		}
	}
	return groups
}
