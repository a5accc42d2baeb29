// Package cluster groups students by knowledge-point mastery with k-means.
package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// defaultRestarts is how many random initializations each k-means run tries.
const defaultRestarts = 10

// Result is one fitted clustering.
type Result struct {
	K          int         `json:"k"`
	Labels     []int       `json:"labels"`
	Centers    [][]float64 `json:"centers"`
	Silhouette float64     `json:"silhouette"`
	Inertia    float64     `json:"inertia"`
}

// KMeans runs Lloyd's algorithm on row-major data with restarts random
// initializations, keeping the fit with the lowest inertia. The seed pins the
// initialization so runs are reproducible.
func KMeans(data [][]float64, k, restarts int, seed int64) Result {
	best := Result{K: k, Inertia: math.Inf(1)}
	if len(data) == 0 || k < 1 || k > len(data) {
		best.Inertia = 0
		return best
	}
	if restarts < 1 {
		restarts = defaultRestarts
	}

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < restarts; i++ {
		r := lloyd(data, k, rng)
		if r.Inertia < best.Inertia {
			best = r
		}
	}
	best.Silhouette = silhouette(data, best.Labels, best.K)
	return best
}

func lloyd(data [][]float64, k int, rng *rand.Rand) Result {
	dim := len(data[0])

	// Forgy init: k distinct rows as starting centers.
	perm := rng.Perm(len(data))
	centers := make([][]float64, k)
	for i := 0; i < k; i++ {
		centers[i] = append([]float64(nil), data[perm[i]]...)
	}

	labels := make([]int, len(data))
	for iter := 0; iter < 300; iter++ {
		changed := false
		for i, row := range data {
			c := nearest(row, centers)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, row := range data {
			counts[labels[i]]++
			floats.Add(sums[labels[i]], row)
		}
		for c := range centers {
			if counts[c] == 0 {
				// Re-seed an empty cluster from a random row.
				centers[c] = append([]float64(nil), data[rng.Intn(len(data))]...)
				continue
			}
			floats.ScaleTo(centers[c], 1/float64(counts[c]), sums[c])
		}
	}

	var inertia float64
	for i, row := range data {
		inertia += sqDist(row, centers[labels[i]])
	}
	return Result{K: k, Labels: labels, Centers: centers, Inertia: inertia}
}

func nearest(row []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		if d := sqDist(row, center); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// silhouette is the mean silhouette coefficient over all points. Singleton
// clusters contribute 0 for their members.
func silhouette(data [][]float64, labels []int, k int) float64 {
	if len(data) < 2 || k < 2 {
		return 0
	}

	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}

	var total float64
	for i, row := range data {
		own := labels[i]
		if counts[own] < 2 {
			continue
		}

		sums := make([]float64, k)
		for j, other := range data {
			if i == j {
				continue
			}
			sums[labels[j]] += math.Sqrt(sqDist(row, other))
		}

		a := sums[own] / float64(counts[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || counts[c] == 0 {
				continue
			}
			if m := sums[c] / float64(counts[c]); m < b {
				b = m
			}
		}
		if math.IsInf(b, 1) {
			continue
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(len(data))
}
