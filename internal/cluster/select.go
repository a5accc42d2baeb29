package cluster

import (
	"log/slog"

	"github.com/yulin/playlens/internal/behavior"
	"github.com/yulin/playlens/internal/events"
	"github.com/yulin/playlens/internal/knowledge"
	"github.com/yulin/playlens/internal/stats"
)

const (
	minK = 2
	maxK = 5

	// fixedSeed pins cluster assignments across runs on the same data.
	fixedSeed = 42
)

// Profile describes one cluster of students.
type Profile struct {
	Cluster       int                `json:"cluster"`
	Size          int                `json:"size"`
	Center        map[string]float64 `json:"center"`
	BehaviorMeans map[string]float64 `json:"behavior_means"`
}

// Assignment ties a student to a cluster.
type Assignment struct {
	Class   string `json:"Class"`
	StuNum  string `json:"StuNum"`
	Cluster int    `json:"cluster"`
}

// Report is the clustering output for one run.
type Report struct {
	K           int          `json:"k"`
	Silhouette  float64      `json:"silhouette"`
	Features    []string     `json:"features"`
	Assignments []Assignment `json:"assignments"`
	Profiles    []Profile    `json:"profiles"`
}

// Select fits k-means for k = 2..5 on standardized data and keeps the k with
// the best silhouette. Centers come back in the original feature scale.
func Select(data [][]float64, seed int64) Result {
	if len(data) == 0 {
		return Result{}
	}

	scaled, means, stds := standardize(data)

	var best Result
	hi := maxK
	if hi >= len(data) {
		hi = len(data) - 1
	}
	for k := minK; k <= hi; k++ {
		r := KMeans(scaled, k, defaultRestarts, seed)
		if best.K == 0 || r.Silhouette > best.Silhouette {
			best = r
		}
	}
	if best.K == 0 {
		return Result{}
	}

	for _, center := range best.Centers {
		for j := range center {
			center[j] = center[j]*stds[j] + means[j]
		}
	}
	return best
}

// standardize z-scores each column, returning the column means and stds so
// centers can be mapped back.
func standardize(data [][]float64) (scaled [][]float64, means, stds []float64) {
	dim := len(data[0])
	scaled = make([][]float64, len(data))
	for i := range scaled {
		scaled[i] = make([]float64, dim)
	}
	means = make([]float64, dim)
	stds = make([]float64, dim)

	col := make([]float64, len(data))
	for j := 0; j < dim; j++ {
		for i, row := range data {
			col[i] = row[j]
		}
		z, mean, std := stats.Standardize(col)
		means[j], stds[j] = mean, std
		for i, v := range z {
			scaled[i][j] = v
		}
	}
	return scaled, means, stds
}

// Analyze clusters students on per-point mastery and profiles each cluster
// with its behavior means. The knowledge and behavior slices must be aligned
// by index.
func Analyze(krecs []knowledge.Record, brecs []behavior.Record, cfg *knowledge.Config, rules *events.RuleTable) Report {
	rep := Report{}
	if len(krecs) == 0 || len(krecs) != len(brecs) {
		return rep
	}

	for _, p := range cfg.Points {
		rep.Features = append(rep.Features, p.Name)
	}

	data := make([][]float64, len(krecs))
	for i, rec := range krecs {
		row := make([]float64, len(cfg.Points))
		for j, p := range cfg.Points {
			row[j] = rec.Points[p.Name].Mastery
		}
		data[i] = row
	}

	res := Select(data, fixedSeed)
	if res.K == 0 {
		return rep
	}
	rep.K = res.K
	rep.Silhouette = res.Silhouette

	for i, rec := range krecs {
		rep.Assignments = append(rep.Assignments, Assignment{
			Class: rec.Class, StuNum: rec.StuNum, Cluster: res.Labels[i],
		})
	}

	cols := behavior.NumericColumns(rules)
	for c := 0; c < res.K; c++ {
		p := Profile{
			Cluster:       c,
			Center:        map[string]float64{},
			BehaviorMeans: map[string]float64{},
		}
		for j, name := range rep.Features {
			p.Center[name] = res.Centers[c][j]
		}

		sums := make([]float64, len(cols))
		for i, rec := range brecs {
			if res.Labels[i] != c {
				continue
			}
			p.Size++
			for j, v := range rec.NumericValues(rules) {
				sums[j] += v
			}
		}
		if p.Size > 0 {
			for j, name := range cols {
				p.BehaviorMeans[name] = sums[j] / float64(p.Size)
			}
		}
		rep.Profiles = append(rep.Profiles, p)
	}

	slog.Info("clustering done", "k", rep.K, "silhouette", rep.Silhouette, "students", len(krecs))
	return rep
}
