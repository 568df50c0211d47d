// Package labeling names aligned clusters by ranking their utilitarian score,
// DPI + WSD - SDI computed on z-scored cluster means.
package labeling

import (
	"fmt"
	"math"
	"sort"

	"bikeusage/domain/core"
	"bikeusage/domain/usage"
	"bikeusage/internal/features"
	"bikeusage/internal/tracking"

	"github.com/montanaflynn/stats"
)

// ClusterSummary holds the mean raw features of one cluster and its score.
type ClusterSummary struct {
	Cluster tracking.ClusterID `json:"cluster"`
	Size    int                `json:"size"`
	Mean    features.Vector    `json:"mean"`
	Z       features.Vector    `json:"z"`
	Score   float64            `json:"utilitarian_score"`
}

// Labeling maps every cluster of one snapshot to a usage type.
type Labeling struct {
	Summaries []ClusterSummary
	Usage     map[tracking.ClusterID]usage.Type
}

// TypeOf returns the usage type of cluster c.
func (l Labeling) TypeOf(c tracking.ClusterID) (usage.Type, bool) {
	t, ok := l.Usage[c]
	return t, ok
}

// ClusterMeans averages the raw feature rows per cluster. rows and clusters are
// parallel. The result is ordered by cluster id.
func ClusterMeans(rows [][]float64, clusters []tracking.ClusterID) ([]ClusterSummary, error) {
	if len(rows) != len(clusters) {
		return nil, fmt.Errorf("%d feature rows for %d cluster labels", len(rows), len(clusters))
	}
	sums := make(map[tracking.ClusterID][]float64)
	counts := make(map[tracking.ClusterID]int)
	for i, r := range rows {
		if len(r) != len(features.Columns) {
			return nil, fmt.Errorf("feature row %d has %d columns", i, len(r))
		}
		c := clusters[i]
		if sums[c] == nil {
			sums[c] = make([]float64, len(r))
		}
		for j, v := range r {
			sums[c][j] += v
		}
		counts[c]++
	}

	out := make([]ClusterSummary, 0, len(sums))
	for c, s := range sums {
		n := float64(counts[c])
		out = append(out, ClusterSummary{
			Cluster: c,
			Size:    counts[c],
			Mean:    features.Vector{DPI: s[0] / n, WSD: s[1] / n, SDI: s[2] / n, Valid: true},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cluster < out[j].Cluster })
	return out, nil
}

// Score z-scores each feature across the cluster means with the sample standard
// deviation and sets Score = DPI + WSD - SDI. A feature with zero spread
// contributes 0.
func Score(summaries []ClusterSummary) {
	cols := make([][]float64, len(features.Columns))
	for _, s := range summaries {
		for j, v := range s.Mean.Slice() {
			cols[j] = append(cols[j], v)
		}
	}
	z := make([][]float64, len(cols))
	for j, col := range cols {
		z[j] = zscore(col)
	}
	for i := range summaries {
		summaries[i].Z = features.Vector{DPI: z[0][i], WSD: z[1][i], SDI: z[2][i], Valid: true}
		summaries[i].Score = summaries[i].Z.UtilitarianScore()
	}
}

func zscore(col []float64) []float64 {
	out := make([]float64, len(col))
	if len(col) < 2 {
		return out
	}
	mean, _ := stats.Mean(col)
	sd, _ := stats.StandardDeviationSample(col)
	if sd == 0 || math.IsNaN(sd) {
		return out
	}
	for i, v := range col {
		out[i] = (v - mean) / sd
	}
	return out
}

// LabelByScore sorts clusters ascending by score and names them by rank for k.
// Equal scores rank the lower cluster id first.
func LabelByScore(k int, scores map[tracking.ClusterID]float64) (map[tracking.ClusterID]usage.Type, error) {
	if err := usage.ValidateK(k); err != nil {
		return nil, err
	}
	if len(scores) != k {
		return nil, fmt.Errorf("%w: %d scored clusters for k=%d", core.ErrInsufficientData, len(scores), k)
	}

	ids := make([]tracking.ClusterID, 0, len(scores))
	for c := range scores {
		ids = append(ids, c)
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := scores[ids[i]], scores[ids[j]]
		if si != sj {
			return si < sj
		}
		return ids[i] < ids[j]
	})

	out := make(map[tracking.ClusterID]usage.Type, k)
	for rank, c := range ids {
		t, err := usage.ForRank(k, rank)
		if err != nil {
			return nil, err
		}
		out[c] = t
	}
	return out, nil
}

// Label summarizes, scores and names the clusters given by rows and clusters.
func Label(k int, rows [][]float64, clusters []tracking.ClusterID) (Labeling, error) {
	summaries, err := ClusterMeans(rows, clusters)
	if err != nil {
		return Labeling{}, err
	}
	Score(summaries)
	scores := make(map[tracking.ClusterID]float64, len(summaries))
	for _, s := range summaries {
		scores[s.Cluster] = s.Score
	}
	names, err := LabelByScore(k, scores)
	if err != nil {
		return Labeling{}, err
	}
	return Labeling{Summaries: summaries, Usage: names}, nil
}

// LabelSnapshot labels an aligned snapshot from its raw station features.
func LabelSnapshot(a *tracking.AlignedSnapshot) (Labeling, error) {
	return Label(a.K(), a.Features, a.Clusters)
}

// StationUsage returns the usage type of every station in a.
func StationUsage(a *tracking.AlignedSnapshot, l Labeling) map[string]usage.Type {
	out := make(map[string]usage.Type, len(a.Stations))
	for i, name := range a.Stations {
		if t, ok := l.Usage[a.Clusters[i]]; ok {
			out[name] = t
		}
	}
	return out
}
