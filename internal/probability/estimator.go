// Package probability turns an aligned usage timeline into per-station usage
// probabilities with Wilson score intervals.
package probability

import (
	"fmt"
	"math"
	"sort"

	"bikeusage/domain/core"
	"bikeusage/domain/usage"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultAlpha gives 95% intervals.
const DefaultAlpha = 0.05

// Row is one (station, usage type) line of the probability table.
type Row struct {
	Station     string     `json:"station"`
	Usage       usage.Type `json:"usage_type"`
	K           int        `json:"k"`
	N           int        `json:"n"`
	Probability float64    `json:"probability"`
	CILow       float64    `json:"ci_low"`
	CIHigh      float64    `json:"ci_high"`
}

// Wilson returns the Wilson score interval for k successes in n trials at
// confidence 1 - alpha, clamped to [0, 1].
func Wilson(k, n int, alpha float64) (low, high float64, err error) {
	if alpha <= 0 || alpha >= 1 {
		return 0, 0, fmt.Errorf("%w: %v", core.ErrInvalidAlpha, alpha)
	}
	if n <= 0 || k < 0 || k > n {
		return 0, 0, fmt.Errorf("invalid trial counts k=%d n=%d", k, n)
	}

	z := distuv.UnitNormal.Quantile(1 - alpha/2)
	nf := float64(n)
	p := float64(k) / nf
	z2 := z * z
	denom := 1 + z2/nf
	center := (p + z2/(2*nf)) / denom
	margin := z * math.Sqrt((p*(1-p)+z2/(4*nf))/nf) / denom

	low = math.Max(0, center-margin)
	high = math.Min(1, center+margin)
	// rounding at p = 0 or 1 may leave the bound a hair off p
	low = math.Min(low, p)
	high = math.Max(high, p)
	return low, high, nil
}

// Estimate counts, per station, how many timeline months carried each usage type
// and returns one row per observed (station, type) pair ordered by station then
// type. Probabilities of one station sum to 1.
func Estimate(timeline []usage.Assignment, alpha float64) ([]Row, error) {
	counts := make(map[string]map[usage.Type]int)
	totals := make(map[string]int)
	for _, a := range timeline {
		if counts[a.Station] == nil {
			counts[a.Station] = make(map[usage.Type]int)
		}
		counts[a.Station][a.Type]++
		totals[a.Station]++
	}

	rows := make([]Row, 0, len(counts))
	for station, byType := range counts {
		n := totals[station]
		for t, k := range byType {
			low, high, err := Wilson(k, n, alpha)
			if err != nil {
				return nil, err
			}
			rows = append(rows, Row{
				Station:     station,
				Usage:       t,
				K:           k,
				N:           n,
				Probability: float64(k) / float64(n),
				CILow:       low,
				CIHigh:      high,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Station != rows[j].Station {
			return rows[i].Station < rows[j].Station
		}
		return rows[i].Usage < rows[j].Usage
	})
	return rows, nil
}

// Dominant returns the most probable usage row of every station, ordered by
// station. Equal probabilities keep the type declared first.
func Dominant(rows []Row) []Row {
	best := make(map[string]Row)
	var order []string
	for _, r := range rows {
		cur, ok := best[r.Station]
		if !ok {
			order = append(order, r.Station)
		}
		if !ok || r.Probability > cur.Probability ||
			(r.Probability == cur.Probability && r.Usage < cur.Usage) {
			best[r.Station] = r
		}
	}
	sort.Strings(order)
	out := make([]Row, len(order))
	for i, s := range order {
		out[i] = best[s]
	}
	return out
}

// Entropy returns the Shannon entropy (nats) of each station's usage distribution.
// 0 means the station always had the same usage type.
func Entropy(rows []Row) map[string]float64 {
	dist := make(map[string][]float64)
	for _, r := range rows {
		dist[r.Station] = append(dist[r.Station], r.Probability)
	}
	out := make(map[string]float64, len(dist))
	for s, p := range dist {
		// stat.Entropy returns -0 for a single certain outcome
		out[s] = math.Abs(stat.Entropy(p))
	}
	return out
}

// RankingScore orders stations within one usage type: strongly utilitarian for
// utilitarian, strongly recreational for recreational and balanced for mixed.
func RankingScore(t usage.Type, utilitarianScore float64) float64 {
	switch {
	case t == usage.Utilitarian:
		return utilitarianScore
	case t == usage.Recreational:
		return -utilitarianScore
	case t.IsMixed():
		return -math.Abs(utilitarianScore)
	}
	return 0
}

// Representatives picks up to n stations per usage type ranked by probability,
// then by RankingScore of the station's utilitarian score. Stations without a
// score rank last within equal probability.
func Representatives(rows []Row, scores map[string]float64, n int) map[usage.Type][]Row {
	byType := make(map[usage.Type][]Row)
	for _, r := range rows {
		byType[r.Usage] = append(byType[r.Usage], r)
	}

	rank := func(r Row) float64 {
		s, ok := scores[r.Station]
		if !ok {
			return math.Inf(-1)
		}
		return RankingScore(r.Usage, s)
	}

	out := make(map[usage.Type][]Row, len(byType))
	for t, list := range byType {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Probability != list[j].Probability {
				return list[i].Probability > list[j].Probability
			}
			ri, rj := rank(list[i]), rank(list[j])
			if ri != rj {
				return ri > rj
			}
			return list[i].Station < list[j].Station
		})
		if len(list) > n {
			list = list[:n]
		}
		out[t] = list
	}
	return out
}
