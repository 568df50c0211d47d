package index

import (
	"fmt"
	"sort"
	"time"

	"bikeusage/domain/core"
	"bikeusage/domain/station"

	"github.com/montanaflynn/stats"
)

// Build computes a profile of kind from series after applying q.
//
// The mean daily count used as denominator is taken over the same filtered rows
// as the per-unit means. An empty filtered series, or one whose daily mean is
// zero, yields a profile with no entries.
func Build(series station.CountSeries, kind Kind, q station.Query) (Profile, error) {
	if err := checkResolution(series.Resolution, kind); err != nil {
		return Profile{}, err
	}

	filtered := q.Apply(series)
	profile := Profile{Kind: kind}
	if filtered.IsEmpty() {
		return profile, nil
	}

	days := dailyTotals(filtered.Observations)
	dailyMean, err := stats.Mean(days.values())
	if err != nil || dailyMean <= 0 {
		return profile, nil
	}
	profile.DailyMean = dailyMean

	groups := make(map[int][]float64)
	switch kind {
	case HourOfDay:
		for _, o := range filtered.Observations {
			u := kind.UnitOf(o.Time)
			groups[u] = append(groups[u], float64(o.Count))
		}
	default:
		for i, d := range days.dates {
			u := kind.UnitOf(d)
			groups[u] = append(groups[u], days.totals[i])
		}
	}

	units := make([]int, 0, len(groups))
	for u := range groups {
		units = append(units, u)
	}
	sort.Ints(units)

	for _, u := range units {
		mean, err := stats.Mean(groups[u])
		if err != nil {
			continue
		}
		profile.Entries = append(profile.Entries, Entry{
			Unit:    u,
			Mean:    mean,
			Index:   mean / dailyMean,
			Samples: len(groups[u]),
		})
	}
	return profile, nil
}

// DailyMeanCount returns the mean daily count of series after applying q.
func DailyMeanCount(series station.CountSeries, q station.Query) (float64, error) {
	if series.Resolution == station.Monthly {
		return 0, fmt.Errorf("%w: daily mean needs hourly or daily counts", core.ErrUnsupportedResolution)
	}
	filtered := q.Apply(series)
	if filtered.IsEmpty() {
		return 0, core.NewInsufficientDataError("no observations after filtering")
	}
	return stats.Mean(dailyTotals(filtered.Observations).values())
}

func checkResolution(res station.Resolution, kind Kind) error {
	switch {
	case res == station.Monthly:
		return fmt.Errorf("%w: %s profile cannot be built from monthly counts",
			core.ErrUnsupportedResolution, kind)
	case kind == HourOfDay && res == station.Daily:
		return fmt.Errorf("%w: hourly profile needs hourly counts", core.ErrUnsupportedResolution)
	case kind.Units() == 0:
		return fmt.Errorf("unknown profile kind %d", int(kind))
	}
	return nil
}

type dayTotals struct {
	dates  []time.Time
	totals []float64
}

func (d dayTotals) values() stats.Float64Data {
	return stats.Float64Data(d.totals)
}

// dailyTotals sums counts per calendar day. Observations are time-ordered, so
// each day forms one contiguous run.
func dailyTotals(obs []station.Observation) dayTotals {
	var out dayTotals
	for _, o := range obs {
		d := core.Date(o.Time)
		if n := len(out.dates); n == 0 || !out.dates[n-1].Equal(d) {
			out.dates = append(out.dates, d)
			out.totals = append(out.totals, 0)
		}
		out.totals[len(out.totals)-1] += float64(o.Count)
	}
	return out
}
