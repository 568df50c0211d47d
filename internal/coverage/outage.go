// Package coverage measures how complete each station's hourly record is.
package coverage

import (
	"sort"
	"time"

	"bikeusage/domain/station"
)

// Outage is the missing-hour share of one station between its first and last
// observation.
type Outage struct {
	Station  string    `json:"station"`
	First    time.Time `json:"first"`
	Last     time.Time `json:"last"`
	Expected int       `json:"expected_hours"`
	Observed int       `json:"observed_hours"`
	Missing  int       `json:"missing_hours"`
	Rate     float64   `json:"outage_rate"`
}

// Measure counts the hourly slots of an hourly series. ok is false for an empty
// series.
func Measure(s station.CountSeries) (Outage, bool) {
	first, last, ok := s.Span()
	if !ok {
		return Outage{}, false
	}
	first = first.Truncate(time.Hour)
	last = last.Truncate(time.Hour)

	seen := make(map[time.Time]struct{}, s.Len())
	for _, o := range s.Observations {
		seen[o.Time.UTC().Truncate(time.Hour)] = struct{}{}
	}
	expected := int(last.Sub(first)/time.Hour) + 1
	missing := expected - len(seen)
	if missing < 0 {
		missing = 0
	}
	return Outage{
		Station:  s.Station,
		First:    first,
		Last:     last,
		Expected: expected,
		Observed: len(seen),
		Missing:  missing,
		Rate:     float64(missing) / float64(expected),
	}, true
}

// Rank sorts outages by rate, worst first, then by station.
func Rank(outages []Outage) {
	sort.SliceStable(outages, func(i, j int) bool {
		if outages[i].Rate != outages[j].Rate {
			return outages[i].Rate > outages[j].Rate
		}
		return outages[i].Station < outages[j].Station
	})
}
