package station

import (
	"sort"
	"time"

	"bikeusage/domain/core"
)

// DayType restricts observations to weekdays, weekends or neither.
type DayType int

const (
	AllDays DayType = iota
	Weekdays
	Weekends
)

func (d DayType) String() string {
	switch d {
	case Weekdays:
		return "weekday"
	case Weekends:
		return "weekend"
	default:
		return "all"
	}
}

// Matches reports whether t's weekday passes the filter. Saturday and Sunday are weekend days.
func (d DayType) Matches(t time.Time) bool {
	wd := t.UTC().Weekday()
	weekend := wd == time.Saturday || wd == time.Sunday
	switch d {
	case Weekdays:
		return !weekend
	case Weekends:
		return weekend
	default:
		return true
	}
}

// Query selects a subset of a count series. The zero value keeps everything.
type Query struct {
	// Interval restricts to [Start, End) when set.
	Interval *core.Interval
	DayType  DayType
	// Dates keeps only observations inside one of the ranges, or outside all of
	// them when ExcludeDates is set. Nil means no date filter.
	Dates        []core.DateRange
	ExcludeDates bool
	// Hours keeps only hours-of-day in [HourFrom, HourTo) when HourTo > HourFrom.
	HourFrom int
	HourTo   int
}

// WithDayType returns a copy of q restricted to d.
func (q Query) WithDayType(d DayType) Query {
	q.DayType = d
	return q
}

// Keep reports whether one observation timestamp survives the query.
func (q Query) Keep(t time.Time) bool {
	if q.Interval != nil && !q.Interval.Contains(t) {
		return false
	}
	if !q.DayType.Matches(t) {
		return false
	}
	if q.HourTo > q.HourFrom {
		h := t.UTC().Hour()
		if h < q.HourFrom || h >= q.HourTo {
			return false
		}
	}
	if q.Dates != nil {
		in := core.InAnyRange(t, q.Dates)
		if in == q.ExcludeDates {
			return false
		}
	}
	return true
}

// Apply filters the series in order: interval, day type, hour window, date ranges.
// The input is never mutated.
func (q Query) Apply(s CountSeries) CountSeries {
	out := make([]Observation, 0, len(s.Observations))
	for _, o := range s.Observations {
		if q.Keep(o.Time) {
			out = append(out, o)
		}
	}
	return s.WithObservations(out)
}

// Normalize sorts observations by time and drops duplicate timestamps, keeping the first.
func Normalize(obs []Observation) []Observation {
	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	out := sorted[:0]
	for i, o := range sorted {
		if i > 0 && o.Time.Equal(out[len(out)-1].Time) {
			continue
		}
		out = append(out, o)
	}
	return out
}
