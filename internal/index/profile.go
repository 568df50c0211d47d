// Package index turns a station's count series into normalized cyclical profiles:
// the mean count per hour-of-day, weekday or month divided by the mean daily count
// of the same filtered data.
package index

import (
	"fmt"
	"time"
)

// Kind is the cyclical time unit a profile is keyed by.
type Kind int

const (
	HourOfDay   Kind = iota // units 0..23
	DayOfWeek               // units 1..7, Monday = 1
	MonthOfYear             // units 1..12
)

func (k Kind) String() string {
	switch k {
	case HourOfDay:
		return "hourly"
	case DayOfWeek:
		return "daily"
	case MonthOfYear:
		return "monthly"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Units returns the number of cyclical units a complete profile of this kind holds.
func (k Kind) Units() int {
	switch k {
	case HourOfDay:
		return 24
	case DayOfWeek:
		return 7
	case MonthOfYear:
		return 12
	default:
		return 0
	}
}

// UnitOf returns the cyclical unit t falls into.
func (k Kind) UnitOf(t time.Time) int {
	u := t.UTC()
	switch k {
	case HourOfDay:
		return u.Hour()
	case DayOfWeek:
		wd := int(u.Weekday())
		if wd == 0 {
			return 7
		}
		return wd
	case MonthOfYear:
		return int(u.Month())
	default:
		return -1
	}
}

// Entry is one unit of a profile.
type Entry struct {
	Unit    int     `json:"unit"`
	Mean    float64 `json:"mean_count"`
	Index   float64 `json:"index"`
	Samples int     `json:"samples"`
}

// Profile maps cyclical units to normalized intensity. Units without data are
// absent rather than zero; Entries is sorted by Unit.
type Profile struct {
	Kind      Kind    `json:"kind"`
	DailyMean float64 `json:"daily_mean"`
	Entries   []Entry `json:"entries"`
}

// Len returns the number of units present.
func (p Profile) Len() int {
	return len(p.Entries)
}

// Complete reports whether every unit of the profile's kind is present.
func (p Profile) Complete() bool {
	return len(p.Entries) == p.Kind.Units()
}

// Value returns the index of unit; ok is false when the unit is absent.
func (p Profile) Value(unit int) (float64, bool) {
	for _, e := range p.Entries {
		if e.Unit == unit {
			return e.Index, true
		}
	}
	return 0, false
}

// Has reports whether any of units is present.
func (p Profile) Has(units ...int) bool {
	for _, u := range units {
		if _, ok := p.Value(u); ok {
			return true
		}
	}
	return false
}

// Window returns entries whose unit lies in [from, to).
func (p Profile) Window(from, to int) []Entry {
	var out []Entry
	for _, e := range p.Entries {
		if e.Unit >= from && e.Unit < to {
			out = append(out, e)
		}
	}
	return out
}

// Values returns the index values in unit order.
func (p Profile) Values() []float64 {
	out := make([]float64, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Index
	}
	return out
}
