package accidents

import (
	"sort"

	"bikeusage/domain/accident"
)

// Bucket is an accident count for one key of an aggregation. Month buckets use
// Year and Month; hour and weekday buckets use Key.
type Bucket struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Key   int `json:"key"`
	Count int `json:"num_accidents"`
}

// BicycleOnly keeps records with a bicycle involved.
func BicycleOnly(records []accident.Record) []accident.Record {
	out := make([]accident.Record, 0, len(records))
	for _, r := range records {
		if r.IsBicycle {
			out = append(out, r)
		}
	}
	return out
}

// InRegion keeps records matching f.
func InRegion(records []accident.Record, f accident.RegionFilter) []accident.Record {
	out := make([]accident.Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// PerMonth counts records per (year, month) in calendar order.
func PerMonth(records []accident.Record) []Bucket {
	type ym struct{ y, m int }
	counts := make(map[ym]int)
	for _, r := range records {
		counts[ym{r.Year, r.Month}]++
	}
	out := make([]Bucket, 0, len(counts))
	for k, n := range counts {
		out = append(out, Bucket{Year: k.y, Month: k.m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// PerHour counts records per hour of day.
func PerHour(records []accident.Record) []Bucket {
	return perKey(records, func(r accident.Record) int { return r.Hour })
}

// PerWeekday counts records per weekday code of the source data.
func PerWeekday(records []accident.Record) []Bucket {
	return perKey(records, func(r accident.Record) int { return r.Weekday })
}

func perKey(records []accident.Record, key func(accident.Record) int) []Bucket {
	counts := make(map[int]int)
	for _, r := range records {
		counts[key(r)]++
	}
	out := make([]Bucket, 0, len(counts))
	for k, n := range counts {
		out = append(out, Bucket{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
