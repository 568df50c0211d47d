// Package weather turns joined weather columns into day intervals and measures
// how strongly a station's counts react to them.
package weather

import (
	"fmt"
	"time"

	"bikeusage/domain/core"
	"bikeusage/domain/station"
)

// Bin is a named predicate over a day's aggregated weather.
type Bin struct {
	Name  string
	Match func(w station.Weather) bool
}

// Wet matches days with any precipitation.
func Wet() Bin {
	return Bin{Name: "wet", Match: func(w station.Weather) bool { return w.Precipitation > 0 }}
}

// Dry matches days without precipitation.
func Dry() Bin {
	return Bin{Name: "dry", Match: func(w station.Weather) bool { return w.Precipitation <= 0 }}
}

// Snowy matches days with snowfall.
func Snowy() Bin {
	return Bin{Name: "snow", Match: func(w station.Weather) bool { return w.Snowfall > 0 }}
}

// TemperatureBetween matches days whose mean temperature lies in [low, high).
func TemperatureBetween(low, high float64) Bin {
	return Bin{
		Name:  fmt.Sprintf("temp_%g_%g", low, high),
		Match: func(w station.Weather) bool { return w.Temperature >= low && w.Temperature < high },
	}
}

// Windy matches days whose mean wind speed reaches speed.
func Windy(speed float64) Bin {
	return Bin{
		Name:  fmt.Sprintf("wind_%g", speed),
		Match: func(w station.Weather) bool { return w.WindSpeed >= speed },
	}
}

// ParseBin resolves a bin name used on the command line: wet, dry, snow,
// temp:<low>:<high> or wind:<speed>.
func ParseBin(s string) (Bin, error) {
	switch s {
	case "wet":
		return Wet(), nil
	case "dry":
		return Dry(), nil
	case "snow":
		return Snowy(), nil
	}
	var low, high, speed float64
	if n, _ := fmt.Sscanf(s, "temp:%g:%g", &low, &high); n == 2 {
		if high <= low {
			return Bin{}, fmt.Errorf("temperature bin %q is empty", s)
		}
		return TemperatureBetween(low, high), nil
	}
	if n, _ := fmt.Sscanf(s, "wind:%g", &speed); n == 1 {
		return Windy(speed), nil
	}
	return Bin{}, fmt.Errorf("unknown weather bin %q", s)
}

// Days aggregates series to days and returns the matching days as inclusive
// ranges, merging consecutive days. Days without weather never match.
func Days(series station.CountSeries, bin Bin) ([]core.DateRange, error) {
	daily := series
	if series.Resolution != station.Daily {
		var err error
		if daily, err = station.Resample(series, station.Daily); err != nil {
			return nil, err
		}
	}

	var out []core.DateRange
	var last time.Time
	for _, o := range daily.Observations {
		if o.Weather == nil || !bin.Match(*o.Weather) {
			continue
		}
		d := core.Date(o.Time)
		if n := len(out); n > 0 && d.Equal(last.AddDate(0, 0, 1)) {
			out[n-1].End = d
		} else {
			out = append(out, core.DateRange{Start: d, End: d, Name: bin.Name})
		}
		last = d
	}
	return out, nil
}
