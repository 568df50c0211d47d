package station

import (
	"fmt"
	"time"

	"bikeusage/domain/core"
)

// Bucket returns the start of the resolution bucket containing t.
func (r Resolution) Bucket(t time.Time) time.Time {
	u := t.UTC()
	switch r {
	case Hourly:
		return u.Truncate(time.Hour)
	case Daily:
		return core.Date(u)
	case Monthly:
		return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return u
	}
}

// rank orders resolutions from finest to coarsest.
func (r Resolution) rank() int {
	switch r {
	case Hourly:
		return 0
	case Daily:
		return 1
	case Monthly:
		return 2
	default:
		return -1
	}
}

// Resample aggregates s into buckets of rate: counts are summed, temperature,
// humidity, cloud cover and wind are averaged, precipitation, rain and snowfall
// are summed. Resampling to a finer rate than the source is an error.
func Resample(s CountSeries, rate Resolution) (CountSeries, error) {
	if rate.rank() < 0 {
		return CountSeries{}, fmt.Errorf("%w: %q", core.ErrUnsupportedResolution, rate)
	}
	if s.Resolution != "" && rate.rank() < s.Resolution.rank() {
		return CountSeries{}, fmt.Errorf("%w: cannot resample %s series to %s",
			core.ErrUnsupportedResolution, s.Resolution, rate)
	}

	var out []Observation
	var acc weatherAccumulator
	for _, o := range s.Observations {
		b := rate.Bucket(o.Time)
		if len(out) == 0 || !out[len(out)-1].Time.Equal(b) {
			if len(out) > 0 {
				out[len(out)-1].Weather = acc.result()
			}
			out = append(out, Observation{Time: b})
			acc = weatherAccumulator{}
		}
		out[len(out)-1].Count += o.Count
		acc.add(o.Weather)
	}
	if len(out) > 0 {
		out[len(out)-1].Weather = acc.result()
	}

	return CountSeries{Station: s.Station, Resolution: rate, Observations: out}, nil
}

type weatherAccumulator struct {
	n       int
	mean    Weather
	summed  Weather
	maxCode int
}

func (a *weatherAccumulator) add(w *Weather) {
	if w == nil {
		return
	}
	a.n++
	a.mean.Temperature += w.Temperature
	a.mean.Humidity += w.Humidity
	a.mean.CloudCover += w.CloudCover
	a.mean.WindSpeed += w.WindSpeed
	a.mean.WindDirection += w.WindDirection
	a.mean.WindGusts += w.WindGusts
	a.summed.Precipitation += w.Precipitation
	a.summed.Rain += w.Rain
	a.summed.Snowfall += w.Snowfall
	if w.Code > a.maxCode {
		a.maxCode = w.Code
	}
}

func (a *weatherAccumulator) result() *Weather {
	if a.n == 0 {
		return nil
	}
	n := float64(a.n)
	return &Weather{
		Temperature:   a.mean.Temperature / n,
		Humidity:      a.mean.Humidity / n,
		CloudCover:    a.mean.CloudCover / n,
		WindSpeed:     a.mean.WindSpeed / n,
		WindDirection: a.mean.WindDirection / n,
		WindGusts:     a.mean.WindGusts / n,
		Precipitation: a.summed.Precipitation,
		Rain:          a.summed.Rain,
		Snowfall:      a.summed.Snowfall,
		Code:          a.maxCode,
	}
}
