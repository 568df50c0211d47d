package station

import (
	"fmt"
	"time"
)

// Resolution is the sampling rate of a count series.
type Resolution string

const (
	Hourly  Resolution = "1h"
	Daily   Resolution = "1d"
	Monthly Resolution = "1mo"
)

// ParseResolution accepts "1h", "1d" or "1mo".
func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(s); r {
	case Hourly, Daily, Monthly:
		return r, nil
	default:
		return "", fmt.Errorf("unknown resolution %q (expected 1h, 1d or 1mo)", s)
	}
}

// Location is a counter site's fixed position in WGS84 degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Station is immutable reference data for one counter site.
type Station struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

// Weather carries the weather columns joined onto a count observation.
type Weather struct {
	Temperature   float64 `json:"temperature_2m"`
	Humidity      float64 `json:"relative_humidity_2m"`
	Precipitation float64 `json:"precipitation"`
	Rain          float64 `json:"rain"`
	Snowfall      float64 `json:"snowfall"`
	Code          int     `json:"weather_code"`
	CloudCover    float64 `json:"cloud_cover"`
	WindSpeed     float64 `json:"wind_speed_10m"`
	WindDirection float64 `json:"wind_direction_10m"`
	WindGusts     float64 `json:"wind_gusts_10m"`
}

// Observation is one timestamped count. Weather is nil unless the series was weather-joined.
type Observation struct {
	Time    time.Time `json:"time"`
	Count   int       `json:"count"`
	Weather *Weather  `json:"weather,omitempty"`
}

// CountSeries is the time-ordered observation sequence for one station.
// Timestamps are strictly increasing; gaps (missing hours) are allowed.
type CountSeries struct {
	Station      string        `json:"station"`
	Resolution   Resolution    `json:"resolution"`
	Observations []Observation `json:"observations"`
}

// Len returns the number of observations.
func (s CountSeries) Len() int {
	return len(s.Observations)
}

// IsEmpty reports whether the series holds no observations.
func (s CountSeries) IsEmpty() bool {
	return len(s.Observations) == 0
}

// Span returns the first and last timestamps; ok is false for an empty series.
func (s CountSeries) Span() (first, last time.Time, ok bool) {
	if len(s.Observations) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.Observations[0].Time, s.Observations[len(s.Observations)-1].Time, true
}

// WithObservations returns a copy of s carrying obs instead.
func (s CountSeries) WithObservations(obs []Observation) CountSeries {
	return CountSeries{Station: s.Station, Resolution: s.Resolution, Observations: obs}
}
