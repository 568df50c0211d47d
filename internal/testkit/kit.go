package testkit

import (
	"time"

	"bikeusage/domain/accident"
	"bikeusage/domain/core"
	"bikeusage/domain/station"
	"bikeusage/ports"
)

// MemoryLoader is an in-memory ports.DataLoaderPort backed by synthetic or hand-built series
type MemoryLoader struct {
	order     []string
	stations  map[string]station.Station
	series    map[string]station.CountSeries
	public    []core.DateRange
	school    []core.DateRange
	accidents []accident.Record
}

var _ ports.DataLoaderPort = (*MemoryLoader)(nil)

// NewMemoryLoader creates an empty loader
func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{
		stations: make(map[string]station.Station),
		series:   make(map[string]station.CountSeries),
	}
}

// AddSeries registers a station with its hourly series
func (m *MemoryLoader) AddSeries(loc station.Location, s station.CountSeries) *MemoryLoader {
	if _, exists := m.stations[s.Station]; !exists {
		m.order = append(m.order, s.Station)
	}
	m.stations[s.Station] = station.Station{Name: s.Station, Location: loc}
	m.series[s.Station] = s
	return m
}

// AddGenerated generates and registers a synthetic station
func (m *MemoryLoader) AddGenerated(cfg StationConfig) *MemoryLoader {
	return m.AddSeries(cfg.Location, NewStationGenerator(cfg).Generate())
}

// WithHolidays sets public holidays and school vacations
func (m *MemoryLoader) WithHolidays(public, school []core.DateRange) *MemoryLoader {
	m.public = public
	m.school = school
	return m
}

// WithAccidents sets the accident records
func (m *MemoryLoader) WithAccidents(records []accident.Record) *MemoryLoader {
	m.accidents = records
	return m
}

func (m *MemoryLoader) Stations() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

func (m *MemoryLoader) Location(name string) (station.Location, error) {
	st, ok := m.stations[name]
	if !ok {
		return station.Location{}, core.NewUnknownStationError(name)
	}
	return st.Location, nil
}

func (m *MemoryLoader) Counts(name string, q ports.CountQuery) (station.CountSeries, error) {
	s, ok := m.series[name]
	if !ok {
		return station.CountSeries{}, core.NewUnknownStationError(name)
	}
	filtered := q.Filter.Apply(s)
	if q.Resolution == "" || q.Resolution == s.Resolution {
		return filtered, nil
	}
	return station.Resample(filtered, q.Resolution)
}

func (m *MemoryLoader) WeatherJoined(name string, res station.Resolution) (station.CountSeries, error) {
	s, err := m.Counts(name, ports.CountQuery{Resolution: res})
	if err != nil {
		return station.CountSeries{}, err
	}
	var joined []station.Observation
	for _, o := range s.Observations {
		if o.Weather != nil {
			joined = append(joined, o)
		}
	}
	return s.WithObservations(joined), nil
}

func (m *MemoryLoader) HolidayIntervals(schoolVacation bool) []core.DateRange {
	if schoolVacation {
		return m.school
	}
	return m.public
}

func (m *MemoryLoader) Accidents() []accident.Record {
	return m.accidents
}

// Fleet builds a loader with commuters, leisure and blended stations spread over
// a small grid, n of each pattern.
func Fleet(n int, start, end time.Time) *MemoryLoader {
	loader := NewMemoryLoader()
	patterns := []struct {
		prefix  string
		pattern Pattern
	}{{"commute", Commuter}, {"leisure", Leisure}, {"blend", Blend}}

	seed := int64(1)
	for pi, p := range patterns {
		for i := 0; i < n; i++ {
			cfg := DefaultStationConfig(stationName(p.prefix, i), p.pattern)
			cfg.StartDate, cfg.EndDate = start, end
			cfg.Location = station.Location{
				Latitude:  49.40 + 0.01*float64(pi),
				Longitude: 8.68 + 0.01*float64(i),
			}
			cfg.Volume = 30 + 5*float64(i)
			cfg.Seed = seed
			seed++
			loader.AddGenerated(cfg)
		}
	}
	return loader
}

func stationName(prefix string, i int) string {
	return prefix + "-" + string(rune('A'+i))
}
