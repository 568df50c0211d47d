// Package csvstore loads the processed counter, weather, holiday and accident
// tables from disk and serves them through ports.DataLoaderPort.
package csvstore

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"bikeusage/domain/accident"
	"bikeusage/domain/core"
	"bikeusage/domain/station"
	"bikeusage/internal"
	"bikeusage/internal/errors"
	"bikeusage/ports"
)

// Config locates the data tree: <Dir>/cycle_counter/<City>/, <Dir>/weather/,
// <Dir>/holidays/ and <Dir>/accidents/.
type Config struct {
	Dir  string `json:"dir"`
	City string `json:"city"`
}

func (c Config) countersDir() string  { return filepath.Join(c.Dir, "cycle_counter", c.City) }
func (c Config) weatherDir() string   { return filepath.Join(c.Dir, "weather") }
func (c Config) holidaysDir() string  { return filepath.Join(c.Dir, "holidays") }
func (c Config) accidentsDir() string { return filepath.Join(c.Dir, "accidents") }

// Store holds every table in memory. It is read-only after Open and safe for
// concurrent readers.
type Store struct {
	order     []string
	sites     map[string]*site
	weather   map[time.Time]station.Weather
	holidays  []holiday
	accidents []accident.Record
}

var _ ports.DataLoaderPort = (*Store)(nil)

// Open reads the whole data tree. Missing weather, holiday or accident folders
// are logged and leave those tables empty; a missing counter folder is an error.
func Open(cfg Config, logger *internal.Logger) (*Store, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Store{weather: map[time.Time]station.Weather{}}

	files, ok, err := listTables(cfg.countersDir())
	if err != nil {
		return nil, errors.IOError(cfg.countersDir(), err)
	}
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("counter folder %s", cfg.countersDir()))
	}
	sites, order, st, err := readCounters(files)
	if err != nil {
		return nil, errors.Wrap(errors.IOError(cfg.countersDir(), err), "failed to read counter files")
	}
	s.sites, s.order = sites, order
	logger.Info("loaded %d counter sites from %d files (%d rows)", len(order), len(files), st.rows)
	if dropped := st.badTime + st.missingSite + st.noCount; dropped > 0 {
		logger.Warn("dropped %d counter rows: %d bad timestamps, %d without site, %d without count",
			dropped, st.badTime, st.missingSite, st.noCount)
	}

	if files, ok, err = listTables(cfg.weatherDir()); err != nil {
		return nil, errors.IOError(cfg.weatherDir(), err)
	} else if !ok {
		logger.Warn("weather folder not found: %s", cfg.weatherDir())
	} else {
		var skipped int
		if s.weather, skipped, err = readWeather(files); err != nil {
			return nil, errors.Wrap(errors.IOError(cfg.weatherDir(), err), "failed to read weather files")
		}
		logger.Info("loaded %d weather hours", len(s.weather))
		if skipped > 0 {
			logger.Debug("skipped %d weather rows with bad timestamps", skipped)
		}
	}

	if files, ok, err = listTables(cfg.holidaysDir(), ".json"); err != nil {
		return nil, errors.IOError(cfg.holidaysDir(), err)
	} else if !ok {
		logger.Warn("holidays folder not found: %s", cfg.holidaysDir())
	} else if s.holidays, err = readHolidays(files); err != nil {
		return nil, errors.Wrap(errors.IOError(cfg.holidaysDir(), err), "failed to read holiday files")
	}

	if files, ok, err = listTables(cfg.accidentsDir()); err != nil {
		return nil, errors.IOError(cfg.accidentsDir(), err)
	} else if !ok {
		logger.Warn("accident folder not found: %s", cfg.accidentsDir())
	} else if s.accidents, err = readAccidents(files); err != nil {
		return nil, errors.Wrap(errors.IOError(cfg.accidentsDir(), err), "failed to read accident files")
	}

	return s, nil
}

func (s *Store) Stations() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Store) Location(name string) (station.Location, error) {
	st, ok := s.sites[name]
	if !ok {
		return station.Location{}, core.NewUnknownStationError(name)
	}
	return st.location, nil
}

// Counts filters the hourly series of name and resamples it when q asks for a
// coarser resolution.
func (s *Store) Counts(name string, q ports.CountQuery) (station.CountSeries, error) {
	st, ok := s.sites[name]
	if !ok {
		return station.CountSeries{}, core.NewUnknownStationError(name)
	}
	series := q.Filter.Apply(station.CountSeries{
		Station:      name,
		Resolution:   station.Hourly,
		Observations: st.obs,
	})
	if q.Resolution == "" || q.Resolution == station.Hourly {
		return series, nil
	}
	return station.Resample(series, q.Resolution)
}

// WeatherJoined attaches hourly weather to the counts of name, keeping hours
// present in both tables, and resamples to res.
func (s *Store) WeatherJoined(name string, res station.Resolution) (station.CountSeries, error) {
	st, ok := s.sites[name]
	if !ok {
		return station.CountSeries{}, core.NewUnknownStationError(name)
	}
	joined := make([]station.Observation, 0, len(st.obs))
	for _, o := range st.obs {
		w, ok := s.weather[o.Time.Truncate(time.Hour)]
		if !ok {
			continue
		}
		wc := w
		joined = append(joined, station.Observation{Time: o.Time, Count: o.Count, Weather: &wc})
	}
	series := station.CountSeries{Station: name, Resolution: station.Hourly, Observations: joined}
	if res == "" || res == station.Hourly {
		return series, nil
	}
	return station.Resample(series, res)
}

// HolidayIntervals returns school vacations or public holidays, ordered by start.
func (s *Store) HolidayIntervals(schoolVacation bool) []core.DateRange {
	var out []core.DateRange
	for _, h := range s.holidays {
		if (schoolVacation && h.school) || (!schoolVacation && h.public) {
			out = append(out, h.rng)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func (s *Store) Accidents() []accident.Record {
	out := make([]accident.Record, len(s.accidents))
	copy(out, s.accidents)
	return out
}
