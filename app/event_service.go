package app

import (
	"context"
	"sort"

	"bikeusage/domain/core"
	"bikeusage/domain/station"
	"bikeusage/internal"
	"bikeusage/internal/events"
	"bikeusage/internal/weather"
	"bikeusage/ports"
)

// EventService measures how holidays and weather change station usage
type EventService struct {
	loader ports.DataLoaderPort
	engine *events.Engine
	logger *internal.Logger
}

// NewEventService creates an event service reading from loader
func NewEventService(loader ports.DataLoaderPort, logger *internal.Logger) *EventService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &EventService{
		loader: loader,
		engine: events.NewEngine(loader, logger),
		logger: logger,
	}
}

// HolidayRequest selects public holidays or school vacations as event days
type HolidayRequest struct {
	SchoolVacation bool
	Interval       *core.Interval
	DayType        station.DayType
	Stations       []string // empty means all
}

// Holidays compares each station's features on holiday days with the rest.
func (s *EventService) Holidays(ctx context.Context, req HolidayRequest) ([]events.Delta, error) {
	days := s.loader.HolidayIntervals(req.SchoolVacation)
	kind := "public holidays"
	if req.SchoolVacation {
		kind = "school vacations"
	}
	s.logger.Debug("events: %d %s ranges", len(days), kind)

	return s.engine.Deltas(ctx, req.Stations, events.Spec{
		Base:  station.Query{Interval: req.Interval, DayType: req.DayType},
		Event: days,
	})
}

// WeatherRequest selects a weather bin and the rows it is measured on
type WeatherRequest struct {
	Bin      string
	Interval *core.Interval
	DayType  station.DayType
	HourFrom int
	HourTo   int
	MinObs   int
	Stations []string // empty means all
}

// WeatherReport holds both views of a weather bin: the feature delta on bin
// days and the mean count response inside and outside them
type WeatherReport struct {
	Bin       string             `json:"bin"`
	Deltas    []events.Delta     `json:"deltas"`
	Responses []weather.Response `json:"responses"`
}

// Weather derives each station's bin days from its joined weather and measures
// both the feature delta and the count response. A station short of data on
// either side is left out of that view only. A station whose weather join fails
// to load is left out entirely; the load error is returned only when every
// station failed.
func (s *EventService) Weather(ctx context.Context, req WeatherRequest) (*WeatherReport, error) {
	bin, err := weather.ParseBin(req.Bin)
	if err != nil {
		return nil, err
	}
	minObs := req.MinObs
	if minObs <= 0 {
		minObs = weather.DefaultMinObs
	}
	names := req.Stations
	if len(names) == 0 {
		names = s.loader.Stations()
	}

	q := station.Query{Interval: req.Interval, DayType: req.DayType, HourFrom: req.HourFrom, HourTo: req.HourTo}
	report := &WeatherReport{Bin: bin.Name}
	var loadErr error
	failed := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		joined, err := s.loader.WeatherJoined(name, station.Hourly)
		if err != nil {
			s.logger.Warn("weather %s: cannot load %s: %v", bin.Name, name, err)
			if loadErr == nil {
				loadErr = err
			}
			failed++
			continue
		}
		days, err := weather.Days(joined, bin)
		if err != nil {
			return nil, err
		}

		d, ok, err := events.Compare(joined, events.Spec{
			Base:  station.Query{Interval: req.Interval, DayType: req.DayType},
			Event: days,
		})
		switch {
		case ok:
			report.Deltas = append(report.Deltas, d)
		case err != nil && !core.IsDataCondition(err):
			return nil, err
		default:
			s.logger.Debug("weather %s: no feature delta for %s: %v", bin.Name, name, err)
		}

		r, err := weather.Measure(joined, bin.Name, days, q, minObs)
		if err != nil {
			if !core.IsDataCondition(err) {
				return nil, err
			}
			s.logger.Debug("weather %s: no response for %s: %v", bin.Name, name, err)
			continue
		}
		report.Responses = append(report.Responses, r)
	}

	if failed > 0 && failed == len(names) {
		return nil, loadErr
	}
	sort.Slice(report.Deltas, func(i, j int) bool { return report.Deltas[i].Station < report.Deltas[j].Station })
	sort.Slice(report.Responses, func(i, j int) bool { return report.Responses[i].Station < report.Responses[j].Station })
	s.logger.Info("weather %s: %d feature deltas, %d responses over %d stations",
		bin.Name, len(report.Deltas), len(report.Responses), len(names))
	return report, nil
}
