package app

import (
	"bikeusage/domain/accident"
	"bikeusage/internal"
	"bikeusage/internal/accidents"
	"bikeusage/ports"
)

// AccidentRequest configures the proximity search and aggregations
type AccidentRequest struct {
	Radius      float64            // meters; <= 0 uses accidents.DefaultRadius
	Radii       map[string]float64 // per-station overrides
	BicycleOnly bool               // aggregate bicycle accidents only
	Region      accident.RegionFilter
}

// AccidentReport holds the per-station proximity table and the time aggregations
type AccidentReport struct {
	Stations   []accidents.StationStats `json:"stations"`
	PerMonth   []accidents.Bucket       `json:"per_month"`
	PerHour    []accidents.Bucket       `json:"per_hour"`
	PerWeekday []accidents.Bucket       `json:"per_weekday"`
}

// AccidentService relates accident records to station locations
type AccidentService struct {
	loader ports.DataLoaderPort
	logger *internal.Logger
}

// NewAccidentService creates an accident service
func NewAccidentService(loader ports.DataLoaderPort, logger *internal.Logger) *AccidentService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AccidentService{loader: loader, logger: logger}
}

// Analyze counts accidents near every station and aggregates the records in the
// selected region by month, hour and weekday.
func (s *AccidentService) Analyze(req AccidentRequest) (*AccidentReport, error) {
	names := s.loader.Stations()
	sites := make([]accidents.Site, 0, len(names))
	for _, name := range names {
		loc, err := s.loader.Location(name)
		if err != nil {
			return nil, err
		}
		sites = append(sites, accidents.Site{Name: name, Location: loc})
	}

	radius := req.Radius
	if radius <= 0 {
		radius = accidents.DefaultRadius
	}
	records := accidents.InRegion(s.loader.Accidents(), req.Region)
	report := &AccidentReport{
		Stations: accidents.Proximity(sites, records, req.Radii, radius),
	}

	if req.BicycleOnly {
		records = accidents.BicycleOnly(records)
	}
	report.PerMonth = accidents.PerMonth(records)
	report.PerHour = accidents.PerHour(records)
	report.PerWeekday = accidents.PerWeekday(records)

	s.logger.Info("accidents: %d records, %d stations within %.0f m", len(records), len(sites), radius)
	return report, nil
}
