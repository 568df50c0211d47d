package app

import (
	"bikeusage/internal"
	"bikeusage/internal/coverage"
	"bikeusage/ports"
)

// OutageService measures missing hourly data per station
type OutageService struct {
	loader ports.DataLoaderPort
	logger *internal.Logger
}

// NewOutageService creates an outage service
func NewOutageService(loader ports.DataLoaderPort, logger *internal.Logger) *OutageService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &OutageService{loader: loader, logger: logger}
}

// Outages returns the outage of every station with data, worst first.
func (s *OutageService) Outages() ([]coverage.Outage, error) {
	names := s.loader.Stations()
	out := make([]coverage.Outage, 0, len(names))
	for _, name := range names {
		series, err := s.loader.Counts(name, ports.CountQuery{})
		if err != nil {
			return nil, err
		}
		o, ok := coverage.Measure(series)
		if !ok {
			s.logger.Debug("outage: %s has no observations", name)
			continue
		}
		out = append(out, o)
	}
	coverage.Rank(out)
	return out, nil
}
