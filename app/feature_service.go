package app

import (
	"context"
	"fmt"
	"runtime"

	"bikeusage/domain/core"
	"bikeusage/domain/station"
	"bikeusage/internal"
	"bikeusage/internal/features"
	"bikeusage/ports"

	"golang.org/x/sync/errgroup"
)

// FeatureService builds per-station feature tables from a loader
type FeatureService struct {
	loader  ports.DataLoaderPort
	logger  *internal.Logger
	workers int
}

// NewFeatureService creates a feature service extracting up to NumCPU stations at once
func NewFeatureService(loader ports.DataLoaderPort, logger *internal.Logger) *FeatureService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &FeatureService{
		loader:  loader,
		logger:  logger,
		workers: runtime.NumCPU(),
	}
}

// WithWorkers overrides the extraction parallelism; n < 1 means one worker
func (s *FeatureService) WithWorkers(n int) *FeatureService {
	if n < 1 {
		n = 1
	}
	s.workers = n
	return s
}

// BuildFeatureTable computes the feature vector of every station over interval.
// Rows follow the loader's station order. Stations lacking data get an invalid
// row; lookup and configuration errors abort the table.
func (s *FeatureService) BuildFeatureTable(ctx context.Context, interval core.Interval) (features.Table, error) {
	names := s.loader.Stations()
	table := make(features.Table, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := s.stationFeatures(name, interval)
			if err != nil {
				return fmt.Errorf("features for %s: %w", name, err)
			}
			if !v.Valid {
				s.logger.Debug("features: %s invalid over %s: %s", name, interval, v.Reason)
			}
			table[i] = features.Row{Station: name, Vector: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("features: %d of %d stations valid over %s", len(table.Valid()), len(table), interval)
	return table, nil
}

func (s *FeatureService) stationFeatures(name string, interval core.Interval) (features.Vector, error) {
	series, err := s.loader.Counts(name, ports.CountQuery{
		Resolution: station.Hourly,
		Filter:     station.Query{Interval: &interval},
	})
	if err != nil {
		return features.Vector{}, err
	}
	return features.Compute(series, station.Query{})
}
