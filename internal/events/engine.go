package events

import (
	"context"
	"sort"

	"bikeusage/domain/core"
	"bikeusage/domain/station"
	"bikeusage/internal"
	"bikeusage/ports"
)

// Engine runs Compare over every station a loader knows.
type Engine struct {
	loader ports.DataLoaderPort
	logger *internal.Logger
}

// NewEngine returns an engine reading hourly counts from loader.
func NewEngine(loader ports.DataLoaderPort, logger *internal.Logger) *Engine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{loader: loader, logger: logger}
}

// Deltas compares event and baseline days for stations (all when empty).
// Stations with an invalid side, or whose counts fail to load, are left out of
// the result, which is ordered by station name. The load error is returned
// only when no station could be loaded.
func (e *Engine) Deltas(ctx context.Context, stations []string, spec Spec) ([]Delta, error) {
	if len(stations) == 0 {
		stations = e.loader.Stations()
	}

	out := make([]Delta, 0, len(stations))
	var loadErr error
	failed := 0
	for _, name := range stations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		series, err := e.loader.Counts(name, ports.CountQuery{Resolution: station.Hourly})
		if err != nil {
			e.logger.Warn("event delta: cannot load %s: %v", name, err)
			if loadErr == nil {
				loadErr = err
			}
			failed++
			continue
		}
		d, ok, err := Compare(series, spec)
		if !ok {
			if err != nil && !core.IsDataCondition(err) {
				return nil, err
			}
			e.logger.Debug("event delta: skipping %s: %v", name, err)
			continue
		}
		out = append(out, d)
	}
	if failed > 0 && failed == len(stations) {
		return nil, loadErr
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Station < out[j].Station })

	e.logger.Info("event delta: %d of %d stations compared", len(out), len(stations))
	return out, nil
}
