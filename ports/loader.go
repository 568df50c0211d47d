package ports

import (
	"bikeusage/domain/accident"
	"bikeusage/domain/core"
	"bikeusage/domain/station"
)

// CountQuery selects and resamples one station's counts.
type CountQuery struct {
	// Resolution defaults to the native (hourly) rate when empty
	Resolution station.Resolution
	Filter     station.Query
}

// DataLoaderPort provides read-only access to the loaded input tables.
// One loader is constructed per analysis run and passed explicitly to every service;
// implementations must be safe for concurrent reads.
type DataLoaderPort interface {
	// Stations returns station names in a stable order
	Stations() []string

	// Location returns the fixed position of a station
	Location(name string) (station.Location, error)

	// Counts returns the filtered, resampled count series of a station
	Counts(name string, q CountQuery) (station.CountSeries, error)

	// WeatherJoined returns counts with weather columns attached, joined on the weather time grid
	WeatherJoined(name string, res station.Resolution) (station.CountSeries, error)

	// HolidayIntervals returns school vacations (true) or public holidays (false)
	HolidayIntervals(schoolVacation bool) []core.DateRange

	// Accidents returns every loaded accident record
	Accidents() []accident.Record
}
