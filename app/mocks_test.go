package app

import (
	"bikeusage/domain/accident"
	"bikeusage/domain/core"
	"bikeusage/domain/station"
	"bikeusage/ports"

	"github.com/stretchr/testify/mock"
)

// MockLoader is a testify mock of ports.DataLoaderPort
type MockLoader struct {
	mock.Mock
}

var _ ports.DataLoaderPort = (*MockLoader)(nil)

func (m *MockLoader) Stations() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockLoader) Location(name string) (station.Location, error) {
	args := m.Called(name)
	return args.Get(0).(station.Location), args.Error(1)
}

func (m *MockLoader) Counts(name string, q ports.CountQuery) (station.CountSeries, error) {
	args := m.Called(name, q)
	return args.Get(0).(station.CountSeries), args.Error(1)
}

func (m *MockLoader) WeatherJoined(name string, res station.Resolution) (station.CountSeries, error) {
	args := m.Called(name, res)
	return args.Get(0).(station.CountSeries), args.Error(1)
}

func (m *MockLoader) HolidayIntervals(schoolVacation bool) []core.DateRange {
	args := m.Called(schoolVacation)
	return args.Get(0).([]core.DateRange)
}

func (m *MockLoader) Accidents() []accident.Record {
	args := m.Called()
	return args.Get(0).([]accident.Record)
}
