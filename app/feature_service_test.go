package app

import (
	"context"
	"testing"
	"time"

	"bikeusage/domain/core"
	"bikeusage/domain/station"
	"bikeusage/internal"
	"bikeusage/internal/testkit"
	"bikeusage/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func twoYears() core.Interval {
	return core.Interval{Start: day(2022, 1, 1), End: day(2024, 1, 1)}
}

func springOnly() testkit.StationConfig {
	cfg := testkit.DefaultStationConfig("spring", testkit.Leisure)
	cfg.StartDate, cfg.EndDate = day(2022, 3, 1), day(2022, 6, 1)
	cfg.Seed = 99
	return cfg
}

func TestBuildFeatureTable_LoaderOrderAndValidity(t *testing.T) {
	loader := testkit.Fleet(1, day(2022, 1, 1), day(2024, 1, 1)).AddGenerated(springOnly())
	svc := NewFeatureService(loader, internal.NewNopLogger())

	table, err := svc.BuildFeatureTable(context.Background(), twoYears())
	require.NoError(t, err)
	require.Len(t, table, 4)

	assert.Equal(t, loader.Stations(), table.Stations())
	for _, r := range table[:3] {
		assert.True(t, r.Valid, "%s: %s", r.Station, r.Reason)
	}
	spring := table[3]
	assert.Equal(t, "spring", spring.Station)
	assert.False(t, spring.Valid)
	assert.NotEmpty(t, spring.Reason)

	commute, _ := table.Lookup("commute-A")
	leisure, _ := table.Lookup("leisure-A")
	assert.Greater(t, commute.DPI, leisure.DPI)
	assert.Less(t, commute.SDI, leisure.SDI)
	assert.Greater(t, commute.UtilitarianScore(), leisure.UtilitarianScore())
}

func TestBuildFeatureTable_WorkerCountDoesNotChangeResult(t *testing.T) {
	loader := testkit.Fleet(1, day(2022, 1, 1), day(2024, 1, 1))

	parallel, err := NewFeatureService(loader, internal.NewNopLogger()).WithWorkers(8).
		BuildFeatureTable(context.Background(), twoYears())
	require.NoError(t, err)
	serial, err := NewFeatureService(loader, internal.NewNopLogger()).WithWorkers(0).
		BuildFeatureTable(context.Background(), twoYears())
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestBuildFeatureTable_PassesIntervalToLoader(t *testing.T) {
	interval := twoYears()
	loader := &MockLoader{}
	loader.On("Stations").Return([]string{"a"})
	loader.On("Counts", "a", ports.CountQuery{
		Resolution: station.Hourly,
		Filter:     station.Query{Interval: &interval},
	}).Return(station.CountSeries{Station: "a", Resolution: station.Hourly}, nil).Once()

	table, err := NewFeatureService(loader, internal.NewNopLogger()).BuildFeatureTable(context.Background(), interval)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.False(t, table[0].Valid)
	loader.AssertExpectations(t)
}

func TestBuildFeatureTable_LoaderErrorAborts(t *testing.T) {
	loader := &MockLoader{}
	loader.On("Stations").Return([]string{"a", "b"})
	loader.On("Counts", "a", mock.Anything).Return(station.CountSeries{Station: "a"}, nil).Maybe()
	loader.On("Counts", "b", mock.Anything).Return(station.CountSeries{}, core.NewUnknownStationError("b"))

	_, err := NewFeatureService(loader, internal.NewNopLogger()).WithWorkers(1).
		BuildFeatureTable(context.Background(), twoYears())
	assert.ErrorIs(t, err, core.ErrUnknownStation)
}
