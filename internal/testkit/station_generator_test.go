package testkit

import (
	"testing"
	"time"

	"bikeusage/domain/station"
	"bikeusage/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationGenerator_Deterministic(t *testing.T) {
	cfg := DefaultStationConfig("S1", Commuter)
	cfg.EndDate = cfg.StartDate.AddDate(0, 1, 0)

	a := NewStationGenerator(cfg).Generate()
	b := NewStationGenerator(cfg).Generate()

	require.Equal(t, a.Len(), b.Len())
	assert.Equal(t, a.Observations, b.Observations)
	assert.Equal(t, 31*24, a.Len())
	assert.Equal(t, station.Hourly, a.Resolution)
}

func TestStationGenerator_MissingRateDropsHours(t *testing.T) {
	cfg := DefaultStationConfig("S1", Leisure)
	cfg.EndDate = cfg.StartDate.AddDate(0, 1, 0)
	cfg.MissingRate = 0.5

	s := NewStationGenerator(cfg).Generate()
	assert.Less(t, s.Len(), 31*24)
	assert.Greater(t, s.Len(), 0)
}

func TestStationGenerator_CommuterPeaks(t *testing.T) {
	cfg := DefaultStationConfig("S1", Commuter)
	cfg.NoiseLevel = 0
	s := NewStationGenerator(cfg).Generate()

	// 2022-01-03 is a Monday
	monday := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	var at7, at12 int
	for _, o := range s.Observations {
		if o.Time.Equal(monday.Add(7 * time.Hour)) {
			at7 = o.Count
		}
		if o.Time.Equal(monday.Add(12 * time.Hour)) {
			at12 = o.Count
		}
	}
	assert.Greater(t, at7, at12)
}

func TestMemoryLoader_CountsAndResample(t *testing.T) {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	loader := Fleet(1, start, start.AddDate(0, 0, 10))

	require.Len(t, loader.Stations(), 3)

	daily, err := loader.Counts("commute-A", ports.CountQuery{Resolution: station.Daily})
	require.NoError(t, err)
	assert.Equal(t, 10, daily.Len())

	_, err = loader.Counts("nowhere", ports.CountQuery{})
	assert.Error(t, err)

	_, err = loader.Location("leisure-A")
	assert.NoError(t, err)
}
