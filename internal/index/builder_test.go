package index

import (
	"testing"
	"time"

	"bikeusage/domain/core"
	"bikeusage/domain/station"
	"bikeusage/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generated(pattern testkit.Pattern) station.CountSeries {
	cfg := testkit.DefaultStationConfig("S1", pattern)
	return testkit.NewStationGenerator(cfg).Generate()
}

func TestBuild_HourlyIndexSumsToOne(t *testing.T) {
	s := generated(testkit.Commuter)

	for _, q := range []station.Query{
		{},
		{DayType: station.Weekdays},
		{DayType: station.Weekends},
	} {
		p, err := Build(s, HourOfDay, q)
		require.NoError(t, err)
		require.True(t, p.Complete())

		sum := 0.0
		for _, v := range p.Values() {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "day type %s", q.DayType)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	s := generated(testkit.Leisure)
	for _, kind := range []Kind{HourOfDay, DayOfWeek, MonthOfYear} {
		a, err := Build(s, kind, station.Query{})
		require.NoError(t, err)
		b, err := Build(s, kind, station.Query{})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestBuild_DenominatorUsesSameFilter(t *testing.T) {
	// Constant 2 riders per hour: every hourly index is 2/48 under any filter.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]station.Observation, 14*24)
	for i := range obs {
		c := 2
		if station.Weekends.Matches(start.Add(time.Duration(i) * time.Hour)) {
			c = 10
		}
		obs[i] = station.Observation{Time: start.Add(time.Duration(i) * time.Hour), Count: c}
	}
	s := station.CountSeries{Station: "S", Resolution: station.Hourly, Observations: obs}

	wd, err := Build(s, HourOfDay, station.Query{DayType: station.Weekdays})
	require.NoError(t, err)
	we, err := Build(s, HourOfDay, station.Query{DayType: station.Weekends})
	require.NoError(t, err)

	v, ok := wd.Value(8)
	require.True(t, ok)
	assert.InDelta(t, 1.0/24, v, 1e-12)
	v, ok = we.Value(8)
	require.True(t, ok)
	assert.InDelta(t, 1.0/24, v, 1e-12)
	assert.InDelta(t, 48.0, wd.DailyMean, 1e-12)
	assert.InDelta(t, 240.0, we.DailyMean, 1e-12)
}

func TestBuild_MissingUnitsAreAbsent(t *testing.T) {
	// March through May only
	start := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	var obs []station.Observation
	for ts := start; ts.Before(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)); ts = ts.Add(time.Hour) {
		if ts.Hour() == 3 {
			continue
		}
		obs = append(obs, station.Observation{Time: ts, Count: 5})
	}
	s := station.CountSeries{Station: "S", Resolution: station.Hourly, Observations: obs}

	monthly, err := Build(s, MonthOfYear, station.Query{})
	require.NoError(t, err)
	assert.Equal(t, 3, monthly.Len())
	assert.False(t, monthly.Complete())
	assert.False(t, monthly.Has(6, 7, 8))

	hourly, err := Build(s, HourOfDay, station.Query{})
	require.NoError(t, err)
	assert.Equal(t, 23, hourly.Len())
	_, ok := hourly.Value(3)
	assert.False(t, ok)
}

func TestBuild_EmptyAfterFilter(t *testing.T) {
	s := generated(testkit.Commuter)
	iv, err := core.ParseInterval("2030-01-01", "2031-01-01")
	require.NoError(t, err)

	p, err := Build(s, HourOfDay, station.Query{Interval: &iv})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
}

func TestBuild_DailyIndexByWeekday(t *testing.T) {
	s := generated(testkit.Leisure)
	p, err := Build(s, DayOfWeek, station.Query{})
	require.NoError(t, err)
	require.True(t, p.Complete())

	sat, _ := p.Value(6)
	tue, _ := p.Value(2)
	assert.Greater(t, sat, tue)
}

func TestBuild_ResolutionChecks(t *testing.T) {
	s := generated(testkit.Commuter)
	daily, err := station.Resample(s, station.Daily)
	require.NoError(t, err)

	_, err = Build(daily, HourOfDay, station.Query{})
	assert.ErrorIs(t, err, core.ErrUnsupportedResolution)

	monthly, err := Build(daily, MonthOfYear, station.Query{})
	require.NoError(t, err)
	assert.True(t, monthly.Complete())

	fromHourly, err := Build(s, MonthOfYear, station.Query{})
	require.NoError(t, err)
	assert.Equal(t, fromHourly.Values(), monthly.Values())

	coarse, err := station.Resample(s, station.Monthly)
	require.NoError(t, err)
	_, err = Build(coarse, MonthOfYear, station.Query{})
	assert.ErrorIs(t, err, core.ErrUnsupportedResolution)
}

func TestDailyMeanCount(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]station.Observation, 48)
	for i := range obs {
		obs[i] = station.Observation{Time: start.Add(time.Duration(i) * time.Hour), Count: 1}
	}
	s := station.CountSeries{Station: "S", Resolution: station.Hourly, Observations: obs}

	mean, err := DailyMeanCount(s, station.Query{})
	require.NoError(t, err)
	assert.InDelta(t, 24.0, mean, 1e-12)

	_, err = DailyMeanCount(station.CountSeries{Resolution: station.Hourly}, station.Query{})
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}
