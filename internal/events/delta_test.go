package events

import (
	"context"
	"testing"
	"time"

	"bikeusage/domain/core"
	"bikeusage/internal"
	"bikeusage/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// summer and winter school breaks, enough for the season gate on both sides
var vacations = []core.DateRange{
	{Start: day(2022, 7, 1), End: day(2022, 8, 31), Name: "summer"},
	{Start: day(2022, 12, 19), End: day(2023, 1, 6), Name: "christmas"},
}

func commuterWithVacations() testkit.StationConfig {
	cfg := testkit.DefaultStationConfig("ring", testkit.Commuter)
	cfg.Holidays = vacations
	return cfg
}

func TestCompare_HolidaysFlattenCommutePeaks(t *testing.T) {
	series := testkit.NewStationGenerator(commuterWithVacations()).Generate()

	d, ok, err := Compare(series, Spec{Event: vacations})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "ring", d.Station)
	assert.True(t, d.Event.Valid)
	assert.True(t, d.Baseline.Valid)
	assert.Less(t, d.Event.DPI, d.Baseline.DPI)
	assert.InDelta(t, d.EventScore-d.BaselineScore, d.ScoreDelta, 1e-12)
	assert.InDelta(t, d.Event.DPI-d.Baseline.DPI, d.Diff.DPI, 1e-12)
	assert.InDelta(t, d.Event.SDI-d.Baseline.SDI, d.Diff.SDI, 1e-12)
}

func TestCompare_EmptyEventIsExcluded(t *testing.T) {
	series := testkit.NewStationGenerator(commuterWithVacations()).Generate()

	for _, event := range [][]core.DateRange{nil, {}, {{Start: day(2030, 1, 1), End: day(2030, 1, 2)}}} {
		_, ok, err := Compare(series, Spec{Event: event})
		assert.False(t, ok)
		assert.ErrorIs(t, err, core.ErrInsufficientData)
	}
}

func TestSpec_SingleDayRangeIsInclusive(t *testing.T) {
	series := testkit.NewStationGenerator(testkit.DefaultStationConfig("ring", testkit.Commuter)).Generate()
	holiday := day(2023, 10, 3)
	spec := Spec{Event: []core.DateRange{{Start: holiday, End: holiday, Name: "unity day"}}}

	event := spec.eventQuery().Apply(series)
	require.Equal(t, 24, event.Len())
	for _, o := range event.Observations {
		assert.True(t, core.Date(o.Time).Equal(holiday))
	}

	baseline := spec.baselineQuery().Apply(series)
	assert.Equal(t, series.Len()-24, baseline.Len())
}

func TestSpec_SuppliedBaseline(t *testing.T) {
	series := testkit.NewStationGenerator(testkit.DefaultStationConfig("ring", testkit.Commuter)).Generate()
	spec := Spec{
		Event:    []core.DateRange{{Start: day(2023, 10, 3), End: day(2023, 10, 3)}},
		Baseline: []core.DateRange{{Start: day(2023, 10, 10), End: day(2023, 10, 11)}},
	}
	assert.Equal(t, 48, spec.baselineQuery().Apply(series).Len())
}

func TestEngine_Deltas(t *testing.T) {
	loader := testkit.NewMemoryLoader().
		AddGenerated(commuterWithVacations())
	partial := testkit.DefaultStationConfig("spring-only", testkit.Leisure)
	partial.StartDate, partial.EndDate = day(2023, 3, 1), day(2023, 6, 1)
	loader.AddGenerated(partial)

	engine := NewEngine(loader, internal.NewNopLogger())
	deltas, err := engine.Deltas(context.Background(), nil, Spec{Event: vacations})
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, "ring", deltas[0].Station)

	deltas, err = engine.Deltas(context.Background(), nil, Spec{Event: []core.DateRange{}})
	require.NoError(t, err)
	assert.Empty(t, deltas)

	_, err = engine.Deltas(context.Background(), []string{"nowhere"}, Spec{Event: vacations})
	assert.ErrorIs(t, err, core.ErrUnknownStation)
}

func TestEngine_DeltasSkipsUnloadableStation(t *testing.T) {
	loader := testkit.NewMemoryLoader().AddGenerated(commuterWithVacations())

	deltas, err := NewEngine(loader, internal.NewNopLogger()).
		Deltas(context.Background(), []string{"nowhere", "ring"}, Spec{Event: vacations})
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, "ring", deltas[0].Station)
}
