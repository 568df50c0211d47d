package app

import (
	"context"
	"math"
	"strings"
	"testing"

	"bikeusage/domain/accident"
	"bikeusage/domain/station"
	"bikeusage/internal"
	"bikeusage/internal/clustering"
	"bikeusage/internal/config"
	"bikeusage/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccidentService_Analyze(t *testing.T) {
	// commute-A sits at 49.40, 8.68
	records := []accident.Record{
		{Year: 2023, Month: 5, Hour: 8, Weekday: 2, IsBicycle: true, Latitude: 49.40, Longitude: 8.68},
		{Year: 2023, Month: 5, Hour: 8, Weekday: 3, IsCar: true, Latitude: 49.40018, Longitude: 8.68},
		{Year: 2023, Month: 6, Hour: 17, Weekday: 3, IsBicycle: true, Latitude: 48.0, Longitude: 11.0},
		{Year: 2022, Month: 1, Hour: 3, Weekday: 7, IsPedestrian: true, Latitude: math.NaN(), Longitude: math.NaN()},
	}
	loader := testkit.Fleet(1, day(2022, 1, 1), day(2022, 1, 3)).WithAccidents(records)
	svc := NewAccidentService(loader, internal.NewNopLogger())

	report, err := svc.Analyze(AccidentRequest{})
	require.NoError(t, err)
	require.Len(t, report.Stations, 3)

	top := report.Stations[0]
	assert.Equal(t, "commute-A", top.Station)
	assert.Equal(t, 50.0, top.Radius)
	assert.Equal(t, 2, top.Total)
	assert.Equal(t, 1, top.Bicycle)
	assert.InDelta(t, 0.5, top.BicycleShare, 1e-12)

	months := 0
	for _, b := range report.PerMonth {
		months += b.Count
	}
	assert.Equal(t, 4, months)
	require.Len(t, report.PerMonth, 3)
	assert.Equal(t, 2022, report.PerMonth[0].Year)
	require.NotEmpty(t, report.PerHour)
	assert.Equal(t, 3, report.PerHour[0].Key)

	report, err = svc.Analyze(AccidentRequest{Radius: 10, BicycleOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stations[0].Total)
	hours := 0
	for _, b := range report.PerHour {
		hours += b.Count
	}
	assert.Equal(t, 2, hours)
}

func TestAccidentService_RegionFilter(t *testing.T) {
	district := 221
	records := []accident.Record{
		{District: 221, Hour: 7, Latitude: 49.40, Longitude: 8.68},
		{District: 222, Hour: 7, Latitude: 49.40, Longitude: 8.68},
	}
	loader := testkit.Fleet(1, day(2022, 1, 1), day(2022, 1, 2)).WithAccidents(records)

	report, err := NewAccidentService(loader, internal.NewNopLogger()).
		Analyze(AccidentRequest{Region: accident.RegionFilter{District: &district}})
	require.NoError(t, err)
	totals := map[string]int{}
	for _, st := range report.Stations {
		totals[st.Station] = st.Total
	}
	assert.Equal(t, map[string]int{"blend-A": 0, "commute-A": 1, "leisure-A": 0}, totals)
	require.Len(t, report.PerHour, 1)
	assert.Equal(t, 1, report.PerHour[0].Count)
}

func TestOutageService_RanksWorstFirst(t *testing.T) {
	full := testkit.DefaultStationConfig("full", testkit.Commuter)
	full.EndDate = full.StartDate.AddDate(0, 0, 14)
	gappy := testkit.DefaultStationConfig("gappy", testkit.Leisure)
	gappy.EndDate = gappy.StartDate.AddDate(0, 0, 14)
	gappy.MissingRate = 0.3

	loader := testkit.NewMemoryLoader().AddGenerated(full).AddGenerated(gappy).
		AddSeries(station.Location{}, station.CountSeries{Station: "empty", Resolution: station.Hourly})

	outages, err := NewOutageService(loader, internal.NewNopLogger()).Outages()
	require.NoError(t, err)
	require.Len(t, outages, 2)
	assert.Equal(t, "gappy", outages[0].Station)
	assert.Greater(t, outages[0].Rate, 0.0)
	assert.Equal(t, "full", outages[1].Station)
	assert.Equal(t, 0, outages[1].Missing)
	assert.Equal(t, 14*24, outages[1].Expected)
}

func TestReportService_BuildAndRender(t *testing.T) {
	loader := testkit.Fleet(2, day(2022, 1, 1), day(2024, 1, 1)).WithHolidays(nil, vacations)
	features := NewFeatureService(loader, internal.NewNopLogger())
	timeline, err := NewTimelineService(features, clustering.DefaultConfig(), internal.NewNopLogger())
	require.NoError(t, err)
	svc := NewReportService(features, timeline, NewEventService(loader, internal.NewNopLogger()), internal.NewNopLogger())

	summary, err := svc.Build(context.Background(), ReportRequest{
		City:         "heidelberg",
		Interval:     twoYears(),
		Mode:         config.ModeSliding,
		WindowMonths: 12,
		Alpha:        0.05,
		TopN:         2,
	})
	require.NoError(t, err)
	assert.Len(t, summary.Features, 6)
	assert.Len(t, summary.Dominant, 6)
	assert.Greater(t, summary.Snapshots, 0)
	assert.Empty(t, summary.Holidays)

	md := string(svc.Render(summary, false))
	assert.True(t, strings.HasPrefix(md, "# Bicycle usage report: heidelberg"))
	assert.Contains(t, md, "## Dominant usage")

	html := string(svc.Render(summary, true))
	assert.Contains(t, html, "<title>Bicycle usage report: heidelberg</title>")
	assert.Contains(t, html, "<table>")
}
