package main

import (
	"fmt"
	"os"
	"path/filepath"

	"bikeusage/adapters/export"
	"bikeusage/app"
	"bikeusage/domain/accident"
	"bikeusage/domain/core"
	"bikeusage/domain/station"
	"bikeusage/domain/usage"
	"bikeusage/internal/clustering"
	"bikeusage/internal/errors"
	"bikeusage/internal/probability"

	"github.com/spf13/cobra"
)

func (e *env) clusteringConfig() clustering.Config {
	c := clustering.DefaultConfig()
	c.K = e.cfg.Analysis.K
	c.MinStations = e.cfg.Analysis.MinStations
	c.Restarts = e.cfg.Analysis.Restarts
	c.Seed = e.cfg.Analysis.Seed
	return c
}

func (e *env) services() (*app.FeatureService, *app.TimelineService, error) {
	features := app.NewFeatureService(e.loader, e.logger)
	timeline, err := app.NewTimelineService(features, e.clusteringConfig(), e.logger)
	if err != nil {
		return nil, nil, err
	}
	return features, timeline, nil
}

func (e *env) timelineRequest() (app.TimelineRequest, error) {
	interval, err := e.cfg.Analysis.Range()
	if err != nil {
		return app.TimelineRequest{}, err
	}
	return app.TimelineRequest{
		Start:        interval.Start,
		End:          interval.End,
		Mode:         e.cfg.Analysis.Mode,
		WindowMonths: e.cfg.Analysis.WindowMonths,
		RunID:        e.runID,
	}, nil
}

// interval parses --start/--end, falling back to the configured dataset range
func (e *env) interval(start, end string) (core.Interval, error) {
	if start == "" {
		start = e.cfg.Analysis.Start
	}
	if end == "" {
		end = e.cfg.Analysis.End
	}
	return core.ParseInterval(start, end)
}

func parseDayType(s string) (station.DayType, error) {
	switch s {
	case "", "all":
		return station.AllDays, nil
	case "weekday":
		return station.Weekdays, nil
	case "weekend":
		return station.Weekends, nil
	}
	return 0, errors.InvalidInput(fmt.Sprintf("unknown day type %q (want all, weekday or weekend)", s))
}

func newFeaturesCmd(e *env) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "features",
		Short: "Compute the DPI/WSD/SDI feature table",
		Long: `Compute the double peak index, weekend shape difference and seasonal drop
index of every station over one interval.

Example: bikeusage features --start 2022-01-01 --end 2024-01-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := e.interval(start, end)
			if err != nil {
				return err
			}
			table, err := app.NewFeatureService(e.loader, e.logger).BuildFeatureTable(cmd.Context(), interval)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d stations valid over %s\n", len(table.Valid()), len(table), interval)
			return e.write(cmd, export.FeatureTable(table))
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Interval start (YYYY-MM-DD), default analysis.start")
	cmd.Flags().StringVar(&end, "end", "", "Interval end, exclusive (YYYY-MM-DD), default analysis.end")
	return cmd
}

func newTimelineCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Cluster stations month by month with stable cluster identities",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := e.services()
			if err != nil {
				return err
			}
			req, err := e.timelineRequest()
			if err != nil {
				return err
			}
			tl, err := svc.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d snapshots, %d skipped\n", tl.RunID, len(tl.Snapshots), len(tl.Skipped))
			if len(tl.Snapshots) == 0 {
				return errors.InsufficientData("no monthly snapshot had enough valid stations to cluster")
			}
			return e.write(cmd, export.TimelineTable(tl.Assignments))
		},
	}
}

func newProbabilitiesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "probabilities",
		Short: "Estimate usage-type probabilities with Wilson intervals",
		Long: `Run the monthly timeline and estimate, per station, how often it carried each
usage type. Writes the probability table, dominant usage, usage entropy and the
top representative stations per usage type.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			features, svc, err := e.services()
			if err != nil {
				return err
			}
			req, err := e.timelineRequest()
			if err != nil {
				return err
			}
			tl, err := svc.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			if len(tl.Assignments) == 0 {
				return errors.InsufficientData("no monthly snapshot had enough valid stations to cluster")
			}
			table, err := features.BuildFeatureTable(cmd.Context(), core.Interval{Start: req.Start, End: req.End})
			if err != nil {
				return err
			}
			est, err := svc.Estimate(tl, e.cfg.Analysis.Alpha, app.StationScores(table), e.cfg.Analysis.TopN)
			if err != nil {
				return err
			}

			var top []probability.Row
			for _, t := range usage.All {
				top = append(top, est.Representatives[t]...)
			}
			return e.write(cmd,
				export.ProbabilityTable("usage_probabilities", est.Probabilities),
				export.ProbabilityTable("dominant_usage", est.Dominant),
				export.EntropyTable(e.loader.Stations(), est.Entropy),
				export.ProbabilityTable("top_stations", top),
			)
		},
	}
}

func newEventsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Compare features on event days with the remaining days",
	}
	cmd.AddCommand(newHolidaysCmd(e), newWeatherCmd(e))
	return cmd
}

func newHolidaysCmd(e *env) *cobra.Command {
	var school bool
	var dayType, start, end string

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Feature deltas on public holidays or school vacations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := parseDayType(dayType)
			if err != nil {
				return err
			}
			interval, err := e.interval(start, end)
			if err != nil {
				return err
			}
			deltas, err := app.NewEventService(e.loader, e.logger).Holidays(cmd.Context(), app.HolidayRequest{
				SchoolVacation: school,
				Interval:       &interval,
				DayType:        dt,
			})
			if err != nil {
				return err
			}
			name := "holiday_delta"
			if school {
				name = "school_vacation_delta"
			}
			return e.write(cmd, export.DeltaTable(name, deltas))
		},
	}

	cmd.Flags().BoolVar(&school, "school", false, "Use school vacations instead of public holidays")
	cmd.Flags().StringVar(&dayType, "day-type", "all", "Restrict both sides to all|weekday|weekend")
	cmd.Flags().StringVar(&start, "start", "", "Interval start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Interval end, exclusive (YYYY-MM-DD)")
	return cmd
}

func newWeatherCmd(e *env) *cobra.Command {
	var bin, dayType string
	var hourFrom, hourTo, minObs int

	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Feature deltas and count response for a weather bin",
		Long: `Derive the days of a weather bin from the joined weather data and compare
each station inside and outside them.

Bins: wet, dry, snow, temp:<low>:<high>, wind:<speed>

Example: bikeusage events weather --bin temp:25:40 --day-type weekday --hour-from 7 --hour-to 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := parseDayType(dayType)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("min-obs") {
				minObs = e.cfg.Analysis.WeatherMinObs
			}
			report, err := app.NewEventService(e.loader, e.logger).Weather(cmd.Context(), app.WeatherRequest{
				Bin:      bin,
				DayType:  dt,
				HourFrom: hourFrom,
				HourTo:   hourTo,
				MinObs:   minObs,
			})
			if err != nil {
				return err
			}
			return e.write(cmd,
				export.DeltaTable("weather_delta_"+report.Bin, report.Deltas),
				export.WeatherTable(report.Responses),
			)
		},
	}

	cmd.Flags().StringVar(&bin, "bin", "wet", "Weather bin")
	cmd.Flags().StringVar(&dayType, "day-type", "all", "Restrict to all|weekday|weekend")
	cmd.Flags().IntVar(&hourFrom, "hour-from", 0, "First hour of the hour window")
	cmd.Flags().IntVar(&hourTo, "hour-to", 0, "Hour after the window; 0 disables the window")
	cmd.Flags().IntVar(&minObs, "min-obs", 0, "Minimum rows on each side, default analysis.weather_min_obs")
	return cmd
}

func newAccidentsCmd(e *env) *cobra.Command {
	var radius float64
	var bicycleOnly bool
	var state, region, district int

	cmd := &cobra.Command{
		Use:   "accidents",
		Short: "Accidents near each station and accident counts over time",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("radius") {
				radius = e.cfg.Analysis.AccidentRadius
			}
			var filter accident.RegionFilter
			if cmd.Flags().Changed("state") {
				filter.State = &state
			}
			if cmd.Flags().Changed("region") {
				filter.Region = &region
			}
			if cmd.Flags().Changed("district") {
				filter.District = &district
			}

			report, err := app.NewAccidentService(e.loader, e.logger).Analyze(app.AccidentRequest{
				Radius:      radius,
				BicycleOnly: bicycleOnly,
				Region:      filter,
			})
			if err != nil {
				return err
			}
			return e.write(cmd,
				export.AccidentTable(report.Stations),
				export.BucketTable("accidents_per_month", "month", report.PerMonth, true),
				export.BucketTable("accidents_per_hour", "hour", report.PerHour, false),
				export.BucketTable("accidents_per_weekday", "weekday", report.PerWeekday, false),
			)
		},
	}

	cmd.Flags().Float64Var(&radius, "radius", 0, "Search radius in meters, default analysis.accident_radius")
	cmd.Flags().BoolVar(&bicycleOnly, "bicycle-only", false, "Aggregate bicycle accidents only")
	cmd.Flags().IntVar(&state, "state", 0, "State code filter")
	cmd.Flags().IntVar(&region, "region", 0, "Region code filter")
	cmd.Flags().IntVar(&district, "district", 0, "District code filter")
	return cmd
}

func newOutageCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "outage",
		Short: "Share of missing hours per station",
		RunE: func(cmd *cobra.Command, args []string) error {
			outages, err := app.NewOutageService(e.loader, e.logger).Outages()
			if err != nil {
				return err
			}
			return e.write(cmd, export.OutageTable(outages))
		},
	}
}

func newReportCmd(e *env) *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the full analysis and write a Markdown or HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			features, timeline, err := e.services()
			if err != nil {
				return err
			}
			interval, err := e.cfg.Analysis.Range()
			if err != nil {
				return err
			}
			svc := app.NewReportService(features, timeline, app.NewEventService(e.loader, e.logger), e.logger)
			summary, err := svc.Build(cmd.Context(), app.ReportRequest{
				City:         e.cfg.Data.City,
				Interval:     interval,
				Mode:         e.cfg.Analysis.Mode,
				WindowMonths: e.cfg.Analysis.WindowMonths,
				Alpha:        e.cfg.Analysis.Alpha,
				TopN:         e.cfg.Analysis.TopN,
				RunID:        e.runID,
			})
			if err != nil {
				return err
			}

			name := "report.md"
			if html {
				name = "report.html"
			}
			path := filepath.Join(e.cfg.Output.Dir, name)
			if err := os.MkdirAll(e.cfg.Output.Dir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, svc.Render(summary, html), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return e.write(cmd, export.FeatureTable(summary.Features), export.ProbabilityTable("dominant_usage", summary.Dominant))
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "Render HTML instead of Markdown")
	return cmd
}
