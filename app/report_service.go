package app

import (
	"context"
	"fmt"
	"time"

	"bikeusage/domain/core"
	"bikeusage/internal"
	"bikeusage/internal/report"
)

// ReportRequest defines the scope of a full analysis report
type ReportRequest struct {
	City         string
	Interval     core.Interval
	Mode         string
	WindowMonths int
	Alpha        float64
	TopN         int
	RunID        core.RunID // optional
}

// ReportService runs the feature, timeline and holiday analyses and renders a summary
type ReportService struct {
	features *FeatureService
	timeline *TimelineService
	events   *EventService
	logger   *internal.Logger
}

// NewReportService creates a report service from its component services
func NewReportService(features *FeatureService, timeline *TimelineService, events *EventService, logger *internal.Logger) *ReportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReportService{features: features, timeline: timeline, events: events, logger: logger}
}

// Build runs every analysis the report shows.
func (s *ReportService) Build(ctx context.Context, req ReportRequest) (*report.Summary, error) {
	table, err := s.features.BuildFeatureTable(ctx, req.Interval)
	if err != nil {
		return nil, fmt.Errorf("feature table: %w", err)
	}

	tl, err := s.timeline.Run(ctx, TimelineRequest{
		Start:        req.Interval.Start,
		End:          req.Interval.End,
		Mode:         req.Mode,
		WindowMonths: req.WindowMonths,
		RunID:        req.RunID,
	})
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	est, err := s.timeline.Estimate(tl, req.Alpha, StationScores(table), req.TopN)
	if err != nil {
		return nil, fmt.Errorf("usage probabilities: %w", err)
	}

	interval := req.Interval
	public, err := s.events.Holidays(ctx, HolidayRequest{Interval: &interval})
	if err != nil {
		return nil, fmt.Errorf("public holidays: %w", err)
	}
	school, err := s.events.Holidays(ctx, HolidayRequest{Interval: &interval, SchoolVacation: true})
	if err != nil {
		return nil, fmt.Errorf("school vacations: %w", err)
	}

	return &report.Summary{
		RunID:       tl.RunID,
		Generated:   time.Now(),
		City:        req.City,
		K:           tl.K,
		Mode:        tl.Mode,
		Interval:    req.Interval,
		Features:    table,
		Snapshots:   len(tl.Snapshots),
		Skipped:     len(tl.Skipped),
		Dominant:    est.Dominant,
		Entropy:     est.Entropy,
		Top:         est.Representatives,
		Holidays:    public,
		SchoolBreak: school,
	}, nil
}

// Render returns the Markdown of summary, or a standalone HTML page when html is set.
func (s *ReportService) Render(summary *report.Summary, html bool) []byte {
	md := report.Markdown(*summary)
	if !html {
		return md
	}
	return report.HTML(md, "Bicycle usage report: "+summary.City)
}
