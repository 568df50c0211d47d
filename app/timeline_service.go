package app

import (
	"context"
	"fmt"
	"time"

	"bikeusage/domain/core"
	"bikeusage/domain/usage"
	"bikeusage/internal"
	"bikeusage/internal/clustering"
	"bikeusage/internal/config"
	"bikeusage/internal/features"
	"bikeusage/internal/labeling"
	"bikeusage/internal/probability"
	"bikeusage/internal/tracking"
)

// MakeInterval returns the clustering window ending at d: [start, d) in
// cumulative mode, [d - windowMonths, d) in sliding mode.
func MakeInterval(mode string, start, d time.Time, windowMonths int) (core.Interval, error) {
	switch mode {
	case config.ModeCumulative:
		return core.Interval{Start: start, End: d}, nil
	case config.ModeSliding:
		if windowMonths < 1 {
			return core.Interval{}, fmt.Errorf("%w: window of %d months", core.ErrInvalidInterval, windowMonths)
		}
		return core.Interval{Start: d.AddDate(0, -windowMonths, 0), End: d}, nil
	default:
		return core.Interval{}, fmt.Errorf("%w: %q (want %s or %s)",
			core.ErrInvalidMode, mode, config.ModeCumulative, config.ModeSliding)
	}
}

// TimelineRequest defines one monthly clustering run
type TimelineRequest struct {
	Start        time.Time
	End          time.Time
	Mode         string
	WindowMonths int
	RunID        core.RunID // optional, generated when empty
}

// Timeline is the aligned usage timeline of a run
type Timeline struct {
	RunID       core.RunID                  `json:"run_id"`
	K           int                         `json:"k"`
	Mode        string                      `json:"mode"`
	Snapshots   []*tracking.AlignedSnapshot `json:"-"`
	Labelings   []labeling.Labeling         `json:"-"`
	Skipped     []time.Time                 `json:"skipped"`
	Assignments []usage.Assignment          `json:"assignments"`
}

// UsageEstimate bundles the probability tables derived from a timeline
type UsageEstimate struct {
	RunID           core.RunID                       `json:"run_id"`
	Probabilities   []probability.Row                `json:"probabilities"`
	Dominant        []probability.Row                `json:"dominant"`
	Entropy         map[string]float64               `json:"entropy"`
	Representatives map[usage.Type][]probability.Row `json:"representatives"`
}

// TimelineService clusters stations month by month and keeps cluster identities
// stable across months
type TimelineService struct {
	features *FeatureService
	cfg      clustering.Config
	logger   *internal.Logger
}

// NewTimelineService creates a timeline service. The clustering config is
// validated here so a bad k fails before any data is touched.
func NewTimelineService(features *FeatureService, cfg clustering.Config, logger *internal.Logger) (*TimelineService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &TimelineService{features: features, cfg: cfg, logger: logger}, nil
}

// Run clusters every monthly date between req.Start and req.End and aligns the
// snapshots. Dates whose window is empty or holds too few valid stations are
// skipped and recorded in Timeline.Skipped.
func (s *TimelineService) Run(ctx context.Context, req TimelineRequest) (*Timeline, error) {
	startTime := time.Now()

	if !req.Start.Before(req.End) {
		return nil, fmt.Errorf("%w: start %s is not before end %s", core.ErrInvalidInterval,
			req.Start.Format(core.DateLayout), req.End.Format(core.DateLayout))
	}
	// reject a bad mode before the first date is processed
	if _, err := MakeInterval(req.Mode, req.Start, req.End, req.WindowMonths); err != nil {
		return nil, err
	}

	runID := req.RunID
	if runID == "" {
		runID = core.NewRunID()
	}

	engine, err := clustering.NewEngine(s.cfg)
	if err != nil {
		return nil, err
	}
	tracker := tracking.NewTracker()
	timeline := &Timeline{RunID: runID, K: s.cfg.K, Mode: req.Mode}

	for _, d := range core.MonthlyDates(req.Start, req.End) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snapshot, err := s.clusterAt(ctx, engine, req, d)
		if err != nil {
			if !core.IsDataCondition(err) {
				return nil, err
			}
			s.logger.Debug("timeline: skipping %s: %v", d.Format(core.DateLayout), err)
			timeline.Skipped = append(timeline.Skipped, d)
			continue
		}

		aligned, err := tracker.Align(snapshot)
		if err != nil {
			return nil, fmt.Errorf("align snapshot %s: %w", d.Format(core.DateLayout), err)
		}
		labels, err := labeling.LabelSnapshot(aligned)
		if err != nil {
			return nil, fmt.Errorf("label snapshot %s: %w", d.Format(core.DateLayout), err)
		}

		for i, name := range aligned.Stations {
			t, ok := labels.TypeOf(aligned.Clusters[i])
			if !ok {
				continue
			}
			timeline.Assignments = append(timeline.Assignments, usage.Assignment{
				Station: name,
				Date:    d,
				Cluster: int(aligned.Clusters[i]),
				Type:    t,
			})
		}
		timeline.Snapshots = append(timeline.Snapshots, aligned)
		timeline.Labelings = append(timeline.Labelings, labels)
	}

	s.logger.Info("timeline %s: %d snapshots clustered, %d skipped in %v",
		runID, len(timeline.Snapshots), len(timeline.Skipped), time.Since(startTime).Round(time.Millisecond))
	return timeline, nil
}

func (s *TimelineService) clusterAt(ctx context.Context, engine *clustering.Engine, req TimelineRequest, d time.Time) (*clustering.Snapshot, error) {
	interval, err := MakeInterval(req.Mode, req.Start, d, req.WindowMonths)
	if err != nil {
		return nil, err
	}
	if !interval.Start.Before(interval.End) {
		return nil, core.NewInsufficientDataError("empty window " + interval.String())
	}
	table, err := s.features.BuildFeatureTable(ctx, interval)
	if err != nil {
		return nil, err
	}
	return engine.Cluster(table, d)
}

// Estimate derives usage probabilities, dominant usage, entropy and the top-n
// representative stations per usage type. scores holds each station's raw
// utilitarian score and may be nil, in which case only probability ranks.
func (s *TimelineService) Estimate(t *Timeline, alpha float64, scores map[string]float64, topN int) (*UsageEstimate, error) {
	rows, err := probability.Estimate(t.Assignments, alpha)
	if err != nil {
		return nil, err
	}
	return &UsageEstimate{
		RunID:           t.RunID,
		Probabilities:   rows,
		Dominant:        probability.Dominant(rows),
		Entropy:         probability.Entropy(rows),
		Representatives: probability.Representatives(rows, scores, topN),
	}, nil
}

// StationScores returns the raw utilitarian score of every valid row.
func StationScores(table features.Table) map[string]float64 {
	out := make(map[string]float64, len(table))
	for _, r := range table.Valid() {
		out[r.Station] = r.UtilitarianScore()
	}
	return out
}

// Agreement returns the adjusted Rand index between the aligned cluster
// assignments of two snapshots.
func Agreement(a, b *tracking.AlignedSnapshot) float64 {
	return clustering.AdjustedRandIndex(clusterMap(a), clusterMap(b))
}

func clusterMap(a *tracking.AlignedSnapshot) map[string]int {
	out := make(map[string]int, len(a.Stations))
	for name, c := range a.Assignments() {
		out[name] = int(c)
	}
	return out
}
