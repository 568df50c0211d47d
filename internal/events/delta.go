// Package events compares a station's feature vector inside a set of event days
// (holidays, weather bins) with the vector outside them.
package events

import (
	"fmt"

	"bikeusage/domain/core"
	"bikeusage/domain/station"
	"bikeusage/internal/features"
)

// Delta is one row of the event delta table. Diff is Event - Baseline.
type Delta struct {
	Station       string          `json:"station"`
	Event         features.Vector `json:"event"`
	Baseline      features.Vector `json:"baseline"`
	EventScore    float64         `json:"event_score"`
	BaselineScore float64         `json:"baseline_score"`
	ScoreDelta    float64         `json:"delta"`
	Diff          features.Vector `json:"diff"`
}

// Spec selects the event and baseline days. A nil Baseline means the complement
// of Event. Base carries the interval and day type both sides share; its own
// date list is replaced.
type Spec struct {
	Base     station.Query
	Event    []core.DateRange
	Baseline []core.DateRange
}

func (s Spec) eventQuery() station.Query {
	q := s.Base
	q.Dates = s.Event
	if q.Dates == nil {
		// no event days must not read as "no date filter"
		q.Dates = []core.DateRange{}
	}
	q.ExcludeDates = false
	return q
}

func (s Spec) baselineQuery() station.Query {
	q := s.Base
	if s.Baseline != nil {
		q.Dates = s.Baseline
		q.ExcludeDates = false
		return q
	}
	q.Dates = s.Event
	if q.Dates == nil {
		q.Dates = []core.DateRange{}
	}
	q.ExcludeDates = true
	return q
}

// Compare computes the event and baseline vectors of series. ok is false when
// either side is invalid; the reason is then returned as a data condition error.
func Compare(series station.CountSeries, spec Spec) (Delta, bool, error) {
	event, err := features.Compute(series, spec.eventQuery())
	if err != nil {
		return Delta{}, false, err
	}
	baseline, err := features.Compute(series, spec.baselineQuery())
	if err != nil {
		return Delta{}, false, err
	}
	if !event.Valid {
		return Delta{}, false, fmt.Errorf("%w: event side: %s", core.ErrInsufficientData, event.Reason)
	}
	if !baseline.Valid {
		return Delta{}, false, fmt.Errorf("%w: baseline side: %s", core.ErrInsufficientData, baseline.Reason)
	}

	es, bs := event.UtilitarianScore(), baseline.UtilitarianScore()
	return Delta{
		Station:       series.Station,
		Event:         event,
		Baseline:      baseline,
		EventScore:    es,
		BaselineScore: bs,
		ScoreDelta:    es - bs,
		Diff:          event.Sub(baseline),
	}, true, nil
}
