package weather

import (
	"fmt"

	"bikeusage/domain/core"
	"bikeusage/domain/station"

	"github.com/montanaflynn/stats"
)

// DefaultMinObs is the smallest number of rows each side needs.
const DefaultMinObs = 24

// Response is how a station's mean count inside a weather bin differs from the
// mean outside it.
type Response struct {
	Station     string  `json:"station"`
	Bin         string  `json:"bin"`
	InsideMean  float64 `json:"inside_mean"`
	OutsideMean float64 `json:"outside_mean"`
	InsideObs   int     `json:"inside_obs"`
	OutsideObs  int     `json:"outside_obs"`
	Absolute    float64 `json:"delta_absolute"`
	Relative    float64 `json:"delta_relative"`
}

// Measure splits series (after q's interval, day type and hour window) into rows
// inside and outside days and compares their mean counts. Either side below
// minObs rows, or a zero outside mean, is insufficient data.
func Measure(series station.CountSeries, bin string, days []core.DateRange, q station.Query, minObs int) (Response, error) {
	q.Dates = nil
	q.ExcludeDates = false
	filtered := q.Apply(series)

	var inside, outside stats.Float64Data
	for _, o := range filtered.Observations {
		if core.InAnyRange(o.Time, days) {
			inside = append(inside, float64(o.Count))
		} else {
			outside = append(outside, float64(o.Count))
		}
	}
	if len(inside) < minObs || len(outside) < minObs {
		return Response{}, fmt.Errorf("%w: %d rows inside and %d outside %s, need %d",
			core.ErrInsufficientData, len(inside), len(outside), bin, minObs)
	}

	in, err := inside.Mean()
	if err != nil {
		return Response{}, err
	}
	out, err := outside.Mean()
	if err != nil {
		return Response{}, err
	}
	if out == 0 {
		return Response{}, core.NewInsufficientDataError("zero mean count outside " + bin)
	}

	return Response{
		Station:     series.Station,
		Bin:         bin,
		InsideMean:  in,
		OutsideMean: out,
		InsideObs:   len(inside),
		OutsideObs:  len(outside),
		Absolute:    in - out,
		Relative:    (in - out) / out,
	}, nil
}
