// Package features reduces a station's hourly and monthly profiles to three shape
// scores: the double peak index (DPI), the weekend shape difference (WSD) and the
// seasonal drop index (SDI).
package features

import (
	"errors"

	"bikeusage/domain/core"
	"bikeusage/domain/station"
	"bikeusage/internal/index"
)

// Names of the feature columns, in vector order.
const (
	DPI = "DPI"
	WSD = "WSD"
	SDI = "SDI"
)

// Columns lists the feature names in the order Vector.Slice returns them.
var Columns = []string{DPI, WSD, SDI}

var (
	summerMonths = []int{6, 7, 8}
	winterMonths = []int{11, 12, 1, 2}
)

// Vector is the feature triple of one station over one interval.
// When Valid is false the scores are meaningless and Reason says why.
type Vector struct {
	DPI    float64 `json:"dpi"`
	WSD    float64 `json:"wsd"`
	SDI    float64 `json:"sdi"`
	Valid  bool    `json:"valid"`
	Reason string  `json:"reason,omitempty"`
}

// Invalid returns a vector marked invalid because of err.
func Invalid(err error) Vector {
	return Vector{Reason: err.Error()}
}

// Slice returns [DPI, WSD, SDI].
func (v Vector) Slice() []float64 {
	return []float64{v.DPI, v.WSD, v.SDI}
}

// UtilitarianScore is DPI + WSD - SDI on the raw features.
func (v Vector) UtilitarianScore() float64 {
	return v.DPI + v.WSD - v.SDI
}

// Sub returns the elementwise difference v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{DPI: v.DPI - o.DPI, WSD: v.WSD - o.WSD, SDI: v.SDI - o.SDI, Valid: v.Valid && o.Valid}
}

// Profiles bundles the three profiles the extractor consumes.
type Profiles struct {
	WeekdayHourly index.Profile
	WeekendHourly index.Profile
	Monthly       index.Profile
}

// Extract computes the feature vector from p, or an invalid vector when the
// monthly profile lacks a summer or a winter month or any sub-feature fails.
func Extract(p Profiles) Vector {
	if !p.Monthly.Has(summerMonths...) {
		return Invalid(core.NewInsufficientDataError("no summer month (Jun-Aug) in interval"))
	}
	if !p.Monthly.Has(winterMonths...) {
		return Invalid(core.NewInsufficientDataError("no winter month (Nov-Feb) in interval"))
	}

	dpi, err := DoublePeakIndex(p.WeekdayHourly)
	if err != nil {
		return Invalid(err)
	}
	wsd, err := WeekendShapeDifference(p.WeekdayHourly, p.WeekendHourly)
	if err != nil {
		return Invalid(err)
	}
	sdi, err := SeasonalDropIndex(p.Monthly)
	if err != nil {
		return Invalid(err)
	}
	return Vector{DPI: dpi, WSD: wsd, SDI: sdi, Valid: true}
}

// BuildProfiles derives the weekday-hourly, weekend-hourly and monthly profiles of
// an hourly series under q. q's own day type applies to the monthly profile only.
func BuildProfiles(series station.CountSeries, q station.Query) (Profiles, error) {
	var p Profiles
	var err error
	if p.WeekdayHourly, err = index.Build(series, index.HourOfDay, q.WithDayType(station.Weekdays)); err != nil {
		return Profiles{}, err
	}
	if p.WeekendHourly, err = index.Build(series, index.HourOfDay, q.WithDayType(station.Weekends)); err != nil {
		return Profiles{}, err
	}
	if p.Monthly, err = index.Build(series, index.MonthOfYear, q); err != nil {
		return Profiles{}, err
	}
	return p, nil
}

// Compute builds the profiles of series under q and extracts the feature vector.
// Data shortfalls yield an invalid vector; only configuration errors are returned.
func Compute(series station.CountSeries, q station.Query) (Vector, error) {
	if series.IsEmpty() {
		return Invalid(core.NewInsufficientDataError("empty count series")), nil
	}
	p, err := BuildProfiles(series, q)
	if err != nil {
		if errors.Is(err, core.ErrInsufficientData) {
			return Invalid(err), nil
		}
		return Vector{}, err
	}
	return Extract(p), nil
}
