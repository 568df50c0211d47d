package features

import (
	"fmt"
	"math"

	"bikeusage/domain/core"
	"bikeusage/internal/index"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// Hour windows of the double-peak index, half-open.
const (
	morningFrom, morningTo = 5, 10
	eveningFrom, eveningTo = 14, 20
	middayFrom, middayTo   = 8, 14

	// peak separation at which the distance term saturates
	peakDistanceScale = 10.0
)

// SeasonalDropIndex is (q90 - q10) / q90 over the monthly index values, using
// nearest-rank percentiles.
func SeasonalDropIndex(monthly index.Profile) (float64, error) {
	values := monthly.Values()
	if len(values) == 0 {
		return 0, core.NewInsufficientDataError("monthly profile is empty")
	}
	q90, err := stats.PercentileNearestRank(values, 90)
	if err != nil {
		return 0, core.NewInsufficientDataError(err.Error())
	}
	q10, err := stats.PercentileNearestRank(values, 10)
	if err != nil {
		return 0, core.NewInsufficientDataError(err.Error())
	}
	if math.IsNaN(q90) || q90 <= 0 {
		return 0, core.NewInsufficientDataError("monthly q90 is not positive")
	}
	return (q90 - q10) / q90, nil
}

// peak returns the highest-index entry in [from, to); the earliest hour wins ties.
func peak(p index.Profile, from, to int) (index.Entry, bool) {
	window := p.Window(from, to)
	if len(window) == 0 {
		return index.Entry{}, false
	}
	best := window[0]
	for _, e := range window[1:] {
		if e.Index > best.Index {
			best = e
		}
	}
	return best, true
}

// DoublePeakIndex scores a commute-style morning and evening peak in an hourly profile
// as strength × symmetry × distance. It is never negative.
func DoublePeakIndex(hourly index.Profile) (float64, error) {
	morning, ok := peak(hourly, morningFrom, morningTo)
	if !ok {
		return 0, core.NewInsufficientDataError("no hours in morning peak window")
	}
	evening, ok := peak(hourly, eveningFrom, eveningTo)
	if !ok {
		return 0, core.NewInsufficientDataError("no hours in evening peak window")
	}
	middayEntries := hourly.Window(middayFrom, middayTo)
	if len(middayEntries) == 0 {
		return 0, core.NewInsufficientDataError("no hours in midday window")
	}
	midday := 0.0
	for _, e := range middayEntries {
		midday += e.Index
	}
	midday /= float64(len(middayEntries))

	top := math.Max(morning.Index, evening.Index)
	if top <= 0 {
		// no riders in either window: no peak to speak of
		return 0, nil
	}

	strength := math.Max(0, ((morning.Index-midday)+(evening.Index-midday))/2)
	symmetry := 1 - math.Abs(morning.Index-evening.Index)/top
	distance := math.Min(math.Abs(float64(evening.Unit-morning.Unit))/peakDistanceScale, 1)

	return math.Max(0, strength*symmetry*distance), nil
}

// WeekendShapeDifference is the L2 distance between the weekday and weekend hourly
// profiles after each is rescaled to sum to one. Both profiles need all 24 hours.
func WeekendShapeDifference(weekday, weekend index.Profile) (float64, error) {
	if !weekday.Complete() || !weekend.Complete() {
		return 0, core.NewInsufficientDataError(fmt.Sprintf(
			"hourly profiles incomplete (weekday %d/24, weekend %d/24)", weekday.Len(), weekend.Len()))
	}
	wd, err := shape(weekday.Values())
	if err != nil {
		return 0, err
	}
	we, err := shape(weekend.Values())
	if err != nil {
		return 0, err
	}
	return floats.Distance(wd, we, 2), nil
}

func shape(values []float64) ([]float64, error) {
	total := floats.Sum(values)
	if total <= 0 {
		return nil, core.NewInsufficientDataError("hourly profile sums to zero")
	}
	out := make([]float64, len(values))
	copy(out, values)
	floats.Scale(1/total, out)
	return out, nil
}
