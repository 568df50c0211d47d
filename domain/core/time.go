package core

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used by interval bounds and holiday files.
const DateLayout = "2006-01-02"

// Date truncates t to its UTC calendar day.
func Date(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string as a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidInterval, s)
	}
	return d, nil
}

// Interval is a half-open time window [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval validates the bounds; Start must lie strictly before End.
func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidInterval, start.Format(DateLayout), end.Format(DateLayout))
	}
	return Interval{Start: start, End: end}, nil
}

// ParseInterval builds an Interval from two YYYY-MM-DD strings.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(s, e)
}

// Contains reports whether t lies in [Start, End).
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(DateLayout), i.End.Format(DateLayout))
}

// DateRange is an inclusive range of calendar days. A holiday on 2023-10-03 is
// DateRange{Start: 2023-10-03, End: 2023-10-03}.
type DateRange struct {
	Start time.Time
	End   time.Time
	Name  string
}

// NewDateRange truncates both ends to calendar days and rejects reversed ranges.
func NewDateRange(start, end time.Time, name string) (DateRange, error) {
	s, e := Date(start), Date(end)
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("%w: range %s ends before it starts",
			ErrInvalidInterval, name)
	}
	return DateRange{Start: s, End: e, Name: name}, nil
}

// Contains reports whether the calendar day of t falls within the range, both ends included.
func (r DateRange) Contains(t time.Time) bool {
	d := Date(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days covered.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// InAnyRange reports whether t falls inside at least one of ranges.
func InAnyRange(t time.Time, ranges []DateRange) bool {
	for _, r := range ranges {
		if r.Contains(t) {
			return true
		}
	}
	return false
}

// MonthlyDates returns start, start+1mo, ... up to and including end.
func MonthlyDates(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := Date(start); !d.After(end); d = d.AddDate(0, 1, 0) {
		dates = append(dates, d)
	}
	return dates
}
