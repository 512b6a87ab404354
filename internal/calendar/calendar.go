// Package calendar provides the date bookkeeping behind catalog date filters:
// month lengths, month and year windows, and ISO date strings.
//
// Catalog date filters are start-inclusive and end-exclusive, so every window
// carries an Until bound one day past the last day it is meant to include.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO date format used for date strings.
const DateLayout = "2006-01-02"

// ErrInvalidDateRange is returned when a date range cannot be parsed or is reversed.
var ErrInvalidDateRange = errors.New("invalid date range")

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month (1-12) of year.
// It returns 0 for a month outside 1-12.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// Date returns midnight UTC of the given calendar day.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time of day from t, in UTC.
func Truncate(t time.Time) time.Time {
	t = t.UTC()
	return Date(t.Year(), int(t.Month()), t.Day())
}

// FormatDate formats t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return t, nil
}

// SpanYears returns the length of [start, end] in whole days divided by 365.25.
func SpanYears(start, end time.Time) float64 {
	days := int(end.Sub(start).Hours() / 24)
	return float64(days) / 365.25
}

// Years returns every calendar year from start's year to end's year, inclusive.
func Years(start, end time.Time) []int {
	first, last := start.UTC().Year(), end.UTC().Year()
	if last < first {
		return nil
	}
	years := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		years = append(years, y)
	}
	return years
}

// DateRange is a pair of ISO dates. Catalogs treat Start as inclusive and End
// as exclusive; use IncludeEnd to cover the End day itself.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewDateRange validates both dates and their order.
func NewDateRange(start, end string) (DateRange, error) {
	r := DateRange{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
	if _, _, err := r.Times(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Times parses the range into its start and end instants.
func (r DateRange) Times() (time.Time, time.Time, error) {
	start, err := ParseDate(r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start: %v", ErrInvalidDateRange, err)
	}
	end, err := ParseDate(r.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end: %v", ErrInvalidDateRange, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidDateRange, r.End, r.Start)
	}
	return start, end, nil
}

// IncludeEnd returns the range with End moved one day later, so an
// end-exclusive filter still covers the original End day.
func (r DateRange) IncludeEnd() DateRange {
	end, err := ParseDate(r.End)
	if err != nil {
		return r
	}
	return DateRange{Start: r.Start, End: FormatDate(end.AddDate(0, 0, 1))}
}

// String renders the range as "start to end".
func (r DateRange) String() string {
	return r.Start + " to " + r.End
}

// Window is a filter window of whole days. From and Last are the first and
// last included days; Until is the exclusive bound handed to the catalog.
type Window struct {
	Year    int
	Month   int
	From    time.Time
	Last    time.Time
	Until   time.Time
	Partial bool
}

// String renders the included days as "from to last".
func (w Window) String() string {
	return FormatDate(w.From) + " to " + FormatDate(w.Last)
}

// YearWindow covers January 1 through December 31 of year.
func YearWindow(year int) Window {
	return Window{
		Year:  year,
		From:  Date(year, 1, 1),
		Last:  Date(year, 12, 31),
		Until: Date(year+1, 1, 1),
	}
}

// MonthWindow builds the filter window for month of year, clipped to the
// observed range [start, end]. The first observed month starts at start's
// date and the last observed month stops at end's date. It returns false
// when the month lies entirely outside the observed range.
func MonthWindow(year, month int, start, end time.Time) (Window, bool) {
	start, end = start.UTC(), end.UTC()
	if month < 1 || month > 12 {
		return Window{}, false
	}
	if year < start.Year() || year > end.Year() {
		return Window{}, false
	}
	if year == start.Year() && month < int(start.Month()) {
		return Window{}, false
	}
	if year == end.Year() && month > int(end.Month()) {
		return Window{}, false
	}

	w := Window{
		Year:  year,
		Month: month,
		From:  Date(year, month, 1),
		Last:  Date(year, month, DaysInMonth(year, month)),
	}
	if year == start.Year() && month == int(start.Month()) {
		w.From = Truncate(start)
		w.Partial = true
	}
	if year == end.Year() && month == int(end.Month()) {
		w.Last = Truncate(end)
		w.Partial = true
	}
	w.Until = w.Last.AddDate(0, 0, 1)
	return w, true
}
