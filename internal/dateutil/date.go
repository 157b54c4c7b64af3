// =============================================================================
// Library Loan Reports - Calendar Dates
// =============================================================================
//
// This module defines Date, a calendar date with no time-of-day component,
// and the layouts used throughout the application.
//
// LAYOUTS (Go reference-time notation):
//   - ISOLayout     "2006-01-02"  : YYYY-MM-DD, formatting
//   - DisplayLayout "02 Jan 2006" : DD Mon YYYY, output of ReformatDates
//   - LoanLayout    "01/02/2006"  : MM/DD/YYYY, formatting
//
// Parsing uses ISOInputLayout and LoanInputLayout, which accept months and
// days with or without a leading zero ("2001-1-5" and "1/5/2001" as well as
// "2001-01-05" and "01/05/2001").
//
// All arithmetic is done in UTC so that day differences are never skewed by
// daylight-saving transitions.
//
// =============================================================================

package dateutil

import (
	"fmt"
	"time"
)

// Date layouts.
const (
	ISOLayout     = "2006-01-02"
	DisplayLayout = "02 Jan 2006"
	LoanLayout    = "01/02/2006"

	ISOInputLayout  = "2006-1-2"
	LoanInputLayout = "1/2/2006"
)

const secondsPerDay = 24 * 60 * 60

// Date is a calendar date (year, month, day) with no time component.
// The zero value is not a meaningful date; build dates with NewDate,
// DateOf or ParseDate.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for year, month and day, normalizing overflowing
// values the way time.Date does (e.g. January 32 becomes February 1).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses value with the given layout and returns its calendar date.
// The returned error is the *time.ParseError from the time package; callers
// wrap it into a types.Error with their own context.
func ParseDate(layout, value string) (Date, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (before d if n is negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// DaysSince returns the number of whole days from other to d.
// It is negative when d is before other.
func (d Date) DaysSince(other Date) int {
	return int((d.Time().Unix() - other.Time().Unix()) / secondsPerDay)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d Date) Compare(other Date) int {
	return d.Time().Compare(other.Time())
}

// Format formats the date with a Go time layout.
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(ISOLayout)
}

// GoString makes %#v output readable in test failures.
func (d Date) GoString() string {
	return fmt.Sprintf("dateutil.Date(%s)", d.String())
}
