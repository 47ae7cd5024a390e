// Package dates provides calendar arithmetic over timezone-naive civil
// dates in ISO "YYYY-MM-DD" form. The string form is the canonical join
// key throughout the schedule model: it round-trips exactly through
// Parse/Format and sorts chronologically under plain string comparison.
package dates

import (
	"fmt"
	"time"
)

// ISODate is the layout for civil date strings.
const ISODate = "2006-01-02"

// Weekday is a day-of-week name as spelled in course configuration files.
type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

var weekdayNames = map[time.Weekday]Weekday{
	time.Sunday:    Sunday,
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
}

// Valid reports whether w is one of the seven weekday names.
func (w Weekday) Valid() bool {
	switch w {
	case Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return true
	}
	return false
}

// Parse converts an ISO date string into a time.Time at midnight UTC.
// No timezone conversion is applied; dates are civil dates.
func Parse(date string) (time.Time, error) {
	t, err := time.Parse(ISODate, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return t, nil
}

// Format renders t as a canonical ISO date string.
func Format(t time.Time) string {
	return t.Format(ISODate)
}

// WeekdayOf resolves the weekday name for an ISO date string.
func WeekdayOf(date string) (Weekday, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return weekdayNames[t.Weekday()], nil
}

// IterateDays enumerates every calendar day from start to end inclusive.
// It returns a fresh slice on every call so concurrent sweeps never share
// a cursor. An empty slice is returned when end precedes start.
func IterateDays(start, end string) ([]string, error) {
	startT, err := Parse(start)
	if err != nil {
		return nil, err
	}
	endT, err := Parse(end)
	if err != nil {
		return nil, err
	}

	var days []string
	for t := startT; !t.After(endT); t = t.AddDate(0, 0, 1) {
		days = append(days, Format(t))
	}
	return days, nil
}

// WithinInclusive reports whether date falls in the closed interval
// [start, end]. Lexicographic comparison is correct because ISO date
// strings are fixed width.
func WithinInclusive(date, start, end string) bool {
	return date >= start && date <= end
}
