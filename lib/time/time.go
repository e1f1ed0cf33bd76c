// Package time holds calendar-day helpers. Dates in lifegraph are whole days:
// the clock and zone of a time.Time are discarded as soon as it enters the
// library.
package time

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Day returns the calendar day of t, in t's own location, as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date is a shorthand for a UTC calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// AddYears moves t by years calendar years. A day that does not exist in the
// target month is clamped to the month's last day, so Feb 29 plus one year is
// Feb 28 rather than Mar 1 as time.AddDate would have it.
func AddYears(t time.Time, years int) time.Time {
	y, m, d := Day(t).Date()
	y += years
	if last := daysIn(m, y); d > last {
		d = last
	}
	return Date(y, m, d)
}

// DaysBetween is the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
}

// AddDays moves t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

const secondsPerDay = 24 * 60 * 60

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
