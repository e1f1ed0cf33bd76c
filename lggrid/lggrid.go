// Package lggrid maps calendar dates onto the week/year grid of a lifetime poster.
//
// Row y is the y-th year of life, anchored on the y-th birthday rather than on
// January 1st, so every birthday lands in week 1 of its row. Column x is the
// 1-based week within that year.
package lggrid

import (
	"errors"
	"fmt"
	"time"

	"oss.terrastruct.com/lifegraph/lib/geo"
	timelib "oss.terrastruct.com/lifegraph/lib/time"
)

const (
	DEFAULT_WEEKS_PER_YEAR = 52
	DEFAULT_MAX_AGE        = 90

	daysPerYear = 365
	daysPerWeek = 7
)

var (
	ErrOutOfRangeDate = errors.New("date out of range")
	ErrInvalidGrid    = errors.New("invalid grid")
)

// OutOfRangeError reports a date that falls outside the poster.
type OutOfRangeError struct {
	Date  time.Time
	Birth time.Time
	Last  time.Time
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s is not within [%s, %s]",
		ErrOutOfRangeDate,
		timelib.FormatDate(e.Date),
		timelib.FormatDate(e.Birth),
		timelib.FormatDate(e.Last),
	)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRangeDate
}

// Position is the grid cell of a date.
type Position struct {
	// Week is in [1, weeksPerYear].
	Week int `json:"week"`
	// Year is the year row, in [0, maxAge).
	Year int       `json:"year"`
	Date time.Time `json:"date"`
}

// Point is the cell's center in grid coordinates.
func (p Position) Point() geo.Point {
	return geo.NewPoint(float64(p.Week), float64(p.Year))
}

// Less orders positions top to bottom, then left to right.
func (p Position) Less(o Position) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Week < o.Week
}

func (p Position) String() string {
	return fmt.Sprintf("(week %d, year %d)", p.Week, p.Year)
}

// Map returns the grid cell of date for a life starting at birth on a grid of
// weeksPerYear columns and maxAge rows.
func Map(date, birth time.Time, weeksPerYear, maxAge int) (Position, error) {
	m, err := NewMapper(birth, weeksPerYear, maxAge)
	if err != nil {
		return Position{}, err
	}
	return m.Map(date)
}

// Mapper maps dates for one birth date and grid size.
type Mapper struct {
	Birth        time.Time
	WeeksPerYear int
	MaxAge       int
}

func NewMapper(birth time.Time, weeksPerYear, maxAge int) (*Mapper, error) {
	if birth.IsZero() {
		return nil, fmt.Errorf("%w: missing birth date", ErrInvalidGrid)
	}
	if weeksPerYear <= 0 {
		return nil, fmt.Errorf("%w: weeks per year must be positive, got %d", ErrInvalidGrid, weeksPerYear)
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("%w: max age must be positive, got %d", ErrInvalidGrid, maxAge)
	}
	return &Mapper{
		Birth:        timelib.Day(birth),
		WeeksPerYear: weeksPerYear,
		MaxAge:       maxAge,
	}, nil
}

// Last is the last date on the poster.
//
// Rows are 365 days long but calendar years are not, so the days between the
// end of the last row and the maxAge-th birthday map to a row past the grid
// and are excluded.
func (m *Mapper) Last() time.Time {
	return timelib.AddDays(m.Birth, daysPerYear*m.MaxAge-1)
}

func (m *Mapper) Map(date time.Time) (Position, error) {
	date = timelib.Day(date)
	if date.Before(m.Birth) || date.After(m.Last()) {
		return Position{}, m.outOfRange(date)
	}

	year := floorDiv(timelib.DaysBetween(m.Birth, date), daysPerYear)

	startOfYear := timelib.AddYears(m.Birth, year)
	week := floorDiv(timelib.DaysBetween(startOfYear, date), daysPerWeek)

	return Position{
		Week: floorMod(week, m.WeeksPerYear) + 1,
		Year: year,
		Date: date,
	}, nil
}

func (m *Mapper) outOfRange(date time.Time) error {
	return &OutOfRangeError{
		Date:  date,
		Birth: m.Birth,
		Last:  m.Last(),
	}
}

// Midpoint is the day halfway between start and end, rounded toward start.
func Midpoint(start, end time.Time) time.Time {
	days := timelib.DaysBetween(start, end)
	return timelib.AddDays(start, floorDiv(days, 2))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
