// Package period models the calendar month selector shared by dashboards,
// list filters and reports.
package period

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidMonth = errors.New("invalid_month")
	ErrInvalidYear  = errors.New("invalid_year")
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Period is one calendar month evaluated in Location.
type Period struct {
	Year     int            `json:"year"`
	Month    int            `json:"month"`
	Location *time.Location `json:"-"`
}

func New(year, month int, loc *time.Location) (Period, error) {
	p := Period{Year: year, Month: month, Location: loc}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Of returns the period containing t.
func Of(t time.Time, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return Period{Year: local.Year(), Month: int(local.Month()), Location: loc}
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidMonth
	}
	if p.Year < 1 || p.Year > 9999 {
		return ErrInvalidYear
	}
	return nil
}

func (p Period) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Previous returns the month before p, rolling January back to December.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12, Location: p.Location}
	}
	return Period{Year: p.Year, Month: p.Month - 1, Location: p.Location}
}

// Contains reports whether t falls in the period. The zero time is never
// contained.
func (p Period) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	local := t.In(p.location())
	return local.Year() == p.Year && int(local.Month()) == p.Month
}

func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, p.location())
}

// End is the exclusive upper bound.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Label renders the period in Indonesian, e.g. "Oktober 2024".
func (p Period) Label() string {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Sprintf("%02d/%d", p.Month, p.Year)
	}
	return fmt.Sprintf("%s %d", monthNames[p.Month-1], p.Year)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// MonthName returns the Indonesian month name for m in 1..12.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// Resolve validates an explicit selector, or returns the month containing
// now when both year and month are zero. A month without a year falls in
// the current year.
func Resolve(year, month int, now time.Time, loc *time.Location) (Period, error) {
	current := Of(now, loc)
	if year == 0 && month == 0 {
		return current, nil
	}
	if year == 0 {
		year = current.Year
	}
	return New(year, month, loc)
}
