package model

import (
	"fmt"
	"time"

	"birthday-coupons/internal/domain"
)

// refLeapYear is the fixed reference year used to validate day/month
// combinations. It is a leap year, so Feb 29 is accepted as a stored
// birthday even though occurrence math treats it specially.
const refLeapYear = 2024

// Birthday is a recurring (day, month) date without a year.
type Birthday struct {
	Day   int `json:"day"`
	Month int `json:"month"`
}

// NewBirthday validates the day/month combination against the fixed
// reference leap year.
func NewBirthday(day, month int) (Birthday, error) {
	b := Birthday{Day: day, Month: month}
	if !b.Valid() {
		return Birthday{}, domain.ErrInvalidBirthday
	}
	return b, nil
}

// Valid reports whether the day/month combination forms a real calendar
// date in the reference leap year. time.Date normalizes out-of-range
// values (Feb 30 becomes Mar 1), so a round-trip mismatch means invalid.
func (b Birthday) Valid() bool {
	if b.Day < 1 || b.Day > 31 || b.Month < 1 || b.Month > 12 {
		return false
	}
	d := time.Date(refLeapYear, time.Month(b.Month), b.Day, 0, 0, 0, 0, time.UTC)
	return d.Day() == b.Day && d.Month() == time.Month(b.Month)
}

// IsZero reports whether the birthday is unset.
func (b Birthday) IsZero() bool { return b.Day == 0 && b.Month == 0 }

// MonthDay renders the birthday in the MM-DD form stored on audit rows.
func (b Birthday) MonthDay() string {
	return fmt.Sprintf("%02d-%02d", b.Month, b.Day)
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// occurrenceIn builds the concrete occurrence date for a given year in
// loc. A Feb 29 birthday in a non-leap year normalizes to Feb 28; the
// coupon arrives a day early rather than in March.
func (b Birthday) occurrenceIn(year int, loc *time.Location) time.Time {
	day := b.Day
	if b.Month == 2 && b.Day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, time.Month(b.Month), day, 0, 0, 0, 0, loc)
}

// NextOccurrence returns the first occurrence of the birthday on or
// after today (midnight of today counts as today's occurrence).
func (b Birthday) NextOccurrence(today time.Time) time.Time {
	day := startOfDay(today)
	occ := b.occurrenceIn(day.Year(), day.Location())
	if occ.Before(day) {
		occ = b.occurrenceIn(day.Year()+1, day.Location())
	}
	return occ
}

// DaysUntil computes the whole-day distance from today to the next
// occurrence. Zero means the birthday is today.
func (b Birthday) DaysUntil(today time.Time) int {
	occ := b.NextOccurrence(today)
	return daysBetween(startOfDay(today), occ)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days, not 24h periods, so DST shifts do
// not skew the result.
func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Round(24*time.Hour) / (24 * time.Hour))
}
