package models

import "time"

// StatementPeriod is the date range a single statement covers, e.g.
// "Dec 26 to Jan 25, 2024". It disambiguates the calendar year of row dates
// that carry no year of their own.
type StatementPeriod struct {
	Start         time.Time
	End           time.Time
	StatementYear int
}

// CrossesYearBoundary reports whether the period spans a year change
// (start month numerically after end month).
func (p StatementPeriod) CrossesYearBoundary() bool {
	return p.Start.Month() > p.End.Month()
}

// ResolveYear returns the calendar year a year-less row date in the given
// month belongs to. For a boundary-crossing period, months in the back half
// (at or after the start month) resolve to the start year and the rest to the
// end year. For a same-year period both halves collapse to the end year.
func (p StatementPeriod) ResolveYear(month time.Month) int {
	if p.CrossesYearBoundary() && month >= p.Start.Month() {
		return p.Start.Year()
	}
	return p.End.Year()
}
