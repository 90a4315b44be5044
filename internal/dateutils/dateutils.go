// Package dateutils provides the date handling shared by the statement
// parsers, including resolution of year-less dates against a statement period.
package dateutils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"taxbook/internal/models"
)

// DateLayoutISO is the canonical output layout for all transaction dates.
const DateLayoutISO = "2006-01-02"

var (
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{2}|\d{4}))?$`)
	monthDayRe  = regexp.MustCompile(`(?i)^([A-Za-z]{3})\.?\s+(\d{1,2})$`)

	// Loose scan variants used to decide whether a cell contains any
	// date-like token at all (continuation-row detection).
	slashScanRe    = regexp.MustCompile(`\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`)
	monthDayScanRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\.?\s+\d{1,2}\b`)
)

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseStatementDate parses a statement row date token. Accepted forms are
// M/D, M/D/YY, M/D/YYYY and "MON D" (three-letter month, optional trailing
// period). Two-digit years are read as 2000+YY.
//
// When the token carries no year, defaultYear applies unless a statement
// period is supplied, in which case the period decides the year (see
// models.StatementPeriod.ResolveYear).
func ParseStatementDate(token string, defaultYear int, period *models.StatementPeriod) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, false
	}

	if m := slashDateRe.FindStringSubmatch(token); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		year := 0
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		} else {
			year = resolveYear(time.Month(month), defaultYear, period)
		}
		return makeDate(year, time.Month(month), day)
	}

	if m := monthDayRe.FindStringSubmatch(token); m != nil {
		month, ok := monthAbbrevs[strings.ToLower(m[1])]
		if !ok {
			return time.Time{}, false
		}
		day, _ := strconv.Atoi(m[2])
		if day < 1 || day > 31 {
			return time.Time{}, false
		}
		year := resolveYear(month, defaultYear, period)
		return makeDate(year, month, day)
	}

	return time.Time{}, false
}

// ContainsDateToken reports whether the string holds anything that looks like
// a statement row date. Continuation rows are expected to contain none.
func ContainsDateToken(s string) bool {
	return slashScanRe.MatchString(s) || monthDayScanRe.MatchString(s)
}

// ToISODate formats a time as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}

func resolveYear(month time.Month, defaultYear int, period *models.StatementPeriod) int {
	if period != nil {
		return period.ResolveYear(month)
	}
	return defaultYear
}

func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject those.
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
