package pdfstmt

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"taxbook/internal/models"
)

var (
	// "Dec 26 to Jan 25, 2024" and close variants.
	periodRe = regexp.MustCompile(`(?i)\b([A-Za-z]{3})\.?\s+(\d{1,2})\s+to\s+([A-Za-z]{3})\.?\s+(\d{1,2}),?\s+(\d{4})`)

	// "Statement date: December 25, 2024".
	statementDateRe = regexp.MustCompile(`(?i)Statement date:\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`)
)

var monthByAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// DetectStatementPeriod scans statement text (normally the first page) for a
// date-range declaration like "Dec 26 to Jan 25, 2024". The stated year is
// the period's end year; when the start month is numerically after the end
// month the period crosses a year boundary and starts in the prior year.
// Returns nil when no range is found.
func DetectStatementPeriod(text string) *models.StatementPeriod {
	m := periodRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	startMonth, ok1 := monthByAbbrev[strings.ToLower(m[1])]
	endMonth, ok2 := monthByAbbrev[strings.ToLower(m[3])]
	if !ok1 || !ok2 {
		return nil
	}
	startDay, _ := strconv.Atoi(m[2])
	endDay, _ := strconv.Atoi(m[4])
	year, _ := strconv.Atoi(m[5])

	startYear := year
	if startMonth > endMonth {
		startYear = year - 1
	}

	start := time.Date(startYear, startMonth, startDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, endMonth, endDay, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return nil
	}
	return &models.StatementPeriod{Start: start, End: end, StatementYear: year}
}

// DetectStatementDate finds the statement's issue date, used to normalize
// statement filenames to the <bank>-<mon>.pdf convention.
func DetectStatementDate(text string) (time.Time, bool) {
	m := statementDateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("January 2, 2006", m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
