package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxbook/internal/models"
)

func boundaryPeriod() *models.StatementPeriod {
	return &models.StatementPeriod{
		Start:         time.Date(2023, time.December, 26, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2024, time.January, 25, 0, 0, 0, 0, time.UTC),
		StatementYear: 2024,
	}
}

func TestParseStatementDateForms(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
		ok       bool
	}{
		{name: "month day", token: "Dec 27", expected: "2023-12-27", ok: true},
		{name: "month day with period", token: "Jan. 3", expected: "2024-01-03", ok: true},
		{name: "slash no year", token: "12/27", expected: "2023-12-27", ok: true},
		{name: "slash two digit year", token: "1/3/24", expected: "2024-01-03", ok: true},
		{name: "slash four digit year", token: "01/03/2024", expected: "2024-01-03", ok: true},
		{name: "overflow date", token: "2/30", ok: false},
		{name: "month out of range", token: "13/5", ok: false},
		{name: "empty", token: "", ok: false},
		{name: "not a date", token: "PAYMENT", ok: false},
	}

	period := boundaryPeriod()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseStatementDate(tt.token, 2024, period)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, ToISODate(got))
			}
		})
	}
}

func TestParseStatementDateYearResolution(t *testing.T) {
	period := boundaryPeriod()

	// December rows in a Dec-Jan statement belong to the start year.
	got, ok := ParseStatementDate("Dec 27", 2024, period)
	require.True(t, ok)
	assert.Equal(t, "2023-12-27", ToISODate(got))

	// January rows belong to the end year.
	got, ok = ParseStatementDate("Jan 03", 2024, period)
	require.True(t, ok)
	assert.Equal(t, "2024-01-03", ToISODate(got))

	// Without a period the default year applies.
	got, ok = ParseStatementDate("Dec 27", 2022, nil)
	require.True(t, ok)
	assert.Equal(t, "2022-12-27", ToISODate(got))

	// An explicit year always wins over period resolution.
	got, ok = ParseStatementDate("12/27/2021", 2024, period)
	require.True(t, ok)
	assert.Equal(t, "2021-12-27", ToISODate(got))
}

func TestContainsDateToken(t *testing.T) {
	assert.True(t, ContainsDateToken("Dec 27 ESSO"))
	assert.True(t, ContainsDateToken("paid on 12/27"))
	assert.True(t, ContainsDateToken("1/3/24"))
	assert.False(t, ContainsDateToken("INTEREST CHARGED ON PURCHASES"))
	assert.False(t, ContainsDateToken(""))
	assert.False(t, ContainsDateToken("ref 123456"))
}
