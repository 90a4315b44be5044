// Package parsererror defines the typed errors shared by the statement parsers.
package parsererror

import "fmt"

// InvalidFormatError represents input that does not conform to the expected
// format for a specific parser.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// ProfileError represents a malformed or incomplete bank profile. This class of
// error is fatal for the statement file that needed the profile, but never for
// the whole run.
type ProfileError struct {
	Bank   string
	Reason string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("bank profile '%s' is invalid: %s", e.Bank, e.Reason)
}

// RulesError represents a malformed allocation-rules document. Unlike profile
// errors this aborts the run: a broken ruleset invalidates every downstream
// classification decision.
type RulesError struct {
	FilePath string
	Reason   string
}

func (e *RulesError) Error() string {
	return fmt.Sprintf("rules document '%s' is invalid: %s", e.FilePath, e.Reason)
}
