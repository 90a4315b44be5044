package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"taxbook/internal/parsererror"
)

// Load reads and validates a bank profile document. JSON and YAML are
// supported, selected by file extension.
func Load(path string) (*BankProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading bank profile %s: %w", path, err)
	}

	var p BankProfile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &p)
	default:
		err = json.Unmarshal(data, &p)
	}
	if err != nil {
		return nil, &parsererror.ProfileError{
			Bank:   filepath.Base(path),
			Reason: fmt.Sprintf("unparseable document: %v", err),
		}
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadBank locates <bank>.json / <bank>.yaml / <bank>.yml under dir and loads it.
func LoadBank(dir, bank string) (*BankProfile, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(dir, bank+ext)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return nil, &parsererror.ProfileError{
		Bank:   bank,
		Reason: fmt.Sprintf("no profile document found in %s", dir),
	}
}

// Validate checks the structural requirements a profile must meet before any
// statement processing uses it.
func Validate(p *BankProfile) error {
	if p.BankName == "" {
		return &parsererror.ProfileError{Bank: "(unnamed)", Reason: "missing bank_name"}
	}
	if len(p.Sections) == 0 && p.CSVFormat == nil {
		return &parsererror.ProfileError{
			Bank:   p.BankName,
			Reason: "profile defines neither sections nor csv_format",
		}
	}
	for i := range p.Sections {
		s := &p.Sections[i]
		if s.SectionName == "" {
			return &parsererror.ProfileError{
				Bank:   p.BankName,
				Reason: fmt.Sprintf("section %d is missing section_name", i),
			}
		}
		if s.MatchText == "" {
			return &parsererror.ProfileError{
				Bank:   p.BankName,
				Reason: fmt.Sprintf("section %q is missing match_text", s.SectionName),
			}
		}
		if len(s.Columns) == 0 {
			return &parsererror.ProfileError{
				Bank:   p.BankName,
				Reason: fmt.Sprintf("section %q declares no columns", s.SectionName),
			}
		}
		if s.AmountSign != "" && s.AmountSign != SignChargePositive && s.AmountSign != SignInverted {
			return &parsererror.ProfileError{
				Bank:   p.BankName,
				Reason: fmt.Sprintf("section %q has unknown amount_sign %q", s.SectionName, s.AmountSign),
			}
		}
	}
	if p.CSVFormat != nil && len(p.CSVFormat.Columns) == 0 {
		return &parsererror.ProfileError{
			Bank:   p.BankName,
			Reason: "csv_format declares no columns",
		}
	}
	return nil
}
