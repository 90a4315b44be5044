package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"taxbook/internal/parsererror"
)

// AppendRule validates a draft and appends it to the JSON rules document at
// path, creating the document when absent. Existing rules round-trip as raw
// values, so fields this loader does not model survive the rewrite. The write
// is atomic: content lands in a temp file that replaces the original, so a
// failed write never leaves a truncated ruleset behind.
func AppendRule(path string, b *Builder) error {
	if _, err := b.Build(); err != nil {
		return &parsererror.RulesError{FilePath: path, Reason: err.Error()}
	}

	doc := map[string]interface{}{"_rules": []interface{}{}}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &doc); err != nil {
			return &parsererror.RulesError{
				FilePath: path,
				Reason:   fmt.Sprintf("unparseable document: %v", err),
			}
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("error reading rules document: %w", err)
	}

	existing, ok := doc["_rules"].([]interface{})
	if !ok {
		return &parsererror.RulesError{FilePath: path, Reason: "missing '_rules' array"}
	}

	encoded, err := json.Marshal(b.doc)
	if err != nil {
		return fmt.Errorf("error encoding rule: %w", err)
	}
	var entry interface{}
	if err := json.Unmarshal(encoded, &entry); err != nil {
		return fmt.Errorf("error encoding rule: %w", err)
	}
	doc["_rules"] = append(existing, entry)

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding rules document: %w", err)
	}
	if _, err := Parse(out); err != nil {
		return &parsererror.RulesError{FilePath: path, Reason: err.Error()}
	}
	return atomicWrite(path, append(out, '\n'))
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating rules directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".rules-*")
	if err != nil {
		return fmt.Errorf("error creating temp rules file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error writing rules document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error syncing rules document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error closing rules document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error replacing rules document: %w", err)
	}
	return nil
}
