package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"taxbook/internal/parsererror"
)

// Load reads and validates an allocation-rules document. JSON and YAML are
// supported, selected by file extension. A malformed document is fatal for
// the run: every downstream classification depends on it.
func Load(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		jsonData, err := yamlToJSON(data)
		if err != nil {
			return nil, &parsererror.RulesError{FilePath: path, Reason: err.Error()}
		}
		data = jsonData
	}

	rules, err := Parse(data)
	if err != nil {
		return nil, &parsererror.RulesError{FilePath: path, Reason: err.Error()}
	}
	return rules, nil
}

// Parse builds the rule list from a JSON document with a top-level _rules
// array.
func Parse(data []byte) ([]Rule, error) {
	var doc rulesDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unparseable document: %w", err)
	}
	if doc.Rules == nil {
		return nil, fmt.Errorf("missing '_rules' array")
	}

	rules := make([]Rule, 0, len(doc.Rules))
	for i, rd := range doc.Rules {
		rule, err := buildRule(rd)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// yamlToJSON re-encodes a YAML document as JSON so both formats share one
// parsing path.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unparseable YAML: %v", err)
	}
	return json.Marshal(normalizeYAML(doc))
}

// normalizeYAML converts yaml map keys to strings for JSON encoding.
func normalizeYAML(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, val := range x {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, val := range x {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(val)
		}
		return out
	case []interface{}:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	default:
		return v
	}
}
