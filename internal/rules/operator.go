// Package rules implements the allocation-rule document and the first-match
// classifier that evaluates it against canonical transactions.
package rules

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"taxbook/internal/models"
)

// Operator enumerates the condition operators. Unknown operator strings map
// to OpUnsupported, which always evaluates false: one malformed rule must not
// abort classification of a whole batch.
type Operator int

const (
	OpUnsupported Operator = iota
	OpContains
	OpStartsWith
	OpEquals
	OpRegex
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
	OpBetween
)

var operatorNames = map[string]Operator{
	"CONTAINS":                 OpContains,
	"STARTS_WITH":              OpStartsWith,
	"EQUALS":                   OpEquals,
	"REGEX":                    OpRegex,
	"GREATER_THAN":             OpGreaterThan,
	"GREATER_THAN_OR_EQUAL_TO": OpGreaterThanOrEqual,
	"LESS_THAN":                OpLessThan,
	"LESS_THAN_OR_EQUAL_TO":    OpLessThanOrEqual,
	"BETWEEN":                  OpBetween,
}

// ParseOperator maps an operator name to its variant.
func ParseOperator(s string) Operator {
	if op, ok := operatorNames[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return op
	}
	return OpUnsupported
}

// String returns the document form of the operator.
func (op Operator) String() string {
	for name, o := range operatorNames {
		if o == op {
			return name
		}
	}
	return "UNSUPPORTED"
}

// Value is a condition's comparison value, parsed once at document load into
// the representations each operator kind needs.
type Value struct {
	text    string
	num     decimal.Decimal
	numOK   bool
	lo, hi  decimal.Decimal
	rangeOK bool
	re      *regexp.Regexp
}

// newValue interprets a raw JSON value (string, number or two-element range).
func newValue(raw interface{}, op Operator) (Value, error) {
	var v Value
	switch x := raw.(type) {
	case string:
		v.text = x
		if d, err := decimal.NewFromString(strings.TrimSpace(x)); err == nil {
			v.num = d
			v.numOK = true
		}
	case float64:
		v.num = decimal.NewFromFloat(x)
		v.numOK = true
		v.text = v.num.String()
	case json.Number:
		if d, err := decimal.NewFromString(x.String()); err == nil {
			v.num = d
			v.numOK = true
		}
		v.text = x.String()
	case []interface{}:
		if len(x) != 2 {
			return v, fmt.Errorf("range value must have exactly two elements, got %d", len(x))
		}
		lo, err1 := toDecimal(x[0])
		hi, err2 := toDecimal(x[1])
		if err1 != nil || err2 != nil {
			return v, fmt.Errorf("range bounds must be numeric")
		}
		v.lo, v.hi = lo, hi
		v.rangeOK = true
	case nil:
		return v, fmt.Errorf("condition value is missing")
	default:
		return v, fmt.Errorf("unsupported condition value type %T", raw)
	}

	if op == OpRegex {
		re, err := regexp.Compile(v.text)
		if err != nil {
			return v, fmt.Errorf("invalid regex %q: %w", v.text, err)
		}
		v.re = re
	}
	return v, nil
}

func toDecimal(raw interface{}) (decimal.Decimal, error) {
	switch x := raw.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(x))
	case json.Number:
		return decimal.NewFromString(x.String())
	default:
		return decimal.Zero, fmt.Errorf("not numeric: %T", raw)
	}
}

// Evaluate applies the operator to one transaction field. Unsupported
// operators and type mismatches evaluate false rather than erroring.
func (op Operator) Evaluate(tx models.Transaction, field string, v Value) bool {
	switch op {
	case OpContains:
		return strings.Contains(strings.ToLower(fieldText(tx, field)), strings.ToLower(v.text))
	case OpStartsWith:
		return strings.HasPrefix(strings.ToLower(fieldText(tx, field)), strings.ToLower(v.text))
	case OpEquals:
		return strings.EqualFold(fieldText(tx, field), v.text)
	case OpRegex:
		return v.re != nil && v.re.MatchString(fieldText(tx, field))
	case OpGreaterThan:
		n, ok := fieldNumber(tx, field)
		return ok && v.numOK && n.GreaterThan(v.num)
	case OpGreaterThanOrEqual:
		n, ok := fieldNumber(tx, field)
		return ok && v.numOK && n.GreaterThanOrEqual(v.num)
	case OpLessThan:
		n, ok := fieldNumber(tx, field)
		return ok && v.numOK && n.LessThan(v.num)
	case OpLessThanOrEqual:
		n, ok := fieldNumber(tx, field)
		return ok && v.numOK && n.LessThanOrEqual(v.num)
	case OpBetween:
		n, ok := fieldNumber(tx, field)
		return ok && v.rangeOK && n.GreaterThanOrEqual(v.lo) && n.LessThanOrEqual(v.hi)
	default:
		return false
	}
}

// fieldText resolves a field as text, falling back to the numeric view for
// rules that string-match amounts.
func fieldText(tx models.Transaction, field string) string {
	if s, ok := tx.StringField(field); ok {
		return s
	}
	if n, ok := tx.NumericField(field); ok {
		return n.String()
	}
	return ""
}

func fieldNumber(tx models.Transaction, field string) (decimal.Decimal, bool) {
	if n, ok := tx.NumericField(field); ok {
		return n, true
	}
	if s, ok := tx.StringField(field); ok {
		if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return decimal.Zero, false
}
