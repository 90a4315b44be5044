package rules

import (
	"encoding/json"
	"fmt"

	"taxbook/internal/models"
)

// Logic combines the results of a rule's condition items.
type Logic string

const (
	MustMatchAll Logic = "MUST_MATCH_ALL"
	MustMatchAny Logic = "MUST_MATCH_ANY"
)

// Condition is one field/operator/value test.
type Condition struct {
	Field    string
	Operator Operator
	Value    Value
}

// Matches evaluates the condition against a transaction.
func (c Condition) Matches(tx models.Transaction) bool {
	return c.Operator.Evaluate(tx, c.Field, c.Value)
}

// ConditionGroup is a nested condition list with its own logic, evaluated
// independently of the parent rule's logic. Groups do not nest further.
type ConditionGroup struct {
	GroupLogic Logic
	Conditions []Condition
}

// Matches evaluates the group against a transaction.
func (g ConditionGroup) Matches(tx models.Transaction) bool {
	if len(g.Conditions) == 0 {
		return false
	}
	if g.GroupLogic == MustMatchAll {
		for _, c := range g.Conditions {
			if !c.Matches(tx) {
				return false
			}
		}
		return true
	}
	for _, c := range g.Conditions {
		if c.Matches(tx) {
			return true
		}
	}
	return false
}

// RuleItem is either a single condition or a condition group.
type RuleItem struct {
	Condition *Condition
	Group     *ConditionGroup
}

// Matches evaluates whichever variant the item holds.
func (i RuleItem) Matches(tx models.Transaction) bool {
	if i.Group != nil {
		return i.Group.Matches(tx)
	}
	if i.Condition != nil {
		return i.Condition.Matches(tx)
	}
	return false
}

// Rule is one classification definition. Rules are evaluated in document
// order and the first match wins, so ordering is load-bearing.
type Rule struct {
	CategoryName    string
	TransactionType models.TransactionType
	Logic           Logic
	Items           []RuleItem
	DualEntry       *models.DualEntry
}

// Matches evaluates the rule's condition tree against a transaction.
func (r Rule) Matches(tx models.Transaction) bool {
	if len(r.Items) == 0 {
		return false
	}
	if r.Logic == MustMatchAll {
		for _, item := range r.Items {
			if !item.Matches(tx) {
				return false
			}
		}
		return true
	}
	for _, item := range r.Items {
		if item.Matches(tx) {
			return true
		}
	}
	return false
}

// Wire shapes used during unmarshaling. Items are polymorphic: the presence
// of group_logic distinguishes a group from a plain condition.
type conditionDoc struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

type itemProbe struct {
	GroupLogic string          `json:"group_logic"`
	Rules      []conditionDoc  `json:"rules"`
	Field      string          `json:"field"`
	Operator   string          `json:"operator"`
	Value      json.RawMessage `json:"value"`
}

type ruleDoc struct {
	CategoryName    string            `json:"category_name"`
	TransactionType string            `json:"transaction_type"`
	Logic           string            `json:"logic"`
	Rules           []json.RawMessage `json:"rules"`
	DualEntry       *models.DualEntry `json:"dual_entry"`
}

type rulesDoc struct {
	Rules []ruleDoc `json:"_rules"`
}

func buildCondition(doc conditionDoc) (Condition, error) {
	op := ParseOperator(doc.Operator)
	val, err := newValue(doc.Value, op)
	if err != nil && op != OpUnsupported {
		// A bad value degrades the condition to unsupported (always false)
		// instead of aborting the document.
		op = OpUnsupported
		val = Value{}
	}
	if doc.Field == "" {
		return Condition{}, fmt.Errorf("condition is missing field")
	}
	return Condition{Field: doc.Field, Operator: op, Value: val}, nil
}

func buildItem(raw json.RawMessage) (RuleItem, error) {
	var probe itemProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return RuleItem{}, fmt.Errorf("unparseable rule item: %w", err)
	}

	if probe.GroupLogic != "" {
		group := ConditionGroup{GroupLogic: Logic(probe.GroupLogic)}
		for _, cd := range probe.Rules {
			cond, err := buildCondition(cd)
			if err != nil {
				return RuleItem{}, err
			}
			group.Conditions = append(group.Conditions, cond)
		}
		return RuleItem{Group: &group}, nil
	}

	var cd conditionDoc
	if err := json.Unmarshal(raw, &cd); err != nil {
		return RuleItem{}, fmt.Errorf("unparseable condition: %w", err)
	}
	cond, err := buildCondition(cd)
	if err != nil {
		return RuleItem{}, err
	}
	return RuleItem{Condition: &cond}, nil
}

func buildRule(doc ruleDoc) (Rule, error) {
	if doc.CategoryName == "" {
		return Rule{}, fmt.Errorf("rule is missing category_name")
	}
	if doc.TransactionType == "" {
		return Rule{}, fmt.Errorf("rule %q is missing transaction_type", doc.CategoryName)
	}

	logic := Logic(doc.Logic)
	if logic == "" {
		logic = MustMatchAny
	}

	rule := Rule{
		CategoryName:    doc.CategoryName,
		TransactionType: models.TransactionType(doc.TransactionType),
		Logic:           logic,
		DualEntry:       doc.DualEntry,
	}
	for _, raw := range doc.Rules {
		item, err := buildItem(raw)
		if err != nil {
			return Rule{}, fmt.Errorf("rule %q: %w", doc.CategoryName, err)
		}
		rule.Items = append(rule.Items, item)
	}
	return rule, nil
}
