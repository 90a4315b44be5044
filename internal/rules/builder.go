package rules

import (
	"encoding/json"
	"fmt"

	"taxbook/internal/models"
)

// ConditionSpec describes one condition for the builder.
type ConditionSpec struct {
	Field    string
	Operator string
	Value    interface{}
}

// Builder assembles one allocation rule incrementally. The draft validates
// through the same constructor the loader uses, so a rule that builds cleanly
// also loads cleanly on the next run.
type Builder struct {
	doc ruleDoc
}

// NewBuilder starts a rule draft for a category and transaction type. The
// root logic defaults to MUST_MATCH_ANY.
func NewBuilder(category string, txType models.TransactionType) *Builder {
	return &Builder{doc: ruleDoc{
		CategoryName:    category,
		TransactionType: string(txType),
		Logic:           string(MustMatchAny),
	}}
}

// SetLogic sets the root logic combining the draft's condition items.
func (b *Builder) SetLogic(logic Logic) *Builder {
	b.doc.Logic = string(logic)
	return b
}

// SetDualEntry attaches the double-entry booking columns.
func (b *Builder) SetDualEntry(de *models.DualEntry) *Builder {
	b.doc.DualEntry = de
	return b
}

// AddCondition appends a single condition item to the draft.
func (b *Builder) AddCondition(spec ConditionSpec) error {
	raw, err := json.Marshal(conditionDoc{Field: spec.Field, Operator: spec.Operator, Value: spec.Value})
	if err != nil {
		return fmt.Errorf("error encoding condition: %w", err)
	}
	b.doc.Rules = append(b.doc.Rules, raw)
	return nil
}

// AddGroup appends a condition group with its own logic. Groups do not nest.
func (b *Builder) AddGroup(groupLogic Logic, specs ...ConditionSpec) error {
	group := struct {
		GroupLogic string         `json:"group_logic"`
		Rules      []conditionDoc `json:"rules"`
	}{GroupLogic: string(groupLogic)}
	for _, spec := range specs {
		group.Rules = append(group.Rules, conditionDoc{
			Field:    spec.Field,
			Operator: spec.Operator,
			Value:    spec.Value,
		})
	}
	raw, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("error encoding condition group: %w", err)
	}
	b.doc.Rules = append(b.doc.Rules, raw)
	return nil
}

// Build validates the draft and returns the evaluatable rule.
func (b *Builder) Build() (Rule, error) {
	return buildRule(b.doc)
}

// MatchReport summarizes a dry run of a draft rule over sample transactions.
type MatchReport struct {
	Total   int
	Matched []int
}

// DryRun evaluates the draft against sample transactions, reporting which
// indexes it would claim. Authors use this to sanity-check a rule before it
// lands in the document and starts winning first-match evaluation.
func (b *Builder) DryRun(txs []models.Transaction) (*MatchReport, error) {
	rule, err := b.Build()
	if err != nil {
		return nil, err
	}
	report := &MatchReport{Total: len(txs)}
	for i, tx := range txs {
		if rule.Matches(tx) {
			report.Matched = append(report.Matched, i)
		}
	}
	return report, nil
}
