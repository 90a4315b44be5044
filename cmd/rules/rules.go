// Package rules implements guided allocation-rule authoring, so new rules
// land in the document without hand-editing JSON.
package rules

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"taxbook/cmd/root"
	"taxbook/internal/common"
	"taxbook/internal/logging"
	"taxbook/internal/models"
	allocation "taxbook/internal/rules"
)

var (
	category   string
	txType     string
	keywords   []string
	matchAll   bool
	minAmount  float64
	maxAmount  float64
	drName     string
	drLetter   string
	crName     string
	crLetter   string
	percentage float64
	rulesPath  string
	dryRunCSV  string
)

// Cmd groups rule-authoring subcommands.
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage the allocation-rules document",
}

// newCmd is the flag-driven counterpart of a rule wizard: keywords become
// CONTAINS conditions, an optional amount range becomes a BETWEEN filter, and
// the assembled rule is appended to the rules document after validation.
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Author a keyword rule and append it to the rules document",
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := buildDraft(cmd)
		if err != nil {
			return err
		}

		if dryRunCSV != "" {
			txs, err := common.ReadTransactionsCSV(dryRunCSV)
			if err != nil {
				return err
			}
			report, err := draft.DryRun(txs)
			if err != nil {
				return err
			}
			root.Log.Info("Dry run complete, rule not saved",
				logging.Field{Key: logging.FieldCategory, Value: category},
				logging.Field{Key: "matched", Value: len(report.Matched)},
				logging.Field{Key: logging.FieldCount, Value: report.Total})
			return nil
		}

		path := rulesPath
		if path == "" {
			path = root.Cfg.Rules.Path
		}
		if err := allocation.AppendRule(path, draft); err != nil {
			return err
		}
		root.Log.Info("Rule saved",
			logging.Field{Key: logging.FieldCategory, Value: category},
			logging.Field{Key: logging.FieldFile, Value: path})
		return nil
	},
}

func buildDraft(cmd *cobra.Command) (*allocation.Builder, error) {
	tt, err := parseTransactionType(txType)
	if err != nil {
		return nil, err
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("at least one --keyword is required")
	}

	keywordLogic := allocation.MustMatchAny
	if matchAll {
		keywordLogic = allocation.MustMatchAll
	}
	conditions := make([]allocation.ConditionSpec, 0, len(keywords))
	for _, kw := range keywords {
		conditions = append(conditions, allocation.ConditionSpec{
			Field:    "description",
			Operator: "CONTAINS",
			Value:    kw,
		})
	}

	draft := allocation.NewBuilder(category, tt)
	if cmd.Flags().Changed("min") || cmd.Flags().Changed("max") {
		// With an amount filter the keywords nest one level down, so the
		// root can require both the keyword group and the range to hold.
		draft.SetLogic(allocation.MustMatchAll)
		if err := draft.AddGroup(keywordLogic, conditions...); err != nil {
			return nil, err
		}
		if err := draft.AddCondition(allocation.ConditionSpec{
			Field:    "debit",
			Operator: "BETWEEN",
			Value:    []interface{}{minAmount, maxAmount},
		}); err != nil {
			return nil, err
		}
	} else {
		draft.SetLogic(keywordLogic)
		for _, spec := range conditions {
			if err := draft.AddCondition(spec); err != nil {
				return nil, err
			}
		}
	}

	if dualEntry := buildDualEntry(cmd); dualEntry != nil {
		draft.SetDualEntry(dualEntry)
	}
	return draft, nil
}

func buildDualEntry(cmd *cobra.Command) *models.DualEntry {
	column := func(name, letter string) *models.ColumnRef {
		if name == "" && letter == "" {
			return nil
		}
		return &models.ColumnRef{Name: name, Letter: letter}
	}

	de := &models.DualEntry{
		DRColumn: column(drName, drLetter),
		CRColumn: column(crName, crLetter),
	}
	if de.DRColumn == nil && de.CRColumn == nil {
		return nil
	}
	if cmd.Flags().Changed("percent") {
		de.ApplyPercentage = decimal.NewFromFloat(percentage)
	}
	return de
}

func parseTransactionType(s string) (models.TransactionType, error) {
	switch models.TransactionType(strings.ToUpper(s)) {
	case models.TypeExpense:
		return models.TypeExpense, nil
	case models.TypeIncome:
		return models.TypeIncome, nil
	case models.TypeIncomeOffsetExpense:
		return models.TypeIncomeOffsetExpense, nil
	case models.TypeIgnore:
		return models.TypeIgnore, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q (expected EXPENSE, INCOME, INCOME_TO_OFFSET_EXPENSE or IGNORE_TRANSACTION)", s)
	}
}

func init() {
	newCmd.Flags().StringVarP(&category, "category", "C", "", "Category name for the new rule")
	newCmd.Flags().StringVarP(&txType, "type", "t", "EXPENSE", "Transaction type (EXPENSE, INCOME, INCOME_TO_OFFSET_EXPENSE, IGNORE_TRANSACTION)")
	newCmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "Keyword or vendor to match (repeatable)")
	newCmd.Flags().BoolVar(&matchAll, "all", false, "Require every keyword to match instead of any")
	newCmd.Flags().Float64Var(&minAmount, "min", 0, "Minimum debit amount filter")
	newCmd.Flags().Float64Var(&maxAmount, "max", 0, "Maximum debit amount filter")
	newCmd.Flags().StringVar(&drName, "dr-name", "", "Debit column name for dual-entry booking")
	newCmd.Flags().StringVar(&drLetter, "dr-letter", "", "Debit column letter for dual-entry booking")
	newCmd.Flags().StringVar(&crName, "cr-name", "", "Credit column name for dual-entry booking")
	newCmd.Flags().StringVar(&crLetter, "cr-letter", "", "Credit column letter for dual-entry booking")
	newCmd.Flags().Float64Var(&percentage, "percent", 1.0, "Fraction of the amount to book (e.g. 0.5)")
	newCmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "Rules document to append to (defaults to configured path)")
	newCmd.Flags().StringVar(&dryRunCSV, "dry-run", "", "Evaluate against a normalized transaction CSV instead of saving")
	_ = newCmd.MarkFlagRequired("category")
	_ = newCmd.MarkFlagRequired("keyword")

	Cmd.AddCommand(newCmd)
}
