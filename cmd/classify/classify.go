// Package classify implements classification of an existing transaction CSV
// into the bookkeeping workbook.
package classify

import (
	"github.com/spf13/cobra"

	"taxbook/cmd/root"
	"taxbook/internal/common"
	"taxbook/internal/export"
	"taxbook/internal/logging"
	"taxbook/internal/mapping"
	"taxbook/internal/rules"
)

var (
	inputFile  string
	outputFile string
	rulesPath  string
	creditCard bool
)

// Cmd classifies a normalized transaction CSV and exports the workbook.
// Useful for re-running classification after a rules change without
// re-parsing statements.
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a normalized transaction CSV and export the workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := rulesPath
		if path == "" {
			path = root.Cfg.Rules.Path
		}
		ruleSet, err := rules.Load(path)
		if err != nil {
			return err
		}

		txs, err := common.ReadTransactionsCSV(inputFile)
		if err != nil {
			return err
		}

		classifier := rules.NewClassifier(ruleSet, root.Log)
		rows := make([]mapping.Row, 0, len(txs))
		for _, tx := range txs {
			rows = append(rows, mapping.MapTransaction(tx, classifier.Classify(tx), creditCard))
		}

		if err := export.WriteWorkbook(rows, outputFile, root.Log); err != nil {
			return err
		}
		root.Log.Info("Classification complete",
			logging.Field{Key: logging.FieldOutputFile, Value: outputFile},
			logging.Field{Key: logging.FieldCount, Value: len(txs)})
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Normalized transaction CSV")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output workbook (.xlsx)")
	Cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "Allocation-rules document (defaults to configured path)")
	Cmd.Flags().BoolVar(&creditCard, "credit-card", false, "Annotate items as credit-card activity")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("output")
}
