// Package ingest implements year-level statement ingestion.
package ingest

import (
	"time"

	"github.com/spf13/cobra"

	"taxbook/cmd/root"
	"taxbook/internal/logging"
	"taxbook/internal/pipeline"
)

var (
	taxYear int
	banks   []string
)

// Cmd ingests every statement for a tax year into audit CSVs and the
// unified transaction CSV.
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest all statements for a tax year into normalized CSVs",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := pipeline.New(root.Cfg, root.Log)
		txs, _, err := p.IngestAll(taxYear, banks)
		if err != nil {
			return err
		}
		root.Log.Info("Ingestion complete",
			logging.Field{Key: logging.FieldYear, Value: taxYear},
			logging.Field{Key: logging.FieldCount, Value: len(txs)})
		return nil
	},
}

func init() {
	Cmd.Flags().IntVarP(&taxYear, "year", "y", time.Now().Year(), "Tax year to process")
	Cmd.Flags().StringSliceVarP(&banks, "bank", "b", nil, "Bank profile name (repeatable)")
	_ = Cmd.MarkFlagRequired("bank")
}
