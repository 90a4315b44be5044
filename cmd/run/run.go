// Package run implements the full year pipeline command.
package run

import (
	"time"

	"github.com/spf13/cobra"

	"taxbook/cmd/root"
	"taxbook/internal/pipeline"
)

var (
	taxYear   int
	banks     []string
	rulesPath string
)

// Cmd runs the complete pipeline for a tax year: ingest, classify and
// export bookkeeping_<year>.xlsx.
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline for a tax year",
	RunE: func(cmd *cobra.Command, args []string) error {
		if rulesPath != "" {
			root.Cfg.Rules.Path = rulesPath
		}
		return pipeline.New(root.Cfg, root.Log).RunYear(taxYear, banks)
	},
}

func init() {
	Cmd.Flags().IntVarP(&taxYear, "year", "y", time.Now().Year(), "Tax year to process")
	Cmd.Flags().StringSliceVarP(&banks, "bank", "b", nil, "Bank profile name (repeatable)")
	Cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "Allocation-rules document (defaults to configured path)")
	_ = Cmd.MarkFlagRequired("bank")
}
