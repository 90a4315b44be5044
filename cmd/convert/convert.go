// Package convert implements single-statement conversion to the audit CSV.
package convert

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taxbook/cmd/root"
	"taxbook/internal/csvstmt"
	"taxbook/internal/logging"
	"taxbook/internal/pdfstmt"
	"taxbook/internal/profile"
)

var (
	bank       string
	inputFile  string
	outputFile string
	taxYear    int
)

// Cmd converts one statement file into a normalized transaction CSV.
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a single PDF or CSV statement to a normalized CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		prof, err := profile.LoadBank(root.Cfg.Profiles.Directory, bank)
		if err != nil {
			return err
		}

		root.Log.Info("Converting statement",
			logging.Field{Key: logging.FieldInputFile, Value: inputFile},
			logging.Field{Key: logging.FieldOutputFile, Value: outputFile})

		switch strings.ToLower(filepath.Ext(inputFile)) {
		case ".pdf":
			return pdfstmt.New(prof, taxYear, root.Log).ConvertToCSV(inputFile, outputFile)
		case ".csv":
			return csvstmt.New(prof, taxYear, root.Log).ConvertToCSV(inputFile, outputFile)
		default:
			return fmt.Errorf("unsupported statement type: %s", inputFile)
		}
	},
}

func init() {
	Cmd.Flags().StringVarP(&bank, "bank", "b", "", "Bank profile name")
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input statement file (PDF or CSV)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output CSV file")
	Cmd.Flags().IntVarP(&taxYear, "year", "y", time.Now().Year(), "Tax year for date resolution")
	_ = Cmd.MarkFlagRequired("bank")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("output")
}
