// Package root contains the root command for the application.
package root

import (
	"github.com/spf13/cobra"

	"taxbook/internal/common"
	"taxbook/internal/config"
	"taxbook/internal/logging"
)

var (
	// Log is the shared logger instance for commands.
	Log = logging.GetLogger()

	// Cfg holds the loaded application configuration, available to all
	// subcommands after PersistentPreRunE.
	Cfg *config.Config

	configFile string

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "taxbook",
		Short: "Convert bank and credit-card statements into a bookkeeping workbook.",
		Long: `taxbook ingests PDF and CSV bank statements into normalized transaction
CSVs, classifies every transaction against an allocation-rules document and
exports a formatted bookkeeping spreadsheet for the tax year.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}
			Cfg = cfg

			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			logging.SetLogger(Log)
			common.SetLogger(Log)

			if cfg.CSV.Delimiter != "" {
				common.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
			}
			return nil
		},
	}
)

// Init registers the root command's persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a taxbook.yaml config file")
}
