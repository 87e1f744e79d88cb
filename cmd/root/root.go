// Package root contains the root command for the application
package root

import (
	"fjacquet/paypal-sync/internal/config"
	"fjacquet/paypal-sync/internal/ingest"
	"fjacquet/paypal-sync/internal/notify"
	"fjacquet/paypal-sync/internal/paypal"
	"fjacquet/paypal-sync/internal/recurring"
	"fjacquet/paypal-sync/internal/store"
	"fjacquet/paypal-sync/internal/tabular"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration, populated before any
	// subcommand runs.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "paypal-sync",
		Short: "A CLI tool to sync PayPal transactions to CSV and detect recurring payments.",
		Long: `paypal-sync fetches a rolling window of PayPal transactions, stores them
in a local SQLite database, exports them to CSV, and analyzes the CSV for
recurring payments detected on the same calendar day across months.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to paypal-sync!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Error loading configuration: %v", err)
			}
			Cfg = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)

			// Set the configured logger for all pipeline packages
			paypal.SetLogger(Log)
			store.SetLogger(Log)
			tabular.SetLogger(Log)
			recurring.SetLogger(Log)
			notify.SetLogger(Log)
			ingest.SetLogger(Log)

			store.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
		},
	}

	// CSVFile is the tabular input/output path shared by subcommands.
	CSVFile string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&CSVFile, "csv", "c", "", "CSV file path (defaults to the configured export path)")
}

// ResolveCSVPath returns the --csv flag value, else the configured export
// path.
func ResolveCSVPath() string {
	if CSVFile != "" {
		return CSVFile
	}
	return Cfg.Export.Path
}

// Synonyms loads the configured column synonym overrides, if any.
func Synonyms() map[tabular.Field][]string {
	if Cfg == nil || Cfg.Columns.SynonymsFile == "" {
		return nil
	}
	syn, err := tabular.LoadSynonyms(Cfg.Columns.SynonymsFile)
	if err != nil {
		Log.Warnf("Failed to load column synonyms: %v", err)
		return nil
	}
	return syn
}
