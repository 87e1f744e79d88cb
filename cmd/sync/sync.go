// Package sync implements the ingestion subcommand.
package sync

import (
	"context"
	"net/http"
	"time"

	"fjacquet/paypal-sync/cmd/root"
	"fjacquet/paypal-sync/internal/ingest"
	"fjacquet/paypal-sync/internal/paypal"
	"fjacquet/paypal-sync/internal/store"

	"github.com/spf13/cobra"
)

var (
	days    int
	dbPath  string
	timeout time.Duration
)

// Cmd represents the sync command
var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the transaction window, store it, and export CSV",
	Long: `Fetch the last N days of balance-affecting PayPal transactions,
ingest them into a freshly reset SQLite store, and export the ordered CSV.`,
	Run: syncFunc,
}

func init() {
	Cmd.Flags().IntVarP(&days, "days", "d", 0, "Days of history to fetch (defaults to the configured window)")
	Cmd.Flags().StringVar(&dbPath, "db", "", "SQLite store path (defaults to the configured store path)")
	Cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Overall deadline for the run")
}

func syncFunc(cmd *cobra.Command, args []string) {
	cfg := root.Cfg

	windowDays := cfg.Sync.WindowDays
	if days > 0 {
		windowDays = days
	}
	storePath := cfg.Store.Path
	if dbPath != "" {
		storePath = dbPath
	}
	csvPath := root.ResolveCSVPath()

	baseURL := cfg.PayPal.BaseURL
	if baseURL == "" {
		baseURL = paypal.BaseURL(cfg.PayPal.Env)
	}

	root.Log.Infof("Fetching PayPal transactions for last %d days", windowDays)

	httpClient := &http.Client{Timeout: 40 * time.Second}
	tokens := paypal.NewClientCredentials(httpClient, baseURL, cfg.PayPal.ClientID, cfg.PayPal.ClientSecret)
	client := paypal.NewClient(httpClient, baseURL, tokens)
	fetcher := paypal.NewFetcher(client, cfg.Sync.PageSize, cfg.Sync.BalanceAffectingOnly)

	st, err := store.Open(storePath)
	if err != nil {
		root.Log.Fatalf("Error opening store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.Warnf("Error closing store: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -windowDays)

	runner := ingest.NewRunner(fetcher, st)
	stats, err := runner.Run(ctx, start, end, csvPath)
	if err != nil {
		root.Log.Fatalf("Error during ingestion run: %v", err)
	}

	root.Log.Infof("Ingested/updated %d transactions into %s", stats.Stored, storePath)
	root.Log.Infof("Exported %d rows to %s", stats.Exported, csvPath)
	cmd.Printf("Done. CSV at: %s\n", csvPath)
}
