// Package ingest orchestrates one ingestion run: stream the fetch window,
// flatten, upsert into a freshly reset store, and export the CSV.
package ingest

import (
	"context"
	"errors"
	"time"

	"fjacquet/paypal-sync/internal/models"
	"fjacquet/paypal-sync/internal/normalize"
	"fjacquet/paypal-sync/internal/paypal"
	"fjacquet/paypal-sync/internal/store"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// RunStats summarizes one ingestion run.
type RunStats struct {
	RunID    string
	Fetched  int
	Stored   int
	Exported int
	CSVPath  string
}

// Runner wires the fetcher and the store for ingestion runs. Runs must be
// serialized by the caller: each run begins by destructively resetting the
// store.
type Runner struct {
	Fetcher *paypal.Fetcher
	Store   *store.Store
}

// NewRunner creates an ingestion runner.
func NewRunner(fetcher *paypal.Fetcher, st *store.Store) *Runner {
	return &Runner{Fetcher: fetcher, Store: st}
}

// Run ingests [start, end) and exports the store to csvPath. Records
// without a transaction id are skipped, not counted as stored, and do not
// fail the run. A transport failure aborts the run and propagates.
func (r *Runner) Run(ctx context.Context, start, end time.Time, csvPath string) (RunStats, error) {
	stats := RunStats{CSVPath: csvPath}

	runID, err := r.Store.BeginRun(time.Now().UTC())
	if err != nil {
		return stats, err
	}
	stats.RunID = runID

	log.WithFields(logrus.Fields{
		"run":   runID,
		"start": start.UTC().Format(time.RFC3339),
		"end":   end.UTC().Format(time.RFC3339),
	}).Info("Starting ingestion run")

	if err := r.Store.Reset(); err != nil {
		return stats, err
	}

	err = r.Fetcher.Each(ctx, start, end, func(raw models.RawTransaction) error {
		stats.Fetched++
		flat := normalize.Flatten(raw)
		if err := r.Store.Upsert(flat); err != nil {
			if errors.Is(err, store.ErrMissingID) {
				log.Debug("Skipping record without transaction_id")
				return nil
			}
			return err
		}
		stats.Stored++
		return nil
	})
	if err != nil {
		return stats, err
	}

	if err := r.Store.FinishRun(runID, time.Now().UTC(), stats.Fetched, stats.Stored); err != nil {
		return stats, err
	}

	exported, err := r.Store.ExportCSV(csvPath)
	if err != nil {
		return stats, err
	}
	stats.Exported = exported

	log.WithFields(logrus.Fields{
		"run":      runID,
		"fetched":  stats.Fetched,
		"stored":   stats.Stored,
		"exported": stats.Exported,
		"file":     csvPath,
	}).Info("Ingestion run complete")
	return stats, nil
}
