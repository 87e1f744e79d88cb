package paypal

import (
	"context"
	"time"

	"fjacquet/paypal-sync/internal/dateutils"
	"fjacquet/paypal-sync/internal/models"

	"github.com/sirupsen/logrus"
)

// maxWindowDays is the upstream API's maximum queryable span per request.
const maxWindowDays = 31

// Window is one half-open [Start, End) sub-window of a fetch range.
type Window struct {
	Start time.Time
	End   time.Time
}

// windows partitions [start, end) into consecutive sub-windows of at most
// maxDays days each, with no gaps and no overlaps.
func windows(start, end time.Time, maxDays int) []Window {
	var out []Window
	cursor := start
	for cursor.Before(end) {
		next := cursor.Add(time.Duration(maxDays) * 24 * time.Hour)
		if next.After(end) {
			next = end
		}
		out = append(out, Window{Start: cursor, End: next})
		cursor = next
	}
	return out
}

// Fetcher produces the raw transaction stream for a time range by walking
// sub-windows and pages.
type Fetcher struct {
	client               *Client
	pageSize             int
	balanceAffectingOnly bool
}

// NewFetcher creates a windowed fetcher.
func NewFetcher(client *Client, pageSize int, balanceAffectingOnly bool) *Fetcher {
	return &Fetcher{
		client:               client,
		pageSize:             pageSize,
		balanceAffectingOnly: balanceAffectingOnly,
	}
}

// Each streams every raw transaction in [start, end) to fn, in upstream
// order. It returns without any network call when start >= end. Pagination
// terminates via the explicit total page count when present, else via the
// presence of a "next" link, else after a single page. A transport failure
// or an fn error aborts the stream.
func (f *Fetcher) Each(ctx context.Context, start, end time.Time, fn func(models.RawTransaction) error) error {
	if !start.Before(end) {
		log.WithFields(logrus.Fields{
			"start": start,
			"end":   end,
		}).Warn("Empty fetch range, nothing to do")
		return nil
	}

	for _, w := range windows(start.UTC(), end.UTC(), maxWindowDays) {
		startISO := dateutils.FormatAPITimestamp(w.Start)
		endISO := dateutils.FormatAPITimestamp(w.End)

		page := 1
		for {
			pg, err := f.client.ListPage(ctx, PageRequest{
				StartDate:            startISO,
				EndDate:              endISO,
				Page:                 page,
				PageSize:             f.pageSize,
				BalanceAffectingOnly: f.balanceAffectingOnly,
			})
			if err != nil {
				return err
			}

			for _, txn := range pg.TransactionDetails {
				if err := fn(txn); err != nil {
					return err
				}
			}

			if pg.TotalPages != nil {
				if page >= *pg.TotalPages {
					break
				}
				page++
				continue
			}
			if !pg.HasNext() {
				break
			}
			page++
		}
	}
	return nil
}

// Fetch collects the full stream into a slice. Prefer Each for large
// windows; this exists for callers that need the whole batch in memory.
func (f *Fetcher) Fetch(ctx context.Context, start, end time.Time) ([]models.RawTransaction, error) {
	var out []models.RawTransaction
	err := f.Each(ctx, start, end, func(txn models.RawTransaction) error {
		out = append(out, txn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
