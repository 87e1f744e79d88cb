// Package notify formats a human-readable notification for the most
// recent transaction on the same calendar day last month,
// weekend-adjusted.
package notify

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"fjacquet/paypal-sync/internal/dateutils"
	"fjacquet/paypal-sync/internal/tabular"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Fixed no-match messages.
const (
	MsgCSVNotFound  = "No recurring payment (CSV not found)."
	MsgCSVEmpty     = "No recurring payment (CSV empty)."
	MsgNoTimeColumn = "No recurring payment (no timestamp column)."
	MsgNoMatch      = "No recurring payment"
)

// Notifier finds the single most recent same-day-last-month transaction.
// The zero value uses the default column synonyms.
type Notifier struct {
	Synonyms map[tabular.Field][]string
}

// New creates a notifier with the default synonym table.
func New() *Notifier {
	return &Notifier{}
}

// SameDayLastMonth returns a notification message and the matched row, or
// a fixed no-match message and a nil row. It never fails: unusable input
// degrades to the no-match message.
func (n *Notifier) SameDayLastMonth(csvPath string, now time.Time) (string, tabular.Row) {
	table, err := tabular.ReadFile(csvPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("Failed to read CSV file")
		}
		return MsgCSVNotFound, nil
	}
	if table.Empty() {
		return MsgCSVEmpty, nil
	}

	resolver := tabular.NewResolverWithSynonyms(table.Header, n.Synonyms)

	timeCol, ok := resolver.Resolve(tabular.FieldTime)
	if !ok {
		return MsgNoTimeColumn, nil
	}
	descCol, hasDesc := resolver.Resolve(tabular.FieldDescription)
	payerCol, hasPayer := resolver.Resolve(tabular.FieldPayer)
	valCol, hasVal := resolver.Resolve(tabular.FieldAmount)
	ccyCol, hasCcy := resolver.Resolve(tabular.FieldCurrency)

	target := dateutils.SameDayMonthsAgo(now, 1)
	ty, tm, td := target.Date()

	type candidate struct {
		ts  time.Time
		row tabular.Row
	}
	var candidates []candidate
	for _, row := range table.Rows {
		ts, err := dateutils.ParseISOInstant(row[timeCol])
		if err != nil {
			continue
		}
		y, m, d := ts.Date()
		if y == ty && m == tm && d == td {
			candidates = append(candidates, candidate{ts: ts, row: row})
		}
	}
	if len(candidates) == 0 {
		return MsgNoMatch, nil
	}

	// Latest that day wins; the stable sort keeps file order among equal
	// timestamps so the result is deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ts.After(candidates[j].ts)
	})
	row := candidates[0].row

	parts := []string{fmt.Sprintf("You paid an invoice on %s", target.Format(dateutils.DateLayoutISO))}
	if hasPayer && row[payerCol] != "" {
		parts = append(parts, "from "+row[payerCol])
	}
	if hasDesc && row[descCol] != "" {
		parts = append(parts, "— "+row[descCol])
	}
	if hasVal && hasCcy && row[valCol] != "" && row[ccyCol] != "" {
		parts = append(parts, fmt.Sprintf("(%s %s)", row[valCol], row[ccyCol]))
	}
	message := strings.Join(parts, " ") + ". Do you want to pay it again? (Y/N)"

	log.WithField("date", target.Format(dateutils.DateLayoutISO)).Info("Found same-day-last-month transaction")
	return message, row
}
