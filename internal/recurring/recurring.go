// Package recurring detects recurring payments by comparing the same
// calendar day across the last three months, weekend-adjusted.
package recurring

import (
	"os"
	"sort"
	"strings"
	"time"

	"fjacquet/paypal-sync/internal/dateutils"
	"fjacquet/paypal-sync/internal/models"
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

// Degraded-result reasons for unusable tabular input.
const (
	ReasonNotFound     = "No recurring payment (CSV not found)."
	ReasonEmpty        = "No recurring payment (CSV empty)."
	ReasonNoTimeColumn = "No recurring payment (no timestamp column)."
	ReasonNoMatches    = "No recurring payment"
)

// Grouping sentinels: allGroupsKey when no grouping column resolves at
// all, unknownKey when the column exists but a row's value is missing.
const (
	allGroupsKey = "__all__"
	unknownKey   = "__unknown__"
)

// Classifier groups tabular rows and classifies their presence across the
// three monthly anchors. The zero value uses the default column synonyms.
type Classifier struct {
	// Synonyms overrides the column resolution table when non-nil.
	Synonyms map[tabular.Field][]string
}

// New creates a classifier with the default synonym table.
func New() *Classifier {
	return &Classifier{}
}

// anchorSet holds the three weekend-adjusted monthly anchor dates, index 0
// being one month back.
type anchorSet [3]time.Time

func anchorsFor(now time.Time) anchorSet {
	var a anchorSet
	for k := 0; k < 3; k++ {
		a[k] = dateutils.SameDayMonthsAgo(now, k+1)
	}
	return a
}

// Detect reads a tabular file and returns the ordered recurrence findings.
// Unusable input (missing file, empty file, unresolvable time column)
// degrades to an empty report with a reason; it never fails.
func (c *Classifier) Detect(csvPath string, now time.Time) models.Report {
	table, err := tabular.ReadFile(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField("file", csvPath).Warn("CSV file not found")
			return models.Report{Reason: ReasonNotFound}
		}
		log.WithError(err).Warn("Failed to read CSV file")
		return models.Report{Reason: ReasonNotFound}
	}
	if table.Empty() {
		return models.Report{Reason: ReasonEmpty}
	}

	resolver := tabular.NewResolverWithSynonyms(table.Header, c.Synonyms)

	timeCol, ok := resolver.Resolve(tabular.FieldTime)
	if !ok {
		log.WithField("file", csvPath).Warn("No timestamp column resolvable")
		return models.Report{Reason: ReasonNoTimeColumn}
	}
	descCol, hasDesc := resolver.Resolve(tabular.FieldDescription)
	invCol, hasInv := resolver.Resolve(tabular.FieldInvoice)
	payerCol, hasPayer := resolver.Resolve(tabular.FieldPayer)
	valCol, _ := resolver.Resolve(tabular.FieldAmount)
	ccyCol, _ := resolver.Resolve(tabular.FieldCurrency)

	// Grouping key column: description, else invoice id, else payer.
	keyCol := ""
	switch {
	case hasDesc:
		keyCol = descCol
	case hasInv:
		keyCol = invCol
	case hasPayer:
		keyCol = payerCol
	}

	anchors := anchorsFor(now)

	// presence[k][key] = rows whose date equals anchor k.
	var presence [3]map[string][]tabular.Row
	for k := range presence {
		presence[k] = map[string][]tabular.Row{}
	}

	for _, row := range table.Rows {
		ts, err := dateutils.ParseISOInstant(row[timeCol])
		if err != nil {
			continue
		}
		y, m, d := ts.Date()
		gkey := groupKey(row, keyCol)
		for k, anchor := range anchors {
			ay, am, ad := anchor.Date()
			if y == ay && m == am && d == ad {
				presence[k][gkey] = append(presence[k][gkey], row)
			}
		}
	}

	keySet := map[string]struct{}{}
	for k := range presence {
		for key := range presence[k] {
			keySet[key] = struct{}{}
		}
	}
	if len(keySet) == 0 {
		return models.Report{Reason: ReasonNoMatches}
	}

	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	items := make([]models.Finding, 0, len(keys))
	for _, key := range keys {
		rows1 := presence[0][key]
		rows2 := presence[1][key]
		rows3 := presence[2][key]

		has1, has2, has3 := len(rows1) > 0, len(rows2) > 0, len(rows3) > 0
		sampleRows := rows1
		if len(sampleRows) == 0 {
			sampleRows = rows2
		}
		if len(sampleRows) == 0 {
			sampleRows = rows3
		}

		items = append(items, models.Finding{
			Key:         key,
			Pattern:     classify(has1, has2, has3),
			Description: sample(sampleRows, descCol, hasDesc),
			Payer:       sample(sampleRows, payerCol, hasPayer),
			Amount:      sample(sampleRows, valCol, valCol != ""),
			Currency:    sample(sampleRows, ccyCol, ccyCol != ""),
			Dates: models.RecurringDates{
				LastMonth:      anchorDate(anchors[0], has1),
				TwoMonthsAgo:   anchorDate(anchors[1], has2),
				ThreeMonthsAgo: anchorDate(anchors[2], has3),
			},
		})
	}

	log.WithField("count", len(items)).Info("Recurrence detection complete")
	return models.Report{Count: len(items), Items: items}
}

// classify maps the per-anchor presence booleans to a pattern label.
// Order matters: first match wins.
func classify(has1, has2, has3 bool) string {
	switch {
	case has1 && !has2 && !has3:
		return "recurring: last month only"
	case has1 && has2 && !has3:
		return "recurring: last 2 months"
	case has1 && has2 && has3:
		return "recurring: last 3 months"
	case !has1 && has2 && !has3:
		return "recurring: 2 months ago only"
	case !has1 && !has2 && has3:
		return "recurring: 3 months ago only"
	case !has1 && has2 && has3:
		return "recurring: skipped last month (2–3 months ago)"
	}
	return "recurring: irregular pattern"
}

// groupKey normalizes a row's grouping value. No grouping column at all
// collapses every row into a single catch-all group; a missing value maps
// to the unknown sentinel.
func groupKey(row tabular.Row, keyCol string) string {
	if keyCol == "" {
		return allGroupsKey
	}
	v := strings.ToLower(strings.TrimSpace(row[keyCol]))
	if v == "" {
		return unknownKey
	}
	return v
}

// sample picks the field value from the first row of the preferred anchor
// set, nil when the column is unresolved or the value empty.
func sample(rows []tabular.Row, col string, resolved bool) *string {
	if !resolved || len(rows) == 0 {
		return nil
	}
	v := rows[0][col]
	if v == "" {
		return nil
	}
	return &v
}

func anchorDate(anchor time.Time, present bool) *string {
	if !present {
		return nil
	}
	s := anchor.Format(dateutils.DateLayoutISO)
	return &s
}
