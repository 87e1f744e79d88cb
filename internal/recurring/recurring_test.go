package recurring

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/paypal-sync/internal/dateutils"
	"fjacquet/paypal-sync/internal/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed reference instant for every test. The weekend-adjusted anchors
// are 2025-08-15 (Fri), 2025-07-15 (Tue) and 2025-06-13 (the 15th was a
// Sunday).
var testNow = time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)

func testAnchors(t *testing.T) [3]time.Time {
	t.Helper()
	var a [3]time.Time
	for k := 0; k < 3; k++ {
		a[k] = dateutils.SameDayMonthsAgo(testNow, k+1)
	}
	require.Equal(t, "2025-08-15", a[0].Format(dateutils.DateLayoutISO))
	require.Equal(t, "2025-07-15", a[1].Format(dateutils.DateLayoutISO))
	require.Equal(t, "2025-06-13", a[2].Format(dateutils.DateLayoutISO))
	return a
}

func tsOn(d time.Time) string {
	return d.Format(dateutils.DateLayoutISO) + "T10:00:00Z"
}

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "txns.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600))
	return path
}

func TestDetectDegradedInputs(t *testing.T) {
	c := New()

	t.Run("missing file", func(t *testing.T) {
		report := c.Detect(filepath.Join(t.TempDir(), "nope.csv"), testNow)
		assert.Equal(t, ReasonNotFound, report.Reason)
		assert.Zero(t, report.Count)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0600))
		report := c.Detect(path, testNow)
		assert.Equal(t, ReasonEmpty, report.Reason)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeCSV(t, "initiation_time,description")
		report := c.Detect(path, testNow)
		assert.Equal(t, ReasonEmpty, report.Reason)
	})

	t.Run("no timestamp column", func(t *testing.T) {
		path := writeCSV(t,
			"description,amount_value",
			"Netflix,12.99")
		report := c.Detect(path, testNow)
		assert.Equal(t, ReasonNoTimeColumn, report.Reason)
	})

	t.Run("no rows on anchor dates", func(t *testing.T) {
		path := writeCSV(t,
			"initiation_time,description",
			"2025-09-01T10:00:00Z,Netflix",
			"not-a-date,Netflix")
		report := c.Detect(path, testNow)
		assert.Equal(t, ReasonNoMatches, report.Reason)
		assert.Empty(t, report.Items)
	})
}

func TestDetectClassification(t *testing.T) {
	anchors := testAnchors(t)

	tests := []struct {
		name            string
		onAnchors       [3]bool
		expectedPattern string
	}{
		{"last month only", [3]bool{true, false, false}, "recurring: last month only"},
		{"last 2 months", [3]bool{true, true, false}, "recurring: last 2 months"},
		{"last 3 months", [3]bool{true, true, true}, "recurring: last 3 months"},
		{"2 months ago only", [3]bool{false, true, false}, "recurring: 2 months ago only"},
		{"3 months ago only", [3]bool{false, false, true}, "recurring: 3 months ago only"},
		{"skipped last month", [3]bool{false, true, true}, "recurring: skipped last month (2–3 months ago)"},
		{"irregular", [3]bool{true, false, true}, "recurring: irregular pattern"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lines := []string{"initiation_time,description,amount_value,amount_currency,sender_name"}
			for k, present := range tc.onAnchors {
				if present {
					lines = append(lines, tsOn(anchors[k])+",Netflix,12.99,EUR,Netflix Inc")
				}
			}
			path := writeCSV(t, lines...)

			report := New().Detect(path, testNow)
			require.Equal(t, 1, report.Count)
			require.Len(t, report.Items, 1)

			item := report.Items[0]
			assert.Equal(t, "netflix", item.Key)
			assert.Equal(t, tc.expectedPattern, item.Pattern)

			// Anchor dates are reported only when a payment sat on them.
			dates := []*string{item.Dates.LastMonth, item.Dates.TwoMonthsAgo, item.Dates.ThreeMonthsAgo}
			for k, present := range tc.onAnchors {
				if present {
					require.NotNil(t, dates[k])
					assert.Equal(t, anchors[k].Format(dateutils.DateLayoutISO), *dates[k])
				} else {
					assert.Nil(t, dates[k])
				}
			}
		})
	}
}

func TestDetectSampleFields(t *testing.T) {
	anchors := testAnchors(t)
	path := writeCSV(t,
		"initiation_time,description,amount_value,amount_currency,sender_name",
		tsOn(anchors[0])+",Netflix,12.99,EUR,Netflix Inc")

	report := New().Detect(path, testNow)
	require.Len(t, report.Items, 1)

	item := report.Items[0]
	require.NotNil(t, item.Description)
	assert.Equal(t, "Netflix", *item.Description)
	require.NotNil(t, item.Amount)
	assert.Equal(t, "12.99", *item.Amount)
	require.NotNil(t, item.Currency)
	assert.Equal(t, "EUR", *item.Currency)
	require.NotNil(t, item.Payer)
	assert.Equal(t, "Netflix Inc", *item.Payer)
}

func TestDetectGroupsSortedByKey(t *testing.T) {
	anchors := testAnchors(t)
	path := writeCSV(t,
		"initiation_time,description",
		tsOn(anchors[0])+",Spotify",
		tsOn(anchors[0])+",Netflix",
		tsOn(anchors[1])+",Netflix")

	report := New().Detect(path, testNow)
	require.Equal(t, 2, report.Count)
	assert.Equal(t, "netflix", report.Items[0].Key)
	assert.Equal(t, "recurring: last 2 months", report.Items[0].Pattern)
	assert.Equal(t, "spotify", report.Items[1].Key)
	assert.Equal(t, "recurring: last month only", report.Items[1].Pattern)
}

func TestDetectGroupingFallsBackToInvoice(t *testing.T) {
	anchors := testAnchors(t)
	path := writeCSV(t,
		"initiation_time,invoice_id",
		tsOn(anchors[0])+",INV-7",
		tsOn(anchors[1])+",INV-7")

	report := New().Detect(path, testNow)
	require.Equal(t, 1, report.Count)
	assert.Equal(t, "inv-7", report.Items[0].Key)
	assert.Equal(t, "recurring: last 2 months", report.Items[0].Pattern)
}

func TestDetectGroupingFallsBackToCatchAll(t *testing.T) {
	// No description, invoice or payer column: every row is one group.
	anchors := testAnchors(t)
	path := writeCSV(t,
		"initiation_time,amount_value",
		tsOn(anchors[0])+",12.99",
		tsOn(anchors[1])+",45.00")

	report := New().Detect(path, testNow)
	require.Equal(t, 1, report.Count)
	assert.Equal(t, "__all__", report.Items[0].Key)
}

func TestDetectBlankGroupValue(t *testing.T) {
	anchors := testAnchors(t)
	path := writeCSV(t,
		"initiation_time,description",
		tsOn(anchors[0])+",")

	report := New().Detect(path, testNow)
	require.Equal(t, 1, report.Count)
	assert.Equal(t, "__unknown__", report.Items[0].Key)
	assert.Nil(t, report.Items[0].Description)
}

func TestDetectCustomSynonyms(t *testing.T) {
	anchors := testAnchors(t)
	path := writeCSV(t,
		"booking_time,description",
		tsOn(anchors[0])+",Netflix")

	c := &Classifier{Synonyms: map[tabular.Field][]string{
		tabular.FieldTime: {"booking_time"},
	}}
	report := c.Detect(path, testNow)
	require.Equal(t, 1, report.Count)
	assert.Equal(t, "recurring: last month only", report.Items[0].Pattern)
}
