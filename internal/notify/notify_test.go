package notify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/paypal-sync/internal/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNow is a Monday; one month back lands on Friday 2025-08-15, no
// weekend adjustment needed.
var testNow = time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "txns.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600))
	return path
}

func TestSameDayLastMonthDegradedInputs(t *testing.T) {
	n := New()

	t.Run("missing file", func(t *testing.T) {
		msg, row := n.SameDayLastMonth(filepath.Join(t.TempDir(), "nope.csv"), testNow)
		assert.Equal(t, MsgCSVNotFound, msg)
		assert.Nil(t, row)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0600))
		msg, row := n.SameDayLastMonth(path, testNow)
		assert.Equal(t, MsgCSVEmpty, msg)
		assert.Nil(t, row)
	})

	t.Run("no timestamp column", func(t *testing.T) {
		path := writeCSV(t,
			"description,amount_value",
			"Netflix,12.99")
		msg, row := n.SameDayLastMonth(path, testNow)
		assert.Equal(t, MsgNoTimeColumn, msg)
		assert.Nil(t, row)
	})

	t.Run("no transaction on target day", func(t *testing.T) {
		path := writeCSV(t,
			"initiation_time,description",
			"2025-08-14T10:00:00Z,Netflix",
			"garbled,Netflix")
		msg, row := n.SameDayLastMonth(path, testNow)
		assert.Equal(t, MsgNoMatch, msg)
		assert.Nil(t, row)
	})
}

func TestSameDayLastMonthFullMessage(t *testing.T) {
	path := writeCSV(t,
		"initiation_time,description,amount_value,amount_currency,sender_name",
		"2025-08-15T10:00:00Z,Hosting invoice,25.00,EUR,Acme Corp")

	msg, row := New().SameDayLastMonth(path, testNow)
	assert.Equal(t,
		"You paid an invoice on 2025-08-15 from Acme Corp — Hosting invoice (25.00 EUR). Do you want to pay it again? (Y/N)",
		msg)
	require.NotNil(t, row)
	assert.Equal(t, "Hosting invoice", row["description"])
}

func TestSameDayLastMonthMessageParts(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		record   string
		expected string
	}{
		{
			"date only",
			"initiation_time",
			"2025-08-15T10:00:00Z",
			"You paid an invoice on 2025-08-15. Do you want to pay it again? (Y/N)",
		},
		{
			"payer only",
			"initiation_time,sender_name",
			"2025-08-15T10:00:00Z,Acme Corp",
			"You paid an invoice on 2025-08-15 from Acme Corp. Do you want to pay it again? (Y/N)",
		},
		{
			"description only",
			"initiation_time,description",
			"2025-08-15T10:00:00Z,Hosting invoice",
			"You paid an invoice on 2025-08-15 — Hosting invoice. Do you want to pay it again? (Y/N)",
		},
		{
			"amount without currency is omitted",
			"initiation_time,amount_value",
			"2025-08-15T10:00:00Z,25.00",
			"You paid an invoice on 2025-08-15. Do you want to pay it again? (Y/N)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeCSV(t, tc.header, tc.record)
			msg, row := New().SameDayLastMonth(path, testNow)
			assert.Equal(t, tc.expected, msg)
			assert.NotNil(t, row)
		})
	}
}

func TestSameDayLastMonthPicksLatest(t *testing.T) {
	path := writeCSV(t,
		"initiation_time,description",
		"2025-08-15T08:00:00Z,Morning coffee",
		"2025-08-15T18:30:00Z,Evening groceries",
		"2025-08-15T12:00:00Z,Lunch")

	_, row := New().SameDayLastMonth(path, testNow)
	require.NotNil(t, row)
	assert.Equal(t, "Evening groceries", row["description"])
}

func TestSameDayLastMonthEqualTimestampsKeepFileOrder(t *testing.T) {
	path := writeCSV(t,
		"initiation_time,description",
		"2025-08-15T10:00:00Z,First in file",
		"2025-08-15T10:00:00Z,Second in file")

	_, row := New().SameDayLastMonth(path, testNow)
	require.NotNil(t, row)
	assert.Equal(t, "First in file", row["description"])
}

func TestSameDayLastMonthWeekendAdjustedTarget(t *testing.T) {
	// One month before Monday 2025-12-15 is 2025-11-15, a Saturday, so the
	// target rolls back to Friday 2025-11-14.
	now := time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC)
	path := writeCSV(t,
		"initiation_time,description",
		"2025-11-15T10:00:00Z,On the Saturday",
		"2025-11-14T10:00:00Z,On the Friday")

	msg, row := New().SameDayLastMonth(path, now)
	require.NotNil(t, row)
	assert.Equal(t, "On the Friday", row["description"])
	assert.Contains(t, msg, "You paid an invoice on 2025-11-14")
}

func TestSameDayLastMonthCustomSynonyms(t *testing.T) {
	path := writeCSV(t,
		"booking_time,counterparty",
		"2025-08-15T10:00:00Z,Acme Corp")

	n := &Notifier{Synonyms: map[tabular.Field][]string{
		tabular.FieldTime:  {"booking_time"},
		tabular.FieldPayer: {"counterparty"},
	}}
	msg, row := n.SameDayLastMonth(path, testNow)
	require.NotNil(t, row)
	assert.Equal(t,
		"You paid an invoice on 2025-08-15 from Acme Corp. Do you want to pay it again? (Y/N)",
		msg)
}
