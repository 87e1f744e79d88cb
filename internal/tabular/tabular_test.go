package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/paypal-sync/internal/syncerror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"initiation_time", "initiation_time"},
		{"  Initiation Time  ", "initiation_time"},
		{"PAYER EMAIL", "payer_email"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeName(tc.in))
		})
	}
}

func TestResolvePriorityOrder(t *testing.T) {
	// Both candidates present: the higher-priority synonym wins.
	r := NewResolver([]string{"time", "initiation_time", "payer_email", "sender_name"})

	col, ok := r.Resolve(FieldTime)
	require.True(t, ok)
	assert.Equal(t, "initiation_time", col)

	col, ok = r.Resolve(FieldPayer)
	require.True(t, ok)
	assert.Equal(t, "sender_name", col)
}

func TestResolveFallbackSynonyms(t *testing.T) {
	r := NewResolver([]string{"Transaction Time", "memo", "payer", "value", "currency_code"})

	tests := []struct {
		field    Field
		expected string
	}{
		{FieldTime, "Transaction Time"},
		{FieldDescription, "memo"},
		{FieldPayer, "payer"},
		{FieldAmount, "value"},
		{FieldCurrency, "currency_code"},
	}

	for _, tc := range tests {
		t.Run(string(tc.field), func(t *testing.T) {
			col, ok := r.Resolve(tc.field)
			require.True(t, ok)
			// The actual header spelling is preserved for row lookup.
			assert.Equal(t, tc.expected, col)
		})
	}
}

func TestResolveMissingField(t *testing.T) {
	r := NewResolver([]string{"description", "amount_value"})

	_, ok := r.Resolve(FieldTime)
	assert.False(t, ok)
	_, ok = r.Resolve(FieldInvoice)
	assert.False(t, ok)
}

func TestResolverWithCustomSynonyms(t *testing.T) {
	overrides := map[Field][]string{
		FieldTime: {"booking_time"},
	}
	r := NewResolverWithSynonyms([]string{"booking_time", "sender_name"}, overrides)

	col, ok := r.Resolve(FieldTime)
	require.True(t, ok)
	assert.Equal(t, "booking_time", col)

	// Fields absent from the override table keep their defaults.
	col, ok = r.Resolve(FieldPayer)
	require.True(t, ok)
	assert.Equal(t, "sender_name", col)
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadFile(t *testing.T) {
	path := writeTempCSV(t, "initiation_time,description,amount_value\n"+
		"2025-08-15T10:00:00Z,Monthly fee,25.00\n"+
		"2025-08-16T10:00:00Z,Gym,30.00\n")

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"initiation_time", "description", "amount_value"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.False(t, table.Empty())
	assert.Equal(t, "Monthly fee", table.Rows[0]["description"])
	assert.Equal(t, "30.00", table.Rows[1]["amount_value"])
}

func TestReadFileRaggedRows(t *testing.T) {
	path := writeTempCSV(t, "a,b,c\n"+
		"1,2\n"+
		"1,2,3,4\n")

	table, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	// Short row: trailing column absent.
	_, present := table.Rows[0]["c"]
	assert.False(t, present)
	// Long row: extra cell dropped.
	assert.Equal(t, "3", table.Rows[1]["c"])
	assert.Len(t, table.Rows[1], 3)
}

func TestReadFileEmpty(t *testing.T) {
	path := writeTempCSV(t, "")

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Nil(t, table.Header)
	assert.True(t, table.Empty())
}

func TestReadFileHeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "initiation_time,description\n")

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"initiation_time", "description"}, table.Header)
	assert.True(t, table.Empty())
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadSynonyms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	content := "time: [Booking Time, posted_at]\n" +
		"payer: [counterparty]\n" +
		"bogus_field: [whatever]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	syn, err := LoadSynonyms(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"booking_time", "posted_at"}, syn[FieldTime])
	assert.Equal(t, []string{"counterparty"}, syn[FieldPayer])
	// Unknown semantic fields are dropped, not errors.
	assert.Len(t, syn, 2)
}

func TestLoadSynonymsBadFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSynonyms(filepath.Join(t.TempDir(), "nope.yaml"))
		var uerr *syncerror.UnusableInputError
		require.ErrorAs(t, err, &uerr)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "synonyms.yaml")
		require.NoError(t, os.WriteFile(path, []byte("time: [unclosed"), 0600))
		_, err := LoadSynonyms(path)
		var uerr *syncerror.UnusableInputError
		require.ErrorAs(t, err, &uerr)
	})
}
