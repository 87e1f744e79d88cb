// Package tabular reads header-labeled CSV files with a dynamic schema and
// resolves semantic fields to whichever actual column is present, using
// priority-ordered synonym lists.
package tabular

import (
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Field names a semantic column the classifiers need.
type Field string

// Semantic fields resolvable against a tabular header.
const (
	FieldTime        Field = "time"
	FieldDescription Field = "description"
	FieldInvoice     Field = "invoice_id"
	FieldPayer       Field = "payer"
	FieldAmount      Field = "amount"
	FieldCurrency    Field = "currency"
)

// DefaultSynonyms maps each semantic field to its candidate column names
// in priority order. The first candidate present in a header wins.
var DefaultSynonyms = map[Field][]string{
	FieldTime:        {"initiation_time", "time", "transaction_time", "transaction_initiation_date"},
	FieldDescription: {"description", "item_names", "transaction_subject", "note", "memo"},
	FieldInvoice:     {"invoice_id", "cart_invoice_id", "paypal_invoice_id"},
	FieldPayer:       {"sender_name", "payer_email", "payer_name", "payer"},
	FieldAmount:      {"amount_value", "amount", "transaction_amount_value", "value"},
	FieldCurrency:    {"amount_currency", "currency", "transaction_amount_currency", "currency_code"},
}

// NormalizeName canonicalizes a column name: trim, lowercase, spaces to
// underscores.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Resolver maps semantic fields to the actual column names of one header.
// Build it once per file.
type Resolver struct {
	columns  map[string]string // normalized name -> actual name
	synonyms map[Field][]string
}

// NewResolver builds a resolver over a header using the default synonym
// table.
func NewResolver(header []string) *Resolver {
	return NewResolverWithSynonyms(header, DefaultSynonyms)
}

// NewResolverWithSynonyms builds a resolver with a custom synonym table.
// Fields missing from the table fall back to the defaults.
func NewResolverWithSynonyms(header []string, synonyms map[Field][]string) *Resolver {
	columns := make(map[string]string, len(header))
	for _, h := range header {
		columns[NormalizeName(h)] = h
	}
	merged := make(map[Field][]string, len(DefaultSynonyms))
	for f, names := range DefaultSynonyms {
		merged[f] = names
	}
	for f, names := range synonyms {
		merged[f] = names
	}
	return &Resolver{columns: columns, synonyms: merged}
}

// Resolve returns the actual column name carrying the semantic field, or
// ok=false when no candidate is present.
func (r *Resolver) Resolve(field Field) (string, bool) {
	for _, candidate := range r.synonyms[field] {
		if actual, ok := r.columns[candidate]; ok {
			return actual, true
		}
	}
	return "", false
}
