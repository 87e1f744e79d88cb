package models

import (
	"github.com/shopspring/decimal"
)

// FlatTransaction is the normalized single-level record persisted by the
// store and exported to CSV. Nullable fields are pointers so that absent
// upstream data stays NULL in the database and empty in the CSV.
//
// The csv tags define the export header in its stable order. The archival
// JSON columns are stored but excluded from the user-facing export.
type FlatTransaction struct {
	TransactionID    string           `csv:"transaction_id" json:"transaction_id"`
	InitiationTime   *string          `csv:"initiation_time" json:"initiation_time"`
	UpdatedTime      *string          `csv:"updated_time" json:"updated_time"`
	Status           *string          `csv:"status" json:"status"`
	EventCode        *string          `csv:"event_code" json:"event_code"`
	AmountValue      *decimal.Decimal `csv:"amount_value" json:"amount_value"`
	AmountCurrency   *string          `csv:"amount_currency" json:"amount_currency"`
	FeeValue         *decimal.Decimal `csv:"fee_value" json:"fee_value"`
	FeeCurrency      *string          `csv:"fee_currency" json:"fee_currency"`
	SenderName       *string          `csv:"sender_name" json:"sender_name"`
	PayerGivenName   *string          `csv:"payer_given_name" json:"payer_given_name"`
	PayerSurname     *string          `csv:"payer_surname" json:"payer_surname"`
	PayerEmail       *string          `csv:"payer_email" json:"payer_email"`
	PayerID          *string          `csv:"payer_id" json:"payer_id"`
	PayerCountryCode *string          `csv:"payer_country_code" json:"payer_country_code"`
	PayerPhone       *string          `csv:"payer_phone" json:"payer_phone"`
	InvoiceID        *string          `csv:"invoice_id" json:"invoice_id"`
	CartInvoiceID    *string          `csv:"cart_invoice_id" json:"cart_invoice_id"`
	ItemCount        int              `csv:"item_count" json:"item_count"`
	ItemNames        *string          `csv:"item_names" json:"item_names"`
	ItemSKUs         *string          `csv:"item_skus" json:"item_skus"`
	Description      *string          `csv:"description" json:"description"`
	ItemJSON         *string          `csv:"-" json:"-"`
	RawJSON          *string          `csv:"-" json:"-"`
}
