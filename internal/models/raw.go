// Package models defines the data structures shared across the pipeline:
// the raw nested record shape returned by the PayPal Transaction Search API,
// the flat normalized schema used for storage and export, and the recurrence
// detection result types.
package models

// RawTransaction is one nested record as returned by the transaction
// listing endpoint. All sub-objects are optional on the wire; use the
// accessor methods instead of dereferencing the pointers directly.
type RawTransaction struct {
	TransactionInfo *TransactionInfo `json:"transaction_info,omitempty"`
	PayerInfo       *PayerInfo       `json:"payer_info,omitempty"`
	CartInfo        *CartInfo        `json:"cart_info,omitempty"`
}

// TransactionInfo carries the core transaction fields.
type TransactionInfo struct {
	TransactionID             string  `json:"transaction_id,omitempty"`
	TransactionInitiationDate string  `json:"transaction_initiation_date,omitempty"`
	TransactionUpdatedDate    string  `json:"transaction_updated_date,omitempty"`
	TransactionStatus         string  `json:"transaction_status,omitempty"`
	TransactionEventCode      string  `json:"transaction_event_code,omitempty"`
	TransactionAmount         *Amount `json:"transaction_amount,omitempty"`
	FeeAmount                 *Amount `json:"fee_amount,omitempty"`
	TransactionSubject        string  `json:"transaction_subject,omitempty"`
	TransactionNote           string  `json:"transaction_note,omitempty"`
	InvoiceID                 string  `json:"invoice_id,omitempty"`
}

// Amount is a currency/value pair. The value arrives as a string on the
// wire and is only coerced to a decimal during normalization.
type Amount struct {
	CurrencyCode string `json:"currency_code,omitempty"`
	Value        string `json:"value,omitempty"`
}

// PayerInfo carries the payer details of a transaction.
type PayerInfo struct {
	AccountID    string     `json:"account_id,omitempty"`
	EmailAddress string     `json:"email_address,omitempty"`
	CountryCode  string     `json:"country_code,omitempty"`
	PayerName    *PayerName `json:"payer_name,omitempty"`
	PrimaryPhone *Phone     `json:"primary_phone,omitempty"`
}

// PayerName holds the name parts of a payer.
type PayerName struct {
	GivenName         string `json:"given_name,omitempty"`
	Surname           string `json:"surname,omitempty"`
	AlternateFullName string `json:"alternate_full_name,omitempty"`
}

// Phone holds a payer phone number. Different flows populate different
// fields, so both are kept.
type Phone struct {
	NationalNumber string `json:"national_number,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
}

// CartInfo carries cart enrichment data when the transaction originated
// from a checkout flow.
type CartInfo struct {
	InvoiceID       string       `json:"invoice_id,omitempty"`
	PayPalInvoiceID string       `json:"paypal_invoice_id,omitempty"`
	ItemDetails     []ItemDetail `json:"item_details,omitempty"`
}

// ItemDetail is one cart line item. Field names vary between API flows,
// hence the duplicated name/code/quantity pairs.
type ItemDetail struct {
	ItemName     string `json:"item_name,omitempty"`
	Name         string `json:"name,omitempty"`
	ItemCode     string `json:"item_code,omitempty"`
	SKU          string `json:"sku,omitempty"`
	ItemQuantity string `json:"item_quantity,omitempty"`
	Quantity     string `json:"quantity,omitempty"`
}

// Info returns the transaction info sub-object, or a zero value when absent.
func (t RawTransaction) Info() TransactionInfo {
	if t.TransactionInfo == nil {
		return TransactionInfo{}
	}
	return *t.TransactionInfo
}

// Payer returns the payer info sub-object, or a zero value when absent.
func (t RawTransaction) Payer() PayerInfo {
	if t.PayerInfo == nil {
		return PayerInfo{}
	}
	return *t.PayerInfo
}

// Cart returns the cart info sub-object, or a zero value when absent.
func (t RawTransaction) Cart() CartInfo {
	if t.CartInfo == nil {
		return CartInfo{}
	}
	return *t.CartInfo
}

// Name returns the payer name sub-object, or a zero value when absent.
func (p PayerInfo) Name() PayerName {
	if p.PayerName == nil {
		return PayerName{}
	}
	return *p.PayerName
}

// Phone returns the best available payer phone number, preferring the
// national number, or "" when no phone data is present.
func (p PayerInfo) Phone() string {
	if p.PrimaryPhone == nil {
		return ""
	}
	if p.PrimaryPhone.NationalNumber != "" {
		return p.PrimaryPhone.NationalNumber
	}
	return p.PrimaryPhone.PhoneNumber
}

// DisplayName returns the item name, whichever wire field carried it.
func (i ItemDetail) DisplayName() string {
	if i.ItemName != "" {
		return i.ItemName
	}
	return i.Name
}

// Code returns the item code or SKU, whichever wire field carried it.
func (i ItemDetail) Code() string {
	if i.ItemCode != "" {
		return i.ItemCode
	}
	return i.SKU
}

// Qty returns the item quantity, whichever wire field carried it.
func (i ItemDetail) Qty() string {
	if i.ItemQuantity != "" {
		return i.ItemQuantity
	}
	return i.Quantity
}
