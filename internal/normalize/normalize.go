// Package normalize flattens raw nested transaction records into the flat
// storage schema. Flattening is a pure function: missing nested
// sub-objects degrade to null fields, never errors.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/paypal-sync/internal/models"

	"github.com/shopspring/decimal"
)

// itemSeparator joins item names, SKUs and description parts.
const itemSeparator = "; "

// Flatten converts one raw transaction into the flat schema. A record
// without a transaction id still flattens; the store rejects it at upsert
// time.
func Flatten(txn models.RawTransaction) models.FlatTransaction {
	info := txn.Info()
	payer := txn.Payer()
	cart := txn.Cart()

	senderFull, given, surname := senderName(payer)
	itemCount, itemNames, itemSKUs, itemJSON, cartDesc := cartAggregates(cart)

	// Prefer an explicit subject/note; fall back to the cart summary.
	description := strOrNil(info.TransactionSubject)
	if description == nil {
		description = strOrNil(info.TransactionNote)
	}
	if description == nil {
		description = cartDesc
	}

	// The cart invoice id appears under either name depending on the flow.
	cartInvoiceID := strOrNil(cart.InvoiceID)
	if cartInvoiceID == nil {
		cartInvoiceID = strOrNil(cart.PayPalInvoiceID)
	}

	flat := models.FlatTransaction{
		TransactionID:    info.TransactionID,
		InitiationTime:   strOrNil(info.TransactionInitiationDate),
		UpdatedTime:      strOrNil(info.TransactionUpdatedDate),
		Status:           strOrNil(info.TransactionStatus),
		EventCode:        strOrNil(info.TransactionEventCode),
		SenderName:       senderFull,
		PayerGivenName:   given,
		PayerSurname:     surname,
		PayerEmail:       strOrNil(payer.EmailAddress),
		PayerID:          strOrNil(payer.AccountID),
		PayerCountryCode: strOrNil(payer.CountryCode),
		PayerPhone:       strOrNil(payer.Phone()),
		InvoiceID:        strOrNil(info.InvoiceID),
		CartInvoiceID:    cartInvoiceID,
		ItemCount:        itemCount,
		ItemNames:        itemNames,
		ItemSKUs:         itemSKUs,
		ItemJSON:         itemJSON,
		Description:      description,
	}

	if info.TransactionAmount != nil {
		flat.AmountValue = decimalOrNil(info.TransactionAmount.Value)
		flat.AmountCurrency = strOrNil(info.TransactionAmount.CurrencyCode)
	}
	if info.FeeAmount != nil {
		flat.FeeValue = decimalOrNil(info.FeeAmount.Value)
		flat.FeeCurrency = strOrNil(info.FeeAmount.CurrencyCode)
	}

	if raw, err := json.Marshal(txn); err == nil {
		s := string(raw)
		flat.RawJSON = &s
	}

	return flat
}

// senderName builds (full, given, surname) from the payer name, preferring
// the alternate full name, else given+surname joined by a space.
func senderName(payer models.PayerInfo) (full, given, surname *string) {
	name := payer.Name()
	given = strOrNil(name.GivenName)
	surname = strOrNil(name.Surname)

	if name.AlternateFullName != "" {
		return strOrNil(name.AlternateFullName), given, surname
	}

	var parts []string
	if given != nil {
		parts = append(parts, *given)
	}
	if surname != nil {
		parts = append(parts, *surname)
	}
	return strOrNil(strings.Join(parts, " ")), given, surname
}

// cartAggregates builds counts and summaries from the cart line items.
func cartAggregates(cart models.CartInfo) (count int, names, skus, itemJSON, description *string) {
	items := cart.ItemDetails
	var nameList, skuList, parts []string

	for _, it := range items {
		name := it.DisplayName()
		code := it.Code()
		qty := it.Qty()

		// Compose a friendly piece like: "Widget x2"
		switch {
		case name != "" && qty != "":
			parts = append(parts, fmt.Sprintf("%s x%s", name, qty))
		case name != "":
			parts = append(parts, name)
		}
		if name != "" {
			nameList = append(nameList, name)
		}
		if code != "" {
			skuList = append(skuList, code)
		}
	}

	if len(items) > 0 {
		if raw, err := json.Marshal(items); err == nil {
			s := string(raw)
			itemJSON = &s
		}
	}

	return len(items),
		strOrNil(strings.Join(nameList, itemSeparator)),
		strOrNil(strings.Join(skuList, itemSeparator)),
		itemJSON,
		strOrNil(strings.Join(parts, itemSeparator))
}

// decimalOrNil coerces a wire amount string to a decimal, returning nil
// for absent or non-numeric values instead of failing.
func decimalOrNil(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// strOrNil maps the empty string to nil.
func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
