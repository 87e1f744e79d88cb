// Package store persists normalized transactions in a per-run SQLite
// database and exports them to the stable CSV schema.
package store

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/paypal-sync/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Delimiter is the CSV output delimiter.
var Delimiter rune = ','

// SetDelimiter allows setting the delimiter for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// ErrMissingID rejects records without a transaction identifier. Callers
// skip these records rather than failing the run.
var ErrMissingID = errors.New("transaction record has no transaction_id")

// Monetary columns are stored as TEXT so decimal formatting survives the
// round trip; SQLite REAL would collapse "25.00" to 25.
const transactionsSchema = `
CREATE TABLE IF NOT EXISTS transactions(
    transaction_id          TEXT PRIMARY KEY,
    initiation_time         TEXT,
    updated_time            TEXT,
    status                  TEXT,
    event_code              TEXT,

    amount_value            TEXT,
    amount_currency         TEXT,
    fee_value               TEXT,
    fee_currency            TEXT,

    sender_name             TEXT,
    payer_given_name        TEXT,
    payer_surname           TEXT,
    payer_email             TEXT,
    payer_id                TEXT,
    payer_country_code      TEXT,
    payer_phone             TEXT,

    invoice_id              TEXT,
    cart_invoice_id         TEXT,
    item_count              INTEGER,
    item_names              TEXT,
    item_skus               TEXT,
    item_json               TEXT,
    description             TEXT,

    raw_json                TEXT
);
`

const runsSchema = `
CREATE TABLE IF NOT EXISTS ingest_runs(
    id          TEXT PRIMARY KEY,
    started_at  TEXT NOT NULL,
    finished_at TEXT,
    fetched     INTEGER,
    stored      INTEGER
);
`

// Store wraps the SQLite database holding one fetch window's transactions.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the store at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("error creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening store: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			log.WithError(cerr).Warn("Failed to close store after migration error")
		}
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(transactionsSchema); err != nil {
		return fmt.Errorf("error creating transactions table: %w", err)
	}
	if _, err := s.db.Exec(runsSchema); err != nil {
		return fmt.Errorf("error creating ingest_runs table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the on-disk location of the store.
func (s *Store) Path() string {
	return s.path
}

// Reset destroys and recreates the transactions table so the store
// reflects exactly one fetch window. Run bookkeeping survives resets.
// Safe to call before every run.
func (s *Store) Reset() error {
	log.WithField("path", s.path).Info("Resetting transaction store")
	if _, err := s.db.Exec(`DROP TABLE IF EXISTS transactions`); err != nil {
		return fmt.Errorf("error dropping transactions table: %w", err)
	}
	if _, err := s.db.Exec(transactionsSchema); err != nil {
		return fmt.Errorf("error recreating transactions table: %w", err)
	}
	return nil
}

// Upsert inserts a flat transaction, overwriting every non-key field when
// the transaction id already exists (last-write-wins).
func (s *Store) Upsert(ft models.FlatTransaction) error {
	if ft.TransactionID == "" {
		return ErrMissingID
	}

	_, err := s.db.Exec(`
    INSERT INTO transactions(
        transaction_id, initiation_time, updated_time, status, event_code,
        amount_value, amount_currency, fee_value, fee_currency,
        sender_name, payer_given_name, payer_surname, payer_email, payer_id, payer_country_code, payer_phone,
        invoice_id, cart_invoice_id, item_count, item_names, item_skus, item_json, description,
        raw_json
    ) VALUES(?,?,?,?,?,?,?,?,?,
             ?,?,?,?,?,?,?,
             ?,?,?,?,?,?,?,
             ?)
    ON CONFLICT(transaction_id) DO UPDATE SET
        initiation_time=excluded.initiation_time,
        updated_time=excluded.updated_time,
        status=excluded.status,
        event_code=excluded.event_code,
        amount_value=excluded.amount_value,
        amount_currency=excluded.amount_currency,
        fee_value=excluded.fee_value,
        fee_currency=excluded.fee_currency,
        sender_name=excluded.sender_name,
        payer_given_name=excluded.payer_given_name,
        payer_surname=excluded.payer_surname,
        payer_email=excluded.payer_email,
        payer_id=excluded.payer_id,
        payer_country_code=excluded.payer_country_code,
        payer_phone=excluded.payer_phone,
        invoice_id=excluded.invoice_id,
        cart_invoice_id=excluded.cart_invoice_id,
        item_count=excluded.item_count,
        item_names=excluded.item_names,
        item_skus=excluded.item_skus,
        item_json=excluded.item_json,
        description=excluded.description,
        raw_json=excluded.raw_json;
    `,
		ft.TransactionID, ft.InitiationTime, ft.UpdatedTime, ft.Status, ft.EventCode,
		decimalText(ft.AmountValue), ft.AmountCurrency, decimalText(ft.FeeValue), ft.FeeCurrency,
		ft.SenderName, ft.PayerGivenName, ft.PayerSurname, ft.PayerEmail, ft.PayerID, ft.PayerCountryCode, ft.PayerPhone,
		ft.InvoiceID, ft.CartInvoiceID, ft.ItemCount, ft.ItemNames, ft.ItemSKUs, ft.ItemJSON, ft.Description,
		ft.RawJSON,
	)
	if err != nil {
		return fmt.Errorf("error upserting transaction %s: %w", ft.TransactionID, err)
	}
	return nil
}

// Count returns the number of stored transactions.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting transactions: %w", err)
	}
	return n, nil
}

// All returns every stored transaction ordered by initiation time
// descending, the order the export contract requires.
func (s *Store) All() ([]models.FlatTransaction, error) {
	rows, err := s.db.Query(`
        SELECT
            transaction_id, initiation_time, updated_time, status, event_code,
            amount_value, amount_currency, fee_value, fee_currency,
            sender_name, payer_given_name, payer_surname, payer_email, payer_id, payer_country_code, payer_phone,
            invoice_id, cart_invoice_id, item_count, item_names, item_skus, item_json, description,
            raw_json
        FROM transactions
        ORDER BY initiation_time DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.WithError(err).Warn("Failed to close rows")
		}
	}()

	out := []models.FlatTransaction{}
	for rows.Next() {
		var ft models.FlatTransaction
		var initiation, updated, status, eventCode sql.NullString
		var amountValue, amountCurrency, feeValue, feeCurrency sql.NullString
		var senderName, givenName, surname, email, payerID, country, phone sql.NullString
		var invoiceID, cartInvoiceID, itemNames, itemSKUs, itemJSON, description, rawJSON sql.NullString

		err := rows.Scan(
			&ft.TransactionID, &initiation, &updated, &status, &eventCode,
			&amountValue, &amountCurrency, &feeValue, &feeCurrency,
			&senderName, &givenName, &surname, &email, &payerID, &country, &phone,
			&invoiceID, &cartInvoiceID, &ft.ItemCount, &itemNames, &itemSKUs, &itemJSON, &description,
			&rawJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}

		ft.InitiationTime = nullToPtr(initiation)
		ft.UpdatedTime = nullToPtr(updated)
		ft.Status = nullToPtr(status)
		ft.EventCode = nullToPtr(eventCode)
		ft.AmountValue = nullToDecimal(amountValue)
		ft.AmountCurrency = nullToPtr(amountCurrency)
		ft.FeeValue = nullToDecimal(feeValue)
		ft.FeeCurrency = nullToPtr(feeCurrency)
		ft.SenderName = nullToPtr(senderName)
		ft.PayerGivenName = nullToPtr(givenName)
		ft.PayerSurname = nullToPtr(surname)
		ft.PayerEmail = nullToPtr(email)
		ft.PayerID = nullToPtr(payerID)
		ft.PayerCountryCode = nullToPtr(country)
		ft.PayerPhone = nullToPtr(phone)
		ft.InvoiceID = nullToPtr(invoiceID)
		ft.CartInvoiceID = nullToPtr(cartInvoiceID)
		ft.ItemNames = nullToPtr(itemNames)
		ft.ItemSKUs = nullToPtr(itemSKUs)
		ft.ItemJSON = nullToPtr(itemJSON)
		ft.Description = nullToPtr(description)
		ft.RawJSON = nullToPtr(rawJSON)

		out = append(out, ft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return out, nil
}

// ExportCSV writes every stored transaction to a CSV file with the fixed
// header, ordered by initiation time descending. An empty store produces a
// header-only file. Returns the number of data rows written.
func (s *Store) ExportCSV(csvFile string) (int, error) {
	transactions, err := s.All()
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(csvFile); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return 0, fmt.Errorf("error creating export directory: %w", err)
		}
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return 0, fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(&transactions, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return 0, fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file":  csvFile,
		"count": len(transactions),
	}).Info("Exported transactions to CSV file")
	return len(transactions), nil
}

// BeginRun records the start of an ingestion run and returns its id.
func (s *Store) BeginRun(startedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO ingest_runs(id, started_at) VALUES(?, ?)`,
		id, startedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("error recording ingest run: %w", err)
	}
	return id, nil
}

// FinishRun records the completion of an ingestion run.
func (s *Store) FinishRun(id string, finishedAt time.Time, fetched, stored int) error {
	_, err := s.db.Exec(`UPDATE ingest_runs SET finished_at = ?, fetched = ?, stored = ? WHERE id = ?`,
		finishedAt.UTC().Format(time.RFC3339), fetched, stored, id)
	if err != nil {
		return fmt.Errorf("error finishing ingest run %s: %w", id, err)
	}
	return nil
}

// decimalText renders an optional decimal for storage, nil staying NULL.
func decimalText(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullToDecimal(ns sql.NullString) *decimal.Decimal {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil
	}
	return &d
}
