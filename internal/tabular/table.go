package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Row is one data row keyed by actual (unmodified) column name.
type Row map[string]string

// Table is a fully read tabular file.
type Table struct {
	Header []string
	Rows   []Row
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// ReadFile reads an entire CSV file into header-keyed rows. Ragged rows
// are tolerated: short rows leave trailing columns absent, extra cells are
// dropped. A file without even a header row yields an empty table.
func ReadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	log.WithFields(logrus.Fields{
		"file": path,
		"rows": len(table.Rows),
	}).Debug("Read tabular file")
	return table, nil
}
