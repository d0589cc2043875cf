package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/posbook-dev/posbook/internal/ledger"
	"github.com/posbook-dev/posbook/internal/model"
)

// Row is one parsed statement line, ready to record on a ledger.
type Row struct {
	Kind      model.Kind
	Amount    decimal.Decimal
	Note      string
	Timestamp time.Time
}

const (
	numFields = 5
	colDate   = 0
	colTime   = 1
	colType   = 2
	colAmount = 3
	colNote   = 4
)

// Header is the expected statement CSV header.
const Header = "Date,Time,Type,Amount,Note"

// ParseFile reads a statement CSV from disk.
func ParseFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing statement %s: %w", path, err)
	}
	return rows, nil
}

// Parse reads a statement CSV with header Date,Time,Type,Amount,Note.
func Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(record []string) (Row, error) {
	ts, err := time.Parse(model.TimestampFormat, record[colDate]+" "+record[colTime])
	if err != nil {
		return Row{}, fmt.Errorf("parsing timestamp %q %q: %w", record[colDate], record[colTime], err)
	}

	kind, ok := model.ParseKind(record[colType])
	if !ok {
		return Row{}, fmt.Errorf("unknown type %q", record[colType])
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return Row{
		Kind:      kind,
		Amount:    amount,
		Note:      record[colNote],
		Timestamp: ts,
	}, nil
}

// Import records rows on a customer's ledger through the engine. It
// stops at the first rejected row and reports how many were recorded
// before it.
func Import(eng *ledger.Engine, customer string, rows []Row) (int, error) {
	for i, r := range rows {
		if err := eng.Record(customer, r.Kind, r.Amount, r.Note, r.Timestamp); err != nil {
			return i, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return len(rows), nil
}
