package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/posbook-dev/posbook/internal/ledger"
	"github.com/posbook-dev/posbook/internal/model"
)

var (
	// ErrUnknownFormat occurs when a format name matches no exporter.
	ErrUnknownFormat = errors.New("unknown export format")

	// ErrFormatUnavailable is a soft failure reported when a format's
	// library is compiled out. Callers are expected to fall back to CSV.
	ErrFormatUnavailable = errors.New("export format unavailable")
)

// Format selects a report output format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	return string(f)
}

// ParseFormat normalizes a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04:05"
)

var (
	ledgerHeader   = []string{"Date", "Time", "Type", "Amount", "Note", "Running Balance"}
	balancesHeader = []string{"Customer Name", "Balance"}
)

// Exporter renders ledger state to tabular report files. It only reads
// through the engine and never mutates store state.
type Exporter struct {
	engine *ledger.Engine
	dir    string
}

// New creates an Exporter writing into dir.
func New(engine *ledger.Engine, dir string) *Exporter {
	return &Exporter{engine: engine, dir: dir}
}

// CustomerLedger writes one report row per transaction in chronological
// order, with a signed running-balance column. The file is named
// {customer}_transactions.{ext}.
func (e *Exporter) CustomerLedger(name string, format Format) (string, error) {
	switch format {
	case FormatCSV:
		return e.customerLedgerCSV(name)
	case FormatXLSX:
		return e.customerLedgerXLSX(name)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// AllBalances writes one row per customer, ranked by balance descending,
// to all_customers_balances.{ext}. The CSV variant formats balances with
// thousands grouping; the spreadsheet variant keeps them numeric.
func (e *Exporter) AllBalances(format Format) (string, error) {
	switch format {
	case FormatCSV:
		return e.allBalancesCSV()
	case FormatXLSX:
		return e.allBalancesXLSX()
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ledgerRow is a transaction with its running balance after the row.
type ledgerRow struct {
	txn     model.Transaction
	running decimal.Decimal
}

// ledgerRows walks a customer's transactions once, front to back,
// accumulating the running balance. No look-ahead, no reordering.
func (e *Exporter) ledgerRows(name string) ([]ledgerRow, error) {
	txns, err := e.engine.Transactions(name)
	if err != nil {
		return nil, err
	}

	rows := make([]ledgerRow, 0, len(txns))
	running := decimal.Zero
	for _, t := range txns {
		running = running.Add(t.Kind.Signed(t.Amount))
		rows = append(rows, ledgerRow{txn: t, running: running})
	}
	return rows, nil
}

func (e *Exporter) reportPath(base string, format Format) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	return filepath.Join(e.dir, base+"."+format.Ext()), nil
}

func (e *Exporter) customerLedgerCSV(name string) (string, error) {
	rows, err := e.ledgerRows(name)
	if err != nil {
		return "", err
	}

	path, err := e.reportPath(name+"_transactions", FormatCSV)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(ledgerHeader); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		record := []string{
			r.txn.Timestamp.Format(dateFormat),
			r.txn.Timestamp.Format(timeFormat),
			string(r.txn.Kind),
			r.txn.Amount.String(),
			r.txn.Note,
			r.running.String(),
		}
		if err := cw.Write(record); err != nil {
			return "", fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func (e *Exporter) allBalancesCSV() (string, error) {
	ranked, err := e.engine.RankedBalances()
	if err != nil {
		return "", err
	}

	path, err := e.reportPath("all_customers_balances", FormatCSV)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(balancesHeader); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for i, cb := range ranked {
		if err := cw.Write([]string{cb.Name, FormatAmount(cb.Balance)}); err != nil {
			return "", fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// FormatAmount renders a balance with two decimals and thousands
// grouping, e.g. "1,234.56".
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if s[0] == '-' {
		sign = "-"
		s = s[1:]
	}

	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]

	var grouped []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, c)
	}
	return sign + string(grouped) + frac
}
