//go:build !noxlsx

package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

func (e *Exporter) customerLedgerXLSX(name string) (string, error) {
	rows, err := e.ledgerRows(name)
	if err != nil {
		return "", err
	}

	path, err := e.reportPath(name+"_transactions", FormatXLSX)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(ledgerHeader))
	for i, h := range ledgerHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("row %d: %w", i+2, err)
		}
		amount, _ := r.txn.Amount.Float64()
		running, _ := r.running.Float64()
		record := []interface{}{
			r.txn.Timestamp.Format(dateFormat),
			r.txn.Timestamp.Format(timeFormat),
			string(r.txn.Kind),
			amount,
			r.txn.Note,
			running,
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return "", fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func (e *Exporter) allBalancesXLSX() (string, error) {
	ranked, err := e.engine.RankedBalances()
	if err != nil {
		return "", err
	}

	path, err := e.reportPath("all_customers_balances", FormatXLSX)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(balancesHeader))
	for i, h := range balancesHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	for i, cb := range ranked {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("row %d: %w", i+2, err)
		}
		balance, _ := cb.Balance.Float64()
		record := []interface{}{cb.Name, balance}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return "", fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
