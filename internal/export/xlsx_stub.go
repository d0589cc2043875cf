//go:build noxlsx

package export

// Spreadsheet support is compiled out under the noxlsx tag; callers get
// ErrFormatUnavailable and are expected to fall back to CSV.

func (e *Exporter) customerLedgerXLSX(string) (string, error) {
	return "", ErrFormatUnavailable
}

func (e *Exporter) allBalancesXLSX() (string, error) {
	return "", ErrFormatUnavailable
}
