package report

import (
	"TxLedger/internal/ledger"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
)

// Writer renders the final account summary as CSV.
type Writer struct {
	precision int32
}

// NewWriter creates a report writer. A negative precision falls back to
// DefaultPrecision.
func NewWriter(precision int) *Writer {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Writer{precision: int32(precision)}
}

// Rows converts accounts to report rows ordered by client id.
func Rows(accounts []ledger.ClientAccount) []AccountRow {
	rows := make([]AccountRow, 0, len(accounts))
	for _, acct := range accounts {
		rows = append(rows, NewAccountRow(acct))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ClientID < rows[j].ClientID })
	return rows
}

// Write emits the header followed by one line per account.
func (w *Writer) Write(out io.Writer, accounts []ledger.ClientAccount) error {
	cw := csv.NewWriter(out)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range Rows(accounts) {
		if err := cw.Write(row.Record(w.precision)); err != nil {
			return fmt.Errorf("write client %d: %w", row.ClientID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
