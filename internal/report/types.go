package report

import (
	"TxLedger/internal/ledger"
	"strconv"

	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of fractional digits written per amount.
const DefaultPrecision = 4

// Header is the first line of every account report.
var Header = []string{"client", "available", "held", "total", "locked"}

// AccountRow is one client account as it appears in the report.
type AccountRow struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// NewAccountRow converts a ledger account into a report row
func NewAccountRow(acct ledger.ClientAccount) AccountRow {
	return AccountRow{
		ClientID:  acct.ID,
		Available: decimal.NewFromFloat(acct.Available),
		Held:      decimal.NewFromFloat(acct.Held),
		Total:     decimal.NewFromFloat(acct.Total),
		Locked:    acct.Locked,
	}
}

// Record renders the row as CSV fields with a fixed number of decimals.
func (r AccountRow) Record(precision int32) []string {
	return []string{
		strconv.FormatUint(uint64(r.ClientID), 10),
		formatAmount(r.Available, precision),
		formatAmount(r.Held, precision),
		formatAmount(r.Total, precision),
		strconv.FormatBool(r.Locked),
	}
}

// formatAmount rounds half away from zero. A value that rounds to zero is
// written unsigned.
func formatAmount(d decimal.Decimal, precision int32) string {
	rounded := d.Round(precision)
	if rounded.IsZero() {
		return decimal.Zero.StringFixed(precision)
	}
	return rounded.StringFixed(precision)
}
