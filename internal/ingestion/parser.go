package ingestion

import (
	"TxLedger/internal/event"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrMissingHeader = errors.New("missing header row")
	ErrMissingColumn = errors.New("missing required column")
	ErrUnknownKind   = errors.New("unknown transaction type")
	ErrInvalidClient = errors.New("invalid client id")
	ErrInvalidTxID   = errors.New("invalid transaction id")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Column names of the input header
const (
	ColumnType   = "type"
	ColumnClient = "client"
	ColumnTx     = "tx"
	ColumnAmount = "amount"
)

// ParseOptions controls how strictly rows are interpreted.
type ParseOptions struct {
	// LenientAmounts coerces an unparseable deposit/withdrawal amount to zero
	// instead of failing the run.
	LenientAmounts bool

	// Logger receives per-row parse context. Nil disables logging.
	Logger *zerolog.Logger
}

// columnIndex locates the required columns inside a row
type columnIndex struct {
	kind, client, tx, amount int
}

// parseHeader trims the header fields and finds the four required columns.
// Extra columns are ignored.
func parseHeader(fields []string) (columnIndex, error) {
	pos := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimSpace(strings.TrimPrefix(f, "\ufeff"))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	var idx columnIndex
	for _, col := range []struct {
		name string
		dst  *int
	}{
		{ColumnType, &idx.kind},
		{ColumnClient, &idx.client},
		{ColumnTx, &idx.tx},
		{ColumnAmount, &idx.amount},
	} {
		i, ok := pos[col.name]
		if !ok {
			return columnIndex{}, fmt.Errorf("%w %q", ErrMissingColumn, col.name)
		}
		*col.dst = i
	}

	return idx, nil
}

// field returns the trimmed value at i, or "" when the row is short.
func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// parseRow converts one CSV data row into a transaction. coerced reports
// that lenient mode replaced an unparseable amount with zero.
func parseRow(fields []string, idx columnIndex, opts ParseOptions) (tx event.Transaction, coerced bool, err error) {
	rawKind := field(fields, idx.kind)
	kind, err := event.ParseKind(rawKind)
	if err != nil {
		return event.Transaction{}, false, fmt.Errorf("%w %q", ErrUnknownKind, rawKind)
	}

	rawClient := field(fields, idx.client)
	clientID, err := strconv.ParseUint(rawClient, 10, 16)
	if err != nil {
		return event.Transaction{}, false, fmt.Errorf("%w %q: %v", ErrInvalidClient, rawClient, err)
	}

	rawTx := field(fields, idx.tx)
	txID, err := strconv.ParseUint(rawTx, 10, 32)
	if err != nil {
		return event.Transaction{}, false, fmt.Errorf("%w %q: %v", ErrInvalidTxID, rawTx, err)
	}

	tx = event.Transaction{
		Kind:     kind,
		ClientID: uint16(clientID),
		TxID:     uint32(txID),
	}

	if kind.CarriesAmount() {
		tx.Amount, coerced, err = parseAmount(field(fields, idx.amount), opts)
		if err != nil {
			return event.Transaction{}, false, err
		}
	}

	return tx, coerced, nil
}

// parseAmount reads a deposit/withdrawal amount. Negative and non-finite
// values are always rejected; lenient mode only forgives unparseable text.
func parseAmount(raw string, opts ParseOptions) (amount float64, coerced bool, err error) {
	amount, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		if opts.LenientAmounts {
			return 0, true, nil
		}
		if raw == "" {
			return 0, false, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
		}
		return 0, false, fmt.Errorf("%w %q", ErrInvalidAmount, raw)
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false, fmt.Errorf("%w %q: not finite", ErrInvalidAmount, raw)
	}
	if amount < 0 {
		return 0, false, fmt.Errorf("%w %q: negative", ErrInvalidAmount, raw)
	}

	return amount, false, nil
}
