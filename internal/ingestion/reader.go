package ingestion

import (
	"TxLedger/internal/event"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Reader streams transactions from CSV input in file order.
// Not thread-safe.
type Reader struct {
	csv      *csv.Reader
	cols     columnIndex
	opts     ParseOptions
	logger   zerolog.Logger
	sequence int64
}

// NewReader consumes the header row and prepares to stream data rows.
func NewReader(r io.Reader, opts ParseOptions) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // dispute rows may omit the trailing amount
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := parseHeader(header)
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger.Debug().
		Int("type_col", cols.kind).
		Int("client_col", cols.client).
		Int("tx_col", cols.tx).
		Int("amount_col", cols.amount).
		Msg("header parsed")

	return &Reader{csv: cr, cols: cols, opts: opts, logger: logger}, nil
}

// Next returns the next transaction, or io.EOF once the input is exhausted.
func (r *Reader) Next() (event.Envelope, error) {
	fields, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return event.Envelope{}, io.EOF
		}
		return event.Envelope{}, err
	}

	line, _ := r.csv.FieldPos(0)

	tx, coerced, err := parseRow(fields, r.cols, r.opts)
	if err != nil {
		r.logger.Debug().
			Int("line", line).
			Str("row", strings.Join(fields, ",")).
			Err(err).
			Msg("row rejected by parser")
		return event.Envelope{}, fmt.Errorf("line %d: %w", line, err)
	}
	if coerced {
		r.logger.Warn().
			Int("line", line).
			Str("kind", tx.Kind.String()).
			Uint32("tx", tx.TxID).
			Str("amount", field(fields, r.cols.amount)).
			Msg("unparseable amount coerced to zero")
	}

	env := event.Envelope{
		Sequence: r.sequence,
		Line:     line,
		Tx:       tx,
	}
	r.sequence++

	return env, nil
}

// ForEach feeds every transaction of r to fn in order and returns the number
// of rows read. The first parse error, or error from fn, stops the stream.
func ForEach(r io.Reader, opts ParseOptions, fn func(event.Envelope) error) (int64, error) {
	reader, err := NewReader(r, opts)
	if err != nil {
		return 0, err
	}

	var n int64
	for {
		env, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := fn(env); err != nil {
			return n, err
		}
		n++
	}
}

// ForEachInFile opens path and streams it through ForEach.
func ForEachInFile(path string, opts ParseOptions, fn func(event.Envelope) error) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return ForEach(f, opts, fn)
}
