package core

import "TxLedger/internal/ledger"

// RejectReason names the business rule that dropped a transaction
type RejectReason uint8

const (
	RejectNone RejectReason = iota
	RejectDuplicateTx
	RejectUnknownClient
	RejectAccountLocked
	RejectInsufficientFunds
	RejectTxNotFound
	RejectAlreadyDisputed
	RejectNotDisputable
	RejectNotDisputed
	RejectClientMismatch
	RejectUnknownKind
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectDuplicateTx:
		return "duplicate_tx"
	case RejectUnknownClient:
		return "unknown_client"
	case RejectAccountLocked:
		return "account_locked"
	case RejectInsufficientFunds:
		return "insufficient_funds"
	case RejectTxNotFound:
		return "tx_not_found"
	case RejectAlreadyDisputed:
		return "already_disputed"
	case RejectNotDisputable:
		return "not_disputable"
	case RejectNotDisputed:
		return "not_disputed"
	case RejectClientMismatch:
		return "client_mismatch"
	case RejectUnknownKind:
		return "unknown_kind"
	default:
		return "unknown"
	}
}

// Outcome reports what Apply did with one transaction.
// A rejected transaction left every balance and dispute flag untouched.
type Outcome struct {
	Applied bool
	Reason  RejectReason   // RejectNone when applied
	Journal ledger.Journal // Zero value when rejected
}

// Stats counts transactions seen by the engine
type Stats struct {
	Applied int64
	// Applied transactions that left total outside float tolerance of
	// available + held
	Drifted  int64
	Rejected map[RejectReason]int64
}

// TotalRejected sums rejections across all reasons
func (s Stats) TotalRejected() int64 {
	var n int64
	for _, v := range s.Rejected {
		n += v
	}
	return n
}
