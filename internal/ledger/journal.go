package ledger

import (
	"fmt"
	"math"
)

// JournalType represents the balance movement a journal performs
type JournalType int32

const (
	JournalTypeDeposit        JournalType = iota // external -> available
	JournalTypeWithdrawal                        // available -> external
	JournalTypeDisputeHold                       // available -> held
	JournalTypeDisputeRelease                    // held -> available
	JournalTypeChargeback                        // held -> external, locks account
)

func (t JournalType) String() string {
	switch t {
	case JournalTypeDeposit:
		return "deposit"
	case JournalTypeWithdrawal:
		return "withdrawal"
	case JournalTypeDisputeHold:
		return "dispute_hold"
	case JournalTypeDisputeRelease:
		return "dispute_release"
	case JournalTypeChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// Journal is a single applied balance movement for one client
type Journal struct {
	Sequence    int64       // Engine sequence of the applied transaction
	TxRef       uint32      // Transaction id the movement originates from
	ClientID    uint16      // Account being moved
	JournalType JournalType // Movement kind
	Amount      float64     // ALWAYS non-negative
}

// Deltas returns the signed change to available, held and total.
// By construction available + held == total for every journal type.
func (j Journal) Deltas() (available, held, total float64) {
	switch j.JournalType {
	case JournalTypeDeposit:
		return j.Amount, 0, j.Amount
	case JournalTypeWithdrawal:
		return -j.Amount, 0, -j.Amount
	case JournalTypeDisputeHold:
		return -j.Amount, j.Amount, 0
	case JournalTypeDisputeRelease:
		return j.Amount, -j.Amount, 0
	case JournalTypeChargeback:
		return 0, -j.Amount, -j.Amount
	}
	return 0, 0, 0
}

// Locks reports whether applying the journal locks the account
func (j Journal) Locks() bool {
	return j.JournalType == JournalTypeChargeback
}

// Validate ensures the journal is well-formed
func (j Journal) Validate() error {
	if j.JournalType < JournalTypeDeposit || j.JournalType > JournalTypeChargeback {
		return fmt.Errorf("journal tx=%d has unknown type %d", j.TxRef, j.JournalType)
	}
	if math.IsNaN(j.Amount) || math.IsInf(j.Amount, 0) {
		return fmt.Errorf("journal tx=%d has non-finite amount", j.TxRef)
	}
	if j.Amount < 0 {
		return fmt.Errorf("journal tx=%d has negative amount: %g", j.TxRef, j.Amount)
	}
	return nil
}
