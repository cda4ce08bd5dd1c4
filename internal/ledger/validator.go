package ledger

import (
	"fmt"
	"math"
)

// balanceTolerance bounds the relative float drift allowed between total and
// available + held. The three fields are updated independently, so they can
// disagree in the last few ulps.
const balanceTolerance = 1e-9

// InvariantValidator checks ledger invariants
type InvariantValidator struct {
	tracker *BalanceTracker
}

func NewInvariantValidator(tracker *BalanceTracker) *InvariantValidator {
	return &InvariantValidator{
		tracker: tracker,
	}
}

// ValidateAccountBalance verifies total == available + held for one client
func (v *InvariantValidator) ValidateAccountBalance(clientID uint16) error {
	acct, ok := v.tracker.Get(clientID)
	if !ok {
		return fmt.Errorf("client %d has no account", clientID)
	}
	return checkBalance(acct)
}

// ValidateAll verifies the balance invariant for every account
func (v *InvariantValidator) ValidateAll() error {
	for _, acct := range v.tracker.Accounts() {
		if err := checkBalance(acct); err != nil {
			return err
		}
	}
	return nil
}

func checkBalance(acct ClientAccount) error {
	sum := acct.Available + acct.Held
	drift := math.Abs(acct.Total - sum)
	scale := math.Max(1, math.Max(math.Abs(acct.Total), math.Abs(sum)))
	if drift > balanceTolerance*scale {
		return fmt.Errorf("account %s unbalanced: total=%g available=%g held=%g",
			acct.AccountPath(), acct.Total, acct.Available, acct.Held)
	}
	return nil
}
