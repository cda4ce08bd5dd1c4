package ledger

import (
	"fmt"
	"sort"
)

// BalanceTracker maintains in-memory client accounts.
// Not thread-safe; only accessed from the single-threaded engine.
type BalanceTracker struct {
	accounts map[uint16]*ClientAccount
}

func NewBalanceTracker() *BalanceTracker {
	return &BalanceTracker{
		accounts: make(map[uint16]*ClientAccount),
	}
}

// Open returns the account for clientID, creating an empty one if absent
func (bt *BalanceTracker) Open(clientID uint16) ClientAccount {
	acct, ok := bt.accounts[clientID]
	if !ok {
		a := NewClientAccount(clientID)
		acct = &a
		bt.accounts[clientID] = acct
	}
	return *acct
}

// Get returns a copy of the account for clientID
func (bt *BalanceTracker) Get(clientID uint16) (ClientAccount, bool) {
	acct, ok := bt.accounts[clientID]
	if !ok {
		return ClientAccount{}, false
	}
	return *acct, true
}

// ApplyJournal applies a single journal entry to its account
func (bt *BalanceTracker) ApplyJournal(j Journal) error {
	if err := j.Validate(); err != nil {
		return fmt.Errorf("invalid journal: %w", err)
	}

	acct, ok := bt.accounts[j.ClientID]
	if !ok {
		return fmt.Errorf("journal tx=%d references unknown client %d", j.TxRef, j.ClientID)
	}
	if acct.Locked {
		return fmt.Errorf("journal tx=%d targets locked account %s", j.TxRef, acct.AccountPath())
	}

	available, held, total := j.Deltas()
	acct.Available += available
	acct.Held += held
	acct.Total += total
	if j.Locks() {
		acct.Locked = true
	}

	return nil
}

// Len returns the number of accounts
func (bt *BalanceTracker) Len() int {
	return len(bt.accounts)
}

// CountLocked returns the number of locked accounts
func (bt *BalanceTracker) CountLocked() int {
	n := 0
	for _, acct := range bt.accounts {
		if acct.Locked {
			n++
		}
	}
	return n
}

// TotalHeld sums held funds across all accounts
func (bt *BalanceTracker) TotalHeld() float64 {
	var sum float64
	for _, id := range bt.sortedIDs() {
		sum += bt.accounts[id].Held
	}
	return sum
}

// Accounts returns copies of all accounts ordered by client id
func (bt *BalanceTracker) Accounts() []ClientAccount {
	ids := bt.sortedIDs()
	out := make([]ClientAccount, 0, len(ids))
	for _, id := range ids {
		out = append(out, *bt.accounts[id])
	}
	return out
}

func (bt *BalanceTracker) sortedIDs() []uint16 {
	ids := make([]uint16, 0, len(bt.accounts))
	for id := range bt.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
