package ledger

import "fmt"

// ClientAccount is the balance state of one client.
//
// Total always equals Available + Held after a successful mutation. Locked is
// terminal: a locked account accepts no further journals.
type ClientAccount struct {
	ID        uint16
	Available float64 // Funds usable for withdrawal
	Held      float64 // Funds frozen by open disputes
	Total     float64
	Locked    bool
}

// NewClientAccount creates an empty, unlocked account
func NewClientAccount(id uint16) ClientAccount {
	return ClientAccount{ID: id}
}

// AccountPath returns the string representation for logging
func (a ClientAccount) AccountPath() string {
	return fmt.Sprintf("client:%d", a.ID)
}
