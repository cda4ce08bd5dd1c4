package event

import "fmt"

// Transaction is one parsed input record.
//
// Everything except Disputed is fixed once parsed. Disputed is owned by the
// ledger engine and only changes on the engine's stored copy.
type Transaction struct {
	Kind     Kind
	ClientID uint16
	TxID     uint32
	Amount   float64 // Deposit and withdrawal only
	Disputed bool
}

func (t Transaction) String() string {
	if t.Kind.CarriesAmount() {
		return fmt.Sprintf("%s(client=%d, tx=%d, amount=%g)", t.Kind, t.ClientID, t.TxID, t.Amount)
	}
	return fmt.Sprintf("%s(client=%d, tx=%d)", t.Kind, t.ClientID, t.TxID)
}
