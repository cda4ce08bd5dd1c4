package event

// NewDeposit builds a deposit record.
func NewDeposit(clientID uint16, txID uint32, amount float64) Transaction {
	return Transaction{
		Kind:     KindDeposit,
		ClientID: clientID,
		TxID:     txID,
		Amount:   amount,
	}
}
