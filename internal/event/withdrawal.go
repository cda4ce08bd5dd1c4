package event

// NewWithdrawal builds a withdrawal record.
func NewWithdrawal(clientID uint16, txID uint32, amount float64) Transaction {
	return Transaction{
		Kind:     KindWithdrawal,
		ClientID: clientID,
		TxID:     txID,
		Amount:   amount,
	}
}
