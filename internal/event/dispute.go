package event

// NewDispute builds a dispute against a previously stored deposit.
func NewDispute(clientID uint16, txID uint32) Transaction {
	return Transaction{Kind: KindDispute, ClientID: clientID, TxID: txID}
}

// NewResolve builds a resolution of an open dispute.
func NewResolve(clientID uint16, txID uint32) Transaction {
	return Transaction{Kind: KindResolve, ClientID: clientID, TxID: txID}
}

// NewChargeback builds a chargeback of an open dispute.
func NewChargeback(clientID uint16, txID uint32) Transaction {
	return Transaction{Kind: KindChargeback, ClientID: clientID, TxID: txID}
}
