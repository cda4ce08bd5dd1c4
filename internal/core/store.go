package core

import "TxLedger/internal/event"

// TransactionStore retains deposits and withdrawals by transaction id so that
// later disputes can find them. Ids are never overwritten or evicted.
// Not thread-safe; only accessed from the single-threaded engine.
type TransactionStore struct {
	txs map[uint32]*event.Transaction
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		txs: make(map[uint32]*event.Transaction),
	}
}

// Contains reports whether txID has been stored
func (s *TransactionStore) Contains(txID uint32) bool {
	_, ok := s.txs[txID]
	return ok
}

// Get returns a copy of the stored transaction
func (s *TransactionStore) Get(txID uint32) (event.Transaction, bool) {
	tx, ok := s.txs[txID]
	if !ok {
		return event.Transaction{}, false
	}
	return *tx, true
}

// Put stores tx undisputed. Returns false if the id is already taken.
func (s *TransactionStore) Put(tx event.Transaction) bool {
	if _, exists := s.txs[tx.TxID]; exists {
		return false
	}
	tx.Disputed = false
	s.txs[tx.TxID] = &tx
	return true
}

// SetDisputed flips the dispute flag of a stored transaction
func (s *TransactionStore) SetDisputed(txID uint32, disputed bool) bool {
	tx, ok := s.txs[txID]
	if !ok {
		return false
	}
	tx.Disputed = disputed
	return true
}

// Len returns the number of stored transactions
func (s *TransactionStore) Len() int {
	return len(s.txs)
}
