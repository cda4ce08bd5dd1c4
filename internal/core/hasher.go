package core

import (
	"TxLedger/internal/ledger"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

const GenesisHashSeed = "TxLedger:genesis:v1"

// StateHasher folds every applied journal into a SHA-256 chain so two runs
// over the same input can be compared by their final hash.
type StateHasher struct {
	prevHash [32]byte
}

// NewStateHasher initializes with genesis hash
func NewStateHasher() *StateHasher {
	return &StateHasher{
		prevHash: sha256.Sum256([]byte(GenesisHashSeed)),
	}
}

// Fold extends the chain with one applied journal and the post-state of the
// account it touched:
//
//	state_hash[N] = SHA-256(prev_hash || sequence || journal || account)
func (h *StateHasher) Fold(sequence int64, j ledger.Journal, acct ledger.ClientAccount) [32]byte {
	hasher := sha256.New()

	// Chain link
	hasher.Write(h.prevHash[:])

	var seqBuf [8]byte
	binary.LittleEndian.PutUint64(seqBuf[:], uint64(sequence))
	hasher.Write(seqBuf[:])

	// Mutation and resulting account state
	hasher.Write(journalDigest(j, acct))

	var hash [32]byte
	copy(hash[:], hasher.Sum(nil))
	h.prevHash = hash

	return hash
}

// GetPrevHash returns current chain tip
func (h *StateHasher) GetPrevHash() [32]byte {
	return h.prevHash
}

// journalDigest is the canonical little-endian encoding of a journal and the
// account it left behind. Floats are hashed by bit pattern.
func journalDigest(j ledger.Journal, acct ledger.ClientAccount) []byte {
	digest := make([]byte, 0, 48)
	digest = append(digest, byte(j.JournalType))
	digest = binary.LittleEndian.AppendUint16(digest, j.ClientID)
	digest = binary.LittleEndian.AppendUint32(digest, j.TxRef)
	digest = binary.LittleEndian.AppendUint64(digest, math.Float64bits(j.Amount))
	digest = binary.LittleEndian.AppendUint64(digest, math.Float64bits(acct.Available))
	digest = binary.LittleEndian.AppendUint64(digest, math.Float64bits(acct.Held))
	digest = binary.LittleEndian.AppendUint64(digest, math.Float64bits(acct.Total))
	if acct.Locked {
		digest = append(digest, 1)
	} else {
		digest = append(digest, 0)
	}
	return digest
}
