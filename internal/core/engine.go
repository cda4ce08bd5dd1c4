package core

import (
	"TxLedger/internal/event"
	"TxLedger/internal/ledger"
	"TxLedger/internal/observability"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Engine is the single-threaded transaction processor.
// It exclusively owns the stored transactions and the client accounts; every
// mutation of either goes through Apply.
type Engine struct {
	sequence       int64
	hasher         *StateHasher
	balanceTracker *ledger.BalanceTracker
	validator      *ledger.InvariantValidator
	store          *TransactionStore
	metrics        *observability.Metrics
	logger         zerolog.Logger

	applied  int64
	drifted  int64
	rejected map[RejectReason]int64
}

// NewEngine creates an empty engine. metrics may be nil.
func NewEngine(metrics *observability.Metrics, logger zerolog.Logger) *Engine {
	balanceTracker := ledger.NewBalanceTracker()

	return &Engine{
		hasher:         NewStateHasher(),
		balanceTracker: balanceTracker,
		validator:      ledger.NewInvariantValidator(balanceTracker),
		store:          NewTransactionStore(),
		metrics:        metrics,
		logger:         logger,
		rejected:       make(map[RejectReason]int64),
	}
}

// Apply runs one transaction through the state machine.
//
// Apply never fails: a transaction that breaks a business rule is dropped and
// the returned Outcome carries the reason. All checks run before the first
// mutation, so a transaction takes effect completely or not at all.
func (c *Engine) Apply(tx event.Transaction) Outcome {
	return c.apply(tx, 0)
}

// ApplyEnvelope is Apply for a transaction read from input; the source line
// is attached to rejection and drift logs.
func (c *Engine) ApplyEnvelope(env event.Envelope) Outcome {
	return c.apply(env.Tx, env.Line)
}

func (c *Engine) apply(tx event.Transaction, line int) Outcome {
	start := time.Now()
	kind := tx.Kind.String()

	// Step 1: Validate against current state and build the journal
	journal, reason := c.dispatch(tx)
	if reason != RejectNone {
		c.rejected[reason]++
		if c.metrics != nil {
			c.metrics.TransactionsRejected.WithLabelValues(kind, reason.String()).Inc()
		}
		ev := c.logger.Debug().
			Str("kind", kind).
			Uint16("client", tx.ClientID).
			Uint32("tx", tx.TxID).
			Str("reason", reason.String())
		if line > 0 {
			ev = ev.Int("line", line)
		}
		ev.Msg("transaction rejected")
		return Outcome{Reason: reason}
	}

	journal.Sequence = c.sequence

	// Step 2: Apply balances. Every rule was checked above, so failure here
	// means the engine and tracker disagree about state.
	if err := c.balanceTracker.ApplyJournal(journal); err != nil {
		panic(fmt.Sprintf("FATAL: apply journal after validation: %v", err))
	}

	// Step 3: Update dispute-tracking state
	c.commitStore(tx)

	// Step 4: Post-check. Total moves on its own in float64, so it can stray
	// from available + held; record the drift and carry on.
	if err := c.validator.ValidateAccountBalance(journal.ClientID); err != nil {
		c.drifted++
		if c.metrics != nil {
			c.metrics.BalanceDrift.Inc()
		}
		ev := c.logger.Error().
			Err(err).
			Str("kind", kind).
			Uint32("tx", tx.TxID).
			Int64("sequence", c.sequence)
		if line > 0 {
			ev = ev.Int("line", line)
		}
		ev.Msg("balance drift after apply")
	}

	// Step 5: Extend the state hash chain
	acct, _ := c.balanceTracker.Get(journal.ClientID)
	c.hasher.Fold(c.sequence, journal, acct)
	c.sequence++
	c.applied++

	if c.metrics != nil {
		c.metrics.TransactionsApplied.WithLabelValues(kind).Inc()
		c.metrics.ApplyDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}

	return Outcome{Applied: true, Journal: journal}
}

func (c *Engine) dispatch(tx event.Transaction) (ledger.Journal, RejectReason) {
	switch tx.Kind {
	case event.KindDeposit:
		return c.handleDeposit(tx)
	case event.KindWithdrawal:
		return c.handleWithdrawal(tx)
	case event.KindDispute:
		return c.handleDispute(tx)
	case event.KindResolve:
		return c.handleResolve(tx)
	case event.KindChargeback:
		return c.handleChargeback(tx)
	default:
		return ledger.Journal{}, RejectUnknownKind
	}
}

// commitStore records the dispute-tracking side of an accepted transaction.
// A charged-back deposit stays disputed; its account is locked for good.
func (c *Engine) commitStore(tx event.Transaction) {
	switch tx.Kind {
	case event.KindDeposit, event.KindWithdrawal:
		c.store.Put(tx)
	case event.KindDispute:
		c.store.SetDisputed(tx.TxID, true)
	case event.KindResolve:
		c.store.SetDisputed(tx.TxID, false)
	}
}

func (c *Engine) handleDeposit(tx event.Transaction) (ledger.Journal, RejectReason) {
	if c.store.Contains(tx.TxID) {
		return ledger.Journal{}, RejectDuplicateTx
	}

	acct := c.balanceTracker.Open(tx.ClientID)
	if acct.Locked {
		return ledger.Journal{}, RejectAccountLocked
	}

	return ledger.Journal{
		TxRef:       tx.TxID,
		ClientID:    tx.ClientID,
		JournalType: ledger.JournalTypeDeposit,
		Amount:      tx.Amount,
	}, RejectNone
}

func (c *Engine) handleWithdrawal(tx event.Transaction) (ledger.Journal, RejectReason) {
	if c.store.Contains(tx.TxID) {
		return ledger.Journal{}, RejectDuplicateTx
	}

	acct, ok := c.balanceTracker.Get(tx.ClientID)
	if !ok {
		return ledger.Journal{}, RejectUnknownClient
	}
	if acct.Locked {
		return ledger.Journal{}, RejectAccountLocked
	}
	if acct.Available < tx.Amount {
		return ledger.Journal{}, RejectInsufficientFunds
	}

	return ledger.Journal{
		TxRef:       tx.TxID,
		ClientID:    tx.ClientID,
		JournalType: ledger.JournalTypeWithdrawal,
		Amount:      tx.Amount,
	}, RejectNone
}

// handleDispute holds the amount of a stored deposit.
// Only deposits are disputable; withdrawals are rejected.
func (c *Engine) handleDispute(tx event.Transaction) (ledger.Journal, RejectReason) {
	target, ok := c.store.Get(tx.TxID)
	if !ok {
		return ledger.Journal{}, RejectTxNotFound
	}

	switch {
	case target.Disputed:
		return ledger.Journal{}, RejectAlreadyDisputed
	case target.Kind != event.KindDeposit:
		return ledger.Journal{}, RejectNotDisputable
	case target.ClientID != tx.ClientID:
		return ledger.Journal{}, RejectClientMismatch
	}

	if c.ownerAccount(target).Locked {
		return ledger.Journal{}, RejectAccountLocked
	}

	return ledger.Journal{
		TxRef:       target.TxID,
		ClientID:    target.ClientID,
		JournalType: ledger.JournalTypeDisputeHold,
		Amount:      target.Amount,
	}, RejectNone
}

func (c *Engine) handleResolve(tx event.Transaction) (ledger.Journal, RejectReason) {
	target, reason := c.lookupDisputed(tx)
	if reason != RejectNone {
		return ledger.Journal{}, reason
	}

	return ledger.Journal{
		TxRef:       target.TxID,
		ClientID:    target.ClientID,
		JournalType: ledger.JournalTypeDisputeRelease,
		Amount:      target.Amount,
	}, RejectNone
}

func (c *Engine) handleChargeback(tx event.Transaction) (ledger.Journal, RejectReason) {
	target, reason := c.lookupDisputed(tx)
	if reason != RejectNone {
		return ledger.Journal{}, reason
	}

	return ledger.Journal{
		TxRef:       target.TxID,
		ClientID:    target.ClientID,
		JournalType: ledger.JournalTypeChargeback,
		Amount:      target.Amount,
	}, RejectNone
}

// lookupDisputed finds the open dispute a resolve or chargeback refers to
func (c *Engine) lookupDisputed(tx event.Transaction) (event.Transaction, RejectReason) {
	target, ok := c.store.Get(tx.TxID)
	if !ok {
		return event.Transaction{}, RejectTxNotFound
	}

	switch {
	case !target.Disputed:
		return event.Transaction{}, RejectNotDisputed
	case target.ClientID != tx.ClientID:
		return event.Transaction{}, RejectClientMismatch
	}

	if c.ownerAccount(target).Locked {
		return event.Transaction{}, RejectAccountLocked
	}

	return target, RejectNone
}

// ownerAccount returns the account of a stored transaction. Storing a
// deposit or withdrawal requires the account, so a miss is a core bug.
func (c *Engine) ownerAccount(stored event.Transaction) ledger.ClientAccount {
	acct, ok := c.balanceTracker.Get(stored.ClientID)
	if !ok {
		panic(fmt.Sprintf("FATAL: stored tx %d has no account for client %d", stored.TxID, stored.ClientID))
	}
	return acct
}

// --- Read access ---

// Accounts returns copies of all client accounts ordered by client id
func (c *Engine) Accounts() []ledger.ClientAccount {
	return c.balanceTracker.Accounts()
}

// Account returns a copy of one client account
func (c *Engine) Account(clientID uint16) (ledger.ClientAccount, bool) {
	return c.balanceTracker.Get(clientID)
}

// StoredTransaction returns a copy of a stored deposit or withdrawal
func (c *Engine) StoredTransaction(txID uint32) (event.Transaction, bool) {
	return c.store.Get(txID)
}

// StateHash returns the hash chain tip after the last applied transaction
func (c *Engine) StateHash() [32]byte {
	return c.hasher.GetPrevHash()
}

// GetSequence returns the number of applied transactions
func (c *Engine) GetSequence() int64 {
	return c.sequence
}

// Stats returns a copy of the applied and rejected counters
func (c *Engine) Stats() Stats {
	rejected := make(map[RejectReason]int64, len(c.rejected))
	for k, v := range c.rejected {
		rejected[k] = v
	}
	return Stats{Applied: c.applied, Drifted: c.drifted, Rejected: rejected}
}

// PublishGauges sets the final-state gauges. Call once the stream is drained.
func (c *Engine) PublishGauges() {
	if c.metrics == nil {
		return
	}
	c.metrics.Clients.Set(float64(c.balanceTracker.Len()))
	c.metrics.LockedClients.Set(float64(c.balanceTracker.CountLocked()))
	c.metrics.StoredTransactions.Set(float64(c.store.Len()))
	c.metrics.HeldFunds.Set(c.balanceTracker.TotalHeld())
}

// ValidateInvariants checks the balance invariant across every account.
// Diagnostic only; Apply already reports drift as it happens.
func (c *Engine) ValidateInvariants() error {
	return c.validator.ValidateAll()
}
