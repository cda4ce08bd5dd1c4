package ledger_test

import (
	"TxLedger/internal/ledger"
	"math"
	"testing"
)

func mustApplyJournal(t *testing.T, bt *ledger.BalanceTracker, j ledger.Journal) {
	t.Helper()
	if err := bt.ApplyJournal(j); err != nil {
		t.Fatalf("apply %s: %v", j.JournalType, err)
	}
}

// ============================================================================
// Test: ClientAccount
// ============================================================================

func TestClientAccount_Path(t *testing.T) {
	path := ledger.NewClientAccount(42).AccountPath()
	if path != "client:42" {
		t.Errorf("got %q, want %q", path, "client:42")
	}
}

func TestClientAccount_NewIsEmpty(t *testing.T) {
	acct := ledger.NewClientAccount(7)
	if acct != (ledger.ClientAccount{ID: 7}) {
		t.Errorf("got %+v, want empty account for client 7", acct)
	}
}

// ============================================================================
// Test: Journal
// ============================================================================

func TestJournal_DeltasConserveTotal(t *testing.T) {
	types := []ledger.JournalType{
		ledger.JournalTypeDeposit,
		ledger.JournalTypeWithdrawal,
		ledger.JournalTypeDisputeHold,
		ledger.JournalTypeDisputeRelease,
		ledger.JournalTypeChargeback,
	}
	for _, jt := range types {
		t.Run(jt.String(), func(t *testing.T) {
			j := ledger.Journal{ClientID: 1, TxRef: 1, JournalType: jt, Amount: 3.25}
			available, held, total := j.Deltas()
			if total != available+held {
				t.Errorf("total delta %v != available %v + held %v", total, available, held)
			}
		})
	}
}

func TestJournal_OnlyChargebackLocks(t *testing.T) {
	if !(ledger.Journal{JournalType: ledger.JournalTypeChargeback}).Locks() {
		t.Error("chargeback should lock")
	}
	if (ledger.Journal{JournalType: ledger.JournalTypeDisputeHold}).Locks() {
		t.Error("dispute hold should not lock")
	}
	if (ledger.Journal{JournalType: ledger.JournalTypeDeposit}).Locks() {
		t.Error("deposit should not lock")
	}
}

func TestJournalValidate_BadJournals_Fail(t *testing.T) {
	bad := map[string]ledger.Journal{
		"negative":     {JournalType: ledger.JournalTypeDeposit, Amount: -1},
		"nan":          {JournalType: ledger.JournalTypeDeposit, Amount: math.NaN()},
		"inf":          {JournalType: ledger.JournalTypeDeposit, Amount: math.Inf(1)},
		"unknown type": {JournalType: ledger.JournalType(99), Amount: 1},
	}
	for name, j := range bad {
		if err := j.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestJournalValidate_ZeroAmount_Passes(t *testing.T) {
	if err := (ledger.Journal{JournalType: ledger.JournalTypeDeposit}).Validate(); err != nil {
		t.Errorf("zero deposit should validate: %v", err)
	}
}

// ============================================================================
// Test: BalanceTracker
// ============================================================================

func TestBalanceTracker_OpenIsIdempotent(t *testing.T) {
	bt := ledger.NewBalanceTracker()
	bt.Open(1)
	mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeDeposit, Amount: 5})

	acct := bt.Open(1)
	if acct.Available != 5 {
		t.Errorf("reopen reset the account: available %v, want 5", acct.Available)
	}
	if bt.Len() != 1 {
		t.Errorf("len: got %d, want 1", bt.Len())
	}
}

func TestBalanceTracker_GetUnknown(t *testing.T) {
	bt := ledger.NewBalanceTracker()
	if _, ok := bt.Get(9); ok {
		t.Error("client 9 should not exist")
	}
}

func TestBalanceTracker_ApplyJournal_UnknownClient_Fails(t *testing.T) {
	bt := ledger.NewBalanceTracker()
	err := bt.ApplyJournal(ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeDeposit, Amount: 1})
	if err == nil {
		t.Fatal("expected error for unknown client")
	}
	if bt.Len() != 0 {
		t.Errorf("failed apply must not open an account, len %d", bt.Len())
	}
}

func TestBalanceTracker_DisputeLifecycle(t *testing.T) {
	bt := ledger.NewBalanceTracker()
	bt.Open(1)

	mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeDeposit, Amount: 10})
	mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeDisputeHold, Amount: 4})

	acct, _ := bt.Get(1)
	if want := (ledger.ClientAccount{ID: 1, Available: 6, Held: 4, Total: 10}); acct != want {
		t.Errorf("after hold: got %+v, want %+v", acct, want)
	}
	if bt.TotalHeld() != 4 {
		t.Errorf("total held: got %v, want 4", bt.TotalHeld())
	}

	mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeChargeback, Amount: 4})

	acct, _ = bt.Get(1)
	if want := (ledger.ClientAccount{ID: 1, Available: 6, Held: 0, Total: 6, Locked: true}); acct != want {
		t.Errorf("after chargeback: got %+v, want %+v", acct, want)
	}
	if bt.CountLocked() != 1 {
		t.Errorf("locked: got %d, want 1", bt.CountLocked())
	}
}

func TestBalanceTracker_LockedAccountRejectsJournals(t *testing.T) {
	bt := ledger.NewBalanceTracker()
	bt.Open(1)
	mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeDeposit, Amount: 2})
	mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeDisputeHold, Amount: 2})
	mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeChargeback, Amount: 2})

	before, _ := bt.Get(1)
	if err := bt.ApplyJournal(ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeDeposit, Amount: 100}); err == nil {
		t.Error("locked account should refuse journals")
	}

	if after, _ := bt.Get(1); after != before {
		t.Errorf("locked account changed: before %+v, after %+v", before, after)
	}
}

func TestBalanceTracker_AccountsSortedByID(t *testing.T) {
	bt := ledger.NewBalanceTracker()
	for _, id := range []uint16{30, 2, 17, 1} {
		bt.Open(id)
	}

	want := []uint16{1, 2, 17, 30}
	accounts := bt.Accounts()
	if len(accounts) != len(want) {
		t.Fatalf("got %d accounts, want %d", len(accounts), len(want))
	}
	for i, acct := range accounts {
		if acct.ID != want[i] {
			t.Errorf("accounts[%d]: got client %d, want %d", i, acct.ID, want[i])
		}
	}
}

// ============================================================================
// Test: InvariantValidator
// ============================================================================

func TestInvariantValidator_BalancedLedgerPasses(t *testing.T) {
	bt := ledger.NewBalanceTracker()
	v := ledger.NewInvariantValidator(bt)

	if err := v.ValidateAll(); err != nil {
		t.Fatalf("empty ledger: %v", err)
	}

	bt.Open(1)
	for _, a := range []float64{0.1, 0.2, 0.3, 1e6, 0.0001} {
		mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeDeposit, Amount: a})
		mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeDisputeHold, Amount: a})
	}

	if err := v.ValidateAccountBalance(1); err != nil {
		t.Errorf("client 1: %v", err)
	}
	if err := v.ValidateAll(); err != nil {
		t.Errorf("all: %v", err)
	}
}

func TestInvariantValidator_ReportsLargeCancellationDrift(t *testing.T) {
	bt := ledger.NewBalanceTracker()
	v := ledger.NewInvariantValidator(bt)
	bt.Open(1)

	mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeDeposit, Amount: 1e8})
	mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeDisputeHold, Amount: 1e8})
	mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeDeposit, Amount: 0.1})
	mustApplyJournal(t, bt, ledger.Journal{ClientID: 1, JournalType: ledger.JournalTypeChargeback, Amount: 1e8})

	if err := v.ValidateAccountBalance(1); err == nil {
		t.Error("expected drift to be reported after cancelling a large hold")
	}
}

func TestInvariantValidator_UnknownClient(t *testing.T) {
	v := ledger.NewInvariantValidator(ledger.NewBalanceTracker())
	if err := v.ValidateAccountBalance(5); err == nil {
		t.Error("expected error for unknown client")
	}
}
