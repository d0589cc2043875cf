package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posbook-dev/posbook/internal/audit"
	"github.com/posbook-dev/posbook/internal/logging"
	"github.com/posbook-dev/posbook/internal/model"
	"github.com/posbook-dev/posbook/internal/store"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "pos_data.db"))
	require.NoError(t, st.Init())
	return New(st, logging.Discard(), nil)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func when(hour, min int) time.Time {
	return time.Date(2025, 6, 1, hour, min, 0, 0, time.UTC)
}

func TestBalanceOf_SignedFold(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.AddCustomer("Bob"))

	require.NoError(t, eng.Record("Bob", model.Deposit, dec("100"), "", when(9, 0)))
	require.NoError(t, eng.Record("Bob", model.Withdraw, dec("30"), "", when(10, 0)))
	require.NoError(t, eng.Record("Bob", model.Deposit, dec("5"), "", when(11, 0)))

	balance, err := eng.BalanceOf("Bob")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("75")), "got %s", balance)
}

func TestBalanceOf_NoTransactions(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.AddCustomer("Bob"))

	balance, err := eng.BalanceOf("Bob")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestTotalBalance_SumsAllCustomers(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.AddCustomer("Bob"))
	require.NoError(t, eng.AddCustomer("Alice"))
	require.NoError(t, eng.Record("Bob", model.Deposit, dec("100"), "", when(9, 0)))
	require.NoError(t, eng.Record("Alice", model.Withdraw, dec("40"), "", when(9, 0)))

	total, err := eng.TotalBalance()
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("60")), "got %s", total)

	// Total must equal the sum of per-customer balances over the listing.
	names, err := eng.Customers()
	require.NoError(t, err)
	sum := decimal.Zero
	for _, name := range names {
		balance, err := eng.BalanceOf(name)
		require.NoError(t, err)
		sum = sum.Add(balance)
	}
	assert.True(t, total.Equal(sum))
}

func TestRankedBalances(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.AddCustomer("Alice"))
	require.NoError(t, eng.AddCustomer("Bob"))
	require.NoError(t, eng.AddCustomer("Carol"))
	require.NoError(t, eng.Record("Alice", model.Deposit, dec("10"), "", when(9, 0)))
	require.NoError(t, eng.Record("Bob", model.Deposit, dec("200"), "", when(9, 0)))
	require.NoError(t, eng.Record("Carol", model.Withdraw, dec("5"), "", when(9, 0)))

	ranked, err := eng.RankedBalances()
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "Bob", ranked[0].Name)
	assert.Equal(t, "Alice", ranked[1].Name)
	assert.Equal(t, "Carol", ranked[2].Name)
}

func TestRankedBalances_TieBreaksByName(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.AddCustomer("zoe"))
	require.NoError(t, eng.AddCustomer("Adam"))
	require.NoError(t, eng.AddCustomer("mike"))
	for _, name := range []string{"zoe", "Adam", "mike"} {
		require.NoError(t, eng.Record(name, model.Deposit, dec("50"), "", when(9, 0)))
	}

	ranked, err := eng.RankedBalances()
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "Adam", ranked[0].Name)
	assert.Equal(t, "mike", ranked[1].Name)
	assert.Equal(t, "zoe", ranked[2].Name)
}

func TestAddCustomer_EmptyName(t *testing.T) {
	eng := newEngine(t)

	assert.ErrorIs(t, eng.AddCustomer(""), ErrEmptyName)
	assert.ErrorIs(t, eng.AddCustomer("   "), ErrEmptyName)

	names, err := eng.Customers()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestAddCustomer_Duplicate(t *testing.T) {
	eng := newEngine(t)

	require.NoError(t, eng.AddCustomer("Bob"))
	assert.ErrorIs(t, eng.AddCustomer("bob"), store.ErrDuplicateCustomer)
}

func TestRecord_RejectsInvalidAmount(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.AddCustomer("Bob"))

	assert.ErrorIs(t, eng.Record("Bob", model.Deposit, dec("0"), "", when(9, 0)), ErrInvalidAmount)
	assert.ErrorIs(t, eng.Record("Bob", model.Deposit, dec("-5"), "", when(9, 0)), ErrInvalidAmount)

	// Rejected before the store is touched: row count unaffected.
	txns, err := eng.Transactions("Bob")
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestRecord_RejectsInvalidKind(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.AddCustomer("Bob"))

	err := eng.Record("Bob", model.Kind("Transfer"), dec("10"), "", when(9, 0))
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestRecord_UnknownCustomer(t *testing.T) {
	eng := newEngine(t)

	err := eng.Record("Ghost", model.Deposit, dec("10"), "", when(9, 0))
	assert.ErrorIs(t, err, store.ErrCustomerNotFound)
}

func TestUpdate(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.AddCustomer("Bob"))
	require.NoError(t, eng.Record("Bob", model.Withdraw, dec("100"), "old", when(9, 0)))

	txns, err := eng.Transactions("Bob")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	before := txns[0]

	require.NoError(t, eng.Update(before.ID, dec("25"), "new"))

	txns, err = eng.Transactions("Bob")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, before.ID, txns[0].ID)
	assert.Equal(t, before.Kind, txns[0].Kind)
	assert.Equal(t, before.Timestamp, txns[0].Timestamp)
	assert.True(t, txns[0].Amount.Equal(dec("25")))
	assert.Equal(t, "new", txns[0].Note)
}

func TestUpdate_NotFound(t *testing.T) {
	eng := newEngine(t)

	assert.ErrorIs(t, eng.Update(999, dec("10"), ""), ErrTransactionNotFound)
}

func TestUpdate_RejectsInvalidAmount(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.AddCustomer("Bob"))
	require.NoError(t, eng.Record("Bob", model.Deposit, dec("100"), "", when(9, 0)))

	txns, err := eng.Transactions("Bob")
	require.NoError(t, err)
	require.Len(t, txns, 1)

	assert.ErrorIs(t, eng.Update(txns[0].ID, dec("0"), ""), ErrInvalidAmount)

	txns, err = eng.Transactions("Bob")
	require.NoError(t, err)
	assert.True(t, txns[0].Amount.Equal(dec("100")))
}

func TestRemove_Idempotent(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.AddCustomer("Bob"))
	require.NoError(t, eng.Record("Bob", model.Deposit, dec("10"), "", when(9, 0)))

	txns, err := eng.Transactions("Bob")
	require.NoError(t, err)
	require.Len(t, txns, 1)

	require.NoError(t, eng.Remove(txns[0].ID))
	require.NoError(t, eng.Remove(txns[0].ID))

	balance, err := eng.BalanceOf("Bob")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestRemoveCustomer_Cascades(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.AddCustomer("Bob"))
	require.NoError(t, eng.Record("Bob", model.Deposit, dec("100"), "", when(9, 0)))

	require.NoError(t, eng.RemoveCustomer("Bob"))

	txns, err := eng.Transactions("Bob")
	require.NoError(t, err)
	assert.Empty(t, txns)

	ranked, err := eng.RankedBalances()
	require.NoError(t, err)
	assert.Empty(t, ranked)

	// Removing again is a no-op.
	require.NoError(t, eng.RemoveCustomer("Bob"))
}

func TestMutationsAppendAuditTrail(t *testing.T) {
	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "pos_data.db"))
	require.NoError(t, st.Init())
	eng := New(st, logging.Discard(), audit.New(dir))

	require.NoError(t, eng.AddCustomer("Bob"))
	require.NoError(t, eng.Record("Bob", model.Deposit, dec("100"), "", when(9, 0)))

	entries, err := audit.New(dir).Read()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "customer.add", entries[0].Action)
	assert.Equal(t, "tx.record", entries[1].Action)
	assert.Equal(t, "Bob", entries[1].Customer)
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("12.50")
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("12.50")))

	_, err = ParseAmount("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("0")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("-5")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
