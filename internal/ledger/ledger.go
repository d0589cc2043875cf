package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/posbook-dev/posbook/internal/audit"
	"github.com/posbook-dev/posbook/internal/model"
	"github.com/posbook-dev/posbook/internal/store"
)

var (
	// ErrInvalidAmount occurs when a transaction amount is zero, negative,
	// or not a number at all.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrEmptyName occurs when a customer name is empty or blank.
	ErrEmptyName = errors.New("customer name must not be empty")

	// ErrInvalidKind occurs when a transaction kind is neither Deposit
	// nor Withdraw.
	ErrInvalidKind = errors.New("unknown transaction kind")

	// ErrTransactionNotFound occurs when an edit targets an id that does
	// not exist.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// CustomerBalance pairs a customer with its derived balance.
type CustomerBalance struct {
	Name    string
	Balance decimal.Decimal
}

// Engine derives balances and enforces transaction validity on top of
// the persistence store. Balances are recomputed from scratch on every
// query; nothing is cached. The engine is pull-only: callers decide when
// to re-query after a mutation.
type Engine struct {
	store *store.Store
	log   *slog.Logger
	trail *audit.Log // optional, nil disables the audit trail
}

// New creates an Engine over a store. trail may be nil.
func New(st *store.Store, log *slog.Logger, trail *audit.Log) *Engine {
	return &Engine{store: st, log: log, trail: trail}
}

// ParseAmount parses user-supplied amount text. Non-numeric input and
// values <= 0 are rejected as invalid amounts before any store access.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// Customers returns all customer names, sorted case-insensitively.
func (e *Engine) Customers() ([]string, error) {
	return e.store.Customers()
}

// Transactions returns a customer's transactions in chronological order.
func (e *Engine) Transactions(name string) ([]model.Transaction, error) {
	return e.store.Transactions(name)
}

// BalanceOf folds a customer's transactions with the deposit/withdraw
// sign rule. A customer with no transactions has balance zero.
func (e *Engine) BalanceOf(name string) (decimal.Decimal, error) {
	txns, err := e.store.Transactions(name)
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, t := range txns {
		balance = balance.Add(t.Kind.Signed(t.Amount))
	}
	return balance, nil
}

// TotalBalance sums the balances of every customer.
func (e *Engine) TotalBalance() (decimal.Decimal, error) {
	names, err := e.store.Customers()
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, name := range names {
		balance, err := e.BalanceOf(name)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(balance)
	}
	return total, nil
}

// RankedBalances returns every customer with its balance, sorted by
// balance descending. Ties break by name ascending, case-insensitive,
// so the ranking is deterministic.
func (e *Engine) RankedBalances() ([]CustomerBalance, error) {
	names, err := e.store.Customers()
	if err != nil {
		return nil, err
	}

	ranked := make([]CustomerBalance, 0, len(names))
	for _, name := range names {
		balance, err := e.BalanceOf(name)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, CustomerBalance{Name: name, Balance: balance})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if !ranked[i].Balance.Equal(ranked[j].Balance) {
			return ranked[i].Balance.GreaterThan(ranked[j].Balance)
		}
		return strings.ToLower(ranked[i].Name) < strings.ToLower(ranked[j].Name)
	})
	return ranked, nil
}

// AddCustomer creates a customer. Blank names are rejected before the
// store is touched; duplicate names surface as store.ErrDuplicateCustomer.
func (e *Engine) AddCustomer(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if err := e.store.AddCustomer(name); err != nil {
		return err
	}

	e.log.Info("customer added", "customer", name)
	e.auditRecord("customer.add", name, "")
	return nil
}

// RemoveCustomer deletes a customer and all its transactions. Removing
// an absent customer is a no-op.
func (e *Engine) RemoveCustomer(name string) error {
	if err := e.store.DeleteCustomer(name); err != nil {
		return err
	}

	e.log.Info("customer removed", "customer", name)
	e.auditRecord("customer.remove", name, "")
	return nil
}

// Record appends a transaction to a customer's ledger. The amount must
// be positive and the kind valid; both are checked before the store is
// touched. The timestamp is supplied by the caller, not invented here.
func (e *Engine) Record(name string, kind model.Kind, amount decimal.Decimal, note string, when time.Time) error {
	if !kind.Valid() {
		return ErrInvalidKind
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := e.store.AddTransaction(name, kind, amount, note, when); err != nil {
		return err
	}

	e.log.Info("transaction recorded", "customer", name, "kind", kind, "amount", amount)
	e.auditRecord("tx.record", name, fmt.Sprintf("%s %s", kind, amount))
	return nil
}

// Update overwrites a transaction's amount and note. Kind and timestamp
// stay as they were. Unknown ids report ErrTransactionNotFound.
func (e *Engine) Update(id int64, amount decimal.Decimal, note string) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	updated, err := e.store.EditTransaction(id, amount, note)
	if err != nil {
		return err
	}
	if !updated {
		return ErrTransactionNotFound
	}

	e.log.Info("transaction updated", "id", id, "amount", amount)
	e.auditRecord("tx.update", "", fmt.Sprintf("id=%d amount=%s", id, amount))
	return nil
}

// Remove deletes a transaction. Removing an absent id is a no-op.
func (e *Engine) Remove(id int64) error {
	if err := e.store.DeleteTransaction(id); err != nil {
		return err
	}

	e.log.Info("transaction removed", "id", id)
	e.auditRecord("tx.remove", "", fmt.Sprintf("id=%d", id))
	return nil
}

// auditRecord appends a trail entry. The trail is best-effort: append
// failures are logged and never fail the mutation that already committed.
func (e *Engine) auditRecord(action, customer, details string) {
	if e.trail == nil {
		return
	}
	err := e.trail.Append([]audit.Entry{{
		Timestamp: time.Now().UTC(),
		Action:    action,
		Customer:  customer,
		Details:   details,
	}})
	if err != nil {
		e.log.Warn("audit append failed", "action", action, "error", err)
	}
}
