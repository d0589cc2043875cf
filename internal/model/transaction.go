package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a ledger transaction.
type Kind string

const (
	Deposit  Kind = "Deposit"
	Withdraw Kind = "Withdraw"
)

// Valid reports whether k is one of the two transaction kinds.
func (k Kind) Valid() bool {
	return k == Deposit || k == Withdraw
}

// Signed applies the kind's sign to amount: deposits count positive,
// withdrawals negative.
func (k Kind) Signed(amount decimal.Decimal) decimal.Decimal {
	if k == Withdraw {
		return amount.Neg()
	}
	return amount
}

// ParseKind normalizes user-supplied kind text ("deposit", "Withdraw", ...).
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return Deposit, true
	case "withdraw", "withdrawal":
		return Withdraw, true
	}
	return "", false
}

// TimestampFormat is the storage encoding for transaction timestamps,
// second precision.
const TimestampFormat = "2006-01-02 15:04:05"

// Transaction is one deposit or withdrawal on a customer's ledger.
// Kind and Timestamp are immutable after creation; edits touch only
// Amount and Note.
type Transaction struct {
	ID         int64
	CustomerID int64
	Kind       Kind
	Amount     decimal.Decimal
	Note       string
	Timestamp  time.Time
}
