package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxnDeposit     TransactionType = "Deposit"
	TxnWithdrawal  TransactionType = "Withdrawal"
	TxnTransferIn  TransactionType = "Transfer In"
	TxnTransferOut TransactionType = "Transfer Out"
)

// Credits reports whether this type adds money to the account.
func (t TransactionType) Credits() bool {
	return strings.EqualFold(string(t), string(TxnDeposit)) ||
		strings.EqualFold(string(t), string(TxnTransferIn))
}

// Debits reports whether this type removes money from the account.
func (t TransactionType) Debits() bool {
	return strings.EqualFold(string(t), string(TxnWithdrawal)) ||
		strings.EqualFold(string(t), string(TxnTransferOut))
}

// Transaction is one ledger entry. ID stays empty until the ledger assigns it
// on append; from then on the entry belongs to the ledger and callers must
// treat it as read-only.
type Transaction struct {
	ID            string
	AccountNumber string
	Type          TransactionType
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	Timestamp     time.Time
}

// NewTransaction builds an entry awaiting ID assignment by the ledger.
func NewTransaction(accountNumber string, typ TransactionType, amount, balanceAfter decimal.Decimal) *Transaction {
	return &Transaction{
		AccountNumber: accountNumber,
		Type:          typ,
		Amount:        amount,
		BalanceAfter:  balanceAfter,
		Timestamp:     time.Now().UTC(),
	}
}

// RehydrateTransaction rebuilds a persisted entry with its original ID and
// timestamp. It satisfies the same invariants as a freshly created one.
func RehydrateTransaction(id, accountNumber string, typ TransactionType, amount, balanceAfter decimal.Decimal, ts time.Time) *Transaction {
	return &Transaction{
		ID:            id,
		AccountNumber: accountNumber,
		Type:          typ,
		Amount:        amount,
		BalanceAfter:  balanceAfter,
		Timestamp:     ts,
	}
}
