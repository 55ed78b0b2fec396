package domain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bank-account-manager/internal/logging"
)

type AccountKind string

const (
	KindSavings  AccountKind = "Savings"
	KindChecking AccountKind = "Checking"
)

type AccountStatus string

const StatusActive AccountStatus = "Active"

var (
	SavingsMinimumBalance  = decimal.NewFromInt(500)
	SavingsInterestRate    = decimal.NewFromFloat(3.5)
	CheckingOverdraftLimit = decimal.NewFromInt(1000)
	CheckingMonthlyFee     = decimal.NewFromInt(10)
)

// balancePolicy is the closed set of per-variant balance rules. Every method
// is pure; the Account serializes calls under its own lock.
type balancePolicy interface {
	kind() AccountKind
	// checkWithdrawal rejects a debit that would push balance below the
	// variant's floor.
	checkWithdrawal(balance, amount decimal.Decimal) error
	// available is the spendable balance; checking counts the overdraft
	// limit toward it.
	available(balance decimal.Decimal) decimal.Decimal
	// floor is the lowest balance the variant permits.
	floor() decimal.Decimal
	// monthlyDelta is the signed end-of-month adjustment.
	monthlyDelta(balance decimal.Decimal) decimal.Decimal
}

type savingsPolicy struct {
	minimumBalance decimal.Decimal
	interestRate   decimal.Decimal
}

func (p savingsPolicy) kind() AccountKind { return KindSavings }

func (p savingsPolicy) checkWithdrawal(balance, amount decimal.Decimal) error {
	if balance.Sub(amount).LessThan(p.minimumBalance) {
		return ErrInsufficientFunds
	}
	return nil
}

func (p savingsPolicy) available(balance decimal.Decimal) decimal.Decimal { return balance }

func (p savingsPolicy) floor() decimal.Decimal { return p.minimumBalance }

func (p savingsPolicy) monthlyDelta(balance decimal.Decimal) decimal.Decimal {
	return balance.Mul(p.interestRate).Div(decimal.NewFromInt(100))
}

type checkingPolicy struct {
	overdraftLimit decimal.Decimal
	monthlyFee     decimal.Decimal
}

func (p checkingPolicy) kind() AccountKind { return KindChecking }

func (p checkingPolicy) checkWithdrawal(balance, amount decimal.Decimal) error {
	if balance.Sub(amount).LessThan(p.overdraftLimit.Neg()) {
		return ErrOverdraftExceeded
	}
	return nil
}

func (p checkingPolicy) available(balance decimal.Decimal) decimal.Decimal {
	return balance.Add(p.overdraftLimit)
}

func (p checkingPolicy) floor() decimal.Decimal { return p.overdraftLimit.Neg() }

func (p checkingPolicy) monthlyDelta(decimal.Decimal) decimal.Decimal {
	return p.monthlyFee.Neg()
}

// Account is a single bank account. The mutex guards balance; every read and
// mutation of balance goes through it, so a racing read observes either the
// pre- or post-mutation value and check-then-set is one critical section.
type Account struct {
	number string
	owner  *Customer
	status AccountStatus
	policy balancePolicy

	mu      sync.Mutex
	balance decimal.Decimal
}

// NewSavingsAccount opens a savings account with the given number and
// opening balance. Status starts as Active.
func NewSavingsAccount(number string, owner *Customer, openingBalance decimal.Decimal) *Account {
	return &Account{
		number:  number,
		owner:   owner,
		status:  StatusActive,
		policy:  savingsPolicy{minimumBalance: SavingsMinimumBalance, interestRate: SavingsInterestRate},
		balance: openingBalance,
	}
}

// NewCheckingAccount opens a checking account. Premium owners get the
// monthly fee waived at construction time.
func NewCheckingAccount(number string, owner *Customer, openingBalance decimal.Decimal) *Account {
	fee := CheckingMonthlyFee
	if owner != nil && owner.Tier.WaivesMonthlyFee() {
		fee = decimal.Zero
	}
	return &Account{
		number:  number,
		owner:   owner,
		status:  StatusActive,
		policy:  checkingPolicy{overdraftLimit: CheckingOverdraftLimit, monthlyFee: fee},
		balance: openingBalance,
	}
}

// Rehydrate rebuilds an account from persisted fields. The supplied account
// number is used as-is; nothing is generated.
func Rehydrate(kind AccountKind, number string, owner *Customer, balance decimal.Decimal, status AccountStatus) (*Account, error) {
	if number == "" {
		return nil, fmt.Errorf("Rehydrate: empty account number: %w", ErrInvalidAccountNumber)
	}
	var a *Account
	switch {
	case strings.EqualFold(string(kind), string(KindSavings)):
		a = NewSavingsAccount(number, owner, balance)
	case strings.EqualFold(string(kind), string(KindChecking)):
		a = NewCheckingAccount(number, owner, balance)
	default:
		return nil, fmt.Errorf("Rehydrate: %q: %w", kind, ErrUnknownAccountKind)
	}
	if status != "" {
		a.status = status
	}
	return a, nil
}

func (a *Account) Number() string        { return a.number }
func (a *Account) Owner() *Customer      { return a.owner }
func (a *Account) Status() AccountStatus { return a.status }
func (a *Account) Kind() AccountKind     { return a.policy.kind() }

// WithdrawalFloor is the lowest balance this account may reach: the minimum
// balance for savings, the negated overdraft limit for checking.
func (a *Account) WithdrawalFloor() decimal.Decimal { return a.policy.floor() }

// Balance takes the account lock, so a read racing a chained mutation never
// observes an intermediate value.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// AvailableBalance is the spendable balance; for checking accounts the
// overdraft limit counts toward availability.
func (a *Account) AvailableBalance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.policy.available(a.balance)
}

// Deposit adds amount to the balance and returns the resulting balance.
func (a *Account) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.depositLocked(amount)
}

func (a *Account) depositLocked(amount decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateAmount(amount); err != nil {
		return decimal.Decimal{}, fmt.Errorf("Deposit: %w", err)
	}
	a.balance = a.balance.Add(amount)
	return a.balance, nil
}

// Withdraw subtracts amount from the balance if the variant's floor allows
// it, returning the resulting balance. The floor check and the debit happen
// as one critical section.
func (a *Account) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.withdrawLocked(amount)
}

func (a *Account) withdrawLocked(amount decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateAmount(amount); err != nil {
		return decimal.Decimal{}, fmt.Errorf("Withdraw: %w", err)
	}
	if err := a.policy.checkWithdrawal(a.balance, amount); err != nil {
		return decimal.Decimal{}, fmt.Errorf("Withdraw: %w", err)
	}
	a.balance = a.balance.Sub(amount)
	return a.balance, nil
}

// TransferResult carries the post-transfer balance snapshots so callers can
// record accurate ledger entries without re-reading racy balances.
type TransferResult struct {
	SourceBalance decimal.Decimal
	TargetBalance decimal.Decimal
}

// Transfer debits this account and credits target as one atomic unit. The
// two locks are always acquired in lexicographic account-number order, never
// in argument order, so opposing transfers between the same pair cannot
// deadlock. A failed debit leaves both balances untouched; once the debit
// succeeds the credit cannot fail, since the debit already validated the
// amount.
func (a *Account) Transfer(target *Account, amount decimal.Decimal) (TransferResult, error) {
	if target == nil || target == a {
		return TransferResult{}, fmt.Errorf("Transfer: %w", ErrInvalidAccount)
	}

	first, second := a, target
	if first.number > second.number {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if _, err := a.withdrawLocked(amount); err != nil {
		return TransferResult{}, fmt.Errorf("Transfer: %w", err)
	}
	if _, err := target.depositLocked(amount); err != nil {
		return TransferResult{}, fmt.Errorf("Transfer: %w", err)
	}
	return TransferResult{SourceBalance: a.balance, TargetBalance: target.balance}, nil
}

// ApplyMonthlyCycle applies the variant's end-of-month adjustment: interest
// for savings, the monthly fee for checking (zero when the owner's tier
// waives it). Returns the signed delta and the resulting balance.
func (a *Account) ApplyMonthlyCycle() (delta, newBalance decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delta = a.policy.monthlyDelta(a.balance)
	a.balance = a.balance.Add(delta)
	return delta, a.balance
}

// ProcessTransaction dispatches deposit/withdrawal by type name
// (case-insensitive) and collapses typed failures into a bool, logging the
// rejection reason. Callers that need to tell failure kinds apart should use
// Deposit/Withdraw directly.
func (a *Account) ProcessTransaction(ctx context.Context, amount decimal.Decimal, txnType string) bool {
	log := logging.FromContext(ctx)
	switch {
	case strings.EqualFold(txnType, string(TxnDeposit)):
		if _, err := a.Deposit(amount); err != nil {
			log.Warn("deposit rejected", "account", a.number, "amount", amount, "error", err)
			return false
		}
		return true
	case strings.EqualFold(txnType, string(TxnWithdrawal)):
		if _, err := a.Withdraw(amount); err != nil {
			log.Warn("withdrawal rejected", "account", a.number, "amount", amount, "error", err)
			return false
		}
		return true
	default:
		log.Warn("unknown transaction type", "account", a.number, "type", txnType)
		return false
	}
}

// ProcessTransfer is the two-account form of ProcessTransaction.
func (a *Account) ProcessTransfer(ctx context.Context, amount decimal.Decimal, txnType string, target *Account) bool {
	log := logging.FromContext(ctx)
	if !strings.EqualFold(txnType, "Transfer") {
		log.Warn("unknown transaction type", "account", a.number, "type", txnType)
		return false
	}
	if _, err := a.Transfer(target, amount); err != nil {
		log.Warn("transfer rejected", "account", a.number, "amount", amount, "error", err)
		return false
	}
	return true
}
