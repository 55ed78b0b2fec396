// Package service orchestrates the account directory, the ledger, and the
// persistence layer behind a single Bank facade.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bank-account-manager/internal/domain"
	"github.com/josh-kwaku/bank-account-manager/internal/ledger"
	"github.com/josh-kwaku/bank-account-manager/internal/logging"
)

type accountDirectory interface {
	Add(acct *domain.Account) error
	Find(number string) (*domain.Account, error)
	NextAccountNumber() string
	NextCustomerID() string
	Count() int
	TotalBalance() decimal.Decimal
	Snapshot() []*domain.Account
	SyncCounters()
}

type transactionLedger interface {
	Add(txn *domain.Transaction)
	Seed(txns []*domain.Transaction)
	ByAccount(accountNumber string) []*domain.Transaction
	All() []*domain.Transaction
}

type persistence interface {
	LoadAccounts() ([]*domain.Account, error)
	SaveAccounts([]*domain.Account) error
	LoadTransactions() ([]*domain.Transaction, error)
	SaveTransactions([]*domain.Transaction) error
}

type Bank struct {
	directory accountDirectory
	ledger    transactionLedger
	store     persistence
	seed      func() error
}

// NewBank wires the directory, ledger, and store together. seed is invoked
// when Initialize cannot restore persisted state.
func NewBank(dir accountDirectory, led transactionLedger, store persistence, seed func() error) *Bank {
	return &Bank{directory: dir, ledger: led, store: store, seed: seed}
}

type OpenAccountRequest struct {
	Kind           domain.AccountKind
	Name           string
	Age            int
	Contact        string
	Email          string
	Address        string
	Tier           domain.CustomerTier
	InitialDeposit decimal.Decimal
}

// OpenAccount validates the applicant, creates the account with freshly
// generated identifiers, registers it, and records the opening deposit in
// the ledger.
func (s *Bank) OpenAccount(ctx context.Context, req OpenAccountRequest) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if err := domain.ValidateName(req.Name); err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}
	if err := domain.ValidateAge(req.Age); err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}
	if err := domain.ValidateContact(req.Contact); err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}
	if err := domain.ValidateEmail(req.Email); err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}
	if err := domain.ValidateInitialDeposit(req.Kind, req.InitialDeposit); err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}

	tier := req.Tier
	if tier == "" {
		tier = domain.TierRegular
	}
	owner := &domain.Customer{
		ID:      s.directory.NextCustomerID(),
		Name:    req.Name,
		Age:     req.Age,
		Contact: req.Contact,
		Email:   req.Email,
		Address: req.Address,
		Tier:    tier,
	}

	number := s.directory.NextAccountNumber()
	var acct *domain.Account
	switch {
	case strings.EqualFold(string(req.Kind), string(domain.KindSavings)):
		acct = domain.NewSavingsAccount(number, owner, req.InitialDeposit)
	case strings.EqualFold(string(req.Kind), string(domain.KindChecking)):
		acct = domain.NewCheckingAccount(number, owner, req.InitialDeposit)
	default:
		return nil, fmt.Errorf("OpenAccount: %q: %w", req.Kind, domain.ErrUnknownAccountKind)
	}

	if err := s.directory.Add(acct); err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}
	s.ledger.Add(domain.NewTransaction(number, domain.TxnDeposit, req.InitialDeposit, acct.Balance()))

	log.Info("account opened",
		"account", number,
		"kind", acct.Kind(),
		"customer", owner.ID,
		"opening_balance", req.InitialDeposit,
	)
	return acct, nil
}

// Deposit credits the account and records the ledger entry with the balance
// snapshot the mutation returned.
func (s *Bank) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Transaction, error) {
	log := logging.FromContext(ctx)

	acct, err := s.directory.Find(accountNumber)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}
	balance, err := acct.Deposit(amount)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	txn := domain.NewTransaction(accountNumber, domain.TxnDeposit, amount, balance)
	s.ledger.Add(txn)

	log.Info("deposit recorded", "account", accountNumber, "txn", txn.ID, "amount", amount, "balance", balance)
	return txn, nil
}

// Withdraw debits the account and records the ledger entry. Rejected
// withdrawals leave both the balance and the ledger untouched.
func (s *Bank) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Transaction, error) {
	log := logging.FromContext(ctx)

	acct, err := s.directory.Find(accountNumber)
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}
	balance, err := acct.Withdraw(amount)
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}

	txn := domain.NewTransaction(accountNumber, domain.TxnWithdrawal, amount, balance)
	s.ledger.Add(txn)

	log.Info("withdrawal recorded", "account", accountNumber, "txn", txn.ID, "amount", amount, "balance", balance)
	return txn, nil
}

// TransferReceipt ties the Transfer Out / Transfer In ledger pair of one
// transfer together under a single correlation ID.
type TransferReceipt struct {
	ID       uuid.UUID
	Outgoing *domain.Transaction
	Incoming *domain.Transaction
}

// Transfer moves amount between two accounts atomically and records the
// matching ledger pair. A failed transfer records nothing.
func (s *Bank) Transfer(ctx context.Context, fromNumber, toNumber string, amount decimal.Decimal) (*TransferReceipt, error) {
	log := logging.FromContext(ctx)

	source, err := s.directory.Find(fromNumber)
	if err != nil {
		return nil, fmt.Errorf("Transfer: source: %w", err)
	}
	target, err := s.directory.Find(toNumber)
	if err != nil {
		return nil, fmt.Errorf("Transfer: target: %w", err)
	}

	result, err := source.Transfer(target, amount)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	receipt := &TransferReceipt{
		ID:       uuid.New(),
		Outgoing: domain.NewTransaction(fromNumber, domain.TxnTransferOut, amount, result.SourceBalance),
		Incoming: domain.NewTransaction(toNumber, domain.TxnTransferIn, amount, result.TargetBalance),
	}
	s.ledger.Add(receipt.Outgoing)
	s.ledger.Add(receipt.Incoming)

	log.Info("transfer completed",
		"transfer_id", receipt.ID,
		"from", fromNumber,
		"to", toNumber,
		"amount", amount,
		"source_balance", result.SourceBalance,
		"target_balance", result.TargetBalance,
	)
	return receipt, nil
}

// PreviewBalance computes the post-transaction balance shown on confirmation
// prompts. It never mutates account state and may be called any number of
// times.
func (s *Bank) PreviewBalance(accountNumber string, amount decimal.Decimal, typ domain.TransactionType) (decimal.Decimal, error) {
	acct, err := s.directory.Find(accountNumber)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("PreviewBalance: %w", err)
	}
	preview, err := ledger.BalanceAfter(acct, amount, typ)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("PreviewBalance: %w", err)
	}
	return preview, nil
}

// Initialize restores persisted state, falling back to seed data when the
// files are missing, empty, or unreadable. Load failures are reported and
// recovered from, never fatal.
func (s *Bank) Initialize(ctx context.Context) error {
	log := logging.FromContext(ctx)

	restored, err := s.restore()
	switch {
	case err != nil:
		log.Warn("failed to restore persisted state, seeding defaults", "error", err)
	case restored > 0:
		log.Info("restored persisted state", "accounts", restored)
		return nil
	default:
		log.Info("no persisted accounts found, seeding defaults")
	}

	s.directory.SyncCounters()
	if err := s.seed(); err != nil {
		return fmt.Errorf("Initialize: %w", err)
	}
	return nil
}

func (s *Bank) restore() (int, error) {
	accounts, err := s.store.LoadAccounts()
	if err != nil {
		return 0, err
	}
	txns, err := s.store.LoadTransactions()
	if err != nil {
		return 0, err
	}
	for _, acct := range accounts {
		if err := s.directory.Add(acct); err != nil {
			return 0, err
		}
	}
	s.ledger.Seed(txns)
	s.directory.SyncCounters()
	return len(accounts), nil
}

// SaveAll writes the current accounts and the full ledger to the store.
func (s *Bank) SaveAll(ctx context.Context) error {
	log := logging.FromContext(ctx)

	if err := s.store.SaveAccounts(s.directory.Snapshot()); err != nil {
		return fmt.Errorf("SaveAll: %w", err)
	}
	if err := s.store.SaveTransactions(s.ledger.All()); err != nil {
		return fmt.Errorf("SaveAll: %w", err)
	}

	log.Info("state saved", "accounts", s.directory.Count())
	return nil
}

// RunMonthlyCycle applies interest to savings accounts and the monthly fee
// to checking accounts. Adjustments change balances directly and are not
// ledger entries, matching statement-cycle behavior.
func (s *Bank) RunMonthlyCycle(ctx context.Context) {
	log := logging.FromContext(ctx)

	for _, acct := range s.directory.Snapshot() {
		delta, balance := acct.ApplyMonthlyCycle()
		if delta.IsZero() {
			continue
		}
		log.Info("monthly adjustment applied",
			"account", acct.Number(),
			"kind", acct.Kind(),
			"delta", delta,
			"balance", balance,
		)
	}
}
