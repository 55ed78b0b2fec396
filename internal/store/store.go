// Package store persists accounts and transactions as pipe-delimited text
// files, one entity per line.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bank-account-manager/internal/domain"
)

const (
	accountsFile     = "accounts.txt"
	transactionsFile = "transactions.txt"
	delimiter        = "|"
)

type FileStore struct {
	dataDir          string
	accountsPath     string
	transactionsPath string
}

func NewFileStore(dataDir string) *FileStore {
	return &FileStore{
		dataDir:          dataDir,
		accountsPath:     filepath.Join(dataDir, accountsFile),
		transactionsPath: filepath.Join(dataDir, transactionsFile),
	}
}

// LoadAccounts reads every persisted account; a missing file loads as empty.
func (s *FileStore) LoadAccounts() ([]*domain.Account, error) {
	lines, err := s.readLines(s.accountsPath)
	if err != nil {
		return nil, fmt.Errorf("LoadAccounts: %w", err)
	}
	accounts := make([]*domain.Account, 0, len(lines))
	for _, line := range lines {
		acct, err := parseAccount(line)
		if err != nil {
			return nil, fmt.Errorf("LoadAccounts: %w", err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// SaveAccounts overwrites the accounts file with the given accounts.
func (s *FileStore) SaveAccounts(accounts []*domain.Account) error {
	lines := make([]string, 0, len(accounts))
	for _, acct := range accounts {
		lines = append(lines, formatAccount(acct))
	}
	if err := s.writeLines(s.accountsPath, lines); err != nil {
		return fmt.Errorf("SaveAccounts: %w", err)
	}
	return nil
}

// LoadTransactions reads every persisted transaction; a missing file loads
// as empty.
func (s *FileStore) LoadTransactions() ([]*domain.Transaction, error) {
	lines, err := s.readLines(s.transactionsPath)
	if err != nil {
		return nil, fmt.Errorf("LoadTransactions: %w", err)
	}
	txns := make([]*domain.Transaction, 0, len(lines))
	for _, line := range lines {
		txn, err := parseTransaction(line)
		if err != nil {
			return nil, fmt.Errorf("LoadTransactions: %w", err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// SaveTransactions overwrites the transactions file with the given entries.
func (s *FileStore) SaveTransactions(txns []*domain.Transaction) error {
	lines := make([]string, 0, len(txns))
	for _, txn := range txns {
		lines = append(lines, formatTransaction(txn))
	}
	if err := s.writeLines(s.transactionsPath, lines); err != nil {
		return fmt.Errorf("SaveTransactions: %w", err)
	}
	return nil
}

func (s *FileStore) ensureDataDir() error {
	return os.MkdirAll(s.dataDir, 0o755)
}

func (s *FileStore) readLines(path string) ([]string, error) {
	if err := s.ensureDataDir(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (s *FileStore) writeLines(path string, lines []string) error {
	if err := s.ensureDataDir(); err != nil {
		return err
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// Account row layout:
// number|kind|balance|status|tier|customerID|name|age|contact|email|address|extra
// where extra is the overdraft limit for checking and the interest rate for
// savings.
func parseAccount(line string) (*domain.Account, error) {
	parts := strings.Split(line, delimiter)
	if len(parts) < 12 {
		return nil, fmt.Errorf("parseAccount: malformed row %q", line)
	}
	balance, err := decimal.NewFromString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("parseAccount: balance: %w", err)
	}
	age, err := strconv.Atoi(parts[7])
	if err != nil {
		return nil, fmt.Errorf("parseAccount: age: %w", err)
	}

	number := parts[0]
	owner := &domain.Customer{
		Tier:    domain.CustomerTier(parts[4]),
		ID:      parts[5],
		Name:    parts[6],
		Age:     age,
		Contact: parts[8],
		Email:   parts[9],
		Address: parts[10],
	}

	if err := domain.ValidateAccountNumber(number); err != nil {
		return nil, fmt.Errorf("parseAccount: %q: %w", number, err)
	}
	if err := domain.ValidateContact(owner.Contact); err != nil {
		return nil, fmt.Errorf("parseAccount: %s: %w", number, err)
	}
	if err := domain.ValidateEmail(owner.Email); err != nil {
		return nil, fmt.Errorf("parseAccount: %s: %w", number, err)
	}

	acct, err := domain.Rehydrate(domain.AccountKind(parts[1]), number, owner, balance, domain.AccountStatus(parts[3]))
	if err != nil {
		return nil, fmt.Errorf("parseAccount: %w", err)
	}
	return acct, nil
}

func formatAccount(acct *domain.Account) string {
	owner := acct.Owner()
	extra := domain.SavingsInterestRate
	if acct.Kind() == domain.KindChecking {
		extra = domain.CheckingOverdraftLimit
	}
	return strings.Join([]string{
		acct.Number(),
		string(acct.Kind()),
		acct.Balance().String(),
		string(acct.Status()),
		string(owner.Tier),
		owner.ID,
		sanitize(owner.Name),
		strconv.Itoa(owner.Age),
		owner.Contact,
		sanitize(owner.Email),
		sanitize(owner.Address),
		extra.String(),
	}, delimiter)
}

// Transaction row layout: id|account|type|amount|balanceAfter|timestamp
// with the timestamp in RFC 3339 UTC.
func parseTransaction(line string) (*domain.Transaction, error) {
	parts := strings.Split(line, delimiter)
	if len(parts) < 6 {
		return nil, fmt.Errorf("parseTransaction: malformed row %q", line)
	}
	amount, err := decimal.NewFromString(parts[3])
	if err != nil {
		return nil, fmt.Errorf("parseTransaction: amount: %w", err)
	}
	balanceAfter, err := decimal.NewFromString(parts[4])
	if err != nil {
		return nil, fmt.Errorf("parseTransaction: balance after: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[5])
	if err != nil {
		return nil, fmt.Errorf("parseTransaction: timestamp: %w", err)
	}
	return domain.RehydrateTransaction(parts[0], parts[1], domain.TransactionType(parts[2]), amount, balanceAfter, ts), nil
}

func formatTransaction(txn *domain.Transaction) string {
	return strings.Join([]string{
		txn.ID,
		txn.AccountNumber,
		string(txn.Type),
		txn.Amount.String(),
		txn.BalanceAfter.String(),
		txn.Timestamp.UTC().Format(time.RFC3339Nano),
	}, delimiter)
}

// sanitize keeps free-text fields from breaking the row format.
func sanitize(value string) string {
	return strings.ReplaceAll(value, delimiter, "/")
}
