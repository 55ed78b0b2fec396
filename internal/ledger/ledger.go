// Package ledger keeps the append-only, per-account transaction history and
// assigns each account's sequential transaction IDs.
package ledger

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bank-account-manager/internal/domain"
)

var txnIDPattern = regexp.MustCompile(`^TXN(\d+)$`)

// Ledger maps account numbers to ordered transaction sequences. One mutex
// covers the map and the per-account ID counters, so ID assignment and the
// list append for an account happen as a single indivisible step relative to
// other appends for that account.
type Ledger struct {
	mu      sync.Mutex
	entries map[string][]*domain.Transaction
	nextID  map[string]int
}

func New() *Ledger {
	return &Ledger{
		entries: make(map[string][]*domain.Transaction),
		nextID:  make(map[string]int),
	}
}

// Add appends txn to its account's sequence and assigns the next sequential
// TXN### ID for that account, starting at 1. Assignment is idempotent: an
// entry that already carries an ID keeps it, and the counter advances past
// it so later appends never collide.
func (l *Ledger) Add(txn *domain.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addLocked(txn)
}

func (l *Ledger) addLocked(txn *domain.Transaction) {
	next := l.nextID[txn.AccountNumber]
	if next == 0 {
		next = 1
	}
	if txn.ID == "" {
		txn.ID = fmt.Sprintf("TXN%03d", next)
		l.nextID[txn.AccountNumber] = next + 1
	} else if m := txnIDPattern.FindStringSubmatch(txn.ID); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= next {
			l.nextID[txn.AccountNumber] = n + 1
		}
	}
	l.entries[txn.AccountNumber] = append(l.entries[txn.AccountNumber], txn)
}

// Seed replaces the ledger contents with rehydrated entries, keeping their
// IDs and resuming each account's counter past the highest one seen.
func (l *Ledger) Seed(txns []*domain.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string][]*domain.Transaction)
	l.nextID = make(map[string]int)
	for _, txn := range txns {
		l.addLocked(txn)
	}
}

// ByAccount returns the account's entries in append order. An unknown
// account yields an empty sequence, never an error.
func (l *Ledger) ByAccount(accountNumber string) []*domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	seq := l.entries[accountNumber]
	out := make([]*domain.Transaction, len(seq))
	copy(out, seq)
	return out
}

// All returns every entry, grouped by account number in lexicographic order
// and in append order within each account.
func (l *Ledger) All() []*domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	numbers := make([]string, 0, len(l.entries))
	for n := range l.entries {
		numbers = append(numbers, n)
	}
	sort.Strings(numbers)
	var out []*domain.Transaction
	for _, n := range numbers {
		out = append(out, l.entries[n]...)
	}
	return out
}

// Size is the total entry count across all accounts.
func (l *Ledger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, seq := range l.entries {
		total += len(seq)
	}
	return total
}

// TotalByType sums the amounts of one transaction type for an account.
func (l *Ledger) TotalByType(accountNumber string, typ domain.TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range l.ByAccount(accountNumber) {
		if strings.EqualFold(string(txn.Type), string(typ)) {
			total = total.Add(txn.Amount)
		}
	}
	return total
}

// NetChange is credits minus debits across the account's history.
func (l *Ledger) NetChange(accountNumber string) decimal.Decimal {
	net := decimal.Zero
	for _, txn := range l.ByAccount(accountNumber) {
		if txn.Type.Credits() {
			net = net.Add(txn.Amount)
		} else {
			net = net.Sub(txn.Amount)
		}
	}
	return net
}

// MostRecent returns the newest entry by timestamp, if any.
func (l *Ledger) MostRecent(accountNumber string) (*domain.Transaction, bool) {
	var latest *domain.Transaction
	for _, txn := range l.ByAccount(accountNumber) {
		if latest == nil || txn.Timestamp.After(latest.Timestamp) {
			latest = txn
		}
	}
	return latest, latest != nil
}

// Matching returns the account's entries satisfying pred, in append order.
func (l *Ledger) Matching(accountNumber string, pred func(*domain.Transaction) bool) []*domain.Transaction {
	var out []*domain.Transaction
	for _, txn := range l.ByAccount(accountNumber) {
		if pred(txn) {
			out = append(out, txn)
		}
	}
	return out
}

// BalanceAfter previews the balance a confirmation prompt should display for
// a hypothetical transaction, without mutating anything. The preview starts
// from the variant's available balance, so checking accounts count the
// overdraft limit toward the figure.
func BalanceAfter(acct *domain.Account, amount decimal.Decimal, typ domain.TransactionType) (decimal.Decimal, error) {
	available := acct.AvailableBalance()
	switch {
	case typ.Credits():
		return available.Add(amount), nil
	case typ.Debits():
		return available.Sub(amount), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("BalanceAfter: %q: %w", typ, domain.ErrInvalidTransactionType)
	}
}
