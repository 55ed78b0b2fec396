// Package directory maps account numbers to live accounts and owns the
// account and customer sequence counters.
package directory

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bank-account-manager/internal/domain"
)

// Directory is the account registry. Registration takes the write lock;
// lookups and balance sweeps only take the read lock, so normal
// deposit/withdraw traffic never serializes behind account creation.
type Directory struct {
	mu           sync.RWMutex
	accounts     map[string]*domain.Account
	nextAccount  int
	nextCustomer int
}

func New() *Directory {
	return &Directory{
		accounts:     make(map[string]*domain.Account),
		nextAccount:  1,
		nextCustomer: 1,
	}
}

// NextAccountNumber hands out the next ACC### identifier.
func (d *Directory) NextAccountNumber() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.nextAccount
	d.nextAccount++
	return fmt.Sprintf("ACC%03d", n)
}

// NextCustomerID hands out the next CUST### identifier.
func (d *Directory) NextCustomerID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.nextCustomer
	d.nextCustomer++
	return fmt.Sprintf("CUST%03d", n)
}

// Add registers an account for lookup, rejecting duplicate numbers.
func (d *Directory) Add(acct *domain.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.accounts[acct.Number()]; exists {
		return fmt.Errorf("directory.Add: %s: %w", acct.Number(), domain.ErrDuplicateAccount)
	}
	d.accounts[acct.Number()] = acct
	return nil
}

// Find validates the number's format before looking it up, so callers can
// tell a malformed number apart from a missing account.
func (d *Directory) Find(number string) (*domain.Account, error) {
	if err := domain.ValidateAccountNumber(number); err != nil {
		return nil, fmt.Errorf("directory.Find: %q: %w", number, err)
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	acct, ok := d.accounts[number]
	if !ok {
		return nil, fmt.Errorf("directory.Find: %s: %w", number, domain.ErrAccountNotFound)
	}
	return acct, nil
}

// Count is the number of registered accounts.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.accounts)
}

// TotalBalance sums the balances of every registered account.
func (d *Directory) TotalBalance() decimal.Decimal {
	d.mu.RLock()
	defer d.mu.RUnlock()
	total := decimal.Zero
	for _, acct := range d.accounts {
		total = total.Add(acct.Balance())
	}
	return total
}

// Snapshot returns the registered accounts sorted by account number.
func (d *Directory) Snapshot() []*domain.Account {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*domain.Account, 0, len(d.accounts))
	for _, acct := range d.accounts {
		out = append(out, acct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number() < out[j].Number() })
	return out
}

// SyncCounters advances the ACC and CUST counters past the highest
// identifiers currently registered, so numbering resumes after a reload
// instead of colliding with persisted entities.
func (d *Directory) SyncCounters() {
	d.mu.Lock()
	defer d.mu.Unlock()
	maxAcct, maxCust := 0, 0
	for _, acct := range d.accounts {
		if n, ok := numericSuffix(acct.Number(), "ACC"); ok && n > maxAcct {
			maxAcct = n
		}
		if owner := acct.Owner(); owner != nil {
			if n, ok := numericSuffix(owner.ID, "CUST"); ok && n > maxCust {
				maxCust = n
			}
		}
	}
	if maxAcct+1 > d.nextAccount {
		d.nextAccount = maxAcct + 1
	}
	if maxCust+1 > d.nextCustomer {
		d.nextCustomer = maxCust + 1
	}
}

func numericSuffix(id, prefix string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil {
		return 0, false
	}
	return n, true
}
