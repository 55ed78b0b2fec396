// Package seed generates demo accounts when no persisted state exists.
package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bank-account-manager/internal/directory"
	"github.com/josh-kwaku/bank-account-manager/internal/domain"
	"github.com/josh-kwaku/bank-account-manager/internal/ledger"
)

var names = []string{"Bernard", "Alice", "John", "Diana", "Eve", "Frank", "Grace", "Hank", "Ivy", "Jack"}

// Accounts registers n demo accounts with random variants and opening
// deposits in [500, 2000), recording each opening deposit in the ledger.
// Checking entries record the overdraft-inclusive balance snapshot.
func Accounts(dir *directory.Directory, led *ledger.Ledger, n int) error {
	for i := 0; i < n; i++ {
		name := names[i%len(names)]
		deposit := decimal.NewFromFloat(500 + rand.Float64()*1500)
		owner := &domain.Customer{
			ID:      dir.NextCustomerID(),
			Name:    name,
			Age:     30,
			Contact: "0123456789",
			Email:   strings.ToLower(name) + "@example.com",
			Address: "Accra, Ghana",
			Tier:    domain.TierRegular,
		}

		number := dir.NextAccountNumber()
		var acct *domain.Account
		if rand.IntN(2) == 0 {
			acct = domain.NewSavingsAccount(number, owner, deposit)
		} else {
			acct = domain.NewCheckingAccount(number, owner, deposit)
		}

		if err := dir.Add(acct); err != nil {
			return fmt.Errorf("seed.Accounts: %w", err)
		}
		led.Add(domain.NewTransaction(number, domain.TxnDeposit, deposit, acct.AvailableBalance()))
	}
	return nil
}
