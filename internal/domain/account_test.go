package domain

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regularCustomer() *Customer {
	return &Customer{
		ID:      "CUST001",
		Name:    "Alice",
		Age:     30,
		Contact: "1234567890",
		Email:   "alice@test.com",
		Address: "123 Street",
		Tier:    TierRegular,
	}
}

func premiumCustomer() *Customer {
	return &Customer{
		ID:      "CUST002",
		Name:    "Bob",
		Age:     40,
		Contact: "0987654321",
		Email:   "bob@test.com",
		Address: "456 Avenue",
		Tier:    TierPremium,
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestDeposit(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr error
		want    decimal.Decimal
	}{
		{name: "positive amount credits balance", amount: dec(250), want: dec(1250)},
		{name: "fractional amount credits balance", amount: decimal.RequireFromString("0.01"), want: decimal.RequireFromString("1000.01")},
		{name: "zero amount rejected", amount: dec(0), wantErr: ErrInvalidAmount},
		{name: "negative amount rejected", amount: dec(-50), wantErr: ErrInvalidAmount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acct := NewSavingsAccount("ACC001", regularCustomer(), dec(1000))

			balance, err := acct.Deposit(tc.amount)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.True(t, acct.Balance().Equal(dec(1000)), "balance must be unchanged on rejection")
				return
			}
			require.NoError(t, err)
			assert.True(t, balance.Equal(tc.want), "got %s, want %s", balance, tc.want)
			assert.True(t, acct.Balance().Equal(tc.want))
		})
	}
}

func TestSavingsWithdraw(t *testing.T) {
	tests := []struct {
		name    string
		opening decimal.Decimal
		amount  decimal.Decimal
		wantErr error
		want    decimal.Decimal
	}{
		{name: "withdrawal above minimum succeeds", opening: dec(1000), amount: dec(400), want: dec(600)},
		{name: "withdrawal to exact minimum succeeds", opening: dec(1000), amount: dec(500), want: dec(500)},
		{name: "withdrawal below minimum rejected", opening: dec(1000), amount: dec(501), wantErr: ErrInsufficientFunds},
		{name: "zero amount rejected", opening: dec(1000), amount: dec(0), wantErr: ErrInvalidAmount},
		{name: "negative amount rejected", opening: dec(1000), amount: dec(-10), wantErr: ErrInvalidAmount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acct := NewSavingsAccount("ACC001", regularCustomer(), tc.opening)

			balance, err := acct.Withdraw(tc.amount)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.True(t, acct.Balance().Equal(tc.opening), "balance must be unchanged on rejection")
				return
			}
			require.NoError(t, err)
			assert.True(t, balance.Equal(tc.want), "got %s, want %s", balance, tc.want)
		})
	}
}

func TestCheckingWithdraw(t *testing.T) {
	tests := []struct {
		name    string
		opening decimal.Decimal
		amount  decimal.Decimal
		wantErr error
		want    decimal.Decimal
	}{
		{name: "withdrawal within balance succeeds", opening: dec(1000), amount: dec(800), want: dec(200)},
		{name: "withdrawal into overdraft succeeds", opening: dec(100), amount: dec(600), want: dec(-500)},
		{name: "withdrawal to overdraft limit succeeds", opening: dec(0), amount: dec(1000), want: dec(-1000)},
		{name: "withdrawal past overdraft limit rejected", opening: dec(0), amount: dec(1001), wantErr: ErrOverdraftExceeded},
		{name: "zero amount rejected", opening: dec(100), amount: dec(0), wantErr: ErrInvalidAmount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acct := NewCheckingAccount("ACC002", regularCustomer(), tc.opening)

			balance, err := acct.Withdraw(tc.amount)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.True(t, acct.Balance().Equal(tc.opening), "balance must be unchanged on rejection")
				return
			}
			require.NoError(t, err)
			assert.True(t, balance.Equal(tc.want), "got %s, want %s", balance, tc.want)
		})
	}
}

func TestTransfer(t *testing.T) {
	t.Run("checking to savings", func(t *testing.T) {
		checking := NewCheckingAccount("ACC001", regularCustomer(), dec(1000))
		savings := NewSavingsAccount("ACC002", regularCustomer(), dec(500))

		result, err := checking.Transfer(savings, dec(200))

		require.NoError(t, err)
		assert.True(t, result.SourceBalance.Equal(dec(800)))
		assert.True(t, result.TargetBalance.Equal(dec(700)))
		assert.True(t, checking.Balance().Equal(dec(800)))
		assert.True(t, savings.Balance().Equal(dec(700)))
	})

	t.Run("nil target rejected", func(t *testing.T) {
		checking := NewCheckingAccount("ACC001", regularCustomer(), dec(1000))

		_, err := checking.Transfer(nil, dec(100))

		require.ErrorIs(t, err, ErrInvalidAccount)
		assert.True(t, checking.Balance().Equal(dec(1000)))
	})

	t.Run("self transfer rejected", func(t *testing.T) {
		checking := NewCheckingAccount("ACC001", regularCustomer(), dec(1000))

		_, err := checking.Transfer(checking, dec(100))

		require.ErrorIs(t, err, ErrInvalidAccount)
		assert.True(t, checking.Balance().Equal(dec(1000)))
	})

	t.Run("failed debit leaves both balances untouched", func(t *testing.T) {
		savings := NewSavingsAccount("ACC001", regularCustomer(), dec(600))
		checking := NewCheckingAccount("ACC002", regularCustomer(), dec(100))

		_, err := savings.Transfer(checking, dec(200))

		require.ErrorIs(t, err, ErrInsufficientFunds)
		assert.True(t, savings.Balance().Equal(dec(600)))
		assert.True(t, checking.Balance().Equal(dec(100)))
	})

	t.Run("invalid amount leaves both balances untouched", func(t *testing.T) {
		a := NewCheckingAccount("ACC001", regularCustomer(), dec(1000))
		b := NewCheckingAccount("ACC002", regularCustomer(), dec(1000))

		_, err := a.Transfer(b, dec(-5))

		require.ErrorIs(t, err, ErrInvalidAmount)
		assert.True(t, a.Balance().Equal(dec(1000)))
		assert.True(t, b.Balance().Equal(dec(1000)))
	})
}

func TestConcurrentDeposits(t *testing.T) {
	acct := NewCheckingAccount("ACC001", regularCustomer(), dec(0))
	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := acct.Deposit(dec(10))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, acct.Balance().Equal(dec(500)), "got %s, want 500", acct.Balance())
}

func TestConcurrentCheckingWithdrawalsIntoOverdraft(t *testing.T) {
	// 500 on hand plus 1000 overdraft covers all ten withdrawals of 100.
	acct := NewCheckingAccount("ACC001", regularCustomer(), dec(500))
	const workers = 10

	var succeeded atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := acct.Withdraw(dec(100)); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, workers, succeeded.Load(), "all withdrawals fit within the overdraft")
	assert.True(t, acct.Balance().Equal(dec(-500)), "got %s, want -500", acct.Balance())
}

func TestConcurrentSavingsWithdrawalsRespectMinimum(t *testing.T) {
	// 1000 on hand with a 500 floor leaves room for at most five
	// withdrawals of 100.
	acct := NewSavingsAccount("ACC001", regularCustomer(), dec(1000))
	const workers = 8

	var succeeded atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := acct.Withdraw(dec(100)); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, succeeded.Load(), int64(5))
	assert.GreaterOrEqual(t, acct.Balance().Cmp(dec(500)), 0, "balance %s must stay at or above the minimum", acct.Balance())
	want := dec(1000).Sub(dec(100).Mul(decimal.NewFromInt(succeeded.Load())))
	assert.True(t, acct.Balance().Equal(want), "got %s, want %s", acct.Balance(), want)
}

func TestOpposingTransfersDoNotDeadlock(t *testing.T) {
	a := NewCheckingAccount("ACC001", regularCustomer(), dec(10000))
	b := NewCheckingAccount("ACC002", regularCustomer(), dec(10000))
	const workers = 20
	const rounds = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		source, target := a, b
		if i%2 == 1 {
			source, target = b, a
		}
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				_, err := source.Transfer(target, dec(7))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	total := a.Balance().Add(b.Balance())
	assert.True(t, total.Equal(dec(20000)), "transfers must conserve the pair total, got %s", total)
}

func TestProcessTransaction(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		txnType string
		amount  decimal.Decimal
		want    bool
		wantBal decimal.Decimal
	}{
		{name: "deposit applied", txnType: "Deposit", amount: dec(100), want: true, wantBal: dec(1100)},
		{name: "deposit type is case-insensitive", txnType: "dePOSit", amount: dec(100), want: true, wantBal: dec(1100)},
		{name: "withdrawal applied", txnType: "withdrawal", amount: dec(300), want: true, wantBal: dec(700)},
		{name: "invalid amount collapsed to false", txnType: "deposit", amount: dec(-1), want: false, wantBal: dec(1000)},
		{name: "insufficient funds collapsed to false", txnType: "withdrawal", amount: dec(900), want: false, wantBal: dec(1000)},
		{name: "unknown type rejected", txnType: "wire", amount: dec(100), want: false, wantBal: dec(1000)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acct := NewSavingsAccount("ACC001", regularCustomer(), dec(1000))

			got := acct.ProcessTransaction(ctx, tc.amount, tc.txnType)

			assert.Equal(t, tc.want, got)
			assert.True(t, acct.Balance().Equal(tc.wantBal), "got %s, want %s", acct.Balance(), tc.wantBal)
		})
	}
}

func TestProcessTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("transfer applied", func(t *testing.T) {
		a := NewCheckingAccount("ACC001", regularCustomer(), dec(1000))
		b := NewSavingsAccount("ACC002", regularCustomer(), dec(500))

		ok := a.ProcessTransfer(ctx, dec(200), "transfer", b)

		assert.True(t, ok)
		assert.True(t, a.Balance().Equal(dec(800)))
		assert.True(t, b.Balance().Equal(dec(700)))
	})

	t.Run("failure collapsed to false", func(t *testing.T) {
		a := NewSavingsAccount("ACC001", regularCustomer(), dec(500))
		b := NewSavingsAccount("ACC002", regularCustomer(), dec(500))

		ok := a.ProcessTransfer(ctx, dec(100), "transfer", b)

		assert.False(t, ok)
		assert.True(t, a.Balance().Equal(dec(500)))
		assert.True(t, b.Balance().Equal(dec(500)))
	})

	t.Run("non-transfer type rejected", func(t *testing.T) {
		a := NewCheckingAccount("ACC001", regularCustomer(), dec(1000))
		b := NewSavingsAccount("ACC002", regularCustomer(), dec(500))

		assert.False(t, a.ProcessTransfer(ctx, dec(100), "deposit", b))
		assert.True(t, a.Balance().Equal(dec(1000)))
	})
}

func TestAvailableBalance(t *testing.T) {
	savings := NewSavingsAccount("ACC001", regularCustomer(), dec(750))
	checking := NewCheckingAccount("ACC002", regularCustomer(), dec(750))

	assert.True(t, savings.AvailableBalance().Equal(dec(750)))
	assert.True(t, checking.AvailableBalance().Equal(dec(1750)), "overdraft counts toward availability")
}

func TestWithdrawalFloor(t *testing.T) {
	savings := NewSavingsAccount("ACC001", regularCustomer(), dec(750))
	checking := NewCheckingAccount("ACC002", regularCustomer(), dec(750))

	assert.True(t, savings.WithdrawalFloor().Equal(dec(500)))
	assert.True(t, checking.WithdrawalFloor().Equal(dec(-1000)))
}

func TestApplyMonthlyCycle(t *testing.T) {
	t.Run("savings earns interest", func(t *testing.T) {
		acct := NewSavingsAccount("ACC001", regularCustomer(), dec(1000))

		delta, balance := acct.ApplyMonthlyCycle()

		assert.True(t, delta.Equal(dec(35)), "3.5%% of 1000, got %s", delta)
		assert.True(t, balance.Equal(dec(1035)))
	})

	t.Run("checking pays the monthly fee", func(t *testing.T) {
		acct := NewCheckingAccount("ACC002", regularCustomer(), dec(1000))

		delta, balance := acct.ApplyMonthlyCycle()

		assert.True(t, delta.Equal(dec(-10)))
		assert.True(t, balance.Equal(dec(990)))
	})

	t.Run("premium owner has the fee waived", func(t *testing.T) {
		acct := NewCheckingAccount("ACC003", premiumCustomer(), dec(1000))

		delta, balance := acct.ApplyMonthlyCycle()

		assert.True(t, delta.IsZero())
		assert.True(t, balance.Equal(dec(1000)))
	})
}

func TestRehydrate(t *testing.T) {
	owner := regularCustomer()

	t.Run("rebuilds savings with supplied fields", func(t *testing.T) {
		acct, err := Rehydrate(KindSavings, "ACC042", owner, dec(900), StatusActive)

		require.NoError(t, err)
		assert.Equal(t, "ACC042", acct.Number())
		assert.Equal(t, KindSavings, acct.Kind())
		assert.True(t, acct.Balance().Equal(dec(900)))
		assert.Equal(t, StatusActive, acct.Status())
	})

	t.Run("kind is case-insensitive", func(t *testing.T) {
		acct, err := Rehydrate("checking", "ACC043", owner, dec(-100), "")

		require.NoError(t, err)
		assert.Equal(t, KindChecking, acct.Kind())
		assert.Equal(t, StatusActive, acct.Status(), "empty status defaults to Active")
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		_, err := Rehydrate("Money Market", "ACC044", owner, dec(0), StatusActive)
		require.ErrorIs(t, err, ErrUnknownAccountKind)
	})

	t.Run("empty number rejected", func(t *testing.T) {
		_, err := Rehydrate(KindSavings, "", owner, dec(0), StatusActive)
		require.ErrorIs(t, err, ErrInvalidAccountNumber)
	})

	t.Run("rehydrated account enforces the same invariants", func(t *testing.T) {
		acct, err := Rehydrate(KindSavings, "ACC045", owner, dec(550), StatusActive)
		require.NoError(t, err)

		_, err = acct.Withdraw(dec(100))
		require.ErrorIs(t, err, ErrInsufficientFunds)
	})
}
