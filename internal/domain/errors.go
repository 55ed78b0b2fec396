package domain

import "errors"

var (
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInsufficientFunds      = errors.New("insufficient funds: balance would drop below the minimum")
	ErrOverdraftExceeded      = errors.New("overdraft limit exceeded")
	ErrInvalidAccount         = errors.New("transfer target must be a different, existing account")
	ErrDuplicateAccount       = errors.New("account number already registered")
	ErrAccountNotFound        = errors.New("account not found")
	ErrInvalidAccountNumber   = errors.New("invalid account number format")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrUnknownAccountKind     = errors.New("unknown account kind")

	ErrInvalidName                = errors.New("name can only contain letters and spaces")
	ErrInvalidAge                 = errors.New("customer must be at least 18 years old")
	ErrInvalidContact             = errors.New("contact number must be exactly 10 digits")
	ErrInvalidEmail               = errors.New("invalid email format")
	ErrInsufficientInitialDeposit = errors.New("initial deposit below the savings minimum balance")
)
