package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	accountNumberPattern = regexp.MustCompile(`^ACC\d{3}$`)
	contactPattern       = regexp.MustCompile(`^\d{10}$`)
	namePattern          = regexp.MustCompile(`^[a-zA-Z ]+$`)
	emailPattern         = regexp.MustCompile(`^[A-Za-z0-9+._%-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// ValidateAccountNumber checks the ACC### format without consulting any
// registry, so format failures stay distinguishable from lookup misses.
func ValidateAccountNumber(number string) error {
	if !accountNumberPattern.MatchString(number) {
		return ErrInvalidAccountNumber
	}
	return nil
}

func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" || !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

func ValidateAge(age int) error {
	if age < 18 {
		return ErrInvalidAge
	}
	return nil
}

func ValidateContact(contact string) error {
	if !contactPattern.MatchString(contact) {
		return ErrInvalidContact
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateInitialDeposit enforces the variant's opening rule: savings
// accounts must open at or above the minimum balance.
func ValidateInitialDeposit(kind AccountKind, amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if strings.EqualFold(string(kind), string(KindSavings)) && amount.LessThan(SavingsMinimumBalance) {
		return ErrInsufficientInitialDeposit
	}
	return nil
}
