package domain

type CustomerTier string

const (
	TierRegular CustomerTier = "Regular"
	TierPremium CustomerTier = "Premium"
)

// WaivesMonthlyFee reports whether accounts owned by this tier skip the
// checking monthly fee.
func (t CustomerTier) WaivesMonthlyFee() bool {
	return t == TierPremium
}

// Customer owns one or more accounts. The ledger only ever reads it.
type Customer struct {
	ID      string
	Name    string
	Age     int
	Contact string
	Email   string
	Address string
	Tier    CustomerTier
}
