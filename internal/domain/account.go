package domain

type AccountType string

const (
	AccountChecking     AccountType = "Checking"
	AccountSavings      AccountType = "Savings"
	AccountCreditCard   AccountType = "Credit Card"
	AccountPlatinumCard AccountType = "Platinum Credit Card"
)

type AccountStatus string

const (
	AccountPending AccountStatus = "Pending"
	AccountActive  AccountStatus = "Active"
	AccountFrozen  AccountStatus = "Frozen"
)

// Account balance is the authoritative figure. For credit-card accounts the
// balance represents the amount owed, not funds available. Transactions is an
// append-only statement trail written by the same mutation that moves the
// balance, so the two stay consistent.
type Account struct {
	ID            string        `json:"id"`
	Type          AccountType   `json:"type"`
	AccountNumber string        `json:"account_number"`
	Balance       float64       `json:"balance"`
	Status        AccountStatus `json:"status,omitempty"`
	Transactions  []Transaction `json:"transactions,omitempty"`
}

// IsCreditProduct reports whether the account is a card product whose balance
// represents indebtedness.
func (a Account) IsCreditProduct() bool {
	return a.Type == AccountCreditCard || a.Type == AccountPlatinumCard
}

// CanFundTransfers reports whether the account may act as the source side of
// a transfer or funding debit. Only active deposit accounts qualify; pending
// card products and frozen accounts never do.
func (a Account) CanFundTransfers() bool {
	if a.Type != AccountChecking && a.Type != AccountSavings {
		return false
	}
	return a.Status == "" || a.Status == AccountActive
}

func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCreditCard, AccountPlatinumCard:
		return true
	}
	return false
}
