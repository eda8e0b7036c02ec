package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	EntryCredit TransactionType = "Credit"
	EntryDebit  TransactionType = "Debit"
)

const (
	CategoryTransfer       = "Transfer"
	CategoryDeposit        = "Deposit"
	CategoryPayment        = "Payment"
	CategoryAccountOpening = "Account Opening"
)

// Transaction is a statement entry on a single account. Entries are
// append-only and exist for display and statement generation; the account's
// running balance remains the authoritative figure. Both are produced by the
// same snapshot mutation, which keeps them from drifting apart.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
}

func NewTransaction(t TransactionType, amount float64, description, category string) Transaction {
	return Transaction{
		ID:          uuid.NewString(),
		Date:        time.Now(),
		Description: description,
		Amount:      amount,
		Type:        t,
		Category:    category,
	}
}
