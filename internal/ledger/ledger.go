// Package ledger holds the account-ledger mutation core: pure functions that
// take a snapshot of a user's accounts or loans and return a new consistent
// snapshot. No partial state is ever observable; an operation either yields a
// fully updated list or an error with the input untouched.
package ledger

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"

	"katalian_bank/internal/domain"
	"katalian_bank/internal/repository"
)

// Transfer debits the source account and credits the destination, leaving
// every other account untouched. When the destination is a credit-card
// product the credit pays down the owed balance instead of increasing it;
// the payment may not exceed the amount owed.
func Transfer(accounts []domain.Account, fromID, toID string, amount float64) ([]domain.Account, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %.2f", repository.ErrInvalidAmount, amount)
	}
	if fromID == toID {
		return nil, repository.ErrSameAccount
	}

	fromIdx := indexOf(accounts, fromID)
	if fromIdx < 0 {
		return nil, fmt.Errorf("%w: account %s", repository.ErrNotFound, fromID)
	}
	toIdx := indexOf(accounts, toID)
	if toIdx < 0 {
		return nil, fmt.Errorf("%w: account %s", repository.ErrNotFound, toID)
	}

	from := accounts[fromIdx]
	to := accounts[toIdx]

	if !from.CanFundTransfers() {
		return nil, fmt.Errorf("%w: %s %s", repository.ErrIneligibleSource, from.Type, from.AccountNumber)
	}
	if amount > from.Balance {
		return nil, fmt.Errorf("%w: account %s", repository.ErrInsufficientFunds, fromID)
	}

	category := domain.CategoryTransfer
	if to.IsCreditProduct() {
		category = domain.CategoryPayment
		if amount > to.Balance {
			return nil, fmt.Errorf("%w: payment %.2f exceeds amount owed %.2f", repository.ErrInvalidAmount, amount, to.Balance)
		}
	}

	out := slices.Clone(accounts)
	out[fromIdx] = debit(from, amount, fmt.Sprintf("Transfer to %s %s", to.Type, to.AccountNumber), category)
	out[toIdx] = credit(to, amount, fmt.Sprintf("Transfer from %s %s", from.Type, from.AccountNumber), category)
	return out, nil
}

// Deposit credits the destination account. With an empty fromID the funds are
// treated as external and no account is debited; with a funding source the
// debit and credit land in the same snapshot under the transfer atomicity
// contract. Credit-card destinations follow the same pay-down cap as
// Transfer.
func Deposit(accounts []domain.Account, toID string, amount float64, fromID string) ([]domain.Account, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %.2f", repository.ErrInvalidAmount, amount)
	}
	if fromID != "" {
		return Transfer(accounts, fromID, toID, amount)
	}

	toIdx := indexOf(accounts, toID)
	if toIdx < 0 {
		return nil, fmt.Errorf("%w: account %s", repository.ErrNotFound, toID)
	}

	to := accounts[toIdx]
	category := domain.CategoryDeposit
	if to.IsCreditProduct() {
		category = domain.CategoryPayment
		if amount > to.Balance {
			return nil, fmt.Errorf("%w: payment %.2f exceeds amount owed %.2f", repository.ErrInvalidAmount, amount, to.Balance)
		}
	}

	out := slices.Clone(accounts)
	out[toIdx] = credit(to, amount, "External deposit", category)
	return out, nil
}

// OpenAccount appends a newly created account, debiting the funding source in
// the same update when one is given. This is the only place Account records
// are created. Funding sufficiency is re-checked here regardless of upstream
// validation.
func OpenAccount(accounts []domain.Account, app domain.ApplicationData, accType domain.AccountType) ([]domain.Account, *domain.Account, error) {
	if !domain.ValidAccountType(accType) {
		return nil, nil, fmt.Errorf("%w: account type %s", repository.ErrNotFound, accType)
	}
	if app.InitialDeposit < 0 {
		return nil, nil, fmt.Errorf("%w: %.2f", repository.ErrInvalidAmount, app.InitialDeposit)
	}

	out := slices.Clone(accounts)

	if app.DepositFromAccountID != "" && app.InitialDeposit > 0 {
		srcIdx := indexOf(accounts, app.DepositFromAccountID)
		if srcIdx < 0 {
			return nil, nil, fmt.Errorf("%w: account %s", repository.ErrNotFound, app.DepositFromAccountID)
		}
		src := accounts[srcIdx]
		if !src.CanFundTransfers() {
			return nil, nil, fmt.Errorf("%w: %s %s", repository.ErrIneligibleSource, src.Type, src.AccountNumber)
		}
		if app.InitialDeposit > src.Balance {
			return nil, nil, fmt.Errorf("%w: account %s", repository.ErrInsufficientFunds, src.ID)
		}
		out[srcIdx] = debit(src, app.InitialDeposit, fmt.Sprintf("Funding for new %s account", accType), domain.CategoryAccountOpening)
	}

	newAccount := domain.Account{
		ID:            uuid.NewString(),
		Type:          accType,
		AccountNumber: synthesizeAccountNumber(),
		Balance:       app.InitialDeposit,
		Status:        domain.AccountActive,
	}
	if newAccount.IsCreditProduct() {
		// Credit products await approval and cannot fund transfers until then.
		newAccount.Status = domain.AccountPending
	}
	if app.InitialDeposit > 0 {
		newAccount.Transactions = []domain.Transaction{
			domain.NewTransaction(domain.EntryCredit, app.InitialDeposit, "Opening deposit", domain.CategoryAccountOpening),
		}
	}

	out = append(out, newAccount)
	return out, &newAccount, nil
}

// OpenLoan appends a new loan with the catalog rate for its type. Loans are a
// separate ledger; no account balance moves here.
func OpenLoan(loans []domain.Loan, app domain.LoanApplicationData, loanType domain.LoanType) ([]domain.Loan, *domain.Loan, error) {
	rate, err := RateFor(loanType)
	if err != nil {
		return nil, nil, err
	}
	if app.LoanAmount <= 0 {
		return nil, nil, fmt.Errorf("%w: %.2f", repository.ErrInvalidAmount, app.LoanAmount)
	}

	newLoan := domain.Loan{
		ID:           uuid.NewString(),
		Type:         loanType,
		Amount:       app.LoanAmount,
		InterestRate: rate,
		Status:       domain.LoanPending,
		TermMonths:   app.LoanTermMonths,
	}

	out := append(slices.Clone(loans), newLoan)
	return out, &newLoan, nil
}

// Lockdown returns a copy of the user with the locked flag set. Reporting a
// stolen asset, by contrast, changes nothing in the ledger; that asymmetry is
// intended.
func Lockdown(user *domain.User) *domain.User {
	cp := *user
	cp.Locked = true
	return &cp
}

func indexOf(accounts []domain.Account, id string) int {
	for i := range accounts {
		if accounts[i].ID == id {
			return i
		}
	}
	return -1
}

func debit(acc domain.Account, amount float64, description, category string) domain.Account {
	acc.Balance -= amount
	acc.Transactions = append(slices.Clone(acc.Transactions),
		domain.NewTransaction(domain.EntryDebit, amount, description, category))
	return acc
}

// credit adds funds to a deposit account. For credit products the balance is
// the amount owed, so a credit reduces it.
func credit(acc domain.Account, amount float64, description, category string) domain.Account {
	if acc.IsCreditProduct() {
		acc.Balance -= amount
	} else {
		acc.Balance += amount
	}
	acc.Transactions = append(slices.Clone(acc.Transactions),
		domain.NewTransaction(domain.EntryCredit, amount, description, category))
	return acc
}

func synthesizeAccountNumber() string {
	return fmt.Sprintf("...%04d", 1000+rand.IntN(9000))
}
