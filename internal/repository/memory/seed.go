package memory

import (
	"context"
	"fmt"

	"katalian_bank/internal/domain"
)

// SeedUsers returns the demo user population the system boots with.
// Balances and account numbers are fixed so the demo behaves the same on
// every run.
func SeedUsers() []*domain.User {
	return []*domain.User{
		{
			ID:                  "user1",
			Username:            "bankinguser123",
			PasswordHash:        "notapassword@123",
			Locked:              false,
			CanApplyForPlatinum: true,
			Accounts: []domain.Account{
				{ID: "acc1-1", Type: domain.AccountChecking, AccountNumber: "...7890", Balance: 5345.54, Status: domain.AccountActive},
				{ID: "acc1-2", Type: domain.AccountSavings, AccountNumber: "...1234", Balance: 104456.67, Status: domain.AccountActive},
			},
			Loans: []domain.Loan{},
		},
		{
			ID:                  "user4",
			Username:            "lockedout25",
			PasswordHash:        "lockedoutpassword343",
			UnlockPasswordHash:  "resetpassword@45",
			Locked:              true,
			CanApplyForPlatinum: false,
			Accounts: []domain.Account{
				{ID: "acc4-1", Type: domain.AccountChecking, AccountNumber: "...3456", Balance: 12.14, Status: domain.AccountActive},
			},
			Loans: []domain.Loan{},
		},
	}
}

// Seed loads the demo users into the repository.
func Seed(ctx context.Context, repo *UserRepository) error {
	for _, u := range SeedUsers() {
		if err := repo.Save(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	return nil
}
