package ledger

import (
	"errors"
	"testing"

	"katalian_bank/internal/domain"
	"katalian_bank/internal/repository"
)

func checkingPair() []domain.Account {
	return []domain.Account{
		{ID: "acc-1", Type: domain.AccountChecking, AccountNumber: "...1111", Balance: 100.00, Status: domain.AccountActive},
		{ID: "acc-2", Type: domain.AccountSavings, AccountNumber: "...2222", Balance: 50.00, Status: domain.AccountActive},
	}
}

func TestTransferMovesFunds(t *testing.T) {
	accounts := checkingPair()

	out, err := Transfer(accounts, "acc-1", "acc-2", 30.00)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out[0].Balance != 70.00 {
		t.Errorf("expected source balance 70.00, got %.2f", out[0].Balance)
	}
	if out[1].Balance != 80.00 {
		t.Errorf("expected destination balance 80.00, got %.2f", out[1].Balance)
	}
	if got := out[0].Balance + out[1].Balance; got != 150.00 {
		t.Errorf("expected total 150.00 preserved, got %.2f", got)
	}
}

func TestTransferAppendsOneEntryPerAccount(t *testing.T) {
	out, err := Transfer(checkingPair(), "acc-1", "acc-2", 30.00)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out[0].Transactions) != 1 || len(out[1].Transactions) != 1 {
		t.Fatalf("expected one statement entry per account, got %d and %d",
			len(out[0].Transactions), len(out[1].Transactions))
	}
	if out[0].Transactions[0].Type != domain.EntryDebit {
		t.Errorf("expected debit entry on source, got %s", out[0].Transactions[0].Type)
	}
	if out[1].Transactions[0].Type != domain.EntryCredit {
		t.Errorf("expected credit entry on destination, got %s", out[1].Transactions[0].Type)
	}
	if out[0].Transactions[0].ID == out[1].Transactions[0].ID {
		t.Error("expected distinct entry IDs")
	}
}

func TestTransferRejections(t *testing.T) {
	accounts := []domain.Account{
		{ID: "acc-1", Type: domain.AccountChecking, AccountNumber: "...1111", Balance: 100.00, Status: domain.AccountActive},
		{ID: "acc-2", Type: domain.AccountSavings, AccountNumber: "...2222", Balance: 50.00, Status: domain.AccountActive},
		{ID: "acc-3", Type: domain.AccountCreditCard, AccountNumber: "...3333", Balance: 20.00, Status: domain.AccountActive},
		{ID: "acc-4", Type: domain.AccountChecking, AccountNumber: "...4444", Balance: 75.00, Status: domain.AccountFrozen},
	}

	testCases := []struct {
		name    string
		fromID  string
		toID    string
		amount  float64
		wantErr error
	}{
		{"zero amount", "acc-1", "acc-2", 0, repository.ErrInvalidAmount},
		{"negative amount", "acc-1", "acc-2", -5.00, repository.ErrInvalidAmount},
		{"same account", "acc-1", "acc-1", 10.00, repository.ErrSameAccount},
		{"unknown source", "acc-9", "acc-2", 10.00, repository.ErrNotFound},
		{"unknown destination", "acc-1", "acc-9", 10.00, repository.ErrNotFound},
		{"insufficient funds", "acc-1", "acc-2", 100.01, repository.ErrInsufficientFunds},
		{"credit card as source", "acc-3", "acc-2", 10.00, repository.ErrIneligibleSource},
		{"frozen source", "acc-4", "acc-2", 10.00, repository.ErrIneligibleSource},
		{"payment exceeds owed", "acc-1", "acc-3", 20.01, repository.ErrInvalidAmount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Transfer(accounts, tc.fromID, tc.toID, tc.amount)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if out != nil {
				t.Error("expected no snapshot on rejection")
			}
		})
	}

	// Rejections must leave the input untouched.
	if accounts[0].Balance != 100.00 || accounts[1].Balance != 50.00 {
		t.Errorf("input snapshot mutated: %.2f, %.2f", accounts[0].Balance, accounts[1].Balance)
	}
	for _, acc := range accounts {
		if len(acc.Transactions) != 0 {
			t.Errorf("account %s gained statement entries on rejected operations", acc.ID)
		}
	}
}

func TestTransferToCreditCardPaysDownBalance(t *testing.T) {
	accounts := []domain.Account{
		{ID: "acc-1", Type: domain.AccountChecking, AccountNumber: "...1111", Balance: 500.00, Status: domain.AccountActive},
		{ID: "acc-2", Type: domain.AccountCreditCard, AccountNumber: "...2222", Balance: 340.00, Status: domain.AccountActive},
	}

	out, err := Transfer(accounts, "acc-1", "acc-2", 140.00)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out[0].Balance != 360.00 {
		t.Errorf("expected source balance 360.00, got %.2f", out[0].Balance)
	}
	if out[1].Balance != 200.00 {
		t.Errorf("expected owed balance reduced to 200.00, got %.2f", out[1].Balance)
	}
	if got := out[1].Transactions[0].Category; got != domain.CategoryPayment {
		t.Errorf("expected payment category on card entry, got %s", got)
	}
}

func TestDepositExternal(t *testing.T) {
	out, err := Deposit(checkingPair(), "acc-2", 25.50, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out[1].Balance != 75.50 {
		t.Errorf("expected balance 75.50, got %.2f", out[1].Balance)
	}
	if out[0].Balance != 100.00 {
		t.Errorf("external deposit must not touch other accounts, source now %.2f", out[0].Balance)
	}
	if len(out[1].Transactions) != 1 || out[1].Transactions[0].Category != domain.CategoryDeposit {
		t.Error("expected a single deposit entry on the destination")
	}
}

func TestDepositFromOwnAccount(t *testing.T) {
	out, err := Deposit(checkingPair(), "acc-2", 30.00, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out[0].Balance != 70.00 || out[1].Balance != 80.00 {
		t.Errorf("expected 70.00/80.00 after funded deposit, got %.2f/%.2f",
			out[0].Balance, out[1].Balance)
	}
}

func TestDepositToCreditCardPaysDownOwedBalance(t *testing.T) {
	card := []domain.Account{
		{ID: "acc-1", Type: domain.AccountCreditCard, AccountNumber: "...2222", Balance: 20.00, Status: domain.AccountActive},
	}

	out, err := Deposit(card, "acc-1", 20.00, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Balance != 0.00 {
		t.Errorf("expected owed balance paid down to 0.00, got %.2f", out[0].Balance)
	}
	if got := out[0].Transactions[0].Category; got != domain.CategoryPayment {
		t.Errorf("expected payment category on card entry, got %s", got)
	}

	if _, err := Deposit(card, "acc-1", 100.00, ""); !errors.Is(err, repository.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount when payment exceeds amount owed, got %v", err)
	}
	if card[0].Balance != 20.00 {
		t.Errorf("input snapshot mutated: %.2f", card[0].Balance)
	}
}

func TestDepositRejectsInvalidAmount(t *testing.T) {
	if _, err := Deposit(checkingPair(), "acc-2", 0, ""); !errors.Is(err, repository.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := Deposit(checkingPair(), "acc-9", 10.00, ""); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenAccountFunded(t *testing.T) {
	accounts := []domain.Account{
		{ID: "acc-1", Type: domain.AccountChecking, AccountNumber: "...1111", Balance: 500.00, Status: domain.AccountActive},
	}
	app := domain.ApplicationData{InitialDeposit: 200.00, DepositFromAccountID: "acc-1"}

	out, created, err := OpenAccount(accounts, app, domain.AccountSavings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(out))
	}
	if out[0].Balance != 300.00 {
		t.Errorf("expected funding account at 300.00, got %.2f", out[0].Balance)
	}
	if created.Balance != 200.00 {
		t.Errorf("expected new account at 200.00, got %.2f", created.Balance)
	}
	if created.Status != domain.AccountActive {
		t.Errorf("expected new savings account Active, got %s", created.Status)
	}
	if len(created.Transactions) != 1 || created.Transactions[0].Category != domain.CategoryAccountOpening {
		t.Error("expected an opening-deposit entry on the new account")
	}
	if created.ID == "" || created.ID == out[0].ID {
		t.Error("expected a fresh unique account ID")
	}
}

func TestOpenAccountCreditProductsStartPending(t *testing.T) {
	for _, accType := range []domain.AccountType{domain.AccountCreditCard, domain.AccountPlatinumCard} {
		out, created, err := OpenAccount(nil, domain.ApplicationData{}, accType)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", accType, err)
		}
		if created.Status != domain.AccountPending {
			t.Errorf("%s: expected Pending status, got %s", accType, created.Status)
		}
		if len(out) != 1 {
			t.Errorf("%s: expected single new account, got %d", accType, len(out))
		}
	}
}

func TestOpenAccountFundingRejections(t *testing.T) {
	accounts := []domain.Account{
		{ID: "acc-1", Type: domain.AccountChecking, AccountNumber: "...1111", Balance: 100.00, Status: domain.AccountActive},
		{ID: "acc-2", Type: domain.AccountCreditCard, AccountNumber: "...2222", Balance: 50.00, Status: domain.AccountActive},
	}

	testCases := []struct {
		name    string
		app     domain.ApplicationData
		accType domain.AccountType
		wantErr error
	}{
		{"unknown type", domain.ApplicationData{}, domain.AccountType("Money Market"), repository.ErrNotFound},
		{"negative deposit", domain.ApplicationData{InitialDeposit: -1}, domain.AccountSavings, repository.ErrInvalidAmount},
		{"unknown funding account", domain.ApplicationData{InitialDeposit: 50, DepositFromAccountID: "acc-9"}, domain.AccountSavings, repository.ErrNotFound},
		{"credit card as funding source", domain.ApplicationData{InitialDeposit: 25, DepositFromAccountID: "acc-2"}, domain.AccountSavings, repository.ErrIneligibleSource},
		{"funding exceeds balance", domain.ApplicationData{InitialDeposit: 100.01, DepositFromAccountID: "acc-1"}, domain.AccountSavings, repository.ErrInsufficientFunds},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, created, err := OpenAccount(accounts, tc.app, tc.accType)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if out != nil || created != nil {
				t.Error("expected no account created on rejection")
			}
		})
	}

	if accounts[0].Balance != 100.00 {
		t.Errorf("input snapshot mutated: %.2f", accounts[0].Balance)
	}
}

func TestOpenLoanUsesCatalogRate(t *testing.T) {
	app := domain.LoanApplicationData{LoanAmount: 15000.00, LoanTermMonths: 48}

	for _, product := range LoanProducts() {
		loans, created, err := OpenLoan(nil, app, product.Type)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", product.Type, err)
		}
		if created.InterestRate != product.Rate {
			t.Errorf("%s: expected catalog rate %.2f, got %.2f", product.Type, product.Rate, created.InterestRate)
		}
		if created.Status != domain.LoanPending {
			t.Errorf("%s: expected Pending status, got %s", product.Type, created.Status)
		}
		if len(loans) != 1 || loans[0].ID != created.ID {
			t.Errorf("%s: expected the new loan appended to the snapshot", product.Type)
		}
	}
}

func TestOpenLoanRejections(t *testing.T) {
	if _, _, err := OpenLoan(nil, domain.LoanApplicationData{LoanAmount: 1000}, domain.LoanType("Payday")); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown product, got %v", err)
	}
	if _, _, err := OpenLoan(nil, domain.LoanApplicationData{LoanAmount: 0}, domain.LoanPersonal); !errors.Is(err, repository.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestLockdownDoesNotMutateInput(t *testing.T) {
	user := &domain.User{ID: "user1", Username: "user1"}

	locked := Lockdown(user)
	if !locked.Locked {
		t.Error("expected returned user locked")
	}
	if user.Locked {
		t.Error("input user must stay unlocked")
	}
}

func TestRateForUnknownProduct(t *testing.T) {
	if _, err := RateFor(domain.LoanType("Payday")); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
