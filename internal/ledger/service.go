package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"katalian_bank/internal/domain"
	"katalian_bank/internal/gateway"
	"katalian_bank/internal/notify"
	"katalian_bank/internal/repository"
	"katalian_bank/pkg/metrics"
	"katalian_bank/pkg/validator"
)

// Service orchestrates ledger operations: fetch a user snapshot, validate,
// wait out the simulated remote call, apply the pure mutation and replace the
// stored record. A single mutex models the one-in-flight-operation-per-session
// contract; a second operation cannot begin until the first commits.
type Service struct {
	userRepo  repository.UserRepository
	gateway   gateway.Gateway
	validator *validator.ApplicationValidator
	metrics   *metrics.MetricsCollector
	notifier  *notify.Service
	logger    *slog.Logger
	mu        sync.Mutex
}

func NewService(
	userRepo repository.UserRepository,
	gw gateway.Gateway,
	collector *metrics.MetricsCollector,
	notifier *notify.Service,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		userRepo:  userRepo,
		gateway:   gw,
		validator: validator.NewApplicationValidator(MinimumOpeningDeposit),
		metrics:   collector,
		notifier:  notifier,
		logger:    logger,
	}
}

func (s *Service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Transfer moves funds between two of the user's accounts.
func (s *Service) Transfer(ctx context.Context, userID, fromAccountID, toAccountID string, amount float64) (*domain.User, gateway.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	s.logger.InfoContext(ctx, "Processing transfer",
		slog.String("user_id", userID),
		slog.String("from_account", fromAccountID),
		slog.String("to_account", toAccountID),
		slog.Float64("amount", amount))

	user, err := s.activeUser(ctx, userID)
	if err != nil {
		s.metrics.RecordOperation("transfer", time.Since(start), false)
		return nil, gateway.Confirmation{}, err
	}

	// The mutation is computed up front: it doubles as the last validation
	// pass, and nothing is committed until the remote call confirms.
	accounts, err := Transfer(user.Accounts, fromAccountID, toAccountID, amount)
	if err != nil {
		s.metrics.RecordOperation("transfer", time.Since(start), false)
		return nil, gateway.Confirmation{}, err
	}

	conf, err := s.gateway.ExecuteTransfer(ctx, fromAccountID, toAccountID, amount)
	if err != nil {
		s.metrics.RecordOperation("transfer", time.Since(start), false)
		return nil, gateway.Confirmation{}, fmt.Errorf("remote transfer: %w", err)
	}

	user.Accounts = accounts
	if err := s.commit(ctx, user); err != nil {
		s.metrics.RecordOperation("transfer", time.Since(start), false)
		return nil, gateway.Confirmation{}, err
	}

	s.metrics.RecordOperation("transfer", time.Since(start), true)
	s.notifyConfirmation(ctx, user, "transfer", amount, conf.Reference)
	s.logger.InfoContext(ctx, "Transfer completed",
		slog.String("user_id", userID),
		slog.String("reference", conf.Reference))
	return user, conf, nil
}

// Deposit credits an account, optionally debiting one of the user's own
// accounts as the funding source.
func (s *Service) Deposit(ctx context.Context, userID, toAccountID string, amount float64, fromAccountID string) (*domain.User, gateway.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	s.logger.InfoContext(ctx, "Processing deposit",
		slog.String("user_id", userID),
		slog.String("to_account", toAccountID),
		slog.Float64("amount", amount))

	user, err := s.activeUser(ctx, userID)
	if err != nil {
		s.metrics.RecordOperation("deposit", time.Since(start), false)
		return nil, gateway.Confirmation{}, err
	}

	accounts, err := Deposit(user.Accounts, toAccountID, amount, fromAccountID)
	if err != nil {
		s.metrics.RecordOperation("deposit", time.Since(start), false)
		return nil, gateway.Confirmation{}, err
	}

	conf, err := s.gateway.ExecuteDeposit(ctx, toAccountID, amount)
	if err != nil {
		s.metrics.RecordOperation("deposit", time.Since(start), false)
		return nil, gateway.Confirmation{}, fmt.Errorf("remote deposit: %w", err)
	}

	user.Accounts = accounts
	if err := s.commit(ctx, user); err != nil {
		s.metrics.RecordOperation("deposit", time.Since(start), false)
		return nil, gateway.Confirmation{}, err
	}

	s.metrics.RecordOperation("deposit", time.Since(start), true)
	s.notifyConfirmation(ctx, user, "deposit", amount, conf.Reference)
	s.logger.InfoContext(ctx, "Deposit completed",
		slog.String("user_id", userID),
		slog.String("reference", conf.Reference))
	return user, conf, nil
}

// OpenAccount runs an account application end to end: form validation, the
// simulated remote submission, then account creation with optional funding
// debit in a single snapshot swap.
func (s *Service) OpenAccount(ctx context.Context, userID string, app domain.ApplicationData, accType domain.AccountType) (*domain.User, *domain.Account, gateway.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	s.logger.InfoContext(ctx, "Processing account application",
		slog.String("user_id", userID),
		slog.String("account_type", string(accType)))

	user, err := s.activeUser(ctx, userID)
	if err != nil {
		s.metrics.RecordOperation("open_account", time.Since(start), false)
		return nil, nil, gateway.Confirmation{}, err
	}

	if err := s.validator.ValidateApplication(user, app, accType); err != nil {
		s.metrics.RecordOperation("open_account", time.Since(start), false)
		return nil, nil, gateway.Confirmation{}, err
	}

	accounts, newAccount, err := OpenAccount(user.Accounts, app, accType)
	if err != nil {
		s.metrics.RecordOperation("open_account", time.Since(start), false)
		return nil, nil, gateway.Confirmation{}, err
	}

	conf, err := s.gateway.SubmitApplication(ctx, userID, accType)
	if err != nil {
		s.metrics.RecordOperation("open_account", time.Since(start), false)
		return nil, nil, gateway.Confirmation{}, fmt.Errorf("remote application: %w", err)
	}

	user.Accounts = accounts
	if err := s.commit(ctx, user); err != nil {
		s.metrics.RecordOperation("open_account", time.Since(start), false)
		return nil, nil, gateway.Confirmation{}, err
	}

	s.metrics.RecordOperation("open_account", time.Since(start), true)
	s.notifyConfirmation(ctx, user, "account application", app.InitialDeposit, conf.Reference)
	s.logger.InfoContext(ctx, "Account opened",
		slog.String("user_id", userID),
		slog.String("account_id", newAccount.ID),
		slog.String("status", string(newAccount.Status)))
	return user, newAccount, conf, nil
}

// OpenLoan runs a loan application: validation, remote submission, then loan
// creation. Account balances never move here.
func (s *Service) OpenLoan(ctx context.Context, userID string, app domain.LoanApplicationData, loanType domain.LoanType) (*domain.User, *domain.Loan, gateway.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	s.logger.InfoContext(ctx, "Processing loan application",
		slog.String("user_id", userID),
		slog.String("loan_type", string(loanType)))

	user, err := s.activeUser(ctx, userID)
	if err != nil {
		s.metrics.RecordOperation("open_loan", time.Since(start), false)
		return nil, nil, gateway.Confirmation{}, err
	}

	if !domain.ValidLoanType(loanType) {
		s.metrics.RecordOperation("open_loan", time.Since(start), false)
		return nil, nil, gateway.Confirmation{}, fmt.Errorf("%w: loan type %s", repository.ErrNotFound, loanType)
	}

	if err := s.validator.ValidateLoanApplication(user, app); err != nil {
		s.metrics.RecordOperation("open_loan", time.Since(start), false)
		return nil, nil, gateway.Confirmation{}, err
	}

	loans, newLoan, err := OpenLoan(user.Loans, app, loanType)
	if err != nil {
		s.metrics.RecordOperation("open_loan", time.Since(start), false)
		return nil, nil, gateway.Confirmation{}, err
	}

	conf, err := s.gateway.SubmitLoanApplication(ctx, userID, loanType)
	if err != nil {
		s.metrics.RecordOperation("open_loan", time.Since(start), false)
		return nil, nil, gateway.Confirmation{}, fmt.Errorf("remote loan application: %w", err)
	}

	user.Loans = loans
	if err := s.commit(ctx, user); err != nil {
		s.metrics.RecordOperation("open_loan", time.Since(start), false)
		return nil, nil, gateway.Confirmation{}, err
	}

	s.metrics.RecordOperation("open_loan", time.Since(start), true)
	s.notifyConfirmation(ctx, user, "loan application", 0, conf.Reference)
	s.logger.InfoContext(ctx, "Loan application recorded",
		slog.String("user_id", userID),
		slog.String("loan_id", newLoan.ID),
		slog.Float64("interest_rate", newLoan.InterestRate))
	return user, newLoan, conf, nil
}

// Lockdown flags the user as locked. The caller is responsible for ending
// the session afterwards.
func (s *Service) Lockdown(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	locked := Lockdown(user)
	if err := s.userRepo.Replace(ctx, locked); err != nil {
		return nil, err
	}

	s.notifySecurity(ctx, locked, "account lockdown engaged")
	s.logger.WarnContext(ctx, "User lockdown engaged", slog.String("user_id", userID))
	return locked, nil
}

// Report files a suspicious-activity report for one of the user's accounts.
// No account state changes; the signed confirmation is the entire outcome.
func (s *Service) Report(ctx context.Context, userID, accountID string) (gateway.Confirmation, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return gateway.Confirmation{}, err
	}
	if user.FindAccount(accountID) < 0 {
		return gateway.Confirmation{}, fmt.Errorf("%w: account %s", repository.ErrNotFound, accountID)
	}

	conf, err := s.gateway.FileReport(ctx, userID, accountID)
	if err != nil {
		return gateway.Confirmation{}, fmt.Errorf("remote report: %w", err)
	}
	s.notifySecurity(ctx, user, "suspicious activity report filed")
	return conf, nil
}

func (s *Service) notifyConfirmation(ctx context.Context, user *domain.User, operation string, amount float64, reference string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.ConfirmOperation(ctx, user.Username, operation, amount, reference); err != nil {
		s.logger.WarnContext(ctx, "Confirmation notification dropped", slog.String("error", err.Error()))
	}
}

func (s *Service) notifySecurity(ctx context.Context, user *domain.User, event string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SecurityAlert(ctx, user.Username, event); err != nil {
		s.logger.WarnContext(ctx, "Security notification dropped", slog.String("error", err.Error()))
	}
}

func (s *Service) activeUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Locked {
		return nil, fmt.Errorf("%w: user %s", repository.ErrUserLocked, userID)
	}
	return user, nil
}

func (s *Service) commit(ctx context.Context, user *domain.User) error {
	if err := s.userRepo.Replace(ctx, user); err != nil {
		return fmt.Errorf("commit user %s: %w", user.ID, err)
	}
	for _, acc := range user.Accounts {
		s.metrics.UpdateAccountBalance(acc.ID, string(acc.Type), acc.Balance)
	}
	return nil
}
