// Package gateway is the simulated remote-call boundary. The "bank backend"
// behind it does not exist: calls sleep for a configured latency and return
// an opaque signed confirmation. The ledger service depends only on the
// eventual result, never on the timing, so tests inject zero latencies.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"katalian_bank/internal/config"
	"katalian_bank/internal/domain"
	"katalian_bank/pkg/crypto"
)

// Confirmation is the opaque receipt a remote call returns. The signature
// covers reference, amount and timestamp.
type Confirmation struct {
	Reference   string    `json:"reference"`
	ProcessedAt time.Time `json:"processed_at"`
	Signature   string    `json:"signature"`
}

type Gateway interface {
	ExecuteTransfer(ctx context.Context, fromAccountID, toAccountID string, amount float64) (Confirmation, error)
	ExecuteDeposit(ctx context.Context, toAccountID string, amount float64) (Confirmation, error)
	SubmitApplication(ctx context.Context, userID string, accType domain.AccountType) (Confirmation, error)
	SubmitLoanApplication(ctx context.Context, userID string, loanType domain.LoanType) (Confirmation, error)
	FileReport(ctx context.Context, userID, accountID string) (Confirmation, error)
}

type SimulatedGateway struct {
	cfg    config.GatewayConfig
	signer *crypto.Signer
	logger *slog.Logger
}

func NewSimulatedGateway(cfg config.GatewayConfig, signer *crypto.Signer, logger *slog.Logger) *SimulatedGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulatedGateway{cfg: cfg, signer: signer, logger: logger}
}

func (g *SimulatedGateway) ExecuteTransfer(ctx context.Context, fromAccountID, toAccountID string, amount float64) (Confirmation, error) {
	if err := g.wait(ctx, g.cfg.TransferDelay); err != nil {
		return Confirmation{}, err
	}
	g.logger.Info("Remote transfer acknowledged",
		slog.String("from_account", fromAccountID),
		slog.String("to_account", toAccountID),
		slog.Float64("amount", amount))
	return g.confirm("TRF", amount), nil
}

func (g *SimulatedGateway) ExecuteDeposit(ctx context.Context, toAccountID string, amount float64) (Confirmation, error) {
	if err := g.wait(ctx, g.cfg.DepositDelay); err != nil {
		return Confirmation{}, err
	}
	g.logger.Info("Remote deposit acknowledged",
		slog.String("to_account", toAccountID),
		slog.Float64("amount", amount))
	return g.confirm("DEP", amount), nil
}

func (g *SimulatedGateway) SubmitApplication(ctx context.Context, userID string, accType domain.AccountType) (Confirmation, error) {
	if err := g.wait(ctx, g.cfg.ApplicationDelay); err != nil {
		return Confirmation{}, err
	}
	g.logger.Info("Remote application acknowledged",
		slog.String("user_id", userID),
		slog.String("account_type", string(accType)))
	return g.confirm("APP", 0), nil
}

func (g *SimulatedGateway) SubmitLoanApplication(ctx context.Context, userID string, loanType domain.LoanType) (Confirmation, error) {
	if err := g.wait(ctx, g.cfg.LoanDelay); err != nil {
		return Confirmation{}, err
	}
	g.logger.Info("Remote loan application acknowledged",
		slog.String("user_id", userID),
		slog.String("loan_type", string(loanType)))
	return g.confirm("LON", 0), nil
}

// FileReport acknowledges a suspicious-activity report. Nothing is recorded
// against the account; the receipt is the whole product.
func (g *SimulatedGateway) FileReport(ctx context.Context, userID, accountID string) (Confirmation, error) {
	if err := g.wait(ctx, g.cfg.ApplicationDelay); err != nil {
		return Confirmation{}, err
	}
	g.logger.Info("Suspicious activity report filed",
		slog.String("user_id", userID),
		slog.String("account_id", accountID))
	return g.confirm("RPT", 0), nil
}

// wait blocks for the simulated latency. Once the latency elapses the result
// is applied unconditionally; there is no cancellation mid-operation, only
// before the delay completes.
func (g *SimulatedGateway) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *SimulatedGateway) confirm(prefix string, amount float64) Confirmation {
	now := time.Now()
	ref := fmt.Sprintf("%s-%s", prefix, uuid.NewString())
	return Confirmation{
		Reference:   ref,
		ProcessedAt: now,
		Signature:   g.signer.SignConfirmation(ref, amount, now.Unix()),
	}
}

var _ Gateway = (*SimulatedGateway)(nil)
