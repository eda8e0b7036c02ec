package gateway

import (
	"context"
	"strings"
	"testing"
	"time"

	"katalian_bank/internal/config"
	"katalian_bank/internal/domain"
	"katalian_bank/pkg/crypto"
)

func instantGateway() (*SimulatedGateway, *crypto.Signer) {
	signer := crypto.NewSigner("test-secret", nil)
	return NewSimulatedGateway(config.GatewayConfig{}, signer, nil), signer
}

func TestExecuteTransfer_ConfirmationSigned(t *testing.T) {
	g, signer := instantGateway()

	conf, err := g.ExecuteTransfer(context.Background(), "a1", "a2", 30)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(conf.Reference, "TRF-") {
		t.Errorf("expected TRF reference, got %s", conf.Reference)
	}
	ok, err := signer.VerifyConfirmation(conf.Reference, 30, conf.ProcessedAt.Unix(), conf.Signature)
	if !ok || err != nil {
		t.Errorf("confirmation signature did not verify: ok=%v err=%v", ok, err)
	}
}

func TestSubmitApplication_Reference(t *testing.T) {
	g, _ := instantGateway()

	conf, err := g.SubmitApplication(context.Background(), "user1", domain.AccountSavings)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(conf.Reference, "APP-") {
		t.Errorf("expected APP reference, got %s", conf.Reference)
	}
}

func TestWait_CancelledBeforeLatencyElapses(t *testing.T) {
	signer := crypto.NewSigner("test-secret", nil)
	g := NewSimulatedGateway(config.GatewayConfig{TransferDelay: time.Minute}, signer, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.ExecuteTransfer(ctx, "a1", "a2", 30)

	if err == nil {
		t.Fatal("expected context error, got nil")
	}
}

func TestConfirmations_UniqueReferences(t *testing.T) {
	g, _ := instantGateway()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		conf, err := g.ExecuteDeposit(context.Background(), "a1", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, dup := seen[conf.Reference]; dup {
			t.Fatalf("duplicate reference %s", conf.Reference)
		}
		seen[conf.Reference] = struct{}{}
	}
}
