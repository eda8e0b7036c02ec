package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
)

type Signer struct {
	secretKey []byte
	logger    *slog.Logger
}

func NewSigner(secretKey string, logger *slog.Logger) *Signer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Signer{
		secretKey: []byte(secretKey),
		logger:    logger,
	}
}

func (s *Signer) Sign(data []byte) string {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write(data)
	signature := mac.Sum(nil)
	return hex.EncodeToString(signature)
}

func (s *Signer) Verify(data []byte, signature string) (bool, error) {
	expectedSignature := s.Sign(data)

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		s.logger.Warn("Signature verification failed",
			slog.String("expected", expectedSignature),
			slog.String("received", signature))
		return false, fmt.Errorf("invalid signature")
	}

	return true, nil
}

// SignConfirmation signs an operation confirmation receipt so its reference,
// amount and timestamp cannot be tampered with after issue.
func (s *Signer) SignConfirmation(reference string, amount float64, processedAt int64) string {
	data := fmt.Sprintf("%s:%.2f:%d", reference, amount, processedAt)
	return s.Sign([]byte(data))
}

func (s *Signer) VerifyConfirmation(reference string, amount float64, processedAt int64, signature string) (bool, error) {
	data := fmt.Sprintf("%s:%.2f:%d", reference, amount, processedAt)
	return s.Verify([]byte(data), signature)
}

// CompareCredential is a constant-time equality check for login credentials.
// The simulation stores seed credentials verbatim, so this is plain string
// comparison hardened against timing probes, not real password hashing.
func CompareCredential(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
