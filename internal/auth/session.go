// Package auth holds the session layer: opaque tokens mapped to user IDs,
// plus the login state machine. Credentials are the seeded demo values; this
// is a simulation, not real authentication.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"katalian_bank/internal/domain"
	"katalian_bank/internal/repository"
	"katalian_bank/pkg/crypto"
	"katalian_bank/pkg/metrics"
)

type LoginResult string

const (
	LoginSuccess LoginResult = "success"
	LoginLocked  LoginResult = "locked"
	LoginInvalid LoginResult = "invalid"
)

type SessionManager struct {
	userRepo repository.UserRepository
	metrics  *metrics.MetricsCollector
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]string
}

func NewSessionManager(userRepo repository.UserRepository, collector *metrics.MetricsCollector, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		userRepo: userRepo,
		metrics:  collector,
		logger:   logger,
		sessions: make(map[string]string),
	}
}

// Login resolves credentials to a session token. A locked user presenting
// the unlock password is unlocked and signed in within the same call; a
// locked user with any other password gets the locked result with no state
// change. Wrong passwords and unknown usernames are both reported as
// invalid so the two cannot be told apart.
func (m *SessionManager) Login(ctx context.Context, username, password string) (string, *domain.User, LoginResult, error) {
	user, err := m.userRepo.GetByUsername(ctx, username)
	if err != nil {
		m.metrics.RecordLogin(string(LoginInvalid))
		m.logger.InfoContext(ctx, "Login rejected", slog.String("username", username))
		return "", nil, LoginInvalid, nil
	}

	if user.Locked && crypto.CompareCredential(user.UnlockPasswordHash, password) {
		user.Locked = false
		if err := m.userRepo.Replace(ctx, user); err != nil {
			return "", nil, LoginInvalid, fmt.Errorf("unlocking user %s: %w", user.ID, err)
		}
		m.metrics.RecordLogin(string(LoginSuccess))
		m.logger.InfoContext(ctx, "Locked user restored via unlock password",
			slog.String("user_id", user.ID))
		return m.issue(user.ID), user, LoginSuccess, nil
	}

	if user.Locked {
		m.metrics.RecordLogin(string(LoginLocked))
		m.logger.WarnContext(ctx, "Login attempt on locked user", slog.String("user_id", user.ID))
		return "", nil, LoginLocked, nil
	}

	if !crypto.CompareCredential(user.PasswordHash, password) {
		m.metrics.RecordLogin(string(LoginInvalid))
		m.logger.InfoContext(ctx, "Login rejected", slog.String("username", username))
		return "", nil, LoginInvalid, nil
	}

	m.metrics.RecordLogin(string(LoginSuccess))
	m.logger.InfoContext(ctx, "Login succeeded", slog.String("user_id", user.ID))
	return m.issue(user.ID), user, LoginSuccess, nil
}

// Current resolves a session token to its user ID.
func (m *SessionManager) Current(token string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	userID, ok := m.sessions[token]
	return userID, ok
}

// Logout invalidates one token.
func (m *SessionManager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Terminate invalidates every session belonging to the user. Lockdown calls
// this so the locked user is signed out everywhere at once.
func (m *SessionManager) Terminate(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, id := range m.sessions {
		if id == userID {
			delete(m.sessions, token)
		}
	}
}

func (m *SessionManager) issue(userID string) string {
	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = userID
	m.mu.Unlock()
	return token
}
