package repository

import (
	"context"
	"errors"

	"katalian_bank/internal/domain"
)

// UserRepository is the narrow store interface the ledger core works against.
// Mutations never reach into ambient state: callers fetch a snapshot, derive
// a new one, and replace the user record wholesale.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Replace(ctx context.Context, user *domain.User) error
	GetAll(ctx context.Context) ([]*domain.User, error)
}

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate entry")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameAccount       = errors.New("source and destination are the same account")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrIneligibleSource  = errors.New("account cannot fund transfers")
	ErrUserLocked        = errors.New("user is locked")
)
