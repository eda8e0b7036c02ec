package memory

import (
	"context"
	"fmt"
	"sync"

	"katalian_bank/internal/domain"
	"katalian_bank/internal/repository"
)

// UserRepository keeps the whole user population in memory. There is no
// persistence; a restart returns the store to its seed state, which is the
// intended behavior of the simulation.
type UserRepository struct {
	mu        sync.RWMutex
	users     map[string]*domain.User
	nameIndex map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:     make(map[string]*domain.User),
		nameIndex: make(map[string]string),
	}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; exists {
		return fmt.Errorf("%w: user %s", repository.ErrDuplicate, user.ID)
	}
	if _, exists := r.nameIndex[user.Username]; exists {
		return fmt.Errorf("%w: username %s", repository.ErrDuplicate, user.Username)
	}

	r.users[user.ID] = user
	r.nameIndex[user.Username] = user.ID

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, fmt.Errorf("%w: user %s", repository.ErrNotFound, id)
	}
	return snapshot(user), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.nameIndex[username]
	if !exists {
		return nil, fmt.Errorf("%w: username %s", repository.ErrNotFound, username)
	}
	return snapshot(r.users[id]), nil
}

// Replace swaps the stored record for an existing user with the updated
// snapshot. The account and loan lists are taken wholesale; there is no
// field-level merge.
func (r *UserRepository) Replace(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.users[user.ID]
	if !exists {
		return fmt.Errorf("%w: user %s", repository.ErrNotFound, user.ID)
	}
	if existing.Username != user.Username {
		return fmt.Errorf("%w: username is immutable", repository.ErrDuplicate)
	}

	r.users[user.ID] = snapshot(user)

	return nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, snapshot(user))
	}

	return result, nil
}

// snapshot copies a user with fresh account and loan slices so callers can
// never alias the stored record's lists.
func snapshot(u *domain.User) *domain.User {
	cp := *u
	cp.Accounts = make([]domain.Account, len(u.Accounts))
	copy(cp.Accounts, u.Accounts)
	cp.Loans = make([]domain.Loan, len(u.Loans))
	copy(cp.Loans, u.Loans)
	return &cp
}
