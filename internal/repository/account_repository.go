package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/models"
)

// Messages returned by every AccountRepository implementation.
const (
	msgUserNotFound     = "User not found"
	msgAccountExists    = "Username or Email already exists"
	msgStoreUnavailable = "Account store unavailable"
)

// AccountRepository provides data access for user accounts.
//
// Lookups that find nothing return an apperrors NotFound error. Insert
// returns Conflict when the username or email is taken. Failures of the
// backing store surface as ServiceUnavailable.
type AccountRepository interface {
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	Insert(ctx context.Context, account *models.Account) error
	UpdateInterests(ctx context.Context, username string, interests []string) error
	List(ctx context.Context) ([]*models.Account, error)
	HealthCheck(ctx context.Context) error
}

// memoryAccountRepository keeps accounts in process memory. Uniqueness is
// checked and enforced under one lock, so concurrent registrations of the
// same identity cannot both succeed.
type memoryAccountRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*models.Account
	byEmail    map[string]string
	order      []string
}

// NewMemoryAccountRepository creates an empty in-memory account store.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		byUsername: make(map[string]*models.Account),
		byEmail:    make(map[string]string),
	}
}

func (r *memoryAccountRepository) FindByUsernameOrEmail(_ context.Context, username, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.byUsername[username]; ok {
		return cloneAccount(a), nil
	}
	if u, ok := r.byEmail[email]; ok {
		return cloneAccount(r.byUsername[u]), nil
	}
	return nil, apperrors.NotFound(msgUserNotFound)
}

func (r *memoryAccountRepository) FindByUsername(_ context.Context, username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byUsername[username]
	if !ok {
		return nil, apperrors.NotFound(msgUserNotFound)
	}
	return cloneAccount(a), nil
}

func (r *memoryAccountRepository) Insert(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[account.Username]; ok {
		return apperrors.Conflict(msgAccountExists)
	}
	if _, ok := r.byEmail[account.Email]; ok {
		return apperrors.Conflict(msgAccountExists)
	}

	r.byUsername[account.Username] = cloneAccount(account)
	r.byEmail[account.Email] = account.Username
	r.order = append(r.order, account.Username)
	return nil
}

func (r *memoryAccountRepository) UpdateInterests(_ context.Context, username string, interests []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byUsername[username]
	if !ok {
		return apperrors.NotFound(msgUserNotFound)
	}
	a.Interests = slices.Clone(interests)
	return nil
}

func (r *memoryAccountRepository) List(_ context.Context) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Account, 0, len(r.order))
	for _, u := range r.order {
		out = append(out, cloneAccount(r.byUsername[u]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryAccountRepository) HealthCheck(context.Context) error {
	return nil
}

func cloneAccount(a *models.Account) *models.Account {
	c := *a
	c.Interests = slices.Clone(a.Interests)
	return &c
}
