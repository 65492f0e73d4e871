package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/models"
)

func newAccount(username, email string) *models.Account {
	return &models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: "hash-" + username,
		Interests:    []string{"Beach"},
		CreatedAt:    time.Now().UTC(),
	}
}

func TestMemoryAccountRepository_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	require.NoError(t, repo.Insert(ctx, newAccount("asha", "asha@example.com")))

	got, err := repo.FindByUsername(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", got.Email)

	got, err = repo.FindByUsernameOrEmail(ctx, "someone-else", "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "asha", got.Username)

	_, err = repo.FindByUsername(ctx, "ravi")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryAccountRepository_Conflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Insert(ctx, newAccount("asha", "asha@example.com")))

	err := repo.Insert(ctx, newAccount("asha", "other@example.com"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	err = repo.Insert(ctx, newAccount("ravi", "asha@example.com"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMemoryAccountRepository_ConcurrentDuplicateRegistration(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Insert(ctx, newAccount("asha", "asha@example.com"))
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestMemoryAccountRepository_UpdateInterests(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Insert(ctx, newAccount("asha", "asha@example.com")))

	require.NoError(t, repo.UpdateInterests(ctx, "asha", []string{"Heritage", "Hill Station"}))
	got, err := repo.FindByUsername(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, []string{"Heritage", "Hill Station"}, got.Interests)

	err = repo.UpdateInterests(ctx, "ghost", []string{"Beach"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryAccountRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Insert(ctx, newAccount("asha", "asha@example.com")))

	got, err := repo.FindByUsername(ctx, "asha")
	require.NoError(t, err)
	got.Interests[0] = "Mutated"

	again, err := repo.FindByUsername(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beach"}, again.Interests)
}

func TestMemoryAccountRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Insert(ctx, newAccount("asha", "asha@example.com")))
	require.NoError(t, repo.Insert(ctx, newAccount("ravi", "ravi@example.com")))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "asha", list[0].Username)
	assert.NoError(t, repo.HealthCheck(ctx))
}
