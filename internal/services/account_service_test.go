package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/repository"
	"tourism-platform/pkg/logging"
)

func newAccounts(t *testing.T) (*AccountService, repository.AccountRepository) {
	t.Helper()
	repo := repository.NewMemoryAccountRepository()
	svc := NewAccountService(repo, bcrypt.MinCost, logging.NewNop(), testMetrics())
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, repo
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	svc, repo := newAccounts(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterRequest{
		Username: "asha",
		Email:    "asha@example.com",
		Password: "s3cret",
	}))

	stored, err := repo.FindByUsername(ctx, "asha")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.Equal(t, []string{}, stored.Interests)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), stored.CreatedAt)

	username, err := svc.Login(ctx, "asha", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "asha", username)
}

func TestAccountService_RegisterValidation(t *testing.T) {
	svc, _ := newAccounts(t)

	tests := []struct {
		name string
		req  RegisterRequest
		want string
	}{
		{"missing username", RegisterRequest{Email: "a@b.c", Password: "x"}, "Username, email and password are required"},
		{"missing password", RegisterRequest{Username: "a", Email: "a@b.c"}, "Username, email and password are required"},
		{"password too long", RegisterRequest{Username: "a", Email: "a@b.c", Password: strings.Repeat("x", 73)}, "Password must be at most 72 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(context.Background(), tt.req)
			require.Error(t, err)
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindInvalidInput, appErr.Kind)
			assert.Equal(t, tt.want, appErr.Message)
		})
	}
}

func TestAccountService_RegisterDuplicate(t *testing.T) {
	svc, _ := newAccounts(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterRequest{Username: "asha", Email: "asha@example.com", Password: "pw"}))

	err := svc.Register(ctx, RegisterRequest{Username: "ravi", Email: "asha@example.com", Password: "pw"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 409, apperrors.HTTPStatus(err))

	appErr, _ := apperrors.As(err)
	assert.Equal(t, "Username or Email already exists", appErr.Message)
}

func TestAccountService_LoginFailures(t *testing.T) {
	svc, _ := newAccounts(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, RegisterRequest{Username: "asha", Email: "asha@example.com", Password: "pw"}))

	for _, tc := range []struct{ user, pass string }{
		{"asha", "wrong"},
		{"nobody", "pw"},
	} {
		_, err := svc.Login(ctx, tc.user, tc.pass)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Equal(t, "Invalid credentials", err.Error())
	}

	_, err := svc.Login(ctx, "", "pw")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAccountService_Interests(t *testing.T) {
	svc, _ := newAccounts(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, RegisterRequest{
		Username:  "asha",
		Email:     "asha@example.com",
		Password:  "pw",
		Interests: []string{"Beach"},
	}))

	got, err := svc.Interests(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beach"}, got)

	require.NoError(t, svc.UpdateInterests(ctx, "asha", []string{"Heritage", "Hill Station"}))
	got, err = svc.Interests(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, []string{"Heritage", "Hill Station"}, got)

	require.NoError(t, svc.UpdateInterests(ctx, "asha", []string{}))
	got, err = svc.Interests(ctx, "asha")
	require.NoError(t, err)
	assert.Empty(t, got)

	err = svc.UpdateInterests(ctx, "asha", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	err = svc.UpdateInterests(ctx, "ravi", []string{"Beach"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Interests(ctx, "ravi")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAccountService_ListUsersHidesPasswords(t *testing.T) {
	svc, _ := newAccounts(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, RegisterRequest{Username: "asha", Email: "asha@example.com", Password: "pw"}))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "asha", users[0].Username)
	assert.Equal(t, []string{}, users[0].Interests)
}
