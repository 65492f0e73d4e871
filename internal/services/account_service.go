package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/models"
	"tourism-platform/internal/repository"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

const msgInvalidCredentials = "Invalid credentials"

// RegisterRequest is the registration body.
type RegisterRequest struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Interests []string `json:"interests"`
}

// AccountService handles registration, login and interest updates against
// the configured account store.
type AccountService struct {
	repo       repository.AccountRepository
	bcryptCost int
	now        func() time.Time
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector
}

// NewAccountService creates a new account service
func NewAccountService(repo repository.AccountRepository, bcryptCost int, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *AccountService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{
		repo:       repo,
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
		metrics:    metricsCollector,
	}
}

// Register stores a new account with a bcrypt hash of the password.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) error {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.InvalidInput("Username, email and password are required")
	}

	_, err := s.repo.FindByUsernameOrEmail(ctx, req.Username, req.Email)
	switch {
	case err == nil:
		return apperrors.Conflict("Username or Email already exists")
	case !errors.Is(err, apperrors.ErrNotFound):
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return apperrors.InvalidInput("Password must be at most 72 bytes")
		}
		return apperrors.Internal("failed to hash password", err)
	}

	interests := req.Interests
	if interests == nil {
		interests = []string{}
	}

	account := &models.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Interests:    interests,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Insert(ctx, account); err != nil {
		return err
	}

	s.logger.Info(ctx, "[ACCOUNT_REGISTERED] New account created", logging.Fields{
		"username": req.Username,
	})
	return nil
}

// Login checks the password and returns the canonical username. Unknown users
// and wrong passwords fail the same way.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", apperrors.InvalidInput("Username and password are required")
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.Unauthorized(msgInvalidCredentials)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.logger.Info(ctx, "[LOGIN_FAILED] Password mismatch", logging.Fields{"username": username})
		return "", apperrors.Unauthorized(msgInvalidCredentials)
	}

	return account.Username, nil
}

// Interests returns the stored interest list of username.
func (s *AccountService) Interests(ctx context.Context, username string) ([]string, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if account.Interests == nil {
		return []string{}, nil
	}
	return account.Interests, nil
}

// UpdateInterests replaces the interest list of username.
func (s *AccountService) UpdateInterests(ctx context.Context, username string, interests []string) error {
	if interests == nil {
		return apperrors.InvalidInput("'interests' key required in JSON body")
	}
	return s.repo.UpdateInterests(ctx, username, interests)
}

// ListUsers returns every account without credentials.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.PublicAccount, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Public())
	}
	return out, nil
}

// HealthCheck reports whether the account store is reachable.
func (s *AccountService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}
