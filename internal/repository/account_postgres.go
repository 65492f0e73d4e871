package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/models"
	"tourism-platform/pkg/database"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type accountRow struct {
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Interests    pq.StringArray `db:"interests"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (row *accountRow) toModel() *models.Account {
	interests := []string(row.Interests)
	if interests == nil {
		interests = []string{}
	}
	return &models.Account{
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Interests:    interests,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}

// postgresAccountRepository implements AccountRepository on the users table.
type postgresAccountRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewPostgresAccountRepository creates a PostgreSQL-backed account store.
func NewPostgresAccountRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) AccountRepository {
	return &postgresAccountRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

const accountColumns = `username, email, password_hash, interests, created_at`

func (r *postgresAccountRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE username = $1 OR email = $2 ORDER BY id LIMIT 1`

	var row accountRow
	if err := r.db.GetContext(ctx, "find_account_by_username_or_email", &row, query, username, email); err != nil {
		return nil, r.mapError(err)
	}
	return row.toModel(), nil
}

func (r *postgresAccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE username = $1`

	var row accountRow
	if err := r.db.GetContext(ctx, "find_account_by_username", &row, query, username); err != nil {
		return nil, r.mapError(err)
	}
	return row.toModel(), nil
}

func (r *postgresAccountRepository) Insert(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO users (username, email, password_hash, interests, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	interests := account.Interests
	if interests == nil {
		interests = []string{}
	}

	_, err := r.db.ExecContext(ctx, "insert_account", query,
		account.Username,
		account.Email,
		account.PasswordHash,
		pq.StringArray(interests),
		account.CreatedAt,
	)
	if err != nil {
		return r.mapError(err)
	}
	return nil
}

func (r *postgresAccountRepository) UpdateInterests(ctx context.Context, username string, interests []string) error {
	if interests == nil {
		interests = []string{}
	}

	result, err := r.db.ExecContext(ctx, "update_account_interests",
		`UPDATE users SET interests = $2 WHERE username = $1`,
		username, pq.StringArray(interests),
	)
	if err != nil {
		return r.mapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return r.mapError(err)
	}
	if n == 0 {
		return apperrors.NotFound(msgUserNotFound)
	}
	return nil
}

func (r *postgresAccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users ORDER BY created_at, id`

	var rows []accountRow
	if err := r.db.SelectContext(ctx, "list_accounts", &rows, query); err != nil {
		return nil, r.mapError(err)
	}

	out := make([]*models.Account, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (r *postgresAccountRepository) HealthCheck(ctx context.Context) error {
	if err := r.db.HealthCheck(ctx); err != nil {
		return apperrors.ServiceUnavailable(msgStoreUnavailable, err)
	}
	return nil
}

func (r *postgresAccountRepository) mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(msgUserNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return apperrors.Conflict(msgAccountExists)
	}
	return apperrors.ServiceUnavailable(msgStoreUnavailable, err)
}
