package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"tourism-platform/internal/apperrors"
)

func TestPostgresAccountRepository_MapError(t *testing.T) {
	r := &postgresAccountRepository{}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, apperrors.ErrNotFound},
		{"unique violation", &pq.Error{Code: "23505"}, apperrors.ErrConflict},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), apperrors.ErrConflict},
		{"other pq error", &pq.Error{Code: "42P01"}, apperrors.ErrServiceUnavailable},
		{"connection refused", errors.New("dial tcp: connection refused"), apperrors.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, r.mapError(tt.err), tt.want)
		})
	}
}

func TestAccountRow_ToModelNilInterests(t *testing.T) {
	row := accountRow{Username: "asha"}
	assert.Equal(t, []string{}, row.toModel().Interests)
}
