package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Host:     "db.internal",
		Port:     5433,
		User:     "tourism",
		Password: "secret",
		Database: "tourism_db",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=tourism password=secret dbname=tourism_db sslmode=disable",
		cfg.DSN(),
	)
}
