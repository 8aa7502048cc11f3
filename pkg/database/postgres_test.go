package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/exam-prep-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "exam", Password: "secret", Name: "exam_prep"})
	assert.Equal(t, "host=db port=5433 user=exam password=secret dbname=exam_prep sslmode=disable", dsn)

	dsn = DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "require"})
	assert.Contains(t, dsn, "sslmode=require")
}
