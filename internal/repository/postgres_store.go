package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// PostgresStore bundles the sqlx repositories so it satisfies the same store
// contracts as MemoryStore.
type PostgresStore struct {
	*QuestionRepository
	*ReferenceRepository
	*PaperRepository
	*UserRepository
	*AttemptRepository

	db *sqlx.DB
}

// NewPostgresStore wires every repository onto db.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		QuestionRepository:  NewQuestionRepository(db),
		ReferenceRepository: NewReferenceRepository(db),
		PaperRepository:     NewPaperRepository(db),
		UserRepository:      NewUserRepository(db),
		AttemptRepository:   NewAttemptRepository(db),
		db:                  db,
	}
}

// Ping checks database connectivity for readiness probes.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
