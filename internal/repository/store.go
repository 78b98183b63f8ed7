package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore implements domain.Store on top of database/sql.
type PostgresStore struct {
	db     *sql.DB
	q      DBTX
	inTx   bool
	logger *slog.Logger
}

// NewPostgresStore creates a store whose repositories run outside any transaction.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, q: db, logger: logger}
}

func (s *PostgresStore) Users() domain.UserRepository {
	return NewPostgresUserRepository(s.q, s.logger)
}

func (s *PostgresStore) Profiles() domain.ProfileRepository {
	return NewPostgresProfileRepository(s.q, s.logger)
}

func (s *PostgresStore) GardenTypes() domain.GardenTypeRepository {
	return NewPostgresGardenTypeRepository(s.q, s.logger)
}

func (s *PostgresStore) Gardens() domain.GardenRepository {
	return NewPostgresGardenRepository(s.q, s.logger)
}

func (s *PostgresStore) GardenPlants() domain.GardenPlantRepository {
	return NewPostgresGardenPlantRepository(s.q, s.logger)
}

func (s *PostgresStore) Plants() domain.PlantRepository {
	return NewPostgresPlantRepository(s.q, s.logger)
}

// InTx runs fn in a single transaction. A nested call joins the outer transaction.
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx domain.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&PostgresStore{db: s.db, q: tx, inTx: true, logger: s.logger}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", slog.String("error", err.Error()))
		return translate(err, "transaction")
	}
	return nil
}
