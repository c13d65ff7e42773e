package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ksen/caseflash/internal/logger"
	"github.com/ksen/caseflash/internal/repository"
)

type stateRepository struct {
	db *sql.DB
}

// NewStateRepository creates the key-value StateRepository backed by SQLite.
func NewStateRepository(db *sql.DB) repository.StateRepository {
	return &stateRepository{db: db}
}

func (r *stateRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *stateRepository) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("state_repo")
	log.Debug("setting state: key=%s", key)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO app_state (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
`, key, value)
	if err != nil {
		log.Error("failed to set state: %v", err)
	}
	return err
}

func (r *stateRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key)
	return err
}

func (r *stateRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("state_repo")
	log.Warn("clearing all app state")
	_, err := r.db.ExecContext(ctx, `DELETE FROM app_state`)
	return err
}
