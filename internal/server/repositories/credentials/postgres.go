package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kvauth/internal/common"
	"github.com/dmitrijs2005/kvauth/internal/dbx"
)

// PostgresRepository stores records in the credentials table, scoped by
// namespace.
type PostgresRepository struct {
	db        *sql.DB
	namespace string
}

// NewPostgresRepository constructs a repository bound to db and namespace.
func NewPostgresRepository(db *sql.DB, namespace string) *PostgresRepository {
	return &PostgresRepository{db: db, namespace: namespace}
}

func (r *PostgresRepository) Get(ctx context.Context, key string) (string, error) {
	return r.get(ctx, r.db, key, false)
}

func (r *PostgresRepository) get(ctx context.Context, db dbx.DBTX, key string, lock bool) (string, error) {
	query := `
		SELECT value FROM credentials
		WHERE namespace = $1 AND key = $2
	`
	if lock {
		query += ` FOR UPDATE`
	}

	var value string
	if err := db.QueryRowContext(ctx, query, r.namespace, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return value, nil
}

func (r *PostgresRepository) Put(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO credentials (namespace, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, r.namespace, key, value); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO credentials (namespace, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (namespace, key) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, r.namespace, key, value)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrAlreadyExists
	}
	return nil
}

// Update locks the row with SELECT ... FOR UPDATE for the duration of fn.
func (r *PostgresRepository) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		old, err := r.get(ctx, tx, key, true)
		if err != nil {
			return err
		}

		next, err := fn(old)
		if err != nil {
			return err
		}

		query := `
			UPDATE credentials SET value = $3, updated_at = now()
			WHERE namespace = $1 AND key = $2
		`
		if _, err := tx.ExecContext(ctx, query, r.namespace, key, next); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}
