// Package repomanager builds the credential repository selected by the
// server configuration and owns the resources behind it. For PostgreSQL it
// also applies the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/kvauth/internal/server/config"
	"github.com/dmitrijs2005/kvauth/internal/server/migrations"
	"github.com/dmitrijs2005/kvauth/internal/server/repositories/credentials"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Manager holds the configured repository and the handle it depends on.
type Manager struct {
	repo credentials.Repository
	db   *sql.DB
}

// Repository returns the credential repository.
func (m *Manager) Repository() credentials.Repository {
	return m.repo
}

// Close releases the database connection, if any.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// seams for tests
var (
	sqlOpen = sql.Open

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}

	newS3Client = func(ctx context.Context, o credentials.S3Options) (credentials.ObjectAPI, error) {
		return credentials.NewS3Client(ctx, o)
	}
)

// New constructs the repository named by cfg.StoreBackend.
func New(ctx context.Context, cfg *config.Config) (*Manager, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return &Manager{repo: credentials.NewMemoryRepository()}, nil

	case config.StorePostgres:
		db, err := sqlOpen("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		if err := RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		return &Manager{repo: credentials.NewPostgresRepository(db, cfg.Namespace), db: db}, nil

	case config.StoreS3:
		client, err := newS3Client(ctx, credentials.S3Options{
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
		})
		if err != nil {
			return nil, err
		}
		return &Manager{repo: credentials.NewS3Repository(client, cfg.S3Bucket, cfg.Namespace)}, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
