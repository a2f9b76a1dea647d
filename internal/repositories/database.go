package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Brooklss/Tech-EcoLab/internal/config"
	"github.com/XSAM/otelsql"
	"github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicate           = errors.New("duplicate record")
	ErrConstraintViolation = errors.New("constraint violation")
)

// Store is the set of repositories backing the API. Both the Postgres and the file
// store hand one out.
type Store struct {
	Products   ProductRepository
	Categories CategoryRepository
	Admins     AdminRepository
	close      func() error
}

func NewStore(products ProductRepository, categories CategoryRepository, admins AdminRepository, closeFn func() error) *Store {
	if closeFn == nil {
		closeFn = func() error { return nil }
	}

	return &Store{Products: products, Categories: categories, Admins: admins, close: closeFn}
}

func (s *Store) Close() error {
	return s.close()
}

type Repository struct {
	DB *sql.DB
}

func New(cfg *config.Config) (*Repository, *Store, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)

	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, nil, err
	}

	postgresInstance := &Repository{DB: db}

	store := NewStore(NewProductRepo(db), NewCategoryRepo(db), NewAdminRepo(db), postgresInstance.Close)

	return postgresInstance, store, nil
}

func (p *Repository) Close() error {
	return p.DB.Close()
}

// Products carry no foreign key on category_id: deleting a category leaves its products in place.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
		category_id INTEGER NOT NULL,
		stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		image_url TEXT,
		specifications JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category_id ON products (category_id)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id SERIAL PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	slog.Info("✅ Database schema is up to date")

	return nil
}

// mapPQError translates the Postgres error codes the repositories care about.
func mapPQError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case "23505":
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Message)
	case "23514":
		return fmt.Errorf("%w: %s", ErrConstraintViolation, pqErr.Message)
	default:
		return err
	}
}
