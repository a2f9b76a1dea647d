package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Brooklss/Tech-EcoLab/internal/models"
	"github.com/Brooklss/Tech-EcoLab/internal/utils"
)

type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
}

type adminRepository struct {
	DB *sql.DB
}

func NewAdminRepo(db *sql.DB) AdminRepository {
	return &adminRepository{DB: db}
}

func (r *adminRepository) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO admins (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`

	err := r.DB.QueryRowContext(dbCtx, query, admin.Username, admin.PasswordHash).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting admin: %w", mapPQError(err))
	}

	return nil
}

func (r *adminRepository) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	admin := &models.Admin{}

	query := `SELECT id, username, password_hash, created_at FROM admins WHERE username = $1`

	err := r.DB.QueryRowContext(dbCtx, query, username).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return admin, nil
}
