package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/rentflow/rental-platform/internal/models"
	"github.com/rentflow/rental-platform/internal/utils"
)

type StaffRepository interface {
	CreateStaffUser(ctx context.Context, user *models.StaffUser) error
	GetStaffUserByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	GetStaffUserByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error)
}

type staffRepository struct {
	DB *sql.DB
}

func NewStaffRepo(db *sql.DB) StaffRepository {
	return &staffRepository{DB: db}
}

func (r *staffRepository) CreateStaffUser(ctx context.Context, user *models.StaffUser) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO staff_users (email, password, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, user.Email, user.Password, user.Name).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *staffRepository) GetStaffUserByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.StaffUser{}

	query := `
		SELECT id, email, password, name, created_at, updated_at
		FROM staff_users
		WHERE email = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, email).
		Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *staffRepository) GetStaffUserByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.StaffUser{}

	query := `
		SELECT id, email, name, created_at, updated_at
		FROM staff_users
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil
}
