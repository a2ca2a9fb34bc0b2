package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rentflow/rental-platform/internal/models"
	"github.com/rentflow/rental-platform/internal/utils"
)

type ClientRepository interface {
	CreateClient(ctx context.Context, client *models.Client) error
	GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetClientByEmail(ctx context.Context, email string) (*models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id uuid.UUID) error
	ListClients(ctx context.Context, search string, page, size int) ([]*models.Client, int, error)
}

type clientRepository struct {
	DB *sql.DB
}

func NewClientRepo(db *sql.DB) ClientRepository {
	return &clientRepository{DB: db}
}

func (r *clientRepository) CreateClient(ctx context.Context, client *models.Client) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO clients (name, email, phone, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, client.Name, client.Email, client.Phone, client.Document).
		Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	client := &models.Client{}

	query := `
		SELECT id, name, email, phone, document, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&client.ID, &client.Name, &client.Email, &client.Phone, &client.Document, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (r *clientRepository) GetClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	client := &models.Client{}

	query := `
		SELECT id, name, email, phone, document, created_at, updated_at
		FROM clients
		WHERE email = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, email).
		Scan(&client.ID, &client.Name, &client.Email, &client.Phone, &client.Document, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (r *clientRepository) UpdateClient(ctx context.Context, client *models.Client) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, document = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, client.Name, client.Email, client.Phone, client.Document, client.ID).
		Scan(&client.UpdatedAt)
}

func (r *clientRepository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *clientRepository) ListClients(ctx context.Context, search string, page, size int) ([]*models.Client, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	pattern := "%" + search + "%"

	var total int

	countQuery := `SELECT COUNT(*) FROM clients WHERE name ILIKE $1 OR email ILIKE $1`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, name, email, phone, document, created_at, updated_at
		FROM clients
		WHERE name ILIKE $1 OR email ILIKE $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, pattern, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var clients []*models.Client

	for rows.Next() {
		client := &models.Client{}

		err := rows.Scan(&client.ID, &client.Name, &client.Email, &client.Phone, &client.Document, &client.CreatedAt, &client.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}

		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}
