package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rentflow/rental-platform/internal/models"
	"github.com/rentflow/rental-platform/internal/utils"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tiersJSON, err := json.Marshal(product.PriceTiers)
	if err != nil {
		return fmt.Errorf("failed to marshal price tiers: %w", err)
	}

	query := `
		INSERT INTO products (category_id, name, description, daily_rate, price_tiers, stock_quantity, sku, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.CategoryID, product.Name, product.Description, product.DailyRate,
		tiersJSON, product.StockQuantity, product.SKU, product.Status).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `
		SELECT id, category_id, name, description, daily_rate, price_tiers,
		       stock_quantity, sku, status, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var tiersJSON []byte

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&product.ID, &product.CategoryID, &product.Name, &product.Description, &product.DailyRate,
			&tiersJSON, &product.StockQuantity, &product.SKU, &product.Status, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tiersJSON, &product.PriceTiers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal price tiers: %w", err)
	}

	return product, nil
}

func (r *productRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	category := &models.Category{}

	query := `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return category, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		ORDER BY name
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var categories []*models.Category

	for rows.Next() {
		category := &models.Category{}

		err := rows.Scan(&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt)
		if err != nil {
			return nil, err
		}

		categories = append(categories, category)
	}

	return categories, rows.Err()
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tiersJSON, err := json.Marshal(product.PriceTiers)
	if err != nil {
		return fmt.Errorf("failed to marshal price tiers: %w", err)
	}

	query := `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, daily_rate = $4, price_tiers = $5,
		    stock_quantity = $6, status = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.CategoryID, product.Name, product.Description, product.DailyRate,
		tiersJSON, product.StockQuantity, product.Status, product.ID).
		Scan(&product.UpdatedAt)
}

func (r *productRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM products`

	if err := r.DB.QueryRowContext(dbCtx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT p.id, p.category_id, p.name, p.description, p.daily_rate, p.price_tiers,
		       p.stock_quantity, p.sku, p.status, p.created_at, p.updated_at,
		       c.id, c.name, c.description
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		ORDER BY p.id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product := &models.Product{}
		category := &models.Category{}

		var tiersJSON []byte

		err := rows.Scan(&product.ID, &product.CategoryID, &product.Name, &product.Description, &product.DailyRate,
			&tiersJSON, &product.StockQuantity, &product.SKU, &product.Status, &product.CreatedAt, &product.UpdatedAt,
			&category.ID, &category.Name, &category.Description)
		if err != nil {
			return nil, 0, err
		}

		if err := json.Unmarshal(tiersJSON, &product.PriceTiers); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal price tiers: %w", err)
		}

		product.Category = category
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}
