package service

import (
	"context"
	"sort"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/rentflow/rental-platform/internal/errors"
	"github.com/rentflow/rental-platform/internal/models"
	repository "github.com/rentflow/rental-platform/internal/repositories"
)

type ProductService struct {
	repo      repository.ProductRepository
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo:      repo,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	tiers := normalizeTiers(req.PriceTiers)

	product := &models.Product{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Description:   s.sanitizer.Sanitize(req.Description),
		DailyRate:     req.DailyRate,
		PriceTiers:    tiers,
		StockQuantity: int64(req.StockQuantity),
		SKU:           req.SKU,
		Status:        "active",
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

// GetProduct runs the product and category lookups concurrently and joins
// them before returning. A failed category lookup degrades to a product
// without category, not an error.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {

	var (
		product    *models.Product
		productErr error
		categories []*models.Category
	)

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		product, productErr = s.repo.GetProductByID(ctx, id)
	}()

	go func() {
		defer wg.Done()

		categories, _ = s.repo.ListCategories(ctx)
	}()

	wg.Wait()

	if productErr != nil {
		return nil, errors.NotFoundError("Product not found").WithError(productErr)
	}

	for _, category := range categories {
		if category.ID == product.CategoryID {
			product.Category = category
			break
		}
	}

	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}

	if req.Name != nil {
		product.Name = *req.Name
	}

	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}

	if req.DailyRate != nil {
		product.DailyRate = *req.DailyRate
	}

	if req.PriceTiers != nil {
		product.PriceTiers = normalizeTiers(*req.PriceTiers)
	}

	if req.StockQuantity != nil {
		product.StockQuantity = int64(*req.StockQuantity)
	}

	if req.Status != nil {
		product.Status = *req.Status
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 20
	}

	products, total, err := s.repo.ListProducts(ctx, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

// normalizeTiers stores tiers sorted by threshold so catalog responses are
// stable regardless of input order.
func normalizeTiers(tiers []models.PriceTier) []models.PriceTier {
	if len(tiers) == 0 {
		return []models.PriceTier{}
	}

	sorted := make([]models.PriceTier, len(tiers))
	copy(sorted, tiers)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinDays < sorted[j].MinDays
	})

	return sorted
}
