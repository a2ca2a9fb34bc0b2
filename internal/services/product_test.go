package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appErrors "github.com/rentflow/rental-platform/internal/errors"
	"github.com/rentflow/rental-platform/internal/models"
	"github.com/rentflow/rental-platform/internal/repositories/mocks"
	service "github.com/rentflow/rental-platform/internal/services"
)

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Sanitizes Description And Sorts Tiers", func(t *testing.T) {
		// Arrange
		mockRepo := mocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		mockRepo.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

		req := &models.CreateProductRequest{
			CategoryID:  1,
			Name:        "Bounce House",
			Description: `Great for parties<script>alert("x")</script>`,
			DailyRate:   decimal.NewFromInt(150),
			PriceTiers: []models.PriceTier{
				{MinDays: 7, PricePerDay: decimal.NewFromInt(100), Label: "weekly"},
				{MinDays: 3, PricePerDay: decimal.NewFromInt(120), Label: "3+ days"},
			},
			StockQuantity: 4,
			SKU:           "BH-001",
		}

		// Act
		product, err := productService.CreateProduct(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.NotContains(t, product.Description, "<script>")
		assert.Contains(t, product.Description, "Great for parties")
		assert.Equal(t, "active", product.Status)
		require.Len(t, product.PriceTiers, 2)
		assert.Equal(t, 3, product.PriceTiers[0].MinDays)
		assert.Equal(t, 7, product.PriceTiers[1].MinDays)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		mockRepo := mocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		mockRepo.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).
			Return(errors.New("duplicate sku")).Once()

		req := &models.CreateProductRequest{Name: "Bounce House", DailyRate: decimal.NewFromInt(150), SKU: "BH-001"}

		// Act
		product, err := productService.CreateProduct(ctx, req)

		// Assert
		require.Error(t, err)
		assert.Nil(t, product)

		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Joins Category", func(t *testing.T) {
		// Arrange
		mockRepo := mocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		product := tieredProduct()
		product.CategoryID = 3
		categories := []*models.Category{
			{ID: 1, Name: "Furniture"},
			{ID: 3, Name: "Tents"},
		}

		mockRepo.On("GetProductByID", ctx, int64(42)).Return(product, nil).Once()
		mockRepo.On("ListCategories", ctx).Return(categories, nil).Once()

		// Act
		got, err := productService.GetProduct(ctx, 42)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, got.Category)
		assert.Equal(t, "Tents", got.Category.Name)
	})

	t.Run("Success - Category Lookup Failure Degrades", func(t *testing.T) {
		// Arrange
		mockRepo := mocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		mockRepo.On("GetProductByID", ctx, int64(42)).Return(tieredProduct(), nil).Once()
		mockRepo.On("ListCategories", ctx).Return(nil, errors.New("db down")).Once()

		// Act
		got, err := productService.GetProduct(ctx, 42)

		// Assert
		require.NoError(t, err)
		assert.Nil(t, got.Category)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mockRepo := mocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		mockRepo.On("GetProductByID", ctx, int64(99)).Return(nil, errors.New("no rows")).Once()
		mockRepo.On("ListCategories", ctx).Return(nil, nil).Once()

		// Act
		got, err := productService.GetProduct(ctx, 99)

		// Assert
		require.Error(t, err)
		assert.Nil(t, got)

		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Partial Patch", func(t *testing.T) {
		// Arrange
		mockRepo := mocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		mockRepo.On("GetProductByID", ctx, int64(42)).Return(tieredProduct(), nil).Once()
		mockRepo.On("UpdateProduct", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

		newRate := decimal.NewFromInt(110)
		req := &models.UpdateProductRequest{DailyRate: &newRate}

		// Act
		product, err := productService.UpdateProduct(ctx, 42, req)

		// Assert
		require.NoError(t, err)
		assert.True(t, product.DailyRate.Equal(newRate))
		assert.Equal(t, "Party Tent 6x3", product.Name, "untouched fields keep their values")
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Clamps Pagination", func(t *testing.T) {
		// Arrange
		mockRepo := mocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		mockRepo.On("ListProducts", ctx, 1, 20).Return([]*models.Product{tieredProduct()}, 1, nil).Once()

		// Act
		products, total, err := productService.ListProducts(ctx, -3, 9999)

		// Assert
		require.NoError(t, err)
		assert.Len(t, products, 1)
		assert.Equal(t, 1, total)
	})
}
