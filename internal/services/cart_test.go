package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appErrors "github.com/rentflow/rental-platform/internal/errors"
	"github.com/rentflow/rental-platform/internal/models"
	"github.com/rentflow/rental-platform/internal/repositories/mocks"
	service "github.com/rentflow/rental-platform/internal/services"
)

func tieredProduct() *models.Product {
	return &models.Product{
		ID:        42,
		Name:      "Party Tent 6x3",
		DailyRate: decimal.NewFromInt(100),
		PriceTiers: []models.PriceTier{
			{MinDays: 3, PricePerDay: decimal.NewFromInt(90), Label: "3+ days"},
			{MinDays: 7, PricePerDay: decimal.NewFromInt(75), Label: "weekly"},
		},
		StockQuantity: 10,
		Status:        "active",
	}
}

func storedCart(cartID uuid.UUID, items ...models.LineItem) *models.Cart {
	if items == nil {
		items = []models.LineItem{}
	}

	return &models.Cart{ID: cartID, Items: items}
}

func TestCartAddItem(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()

	t.Run("Success - New Line", func(t *testing.T) {
		// Arrange
		mockCartRepo := mocks.NewMockCartRepository(t)
		mockProductRepo := mocks.NewMockProductRepository(t)
		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		mockProductRepo.On("GetProductByID", ctx, int64(42)).Return(tieredProduct(), nil).Once()
		mockCartRepo.On("GetCart", ctx, cartID).Return(storedCart(cartID), nil).Once()
		mockCartRepo.On("SaveCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		req := &models.AddItemRequest{ProductID: 42, Quantity: 2, RentalDays: 7}

		// Act
		view, merged, err := cartService.AddItem(ctx, cartID, req)

		// Assert
		require.NoError(t, err)
		assert.False(t, merged)
		require.Len(t, view.Cart.Items, 1)

		item := view.Cart.Items[0]
		assert.Equal(t, "Party Tent 6x3", item.ProductName)
		assert.Equal(t, 2, item.Quantity)
		require.NotNil(t, item.Calc)
		assert.True(t, item.Calc.IsDiscounted)
		assert.True(t, item.Calc.PricePerDay.Equal(decimal.NewFromInt(75)))
		assert.True(t, item.Calc.TotalPrice.Equal(decimal.NewFromInt(525)))
		// Two units of a 7-day line at the weekly rate
		assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(1050)))
		assert.Equal(t, 2, view.ItemCount)
	})

	t.Run("Success - Merge Into Existing Line", func(t *testing.T) {
		// Arrange
		mockCartRepo := mocks.NewMockCartRepository(t)
		mockProductRepo := mocks.NewMockProductRepository(t)
		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		existing := models.LineItem{
			ProductID:   42,
			ProductName: "Party Tent 6x3",
			DailyRate:   decimal.NewFromInt(100),
			Quantity:    1,
			RentalDays:  2,
		}

		mockProductRepo.On("GetProductByID", ctx, int64(42)).Return(tieredProduct(), nil).Once()
		mockCartRepo.On("GetCart", ctx, cartID).Return(storedCart(cartID, existing), nil).Once()
		mockCartRepo.On("SaveCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		req := &models.AddItemRequest{ProductID: 42, Quantity: 3, RentalDays: 4}

		// Act
		view, merged, err := cartService.AddItem(ctx, cartID, req)

		// Assert
		require.NoError(t, err)
		assert.True(t, merged)
		require.Len(t, view.Cart.Items, 1)

		item := view.Cart.Items[0]
		assert.Equal(t, 4, item.Quantity, "quantities should be summed")
		assert.Equal(t, 4, item.RentalDays, "new rental length should win")
		require.NotNil(t, item.Calc)
		assert.True(t, item.Calc.PricePerDay.Equal(decimal.NewFromInt(90)))
	})

	t.Run("Failure - Unknown Product", func(t *testing.T) {
		// Arrange
		mockCartRepo := mocks.NewMockCartRepository(t)
		mockProductRepo := mocks.NewMockProductRepository(t)
		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		mockProductRepo.On("GetProductByID", ctx, int64(99)).Return(nil, errors.New("no rows")).Once()

		req := &models.AddItemRequest{ProductID: 99, Quantity: 1}

		// Act
		view, merged, err := cartService.AddItem(ctx, cartID, req)

		// Assert
		require.Error(t, err)
		assert.Nil(t, view)
		assert.False(t, merged)

		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestCartUpdateItem(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()

	t.Run("Success - Quantity Only Keeps Breakdown", func(t *testing.T) {
		// Arrange
		mockCartRepo := mocks.NewMockCartRepository(t)
		mockProductRepo := mocks.NewMockProductRepository(t)
		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		calc := &models.PriceCalculation{
			PricePerDay:  decimal.NewFromInt(90),
			TotalPrice:   decimal.NewFromInt(270),
			IsDiscounted: true,
			TierLabel:    "3+ days",
		}
		existing := models.LineItem{
			ProductID:  42,
			DailyRate:  decimal.NewFromInt(100),
			Quantity:   1,
			RentalDays: 3,
			Calc:       calc,
		}

		mockCartRepo.On("GetCart", ctx, cartID).Return(storedCart(cartID, existing), nil).Once()
		mockCartRepo.On("SaveCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		quantity := 5
		req := &models.UpdateItemRequest{Quantity: &quantity}

		// Act
		view, err := cartService.UpdateItem(ctx, cartID, 42, req)

		// Assert
		require.NoError(t, err)

		item := view.Cart.Items[0]
		assert.Equal(t, 5, item.Quantity)
		assert.Equal(t, calc, item.Calc, "per-day breakdown must not change on quantity edits")
	})

	t.Run("Success - Rental Days Change Reprices", func(t *testing.T) {
		// Arrange
		mockCartRepo := mocks.NewMockCartRepository(t)
		mockProductRepo := mocks.NewMockProductRepository(t)
		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		existing := models.LineItem{
			ProductID: 42,
			DailyRate: decimal.NewFromInt(100),
			PriceTiers: []models.PriceTier{
				{MinDays: 3, PricePerDay: decimal.NewFromInt(90), Label: "3+ days"},
			},
			Quantity:   1,
			RentalDays: 1,
		}

		mockCartRepo.On("GetCart", ctx, cartID).Return(storedCart(cartID, existing), nil).Once()
		mockCartRepo.On("SaveCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		days := 3
		req := &models.UpdateItemRequest{RentalDays: &days}

		// Act
		view, err := cartService.UpdateItem(ctx, cartID, 42, req)

		// Assert
		require.NoError(t, err)

		item := view.Cart.Items[0]
		require.NotNil(t, item.Calc)
		assert.True(t, item.Calc.IsDiscounted)
		assert.True(t, item.Calc.TotalPrice.Equal(decimal.NewFromInt(270)))
	})

	t.Run("Success - Unknown Product Is A No-Op", func(t *testing.T) {
		// Arrange
		mockCartRepo := mocks.NewMockCartRepository(t)
		mockProductRepo := mocks.NewMockProductRepository(t)
		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		mockCartRepo.On("GetCart", ctx, cartID).Return(storedCart(cartID), nil).Once()

		quantity := 2
		req := &models.UpdateItemRequest{Quantity: &quantity}

		// Act
		view, err := cartService.UpdateItem(ctx, cartID, 7, req)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, view.Cart.Items)
		mockCartRepo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	})
}

func TestCartRemoveItem(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()

	t.Run("Success - Removes And Reports Name", func(t *testing.T) {
		// Arrange
		mockCartRepo := mocks.NewMockCartRepository(t)
		mockProductRepo := mocks.NewMockProductRepository(t)
		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		existing := models.LineItem{ProductID: 42, ProductName: "Party Tent 6x3", Quantity: 1, RentalDays: 1}

		mockCartRepo.On("GetCart", ctx, cartID).Return(storedCart(cartID, existing), nil).Once()
		mockCartRepo.On("SaveCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		// Act
		view, removedName, err := cartService.RemoveItem(ctx, cartID, 42)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Party Tent 6x3", removedName)
		assert.Empty(t, view.Cart.Items)
	})

	t.Run("Success - Absent Product Is A No-Op", func(t *testing.T) {
		// Arrange
		mockCartRepo := mocks.NewMockCartRepository(t)
		mockProductRepo := mocks.NewMockProductRepository(t)
		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		mockCartRepo.On("GetCart", ctx, cartID).Return(storedCart(cartID), nil).Once()

		// Act
		view, removedName, err := cartService.RemoveItem(ctx, cartID, 42)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, removedName)
		assert.NotNil(t, view)
		mockCartRepo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	})
}

func TestCartClear(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()

	t.Run("Success - Drops Stored Blob", func(t *testing.T) {
		// Arrange
		mockCartRepo := mocks.NewMockCartRepository(t)
		mockProductRepo := mocks.NewMockProductRepository(t)
		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		mockCartRepo.On("DeleteCart", ctx, cartID).Return(nil).Once()

		// Act
		view, err := cartService.ClearCart(ctx, cartID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, cartID, view.Cart.ID)
		assert.Empty(t, view.Cart.Items)
		assert.Equal(t, 0, view.ItemCount)
		assert.True(t, view.Subtotal.IsZero())
		mockCartRepo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Storage Error Surfaces", func(t *testing.T) {
		// Arrange
		mockCartRepo := mocks.NewMockCartRepository(t)
		mockProductRepo := mocks.NewMockProductRepository(t)
		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		mockCartRepo.On("DeleteCart", ctx, cartID).Return(errors.New("redis down")).Once()

		// Act
		view, err := cartService.ClearCart(ctx, cartID)

		// Assert
		require.Error(t, err)
		assert.Nil(t, view)
	})
}

func TestCartIsInCart(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()

	t.Run("Success - Present And Absent Products", func(t *testing.T) {
		// Arrange
		mockCartRepo := mocks.NewMockCartRepository(t)
		mockProductRepo := mocks.NewMockProductRepository(t)
		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		existing := models.LineItem{ProductID: 42, Quantity: 1, RentalDays: 1}

		mockCartRepo.On("GetCart", ctx, cartID).Return(storedCart(cartID, existing), nil).Twice()

		// Act
		inCart, err := cartService.IsInCart(ctx, cartID, 42)
		require.NoError(t, err)

		notInCart, errAbsent := cartService.IsInCart(ctx, cartID, 99)
		require.NoError(t, errAbsent)

		// Assert
		assert.True(t, inCart)
		assert.False(t, notInCart)
	})

	t.Run("Failure - Storage Error Surfaces", func(t *testing.T) {
		// Arrange
		mockCartRepo := mocks.NewMockCartRepository(t)
		mockProductRepo := mocks.NewMockProductRepository(t)
		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		mockCartRepo.On("GetCart", ctx, cartID).Return(nil, errors.New("redis down")).Once()

		// Act
		inCart, err := cartService.IsInCart(ctx, cartID, 42)

		// Assert
		require.Error(t, err)
		assert.False(t, inCart)
	})
}
