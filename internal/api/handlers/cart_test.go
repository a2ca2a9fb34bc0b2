package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rentflow/rental-platform/internal/api/handlers"
	"github.com/rentflow/rental-platform/internal/models"
	"github.com/rentflow/rental-platform/internal/repositories/mocks"
	service "github.com/rentflow/rental-platform/internal/services"
	"github.com/rentflow/rental-platform/internal/testutils"
)

type cartEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Cart struct {
			ID    string            `json:"id"`
			Items []models.LineItem `json:"items"`
		} `json:"cart"`
		ItemCount int    `json:"item_count"`
		Subtotal  string `json:"subtotal"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupCartHandler(t *testing.T) (*mocks.MockCartRepository, *mocks.MockProductRepository, *handlers.CartHandler) {
	t.Helper()

	cartRepo := mocks.NewMockCartRepository(t)
	productRepo := mocks.NewMockProductRepository(t)
	cartService := service.NewCartService(cartRepo, productRepo)

	return cartRepo, productRepo, handlers.NewCartHandler(cartService)
}

func handlerTestProduct() *models.Product {
	return &models.Product{
		ID:            42,
		CategoryID:    1,
		Name:          "Party Tent 6x3",
		DailyRate:     decimal.NewFromInt(100),
		PriceTiers:    []models.PriceTier{{MinDays: 7, PricePerDay: decimal.NewFromInt(75), Label: "weekly"}},
		StockQuantity: 5,
		SKU:           "TENT-6X3",
		Status:        "active",
	}
}

func emptyTestCart(cartID uuid.UUID) *models.Cart {
	return &models.Cart{ID: cartID, Items: []models.LineItem{}}
}

func decodeCart(t *testing.T, recorder *httptest.ResponseRecorder) cartEnvelope {
	t.Helper()

	var envelope cartEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	return envelope
}

func TestCartHandlerGetCart(t *testing.T) {
	t.Run("Success - mints a cart id for a first-time device", func(t *testing.T) {
		// Arrange
		cartRepo, _, handler := setupCartHandler(t)

		minted := emptyTestCart(uuid.Nil)
		cartRepo.On("GetCart", mock.Anything, mock.AnythingOfType("uuid.UUID")).
			Run(func(args mock.Arguments) { minted.ID = args.Get(1).(uuid.UUID) }).
			Return(minted, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/cart", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.GetCart().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		echoed := recorder.Header().Get(handlers.CartIDHeader)
		_, err := uuid.Parse(echoed)
		require.NoError(t, err, "a fresh cart id should be echoed on the response")

		envelope := decodeCart(t, recorder)
		assert.True(t, envelope.Success)
		assert.Equal(t, echoed, envelope.Data.Cart.ID)
		assert.Zero(t, envelope.Data.ItemCount)
	})

	t.Run("Success - reuses the cart id from the request header", func(t *testing.T) {
		// Arrange
		cartRepo, _, handler := setupCartHandler(t)
		cartID := uuid.New()

		cartRepo.On("GetCart", mock.Anything, cartID).Return(emptyTestCart(cartID), nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/cart", nil, nil)
		req.Header.Set(handlers.CartIDHeader, cartID.String())
		recorder := httptest.NewRecorder()

		// Act
		handler.GetCart().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, cartID.String(), recorder.Header().Get(handlers.CartIDHeader))
	})

	t.Run("Success - an unparseable cart id is replaced, not rejected", func(t *testing.T) {
		// Arrange
		cartRepo, _, handler := setupCartHandler(t)

		minted := emptyTestCart(uuid.Nil)
		cartRepo.On("GetCart", mock.Anything, mock.AnythingOfType("uuid.UUID")).
			Run(func(args mock.Arguments) { minted.ID = args.Get(1).(uuid.UUID) }).
			Return(minted, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/cart", nil, nil)
		req.Header.Set(handlers.CartIDHeader, "not-a-uuid")
		recorder := httptest.NewRecorder()

		// Act
		handler.GetCart().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		echoed := recorder.Header().Get(handlers.CartIDHeader)
		assert.NotEqual(t, "not-a-uuid", echoed)
		_, err := uuid.Parse(echoed)
		assert.NoError(t, err)
	})
}

func TestCartHandlerAddItem(t *testing.T) {
	t.Run("Success - a new line item returns 201", func(t *testing.T) {
		// Arrange
		cartRepo, productRepo, handler := setupCartHandler(t)
		cartID := uuid.New()

		productRepo.On("GetProductByID", mock.Anything, int64(42)).Return(handlerTestProduct(), nil).Once()
		cartRepo.On("GetCart", mock.Anything, cartID).Return(emptyTestCart(cartID), nil).Once()
		cartRepo.On("SaveCart", mock.Anything, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		body, err := json.Marshal(models.AddItemRequest{ProductID: 42, Quantity: 2, RentalDays: 7})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/cart/items", bytes.NewReader(body), nil)
		req.Header.Set(handlers.CartIDHeader, cartID.String())
		recorder := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)

		envelope := decodeCart(t, recorder)
		assert.True(t, envelope.Success)
		assert.Equal(t, 2, envelope.Data.ItemCount)
		assert.Equal(t, "1050", envelope.Data.Subtotal, "two tents for a week at the weekly tier")
	})

	t.Run("Success - merging into an existing line returns 200", func(t *testing.T) {
		// Arrange
		cartRepo, productRepo, handler := setupCartHandler(t)
		cartID := uuid.New()

		stored := emptyTestCart(cartID)
		stored.Items = []models.LineItem{{
			ProductID:   42,
			ProductName: "Party Tent 6x3",
			DailyRate:   decimal.NewFromInt(100),
			Quantity:    1,
			RentalDays:  7,
		}}

		productRepo.On("GetProductByID", mock.Anything, int64(42)).Return(handlerTestProduct(), nil).Once()
		cartRepo.On("GetCart", mock.Anything, cartID).Return(stored, nil).Once()
		cartRepo.On("SaveCart", mock.Anything, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		body, err := json.Marshal(models.AddItemRequest{ProductID: 42, Quantity: 1, RentalDays: 7})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/cart/items", bytes.NewReader(body), nil)
		req.Header.Set(handlers.CartIDHeader, cartID.String())
		recorder := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		envelope := decodeCart(t, recorder)
		assert.Equal(t, 2, envelope.Data.ItemCount)
	})

	t.Run("Failure - an invalid payload never reaches the service", func(t *testing.T) {
		// Arrange
		cartRepo, _, handler := setupCartHandler(t)

		body := []byte(`{"quantity": 0}`)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/cart/items", bytes.NewReader(body), nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		cartRepo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - unknown product returns 404", func(t *testing.T) {
		// Arrange
		cartRepo, productRepo, handler := setupCartHandler(t)
		cartID := uuid.New()

		productRepo.On("GetProductByID", mock.Anything, int64(99)).Return(nil, assert.AnError).Once()

		body, err := json.Marshal(models.AddItemRequest{ProductID: 99, Quantity: 1, RentalDays: 3})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/cart/items", bytes.NewReader(body), nil)
		req.Header.Set(handlers.CartIDHeader, cartID.String())
		recorder := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)

		envelope := decodeCart(t, recorder)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
		cartRepo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	})
}

func TestCartHandlerUpdateItem(t *testing.T) {
	t.Run("Failure - an unparseable product id returns 400", func(t *testing.T) {
		// Arrange
		_, _, handler := setupCartHandler(t)

		body := []byte(`{"quantity": 3}`)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPatch, "/api/cart/items/abc",
			bytes.NewReader(body), map[string]string{"productId": "abc"})
		recorder := httptest.NewRecorder()

		// Act
		handler.UpdateItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		envelope := decodeCart(t, recorder)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "BAD_REQUEST", envelope.Error.Code)
	})
}

func TestCartHandlerCheckItem(t *testing.T) {
	t.Run("Success - reports membership for a stored line", func(t *testing.T) {
		// Arrange
		cartRepo, _, handler := setupCartHandler(t)
		cartID := uuid.New()

		stored := emptyTestCart(cartID)
		stored.Items = []models.LineItem{{ProductID: 42, Quantity: 2, RentalDays: 7}}

		cartRepo.On("GetCart", mock.Anything, cartID).Return(stored, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/cart/items/42",
			nil, map[string]string{"productId": "42"})
		req.Header.Set(handlers.CartIDHeader, cartID.String())
		recorder := httptest.NewRecorder()

		// Act
		handler.CheckItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"success": true, "data": {"product_id": 42, "in_cart": true}}`, recorder.Body.String())
	})

	t.Run("Success - absent product reports false", func(t *testing.T) {
		// Arrange
		cartRepo, _, handler := setupCartHandler(t)
		cartID := uuid.New()

		cartRepo.On("GetCart", mock.Anything, cartID).Return(emptyTestCart(cartID), nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/cart/items/42",
			nil, map[string]string{"productId": "42"})
		req.Header.Set(handlers.CartIDHeader, cartID.String())
		recorder := httptest.NewRecorder()

		// Act
		handler.CheckItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"success": true, "data": {"product_id": 42, "in_cart": false}}`, recorder.Body.String())
	})

	t.Run("Failure - an unparseable product id returns 400", func(t *testing.T) {
		// Arrange
		cartRepo, _, handler := setupCartHandler(t)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/cart/items/abc",
			nil, map[string]string{"productId": "abc"})
		recorder := httptest.NewRecorder()

		// Act
		handler.CheckItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		cartRepo.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})
}

func TestCartHandlerClearCart(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		cartRepo, _, handler := setupCartHandler(t)
		cartID := uuid.New()

		cartRepo.On("DeleteCart", mock.Anything, cartID).Return(nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodDelete, "/api/cart", nil, nil)
		req.Header.Set(handlers.CartIDHeader, cartID.String())
		recorder := httptest.NewRecorder()

		// Act
		handler.ClearCart().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		envelope := decodeCart(t, recorder)
		assert.True(t, envelope.Success)
		assert.Equal(t, cartID.String(), envelope.Data.Cart.ID)
		assert.Zero(t, envelope.Data.ItemCount)
		cartRepo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	})
}
