package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rentflow/rental-platform/internal/errors"
	"github.com/rentflow/rental-platform/internal/models"
	service "github.com/rentflow/rental-platform/internal/services"
	"github.com/rentflow/rental-platform/internal/utils"
	"github.com/rentflow/rental-platform/internal/utils/response"
)

// CartIDHeader carries the device's cart identifier. A request without one
// gets a fresh ID, echoed back so the client can persist it.
const CartIDHeader = "X-Cart-ID"

type CartHandler struct {
	cartService *service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// resolveCartID reads the cart ID header, minting a new one for first-time
// devices. The resolved ID is always written back on the response.
func resolveCartID(w http.ResponseWriter, r *http.Request) uuid.UUID {

	cartID, err := uuid.Parse(r.Header.Get(CartIDHeader))
	if err != nil {
		cartID = uuid.New()
	}

	w.Header().Set(CartIDHeader, cartID.String())

	return cartID
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cartID := resolveCartID(w, r)

		cart, err := h.cartService.GetCart(r.Context(), cartID)
		if err != nil {
			slog.Error("Failed to load cart", slog.String("cartId", cartID.String()), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cartID := resolveCartID(w, r)

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, merged, err := h.cartService.AddItem(r.Context(), cartID, &req)
		if err != nil {
			slog.Error("Failed to add cart item",
				slog.String("cartId", cartID.String()),
				slog.Int64("productId", req.ProductID),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		slog.Info("Cart item added",
			slog.String("cartId", cartID.String()),
			slog.Int64("productId", req.ProductID),
			slog.Bool("merged", merged))

		status := http.StatusCreated
		if merged {
			status = http.StatusOK
		}

		response.Success(w, status, cart)
	}
}

func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cartID := resolveCartID(w, r)

		productID, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))

			return
		}

		var req models.UpdateItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.UpdateItem(r.Context(), cartID, productID, &req)
		if err != nil {
			slog.Error("Failed to update cart item",
				slog.String("cartId", cartID.String()),
				slog.Int64("productId", productID),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cartID := resolveCartID(w, r)

		productID, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))

			return
		}

		cart, removedName, err := h.cartService.RemoveItem(r.Context(), cartID, productID)
		if err != nil {
			slog.Error("Failed to remove cart item",
				slog.String("cartId", cartID.String()),
				slog.Int64("productId", productID),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		if removedName != "" {
			slog.Info("Cart item removed", slog.String("cartId", cartID.String()), slog.String("product", removedName))
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// CheckItem reports whether a product is currently in the device's cart.
func (h *CartHandler) CheckItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cartID := resolveCartID(w, r)

		productID, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))

			return
		}

		inCart, err := h.cartService.IsInCart(r.Context(), cartID, productID)
		if err != nil {
			slog.Error("Failed to check cart item",
				slog.String("cartId", cartID.String()),
				slog.Int64("productId", productID),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]any{
			"product_id": productID,
			"in_cart":    inCart,
		})
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cartID := resolveCartID(w, r)

		cart, err := h.cartService.ClearCart(r.Context(), cartID)
		if err != nil {
			slog.Error("Failed to clear cart", slog.String("cartId", cartID.String()), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		slog.Info("Cart cleared", slog.String("cartId", cartID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}
