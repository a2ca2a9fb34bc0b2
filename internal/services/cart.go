package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentflow/rental-platform/internal/errors"
	"github.com/rentflow/rental-platform/internal/models"
	"github.com/rentflow/rental-platform/internal/pricing"
	repository "github.com/rentflow/rental-platform/internal/repositories"
)

// CartService owns the shopper's cart: merge-on-add, partial updates,
// removal, clearing, and the derived aggregates. Every mutation recomputes
// the affected line's price breakdown and writes the whole cart back to
// storage.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (*models.CartView, error) {

	cart, err := s.cartRepo.GetCart(ctx, cartID)
	if err != nil {
		return nil, errors.InternalError("Failed to load cart").WithError(err)
	}

	return models.NewCartView(cart), nil
}

// AddItem merges into an existing line for the same product (quantities are
// summed, newly provided dates/times/rental length win) or appends a new
// line. The price snapshot always comes from the catalog, never from the
// shopper. The returned flag reports whether an existing line was updated.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, req *models.AddItemRequest) (*models.CartView, bool, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, false, errors.NotFoundError("Product not found").WithError(err)
	}

	cart, err := s.cartRepo.GetCart(ctx, cartID)
	if err != nil {
		return nil, false, errors.InternalError("Failed to load cart").WithError(err)
	}

	merged := false

	if existing := cart.Find(req.ProductID); existing != nil {
		existing.Quantity += req.Quantity

		if req.RentalDays > 0 {
			existing.RentalDays = req.RentalDays
		}

		if req.StartDate != "" {
			existing.StartDate = req.StartDate
		}

		if req.EndDate != "" {
			existing.EndDate = req.EndDate
		}

		if req.StartTime != "" {
			existing.StartTime = req.StartTime
		}

		if req.EndTime != "" {
			existing.EndTime = req.EndTime
		}

		s.reprice(existing, product)

		merged = true
	} else {
		item := models.LineItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			DailyRate:   product.DailyRate,
			PriceTiers:  product.PriceTiers,
			Quantity:    req.Quantity,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			RentalDays:  pricing.ClampRentalDays(req.RentalDays),
		}

		s.reprice(&item, product)

		cart.Items = append(cart.Items, item)
	}

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		return nil, false, errors.InternalError("Failed to save cart").WithError(err)
	}

	return models.NewCartView(cart), merged, nil
}

// UpdateItem applies a partial patch to the matching line. An unknown
// product id is a silent no-op.
func (s *CartService) UpdateItem(ctx context.Context, cartID uuid.UUID, productID int64, req *models.UpdateItemRequest) (*models.CartView, error) {

	cart, err := s.cartRepo.GetCart(ctx, cartID)
	if err != nil {
		return nil, errors.InternalError("Failed to load cart").WithError(err)
	}

	item := cart.Find(productID)
	if item == nil {
		return models.NewCartView(cart), nil
	}

	repriceNeeded := false

	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}

	if req.RentalDays != nil && *req.RentalDays != item.RentalDays {
		item.RentalDays = *req.RentalDays
		repriceNeeded = true
	}

	if req.StartDate != nil {
		item.StartDate = *req.StartDate
	}

	if req.EndDate != nil {
		item.EndDate = *req.EndDate
	}

	if req.StartTime != nil {
		item.StartTime = *req.StartTime
	}

	if req.EndTime != nil {
		item.EndTime = *req.EndTime
	}

	if repriceNeeded {
		calc := pricing.Evaluate(item.DailyRate, pricing.ClampRentalDays(item.RentalDays), item.PriceTiers)
		item.Calc = &calc
	}

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		return nil, errors.InternalError("Failed to save cart").WithError(err)
	}

	return models.NewCartView(cart), nil
}

// RemoveItem deletes the matching line and reports the removed product's
// name, or an empty string when the product was not in the cart.
func (s *CartService) RemoveItem(ctx context.Context, cartID uuid.UUID, productID int64) (*models.CartView, string, error) {

	cart, err := s.cartRepo.GetCart(ctx, cartID)
	if err != nil {
		return nil, "", errors.InternalError("Failed to load cart").WithError(err)
	}

	removedName := ""

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			removedName = cart.Items[i].ProductName
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

			break
		}
	}

	if removedName == "" {
		return models.NewCartView(cart), "", nil
	}

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		return nil, "", errors.InternalError("Failed to save cart").WithError(err)
	}

	return models.NewCartView(cart), removedName, nil
}

// ClearCart drops the stored blob entirely; the next read under the same id
// rehydrates as an empty cart.
func (s *CartService) ClearCart(ctx context.Context, cartID uuid.UUID) (*models.CartView, error) {

	if err := s.cartRepo.DeleteCart(ctx, cartID); err != nil {
		return nil, errors.InternalError("Failed to clear cart").WithError(err)
	}

	now := time.Now()

	return models.NewCartView(&models.Cart{
		ID:        cartID,
		Items:     []models.LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}), nil
}

func (s *CartService) IsInCart(ctx context.Context, cartID uuid.UUID, productID int64) (bool, error) {

	cart, err := s.cartRepo.GetCart(ctx, cartID)
	if err != nil {
		return false, errors.InternalError("Failed to load cart").WithError(err)
	}

	return cart.Find(productID) != nil, nil
}

// reprice refreshes the line's catalog snapshot and recomputes its breakdown.
func (s *CartService) reprice(item *models.LineItem, product *models.Product) {
	item.ProductName = product.Name
	item.DailyRate = product.DailyRate
	item.PriceTiers = product.PriceTiers
	item.RentalDays = pricing.ClampRentalDays(item.RentalDays)

	calc := pricing.Evaluate(item.DailyRate, item.RentalDays, item.PriceTiers)
	item.Calc = &calc
}
