package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rentflow/rental-platform/internal/models"
)

// CartRepository persists one shopper's cart as a single JSON blob keyed by
// the device's cart id. A missing or corrupt blob reads back as an empty
// cart; the shopper is never shown a storage error. Carts have no expiry.
type CartRepository interface {
	GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
}

type cartRepository struct {
	client *redis.Client
}

func NewCartRepo(client *redis.Client) CartRepository {
	return &cartRepository{client: client}
}

func cartKey(cartID uuid.UUID) string {
	return fmt.Sprintf("cart:%s", cartID)
}

func (r *cartRepository) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(cartID)).Bytes()

	if errors.Is(err, redis.Nil) {
		return emptyCart(cartID), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	cart := &models.Cart{}

	if err := json.Unmarshal(data, cart); err != nil {
		// Corrupt storage is treated as an empty cart, not an error.
		slog.Warn("Discarding unreadable cart blob",
			slog.String("cartId", cartID.String()),
			slog.String("error", err.Error()))

		return emptyCart(cartID), nil
	}

	return cart, nil
}

func (r *cartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(cart.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	if err := r.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	return nil
}

func emptyCart(cartID uuid.UUID) *models.Cart {
	now := time.Now()

	return &models.Cart{
		ID:        cartID,
		Items:     []models.LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
