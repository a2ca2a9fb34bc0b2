package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PriceTier is a volume-discount rule: renting for at least MinDays drops the
// per-day rate to PricePerDay.
type PriceTier struct {
	MinDays     int             `json:"min_days" validate:"required,min=1"`
	PricePerDay decimal.Decimal `json:"price_per_day" validate:"required"`
	Label       string          `json:"label"`
}

type Product struct {
	ID            int64           `json:"id"`
	CategoryID    int64           `json:"category_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	PriceTiers    []PriceTier     `json:"price_tiers"`
	StockQuantity int64           `json:"stock_quantity"`
	SKU           string          `json:"sku"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Category      *Category       `json:"category,omitempty"`
}

type CreateProductRequest struct {
	CategoryID    int64           `json:"category_id" validate:"required"`
	Name          string          `json:"name" validate:"required,min=3,max=200"`
	Description   string          `json:"description,omitempty"`
	DailyRate     decimal.Decimal `json:"daily_rate" validate:"required"`
	PriceTiers    []PriceTier     `json:"price_tiers,omitempty" validate:"omitempty,dive"`
	StockQuantity int             `json:"stock_quantity" validate:"required,gte=0"`
	SKU           string          `json:"sku" validate:"required,min=3,max=50"`
}

type UpdateProductRequest struct {
	CategoryID    *int64           `json:"category_id,omitempty"`
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description   *string          `json:"description,omitempty"`
	DailyRate     *decimal.Decimal `json:"daily_rate,omitempty"`
	PriceTiers    *[]PriceTier     `json:"price_tiers,omitempty" validate:"omitempty,dive"`
	StockQuantity *int             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	Status        *string          `json:"status,omitempty" validate:"omitempty,oneof=active inactive discontinued"`
}
