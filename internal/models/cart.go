package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceCalculation is the derived price breakdown for one line item, before
// quantity multiplication. It is recomputed whenever the rental length or the
// product's rate/tiers change and is never edited directly.
type PriceCalculation struct {
	PricePerDay  decimal.Decimal `json:"price_per_day"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	IsDiscounted bool            `json:"is_discounted"`
	TierLabel    string          `json:"tier_label,omitempty"`
}

// LineItem is one product entry in a shopper's cart, carrying a snapshot of
// the product's pricing so the cart stays renderable even if the catalog
// changes underneath it.
type LineItem struct {
	ProductID   int64             `json:"product_id"`
	ProductName string            `json:"product_name"`
	DailyRate   decimal.Decimal   `json:"daily_rate"`
	PriceTiers  []PriceTier       `json:"price_tiers,omitempty"`
	Quantity    int               `json:"quantity"`
	StartDate   string            `json:"start_date,omitempty"`
	EndDate     string            `json:"end_date,omitempty"`
	StartTime   string            `json:"start_time,omitempty"`
	EndTime     string            `json:"end_time,omitempty"`
	RentalDays  int               `json:"rental_days"`
	Calc        *PriceCalculation `json:"price_calculation,omitempty"`
}

// LineTotal is the item's contribution to the cart subtotal. When a computed
// breakdown is missing it falls back to daily rate × rental days × quantity.
func (li *LineItem) LineTotal() decimal.Decimal {
	if li.Calc != nil {
		return li.Calc.TotalPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
	}

	days := li.RentalDays
	if days < 1 {
		days = 1
	}

	return li.DailyRate.Mul(decimal.NewFromInt(int64(days))).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Cart struct {
	ID        uuid.UUID  `json:"id"`
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Find returns a pointer into Items for in-place mutation, or nil.
func (c *Cart) Find(productID int64) *LineItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}

	return nil
}

func (c *Cart) ItemCount() int {
	var count int

	for i := range c.Items {
		count += c.Items[i].Quantity
	}

	return count
}

func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero

	for i := range c.Items {
		subtotal = subtotal.Add(c.Items[i].LineTotal())
	}

	return subtotal
}

type AddItemRequest struct {
	ProductID  int64  `json:"product_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	RentalDays int    `json:"rental_days,omitempty" validate:"omitempty,min=1"`
	StartDate  string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime  string `json:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime    string `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
}

type UpdateItemRequest struct {
	Quantity   *int    `json:"quantity,omitempty" validate:"omitempty,min=1"`
	RentalDays *int    `json:"rental_days,omitempty" validate:"omitempty,min=1"`
	StartDate  *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime  *string `json:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime    *string `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
}

// CartView is the cart plus its derived aggregates, recomputed on every read.
type CartView struct {
	Cart      *Cart           `json:"cart"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func NewCartView(cart *Cart) *CartView {
	return &CartView{
		Cart:      cart,
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
	}
}
