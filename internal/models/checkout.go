package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutMode string

const (
	CheckoutModeGateway CheckoutMode = "gateway"
	CheckoutModeTest    CheckoutMode = "test"
)

// TestSessionPrefix marks locally synthesized checkout sessions. Verification
// short-circuits on it without ever calling the gateway.
const TestSessionPrefix = "test_session_"

type CustomerInfo struct {
	Name     string `json:"name" validate:"required,min=2,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Document string `json:"document,omitempty"`
}

type Address struct {
	Street     string `json:"street" validate:"required"`
	Number     string `json:"number,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
}

// Formatted renders the address as the single line stored on reservations.
func (a *Address) Formatted() string {
	line := a.Street
	if a.Number != "" {
		line += ", " + a.Number
	}

	return line + " - " + a.City + "/" + a.State + " - " + a.PostalCode
}

type CheckoutItem struct {
	ProductID  int64  `json:"product_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	RentalDays int    `json:"rental_days" validate:"required,min=1"`
	StartDate  string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type CheckoutRequest struct {
	Items           []CheckoutItem `json:"items" validate:"required,min=1,dive"`
	Customer        CustomerInfo   `json:"customer" validate:"required"`
	DeliveryAddress Address        `json:"delivery_address" validate:"required"`
	PickupAddress   Address        `json:"pickup_address"`
	SameAsDelivery  bool           `json:"same_as_delivery"`
}

type CheckoutResponse struct {
	SessionID string       `json:"session_id"`
	URL       string       `json:"url"`
	Mode      CheckoutMode `json:"mode"`
}

// CheckoutSession is one checkout attempt. Sessions are immutable after
// creation; a retried checkout produces a new session.
type CheckoutSession struct {
	ID              string          `json:"id"`
	URL             string          `json:"url"`
	Mode            CheckoutMode    `json:"mode"`
	AmountTotal     decimal.Decimal `json:"amount_total"`
	Customer        CustomerInfo    `json:"customer"`
	DeliveryAddress Address         `json:"delivery_address"`
	PickupAddress   Address         `json:"pickup_address"`
	Items           []CheckoutItem  `json:"items"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SessionStatus is the snapshot returned by checkout verification.
type SessionStatus struct {
	ID            string            `json:"id"`
	Mode          CheckoutMode      `json:"mode"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   decimal.Decimal   `json:"amount_total"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}
