package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationStatus string

type PaymentStatus string

const (
	ReservationStatusConfirmed  ReservationStatus = "confirmed"
	ReservationStatusInProgress ReservationStatus = "in_progress"
	ReservationStatusCompleted  ReservationStatus = "completed"
	ReservationStatusCancelled  ReservationStatus = "cancelled"

	PaymentStatusPaid        PaymentStatus = "paid"
	PaymentStatusTestPayment PaymentStatus = "test_payment"
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusRefunded    PaymentStatus = "refunded"
)

// Reservation is one rented product for one client over a date range. One row
// is created per cart line item when a paid checkout session is finalized.
type Reservation struct {
	ID              uuid.UUID         `json:"id"`
	ClientID        uuid.UUID         `json:"client_id"`
	ProductID       int64             `json:"product_id"`
	Quantity        int               `json:"quantity"`
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	Status          ReservationStatus `json:"status"`
	TotalPrice      decimal.Decimal   `json:"total_price"`
	PaymentStatus   PaymentStatus     `json:"payment_status"`
	DeliveryAddress string            `json:"delivery_address"`
	PickupAddress   string            `json:"pickup_address"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type UpdateReservationStatusRequest struct {
	Status ReservationStatus `json:"status" validate:"required,oneof=confirmed in_progress completed cancelled"`
}

// DeliveryKind distinguishes outbound deliveries from end-of-rental pickups
// on the deliveries schedule.
type DeliveryKind string

const (
	DeliveryKindDelivery DeliveryKind = "delivery"
	DeliveryKindPickup   DeliveryKind = "pickup"
)

// DeliveryStop is one scheduled address visit derived from a reservation.
type DeliveryStop struct {
	ReservationID uuid.UUID    `json:"reservation_id"`
	ClientID      uuid.UUID    `json:"client_id"`
	ClientName    string       `json:"client_name"`
	ProductID     int64        `json:"product_id"`
	Kind          DeliveryKind `json:"kind"`
	Due           time.Time    `json:"due"`
	Address       string       `json:"address"`
}

// FinancialReportRow aggregates reservation revenue for one month and one
// payment status.
type FinancialReportRow struct {
	Month            string          `json:"month"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	ReservationCount int             `json:"reservation_count"`
	Revenue          decimal.Decimal `json:"revenue"`
}

type FinancialReport struct {
	From         time.Time            `json:"from"`
	To           time.Time            `json:"to"`
	TotalRevenue decimal.Decimal      `json:"total_revenue"`
	Rows         []FinancialReportRow `json:"rows"`
}
