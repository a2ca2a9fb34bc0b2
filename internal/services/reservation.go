package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentflow/rental-platform/internal/errors"
	"github.com/rentflow/rental-platform/internal/models"
	"github.com/rentflow/rental-platform/internal/pricing"
	repository "github.com/rentflow/rental-platform/internal/repositories"
	"github.com/rentflow/rental-platform/pkg/sendGrid"
)

type FinalizeRequest struct {
	Items           []models.CheckoutItem `json:"items" validate:"required,min=1,dive"`
	Customer        models.CustomerInfo   `json:"customer" validate:"required"`
	DeliveryAddress models.Address        `json:"delivery_address" validate:"required"`
	PickupAddress   models.Address        `json:"pickup_address"`
	SameAsDelivery  bool                  `json:"same_as_delivery"`
	TestMode        bool                  `json:"test_mode"`
}

type FinalizeResponse struct {
	ClientID       uuid.UUID   `json:"client_id"`
	ReservationIDs []uuid.UUID `json:"reservation_ids"`
}

// ReservationService turns a paid checkout session into durable client and
// reservation records, and serves the back-office reservation views.
type ReservationService struct {
	reservationRepo repository.ReservationRepository
	productRepo     repository.ProductRepository
	emailService    sendGrid.EmailService
}

func NewReservationService(reservationRepo repository.ReservationRepository, productRepo repository.ProductRepository, emailService sendGrid.EmailService) *ReservationService {
	return &ReservationService{reservationRepo: reservationRepo, productRepo: productRepo, emailService: emailService}
}

// Finalize upserts the client by email and writes one reservation per line
// item. The whole order commits atomically: a failed insert rolls back the
// client update and every already-written reservation.
func (s *ReservationService) Finalize(ctx context.Context, req *FinalizeRequest) (*FinalizeResponse, error) {

	if len(req.Items) == 0 {
		return nil, errors.ValidationError("Cannot finalize an order without items")
	}

	if req.SameAsDelivery {
		req.PickupAddress = req.DeliveryAddress
	}

	paymentStatus := models.PaymentStatusPaid
	if req.TestMode {
		paymentStatus = models.PaymentStatusTestPayment
	}

	client := &models.Client{
		Name:     req.Customer.Name,
		Email:    req.Customer.Email,
		Phone:    req.Customer.Phone,
		Document: req.Customer.Document,
	}

	now := time.Now()
	reservations := make([]*models.Reservation, 0, len(req.Items))

	for _, item := range req.Items {
		product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, errors.NotFoundError(fmt.Sprintf("Product %d not found", item.ProductID)).WithError(err)
		}

		days := pricing.ClampRentalDays(item.RentalDays)
		calc := pricing.Evaluate(product.DailyRate, days, product.PriceTiers)

		startDate, endDate := resolveRentalPeriod(item, days, now)

		reservations = append(reservations, &models.Reservation{
			ID:              uuid.New(),
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			StartDate:       startDate,
			EndDate:         endDate,
			Status:          models.ReservationStatusConfirmed,
			TotalPrice:      calc.TotalPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
			PaymentStatus:   paymentStatus,
			DeliveryAddress: req.DeliveryAddress.Formatted(),
			PickupAddress:   req.PickupAddress.Formatted(),
		})
	}

	if err := s.reservationRepo.FinalizeOrder(ctx, client, reservations); err != nil {
		return nil, errors.DatabaseError("Failed to create reservations").WithError(err)
	}

	resp := &FinalizeResponse{ClientID: client.ID}
	for _, reservation := range reservations {
		resp.ReservationIDs = append(resp.ReservationIDs, reservation.ID)
	}

	s.sendConfirmationEmail(ctx, client, reservations)

	return resp, nil
}

// sendConfirmationEmail is best-effort: a delivery failure is logged and the
// order still succeeds.
func (s *ReservationService) sendConfirmationEmail(ctx context.Context, client *models.Client, reservations []*models.Reservation) {
	if s.emailService == nil {
		return
	}

	total := decimal.Zero
	lines := make([]string, 0, len(reservations))

	for _, reservation := range reservations {
		total = total.Add(reservation.TotalPrice)
		lines = append(lines, fmt.Sprintf("- product %d x%d: %s to %s",
			reservation.ProductID, reservation.Quantity,
			reservation.StartDate.Format("2006-01-02"), reservation.EndDate.Format("2006-01-02")))
	}

	content := fmt.Sprintf("Hello %s,\n\nYour rental order is confirmed:\n%s\n\nTotal: %s\n",
		client.Name, strings.Join(lines, "\n"), total.StringFixed(2))

	err := s.emailService.Send(ctx, &models.EmailNotificationRequest{
		To:      client.Email,
		Subject: "Your rental order is confirmed",
		Content: content,
	})
	if err != nil {
		slog.Warn("Failed to send order confirmation email",
			slog.String("clientId", client.ID.String()),
			slog.String("error", err.Error()))
	}
}

func (s *ReservationService) GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {

	reservation, err := s.reservationRepo.GetReservationByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Reservation not found").WithError(err)
	}

	return reservation, nil
}

func (s *ReservationService) ListReservations(ctx context.Context, status models.ReservationStatus, page, size int) ([]*models.Reservation, int, error) {

	reservations, total, err := s.reservationRepo.ListReservations(ctx, status, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch reservations").WithError(err)
	}

	return reservations, total, nil
}

func (s *ReservationService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) (*models.Reservation, error) {

	if err := s.reservationRepo.UpdateReservationStatus(ctx, id, status); err != nil {
		return nil, errors.NotFoundError("Reservation not found").WithError(err)
	}

	reservation, err := s.reservationRepo.GetReservationByID(ctx, id)
	if err != nil {
		return nil, errors.DatabaseError("Failed to reload reservation").WithError(err)
	}

	return reservation, nil
}

func (s *ReservationService) DeleteReservation(ctx context.Context, id uuid.UUID) error {

	if err := s.reservationRepo.DeleteReservation(ctx, id); err != nil {
		return errors.NotFoundError("Reservation not found").WithError(err)
	}

	return nil
}

func (s *ReservationService) DeliverySchedule(ctx context.Context, from, to time.Time) ([]*models.DeliveryStop, error) {

	stops, err := s.reservationRepo.ListDeliveryStops(ctx, from, to)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch delivery schedule").WithError(err)
	}

	return stops, nil
}

func (s *ReservationService) FinancialReport(ctx context.Context, from, to time.Time) (*models.FinancialReport, error) {

	report, err := s.reservationRepo.FinancialReport(ctx, from, to)
	if err != nil {
		return nil, errors.DatabaseError("Failed to build financial report").WithError(err)
	}

	return report, nil
}

// resolveRentalPeriod parses the item's dates, defaulting the start to now
// and the end to now plus the rental length when a date is absent or
// unparseable.
func resolveRentalPeriod(item models.CheckoutItem, days int, now time.Time) (time.Time, time.Time) {
	startDate := now

	if item.StartDate != "" {
		if parsed, err := time.Parse("2006-01-02", item.StartDate); err == nil {
			startDate = parsed
		}
	}

	endDate := startDate.AddDate(0, 0, days)

	if item.EndDate != "" {
		if parsed, err := time.Parse("2006-01-02", item.EndDate); err == nil {
			endDate = parsed
		}
	}

	return startDate, endDate
}
