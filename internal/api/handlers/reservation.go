package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rentflow/rental-platform/internal/errors"
	"github.com/rentflow/rental-platform/internal/models"
	service "github.com/rentflow/rental-platform/internal/services"
	"github.com/rentflow/rental-platform/internal/utils"
	"github.com/rentflow/rental-platform/internal/utils/response"
)

type ReservationHandler struct {
	reservationService *service.ReservationService
	validator          *validator.Validate
}

func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService, validator: validator.New()}
}

func (h *ReservationHandler) GetReservation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid reservation id"))

			return
		}

		reservation, err := h.reservationService.GetReservation(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, reservation)
	}
}

func (h *ReservationHandler) ListReservations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, size := paginationParams(r)
		status := models.ReservationStatus(r.URL.Query().Get("status"))

		reservations, total, err := h.reservationService.ListReservations(r.Context(), status, page, size)
		if err != nil {
			slog.Error("Reservation listing failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     reservations,
			Total:    total,
			Page:     page,
			PageSize: size,
		})
	}
}

func (h *ReservationHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid reservation id"))

			return
		}

		var req models.UpdateReservationStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		reservation, err := h.reservationService.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			slog.Error("Reservation status update failed",
				slog.String("reservationId", id.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		slog.Info("Reservation status updated",
			slog.String("reservationId", id.String()),
			slog.String("status", string(req.Status)))
		response.Success(w, http.StatusOK, reservation)
	}
}

func (h *ReservationHandler) DeleteReservation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid reservation id"))

			return
		}

		if err := h.reservationService.DeleteReservation(r.Context(), id); err != nil {
			slog.Error("Reservation deletion failed",
				slog.String("reservationId", id.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		slog.Info("Reservation deleted", slog.String("reservationId", id.String()))
		response.Success(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

func (h *ReservationHandler) DeliverySchedule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		from, to, err := dateRangeParams(r)
		if err != nil {
			response.Error(w, err)

			return
		}

		stops, err := h.reservationService.DeliverySchedule(r.Context(), from, to)
		if err != nil {
			slog.Error("Delivery schedule failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]any{
			"from":  from.Format(time.DateOnly),
			"to":    to.Format(time.DateOnly),
			"stops": stops,
		})
	}
}

func (h *ReservationHandler) FinancialReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		from, to, err := dateRangeParams(r)
		if err != nil {
			response.Error(w, err)

			return
		}

		report, err := h.reservationService.FinancialReport(r.Context(), from, to)
		if err != nil {
			slog.Error("Financial report failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, report)
	}
}

// dateRangeParams parses from/to query dates, defaulting to the current
// month when both are absent.
func dateRangeParams(r *http.Request) (time.Time, time.Time, error) {

	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	if fromStr == "" && toStr == "" {
		now := time.Now().UTC()
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

		return from, from.AddDate(0, 1, 0), nil
	}

	from, err := time.Parse(time.DateOnly, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.BadRequestError("Invalid from date, expected YYYY-MM-DD")
	}

	to, err := time.Parse(time.DateOnly, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.BadRequestError("Invalid to date, expected YYYY-MM-DD")
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.BadRequestError("to must not precede from")
	}

	return from, to, nil
}
