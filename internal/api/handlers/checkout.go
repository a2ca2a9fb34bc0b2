package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rentflow/rental-platform/internal/errors"
	"github.com/rentflow/rental-platform/internal/metrics"
	"github.com/rentflow/rental-platform/internal/models"
	service "github.com/rentflow/rental-platform/internal/services"
	"github.com/rentflow/rental-platform/internal/utils"
	"github.com/rentflow/rental-platform/internal/utils/response"
)

type CheckoutHandler struct {
	checkoutService    *service.CheckoutService
	reservationService *service.ReservationService
	validator          *validator.Validate
}

func NewCheckoutHandler(checkoutService *service.CheckoutService, reservationService *service.ReservationService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService:    checkoutService,
		reservationService: reservationService,
		validator:          validator.New(),
	}
}

func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := h.checkoutService.Checkout(r.Context(), r.Host, &req)
		if err != nil {
			slog.Error("Checkout failed",
				slog.String("customerEmail", req.Customer.Email),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		metrics.CheckoutSessionCreated(string(resp.Mode))

		slog.Info("Checkout session created",
			slog.String("sessionId", resp.SessionID),
			slog.String("mode", string(resp.Mode)))
		response.Success(w, http.StatusOK, resp)
	}
}

func (h *CheckoutHandler) VerifySession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			response.Error(w, errors.BadRequestError("session_id is required"))

			return
		}

		status, err := h.checkoutService.VerifySession(r.Context(), sessionID)
		if err != nil {
			slog.Error("Session verification failed",
				slog.String("sessionId", sessionID),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, status)
	}
}

func (h *CheckoutHandler) CreateReservation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req service.FinalizeRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := h.reservationService.Finalize(r.Context(), &req)
		if err != nil {
			slog.Error("Reservation finalization failed",
				slog.String("customerEmail", req.Customer.Email),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		slog.Info("Order finalized",
			slog.String("clientId", resp.ClientID.String()),
			slog.Int("reservations", len(resp.ReservationIDs)))
		response.Success(w, http.StatusCreated, resp)
	}
}
