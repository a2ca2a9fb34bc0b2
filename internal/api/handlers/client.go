package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rentflow/rental-platform/internal/errors"
	"github.com/rentflow/rental-platform/internal/models"
	service "github.com/rentflow/rental-platform/internal/services"
	"github.com/rentflow/rental-platform/internal/utils"
	"github.com/rentflow/rental-platform/internal/utils/response"
)

type ClientHandler struct {
	clientService *service.ClientService
	validator     *validator.Validate
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService, validator: validator.New()}
}

func (h *ClientHandler) CreateClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.CreateClientRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		client, err := h.clientService.CreateClient(r.Context(), &req)
		if err != nil {
			slog.Error("Client creation failed", slog.String("email", req.Email), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		slog.Info("Client created", slog.String("clientId", client.ID.String()))
		response.Success(w, http.StatusCreated, client)
	}
}

func (h *ClientHandler) GetClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid client id"))

			return
		}

		client, err := h.clientService.GetClient(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, client)
	}
}

func (h *ClientHandler) UpdateClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid client id"))

			return
		}

		var req models.UpdateClientRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		client, err := h.clientService.UpdateClient(r.Context(), id, &req)
		if err != nil {
			slog.Error("Client update failed", slog.String("clientId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		slog.Info("Client updated", slog.String("clientId", client.ID.String()))
		response.Success(w, http.StatusOK, client)
	}
}

func (h *ClientHandler) DeleteClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid client id"))

			return
		}

		if err := h.clientService.DeleteClient(r.Context(), id); err != nil {
			slog.Error("Client deletion failed", slog.String("clientId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		slog.Info("Client deleted", slog.String("clientId", id.String()))
		response.Success(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

func (h *ClientHandler) ListClients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, size := paginationParams(r)
		search := r.URL.Query().Get("search")

		clients, total, err := h.clientService.ListClients(r.Context(), search, page, size)
		if err != nil {
			slog.Error("Client listing failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     clients,
			Total:    total,
			Page:     page,
			PageSize: size,
		})
	}
}
