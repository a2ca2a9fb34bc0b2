package service

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"

	"github.com/rentflow/rental-platform/internal/errors"
	"github.com/rentflow/rental-platform/internal/models"
	repository "github.com/rentflow/rental-platform/internal/repositories"
)

type ClientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

func (s *ClientService) CreateClient(ctx context.Context, req *models.CreateClientRequest) (*models.Client, error) {

	existing, err := s.repo.GetClientByEmail(ctx, req.Email)
	if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.DatabaseError("Failed to check for existing client").WithError(err)
	}

	if existing != nil {
		return nil, errors.DuplicateEntryError("A client with this email already exists")
	}

	client := &models.Client{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Document: req.Document,
	}

	if err := s.repo.CreateClient(ctx, client); err != nil {
		return nil, errors.DatabaseError("Failed to create client").WithError(err)
	}

	return client, nil
}

func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {

	client, err := s.repo.GetClientByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Client not found").WithError(err)
	}

	return client, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, req *models.UpdateClientRequest) (*models.Client, error) {

	client, err := s.repo.GetClientByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Client not found").WithError(err)
	}

	if req.Name != nil {
		client.Name = *req.Name
	}

	if req.Email != nil {
		client.Email = *req.Email
	}

	if req.Phone != nil {
		client.Phone = *req.Phone
	}

	if req.Document != nil {
		client.Document = *req.Document
	}

	if err := s.repo.UpdateClient(ctx, client); err != nil {
		return nil, errors.DatabaseError("Failed to update client").WithError(err)
	}

	return client, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeleteClient(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Client not found").WithError(err)
		}

		return errors.DatabaseError("Failed to delete client").WithError(err)
	}

	return nil
}

func (s *ClientService) ListClients(ctx context.Context, search string, page, size int) ([]*models.Client, int, error) {

	clients, total, err := s.repo.ListClients(ctx, search, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch clients").WithError(err)
	}

	return clients, total, nil
}
