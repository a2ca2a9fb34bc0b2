// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rentflow/rental-platform/internal/models"
)

type MockClientRepository struct {
	mock.Mock
}

func NewMockClientRepository(t *testing.T) *MockClientRepository {
	m := &MockClientRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockClientRepository) CreateClient(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)

	return args.Error(0)
}

func (m *MockClientRepository) GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) GetClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	args := m.Called(ctx, email)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) UpdateClient(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)

	return args.Error(0)
}

func (m *MockClientRepository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockClientRepository) ListClients(ctx context.Context, search string, page, size int) ([]*models.Client, int, error) {
	args := m.Called(ctx, search, page, size)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]*models.Client), args.Int(1), args.Error(2)
}

type MockProductRepository struct {
	mock.Mock
}

func NewMockProductRepository(t *testing.T) *MockProductRepository {
	m := &MockProductRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockProductRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	args := m.Called(ctx, page, size)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

type MockReservationRepository struct {
	mock.Mock
}

func NewMockReservationRepository(t *testing.T) *MockReservationRepository {
	m := &MockReservationRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockReservationRepository) FinalizeOrder(ctx context.Context, client *models.Client, reservations []*models.Reservation) error {
	args := m.Called(ctx, client, reservations)

	return args.Error(0)
}

func (m *MockReservationRepository) GetReservationByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListReservations(ctx context.Context, status models.ReservationStatus, page, size int) ([]*models.Reservation, int, error) {
	args := m.Called(ctx, status, page, size)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]*models.Reservation), args.Int(1), args.Error(2)
}

func (m *MockReservationRepository) UpdateReservationStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error {
	args := m.Called(ctx, id, status)

	return args.Error(0)
}

func (m *MockReservationRepository) DeleteReservation(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockReservationRepository) ListDeliveryStops(ctx context.Context, from, to time.Time) ([]*models.DeliveryStop, error) {
	args := m.Called(ctx, from, to)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.DeliveryStop), args.Error(1)
}

func (m *MockReservationRepository) FinancialReport(ctx context.Context, from, to time.Time) (*models.FinancialReport, error) {
	args := m.Called(ctx, from, to)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.FinancialReport), args.Error(1)
}

type MockStaffRepository struct {
	mock.Mock
}

func NewMockStaffRepository(t *testing.T) *MockStaffRepository {
	m := &MockStaffRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockStaffRepository) CreateStaffUser(ctx context.Context, user *models.StaffUser) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *MockStaffRepository) GetStaffUserByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	args := m.Called(ctx, email)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.StaffUser), args.Error(1)
}

func (m *MockStaffRepository) GetStaffUserByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.StaffUser), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func NewMockCartRepository(t *testing.T) *MockCartRepository {
	m := &MockCartRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCartRepository) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, cartID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)

	return args.Error(0)
}

func (m *MockCartRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	args := m.Called(ctx, cartID)

	return args.Error(0)
}

type MockSessionRepository struct {
	mock.Mock
}

func NewMockSessionRepository(t *testing.T) *MockSessionRepository {
	m := &MockSessionRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSessionRepository) SaveSession(ctx context.Context, session *models.CheckoutSession) error {
	args := m.Called(ctx, session)

	return args.Error(0)
}

func (m *MockSessionRepository) GetSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CheckoutSession), args.Error(1)
}

type MockRateLimitRepository struct {
	mock.Mock
}

func NewMockRateLimitRepository(t *testing.T) *MockRateLimitRepository {
	m := &MockRateLimitRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRateLimitRepository) CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error) {
	args := m.Called(ctx, username)

	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}
