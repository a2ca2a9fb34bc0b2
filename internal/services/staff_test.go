package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/rentflow/rental-platform/internal/errors"
	"github.com/rentflow/rental-platform/internal/models"
	"github.com/rentflow/rental-platform/internal/repositories/mocks"
	service "github.com/rentflow/rental-platform/internal/services"
)

var testJWTKey = []byte("test-signing-key")

func TestStaffRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockStaffRepo := mocks.NewMockStaffRepository(t)
		mockRateLimiter := mocks.NewMockRateLimitRepository(t)
		staffService := service.NewStaffService(mockStaffRepo, mockRateLimiter, testJWTKey)

		mockStaffRepo.On("GetStaffUserByEmail", ctx, "ops@example.com").Return(nil, errors.New("no rows")).Once()
		mockStaffRepo.On("CreateStaffUser", ctx, mock.AnythingOfType("*models.StaffUser")).Return(nil).Once()

		req := &models.RegisterRequest{Email: "ops@example.com", Password: "secret123", Name: "Ops User"}

		// Act
		user, err := staffService.Register(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "ops@example.com", user.Email)
		assert.NotEqual(t, "secret123", user.Password, "password must be stored hashed")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
	})

	t.Run("Failure - Duplicate Email", func(t *testing.T) {
		// Arrange
		mockStaffRepo := mocks.NewMockStaffRepository(t)
		mockRateLimiter := mocks.NewMockRateLimitRepository(t)
		staffService := service.NewStaffService(mockStaffRepo, mockRateLimiter, testJWTKey)

		existing := &models.StaffUser{ID: uuid.New(), Email: "ops@example.com"}
		mockStaffRepo.On("GetStaffUserByEmail", ctx, "ops@example.com").Return(existing, nil).Once()

		req := &models.RegisterRequest{Email: "ops@example.com", Password: "secret123", Name: "Ops User"}

		// Act
		user, err := staffService.Register(ctx, req)

		// Assert
		require.Error(t, err)
		assert.Nil(t, user)

		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
	})
}

func TestStaffLogin(t *testing.T) {
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	staffUser := &models.StaffUser{
		ID:       uuid.New(),
		Email:    "ops@example.com",
		Password: string(hashed),
		Name:     "Ops User",
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockStaffRepo := mocks.NewMockStaffRepository(t)
		mockRateLimiter := mocks.NewMockRateLimitRepository(t)
		staffService := service.NewStaffService(mockStaffRepo, mockRateLimiter, testJWTKey)

		mockRateLimiter.On("CheckLoginRateLimit", ctx, "ops@example.com").Return(true, 4, 0, nil).Once()
		mockStaffRepo.On("GetStaffUserByEmail", ctx, "ops@example.com").Return(staffUser, nil).Once()

		req := &models.LoginRequest{Email: "ops@example.com", Password: "secret123"}

		// Act
		resp, err := staffService.Login(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)
		assert.Positive(t, resp.ExpiresIn)

		// The token must carry the user's identity and round-trip with the key
		claims := &models.Claims{}
		token, err := jwt.ParseWithClaims(resp.Token, claims, func(t *jwt.Token) (any, error) {
			return testJWTKey, nil
		})
		require.NoError(t, err)
		assert.True(t, token.Valid)
		assert.Equal(t, staffUser.ID, claims.UserID)
		assert.Equal(t, staffUser.Email, claims.Email)
	})

	t.Run("Failure - Wrong Password", func(t *testing.T) {
		// Arrange
		mockStaffRepo := mocks.NewMockStaffRepository(t)
		mockRateLimiter := mocks.NewMockRateLimitRepository(t)
		staffService := service.NewStaffService(mockStaffRepo, mockRateLimiter, testJWTKey)

		mockRateLimiter.On("CheckLoginRateLimit", ctx, "ops@example.com").Return(true, 3, 0, nil).Once()
		mockStaffRepo.On("GetStaffUserByEmail", ctx, "ops@example.com").Return(staffUser, nil).Once()

		req := &models.LoginRequest{Email: "ops@example.com", Password: "wrong"}

		// Act
		resp, err := staffService.Login(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Empty(t, resp.Token)
		assert.Equal(t, 3, resp.RemainingTries)
	})

	t.Run("Failure - Rate Limited", func(t *testing.T) {
		// Arrange
		mockStaffRepo := mocks.NewMockStaffRepository(t)
		mockRateLimiter := mocks.NewMockRateLimitRepository(t)
		staffService := service.NewStaffService(mockStaffRepo, mockRateLimiter, testJWTKey)

		mockRateLimiter.On("CheckLoginRateLimit", ctx, "ops@example.com").Return(false, 0, 42, nil).Once()

		req := &models.LoginRequest{Email: "ops@example.com", Password: "secret123"}

		// Act
		resp, err := staffService.Login(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 42, resp.RetryAfter)
		mockStaffRepo.AssertNotCalled(t, "GetStaffUserByEmail", mock.Anything, mock.Anything)
	})
}
