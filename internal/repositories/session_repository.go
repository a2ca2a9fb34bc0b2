package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rentflow/rental-platform/internal/models"
)

// Synthesized test sessions are kept long enough for the shopper to finish
// the simulated flow, then expire on their own.
const testSessionTTL = 24 * time.Hour

var ErrSessionNotFound = errors.New("checkout session not found")

// SessionRepository stores locally synthesized test checkout sessions,
// keyed by session id.
type SessionRepository interface {
	SaveSession(ctx context.Context, session *models.CheckoutSession) error
	GetSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error)
}

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepo(client *redis.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("checkout:test:%s", sessionID)
}

func (r *sessionRepository) SaveSession(ctx context.Context, session *models.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), data, testSessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save checkout session: %w", err)
	}

	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read checkout session: %w", err)
	}

	session := &models.CheckoutSession{}

	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	return session, nil
}
