package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskmanager/internal/kv"
)

const oauthStateKeyPrefix = "oauth_state:"

// StateStoreInterface defines storage for pending OAuth login states.
type StateStoreInterface interface {
	// Create stores a fresh state value bound to provider and returns it.
	Create(ctx context.Context, provider string, ttl time.Duration) (string, error)
	// Consume reports whether state was issued for provider; the state is spent either way.
	Consume(ctx context.Context, state, provider string) (bool, error)
}

// StateStore keeps OAuth states in Redis.
type StateStore struct {
	kv *kv.Client
}

// Ensure StateStore implements StateStoreInterface
var _ StateStoreInterface = (*StateStore)(nil)

// NewStateStore creates a new state store.
func NewStateStore(client *kv.Client) *StateStore {
	return &StateStore{kv: client}
}

// Create stores a new random state with TTL.
func (s *StateStore) Create(ctx context.Context, provider string, ttl time.Duration) (string, error) {
	state := uuid.NewString()
	if err := s.kv.Set(ctx, oauthStateKeyPrefix+state, []byte(provider), ttl); err != nil {
		return "", err
	}
	return state, nil
}

// Consume removes the state and checks that it belonged to provider.
func (s *StateStore) Consume(ctx context.Context, state, provider string) (bool, error) {
	if state == "" {
		return false, nil
	}
	data, err := s.kv.Take(ctx, oauthStateKeyPrefix+state)
	if err != nil || data == nil {
		return false, err
	}
	return string(data) == provider, nil
}
