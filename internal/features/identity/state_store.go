package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"zidotask/internal/util/app_errors"
	cache_utils "zidotask/internal/util/cache"
)

const oauthStateExpiry = 10 * time.Minute

type oauthState struct {
	Provider  string    `json:"provider"`
	Redirect  string    `json:"redirect"`
	CreatedAt time.Time `json:"createdAt"`
}

// OAuthStateStore keeps the anti-forgery state of authorization flows that
// are in progress. A state can be consumed once.
type OAuthStateStore struct {
	cache *cache_utils.CacheUtil[oauthState]
}

func NewOAuthStateStore(cache *cache_utils.CacheUtil[oauthState]) *OAuthStateStore {
	return &OAuthStateStore{cache: cache.WithExpiry(oauthStateExpiry)}
}

func (s *OAuthStateStore) Save(ctx context.Context, provider, redirect string) (string, error) {
	bytes := make([]byte, 24)
	if _, err := rand.Read(bytes); err != nil {
		return "", app_errors.Internal(fmt.Errorf("failed to generate oauth state: %w", err))
	}

	state := base64.RawURLEncoding.EncodeToString(bytes)

	err := s.cache.Set(ctx, state, &oauthState{
		Provider:  provider,
		Redirect:  redirect,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", app_errors.Internal(fmt.Errorf("failed to store oauth state: %w", err))
	}

	return state, nil
}

// Consume removes the state and returns what was saved with it. Unknown,
// reused, expired and foreign states are all rejected the same way.
func (s *OAuthStateStore) Consume(ctx context.Context, provider, state string) (*oauthState, error) {
	if state == "" {
		return nil, app_errors.Validation("missing oauth state")
	}

	stored := s.cache.GetAndDelete(ctx, state)
	if stored == nil || stored.Provider != provider {
		return nil, app_errors.Validation("invalid or expired oauth state").WithCode("INVALID_OAUTH_STATE")
	}

	return stored, nil
}
