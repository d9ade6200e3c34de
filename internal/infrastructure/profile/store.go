// Package profile implements the cache-through user risk profile store:
// consult the cache, else the authoritative store, else synthesize a
// default; derive scores; cache the result for 300s; invalidate on
// completion of a new assessment.
package profile

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// RawStore is the authoritative-store port this package needs.
type RawStore interface {
	GetProfileInputs(ctx context.Context, userID string) (risk.ProfileInputs, bool, error)
}

// Cache is the profile cache port this package needs.
type Cache interface {
	Get(ctx context.Context, userID string) (risk.UserRiskProfile, bool, error)
	Set(ctx context.Context, profile risk.UserRiskProfile) error
	Invalidate(ctx context.Context, userID string) error
}

// Store is the cache-through profile store.
type Store struct {
	cache   Cache
	store   RawStore
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// New constructs a Store wrapping the authoritative-store call in a
// circuit breaker, matching the model scorer's resilience pattern
// so a flapping store degrades to the synthesized default instead of
// being hammered on every request.
func New(cache Cache, store RawStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "profile-store",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &Store{cache: cache, store: store, breaker: breaker, logger: logger}
}

// Get returns the user's risk profile. Unavailable is set when the
// authoritative store failed and the default profile was substituted for
// a genuine lookup rather than a first-encounter miss.
func (s *Store) Get(ctx context.Context, userID string) (profile risk.UserRiskProfile, unavailable bool, err error) {
	if cached, hit, cacheErr := s.cache.Get(ctx, userID); cacheErr == nil && hit {
		return cached, false, nil
	} else if cacheErr != nil {
		s.logger.Warn("profile cache read failed, falling through to store", zap.Error(cacheErr), zap.String("user_id", userID))
	}

	result, breakerErr := s.breaker.Execute(func() (any, error) {
		inputs, found, storeErr := s.store.GetProfileInputs(ctx, userID)
		if storeErr != nil {
			return nil, storeErr
		}
		if !found {
			return nil, errProfileNotFound
		}
		return inputs, nil
	})

	var loaded risk.UserRiskProfile
	switch {
	case errors.Is(breakerErr, errProfileNotFound):
		loaded = risk.DefaultProfile(userID)
	case breakerErr != nil:
		s.logger.Error("profile store unavailable, synthesizing default", zap.Error(breakerErr), zap.String("user_id", userID))
		loaded = risk.DefaultProfile(userID)
		unavailable = true
	default:
		loaded = risk.DeriveProfile(userID, result.(risk.ProfileInputs))
	}

	loaded.LastUpdated = time.Now().UTC()

	if setErr := s.cache.Set(ctx, loaded); setErr != nil {
		s.logger.Warn("profile cache write failed", zap.Error(setErr), zap.String("user_id", userID))
	}

	return loaded, unavailable, nil
}

// Invalidate removes the cached profile for a user, called once an
// assessment for that user has been persisted.
func (s *Store) Invalidate(ctx context.Context, userID string) error {
	return s.cache.Invalidate(ctx, userID)
}

var errProfileNotFound = errors.New("profile: user not found in authoritative store")
