package memoize

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/vyrodovalexey/decorate/observability"
)

// Common store errors.
var (
	// ErrNoEntry indicates that the key was not found in the store.
	ErrNoEntry = errors.New("memoize: no cached entry")

	// ErrInvalidStoreConfig indicates that the store configuration is invalid.
	ErrInvalidStoreConfig = errors.New("memoize: invalid store configuration")
)

// Store is external storage for memoized results. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get retrieves a value from the store.
	// Returns ErrNoEntry if the key is not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the store.
	Set(ctx context.Context, key string, value []byte) error

	// Close closes the store.
	Close() error
}

// callStore answers a call through the external store. Store failures other
// than a miss degrade to invoking the callable directly; the cache never
// breaks the call.
func (m *Memo[K, V]) callStore(ctx context.Context, key K) (V, error) {
	storeKey := m.cfg.keyFunc(key)

	data, err := m.cfg.store.Get(ctx, storeKey)
	switch {
	case err == nil:
		var value V
		if unmarshalErr := json.Unmarshal(data, &value); unmarshalErr == nil {
			m.recordHit()
			return value, nil
		}
		m.cfg.logger.Warn("memoize store entry not decodable, recomputing",
			observability.String("key", storeKey))
	case !errors.Is(err, ErrNoEntry):
		m.cfg.logger.Warn("memoize store get failed, recomputing",
			observability.String("key", storeKey),
			observability.Error(err))
	}

	value, err := m.fn(ctx, key)
	m.recordMiss()
	if err != nil {
		return value, err
	}

	data, marshalErr := json.Marshal(value)
	if marshalErr != nil {
		m.cfg.logger.Warn("memoize result not encodable, skipping store",
			observability.String("key", storeKey),
			observability.Error(marshalErr))
		return value, nil
	}
	if setErr := m.cfg.store.Set(ctx, storeKey, data); setErr != nil {
		m.cfg.logger.Warn("memoize store set failed",
			observability.String("key", storeKey),
			observability.Error(setErr))
	}

	return value, nil
}
