// Package store keeps the marketplace's three persisted values (accounts,
// per-profile sessions and the listing catalog) as JSON documents in a
// domain.KeyValueStore.
//
// Reads are fail-soft: a value that no longer decodes is logged and replaced
// by its empty default instead of failing the caller. Backing-store errors
// are still returned.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/msomdec/campus-market/internal/domain"
)

const (
	KeyAccounts      = "accounts"
	KeyListings      = "listings"
	SessionKeyPrefix = "session/"
)

// SessionKey returns the key holding a profile's session.
func SessionKey(profile domain.ProfileID) string {
	return SessionKeyPrefix + string(profile)
}

func load[T any](ctx context.Context, kv domain.KeyValueStore, key string) (T, error) {
	var v T
	raw, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return v, nil
		}
		return v, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Warn("discarding unreadable stored value", "key", key, "error", err)
		var empty T
		return empty, nil
	}
	return v, nil
}

func save(ctx context.Context, kv domain.KeyValueStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
