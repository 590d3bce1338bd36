package store

import (
	"context"
	"fmt"

	"github.com/msomdec/campus-market/internal/domain"
)

// Sessions implements domain.SessionRepository with one key per profile.
type Sessions struct {
	kv domain.KeyValueStore
}

var _ domain.SessionRepository = (*Sessions)(nil)

func NewSessions(kv domain.KeyValueStore) *Sessions {
	return &Sessions{kv: kv}
}

func (s *Sessions) Load(ctx context.Context, profile domain.ProfileID) (*domain.Session, error) {
	session, err := load[*domain.Session](ctx, s.kv, SessionKey(profile))
	if err != nil {
		return nil, err
	}
	if session == nil || session.Email == "" {
		return nil, nil
	}
	return session, nil
}

func (s *Sessions) Save(ctx context.Context, profile domain.ProfileID, session *domain.Session) error {
	if session == nil {
		return s.Clear(ctx, profile)
	}
	return save(ctx, s.kv, SessionKey(profile), session)
}

func (s *Sessions) Clear(ctx context.Context, profile domain.ProfileID) error {
	if err := s.kv.Delete(ctx, SessionKey(profile)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
