package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports"
	"github.com/rs/zerolog"
)

// SessionContinuity carries the registry across process restarts through a
// SessionStore. The registry stays the source of truth while running; the
// store only sees its last synced value.
type SessionContinuity struct {
	store    ports.SessionStore
	registry *Registry
	logger   zerolog.Logger

	mu        sync.Mutex
	synced    domain.ClientIdentity
	hasSynced bool
}

func NewSessionContinuity(store ports.SessionStore, registry *Registry, logger zerolog.Logger) *SessionContinuity {
	return &SessionContinuity{
		store:    store,
		registry: registry,
		logger:   logger.With().Str("component", "session_continuity").Logger(),
	}
}

// Restore seeds the registry from the store. A broken store is logged and
// treated as having no session.
func (s *SessionContinuity) Restore(ctx context.Context) {
	if s.store == nil {
		return
	}

	client, err := s.store.Load(ctx)
	switch {
	case err == nil:
		s.registry.Select(client)
		s.mu.Lock()
		s.synced, s.hasSynced = client, true
		s.mu.Unlock()
		s.logger.Debug().Stringer("client", client).Msg("session restored")
	case errors.Is(err, domain.ErrSessionNotFound):
	default:
		s.logger.Warn().Err(err).Msg("could not restore session, starting without one")
	}
}

// Sync writes the registry to the store when it differs from the last
// synced value.
func (s *SessionContinuity) Sync(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.registry.Current()
	if ok == s.hasSynced && client == s.synced {
		return nil
	}

	if ok {
		if err := s.store.Save(ctx, client); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	} else if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear saved session: %w", err)
	}

	s.synced, s.hasSynced = client, ok
	s.logger.Debug().Stringer("client", client).Bool("active", ok).Msg("session synced")
	return nil
}
