package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const DefaultStaleAfter = 10 * time.Second

const refreshKey = "clients"

// Directory caches the backend's client listing. Within staleAfter of the
// last refresh attempt it answers from the cache; a failed refresh keeps
// the previous entries.
type Directory struct {
	lister     ports.ClientLister
	clock      ports.Clock
	staleAfter time.Duration
	logger     zerolog.Logger
	group      singleflight.Group

	mu        sync.RWMutex
	entries   []domain.ClientIdentity
	fetchedAt time.Time
	checkedAt time.Time
}

type DirectorySnapshot struct {
	Entries   []domain.ClientIdentity
	FetchedAt time.Time
}

func NewDirectory(lister ports.ClientLister, clock ports.Clock, staleAfter time.Duration, logger zerolog.Logger) *Directory {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}

	return &Directory{
		lister:     lister,
		clock:      clock,
		staleAfter: staleAfter,
		logger:     logger.With().Str("component", "directory").Logger(),
	}
}

// List returns the cached clients whose "host:port" form starts with prefix,
// refreshing the cache first when it is stale.
func (d *Directory) List(ctx context.Context, prefix string) []domain.ClientIdentity {
	if !d.fresh(d.clock.Now()) {
		d.refresh(ctx)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	matches := make([]domain.ClientIdentity, 0, len(d.entries))
	for _, client := range d.entries {
		if strings.HasPrefix(client.String(), prefix) {
			matches = append(matches, client)
		}
	}

	return matches
}

func (d *Directory) ListStrings(ctx context.Context, prefix string) []string {
	clients := d.List(ctx, prefix)

	out := make([]string, 0, len(clients))
	for _, client := range clients {
		out = append(out, client.String())
	}
	return out
}

// Invalidate makes the next List go to the backend. Cached entries stay
// available until that refresh succeeds.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.checkedAt = time.Time{}
}

func (d *Directory) Snapshot() DirectorySnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := make([]domain.ClientIdentity, len(d.entries))
	copy(entries, d.entries)

	return DirectorySnapshot{Entries: entries, FetchedAt: d.fetchedAt}
}

func (d *Directory) fresh(now time.Time) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return !d.checkedAt.IsZero() && now.Sub(d.checkedAt) < d.staleAfter
}

// refresh is shared by every waiter of the flight, so the leader's
// cancellation must not fail it. The backend call stays bounded by the
// gateway timeout.
func (d *Directory) refresh(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	_, _, _ = d.group.Do(refreshKey, func() (any, error) {
		now := d.clock.Now()
		if d.fresh(now) {
			return nil, nil
		}

		clients, err := d.lister.ListClients(ctx)

		d.mu.Lock()
		defer d.mu.Unlock()

		d.checkedAt = now
		if err != nil {
			var event *zerolog.Event
			if errors.Is(err, domain.ErrBackendUnreachable) {
				event = d.logger.Error()
			} else {
				event = d.logger.Warn()
			}
			event.Err(err).Msg("could not fetch the clients, is the API running?")
			d.logger.Debug().
				Int("entries", len(d.entries)).
				Time("fetched_at", d.fetchedAt).
				Msg("serving stale directory")
			return nil, err
		}

		entries := make([]domain.ClientIdentity, len(clients))
		copy(entries, clients)
		d.entries = entries
		d.fetchedAt = now
		d.logger.Debug().Int("entries", len(entries)).Msg("directory refreshed")

		return nil, nil
	})
}
