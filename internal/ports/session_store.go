package ports

import (
	"context"

	"github.com/bnema/camrelay/internal/domain"
)

// SessionStore persists the operator's active client between processes.
// Load returns domain.ErrSessionNotFound when nothing is stored.
type SessionStore interface {
	Load(ctx context.Context) (domain.ClientIdentity, error)
	Save(ctx context.Context, client domain.ClientIdentity) error
	Clear(ctx context.Context) error
}
