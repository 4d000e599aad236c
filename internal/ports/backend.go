package ports

import (
	"context"

	"github.com/bnema/camrelay/internal/domain"
)

// ClientLister returns the clients currently reachable through the backend,
// in backend order.
type ClientLister interface {
	ListClients(ctx context.Context) ([]domain.ClientIdentity, error)
}

// CameraBackend issues control requests for one client. Implementations
// wrap transport failures with domain.ErrBackendUnreachable and report
// rejected requests as *domain.BackendError.
type CameraBackend interface {
	CameraStatus(ctx context.Context, client domain.ClientIdentity) (domain.CameraState, error)
	ToggleCamera(ctx context.Context, client domain.ClientIdentity) error
	SwitchCamera(ctx context.Context, client domain.ClientIdentity, on bool) error
	BlinkCamera(ctx context.Context, client domain.ClientIdentity, repeat, delay int) error
	CloseClient(ctx context.Context, client domain.ClientIdentity) error
}

type ClientBackend interface {
	ClientLister
	CameraBackend
}
