package application

import (
	"github.com/bnema/camrelay/internal/domain"
)

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeNoActiveSession
	OutcomeBackendUnreachable
	OutcomeBackendError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeNoActiveSession:
		return "no_active_session"
	case OutcomeBackendUnreachable:
		return "backend_unreachable"
	case OutcomeBackendError:
		return "backend_error"
	default:
		return "unknown"
	}
}

type Operation string

const (
	OperationStatus    Operation = "status"
	OperationToggle    Operation = "toggle"
	OperationSetState  Operation = "switch"
	OperationBlink     Operation = "blink"
	OperationTerminate Operation = "close"
)

type ControlRequest struct {
	Operation Operation
	On        bool
	Repeat    int
	Delay     int
}

// Outcome is the result of one relay call. Client is zero for
// OutcomeNoActiveSession. Status is set for OutcomeBackendError. Camera is
// set after a successful status or switch call.
type Outcome struct {
	Kind      OutcomeKind
	Operation Operation
	Client    domain.ClientIdentity
	Status    int
	Camera    *domain.CameraState
	Err       error
}

func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}
