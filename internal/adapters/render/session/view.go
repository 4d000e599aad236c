package session

import (
	"fmt"

	"github.com/bnema/camrelay/internal/application"
	"github.com/bnema/camrelay/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const notConnectedText = "Not connected to any session, run connect first."

// ClientList is the directory view. Active is marked when it appears in
// Clients.
type ClientList struct {
	Clients   []string
	Prefix    string
	Active    domain.ClientIdentity
	HasActive bool
}

func (c ClientList) render(s styles) string {
	header := fmt.Sprintf("clients: %d", len(c.Clients))
	if c.Prefix != "" {
		header += fmt.Sprintf(" (prefix %q)", c.Prefix)
	}
	lines := []string{s.title.Render("Reachable clients"), s.header.Render(header)}

	if len(c.Clients) == 0 {
		lines = append(lines, s.empty.Render("No clients available."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	active := ""
	if c.HasActive {
		active = c.Active.String()
	}
	for _, client := range c.Clients {
		if client == active {
			lines = append(lines, s.marker.Render("* ")+s.active.Render(client))
			continue
		}
		lines = append(lines, "  "+s.client.Render(client))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

type ActiveSession struct {
	Client    domain.ClientIdentity
	HasActive bool
}

func (a ActiveSession) render(s styles) string {
	if !a.HasActive {
		return s.failure.Render(notConnectedText)
	}
	return s.success.Render("Currently connected to ") + s.active.Render(a.Client.String()) + s.success.Render(".")
}

type SessionSwitched struct {
	Client domain.ClientIdentity
}

func (w SessionSwitched) render(s styles) string {
	return s.success.Render("Session switched to ") + s.active.Render(w.Client.String())
}

type OutcomeReport struct {
	Outcome application.Outcome
}

func (r OutcomeReport) render(s styles) string {
	o := r.Outcome
	switch o.Kind {
	case application.OutcomeNoActiveSession:
		return s.failure.Render(notConnectedText)
	case application.OutcomeBackendUnreachable:
		return lipgloss.JoinVertical(lipgloss.Left,
			s.failure.Render(fmt.Sprintf("Backend unreachable, %s was not sent to %s.", o.Operation, o.Client)),
			s.detail.Render(errText(o.Err)),
		)
	case application.OutcomeBackendError:
		return lipgloss.JoinVertical(lipgloss.Left,
			s.failure.Render(fmt.Sprintf("Backend rejected %s for %s with status %d.", o.Operation, o.Client, o.Status)),
			s.detail.Render(errText(o.Err)),
		)
	}

	switch o.Operation {
	case application.OperationStatus:
		if o.Camera == nil {
			return s.success.Render("Camera status unavailable.")
		}
		state := s.off.Render("false")
		if o.Camera.On {
			state = s.on.Render("true")
		}
		return s.detail.Render("• Turned on: ") + state
	case application.OperationSetState:
		if o.Camera == nil {
			return s.success.Render("Camera switched successfully.")
		}
		state := "off"
		if o.Camera.On {
			state = "on"
		}
		return s.success.Render(fmt.Sprintf("Camera turned %s successfully.", state))
	case application.OperationTerminate:
		return s.success.Render("Successfully closed ") + s.active.Render(o.Client.String()) + s.success.Render(" session.")
	default:
		return s.success.Render(fmt.Sprintf("%s sent to %s.", o.Operation, o.Client))
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
