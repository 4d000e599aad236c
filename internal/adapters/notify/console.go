package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports"
	"github.com/charmbracelet/lipgloss"
)

// Console prints notices to the operator's terminal.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	prefix lipgloss.Style
}

var _ ports.Notifier = (*Console)(nil)

func NewConsole(out io.Writer) *Console {
	return &Console{
		out:    out,
		prefix: lipgloss.NewStyle().Bold(true),
	}
}

func (c *Console) PostNotice(ctx context.Context, notice domain.Notice) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := c.prefix
	if notice.Colour != domain.ColourNone {
		prefix = prefix.Foreground(lipgloss.Color(fmt.Sprintf("#%06X", int(notice.Colour))))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.out, "%s %s\n", prefix.Render("notice:"), notice.Text)
	return err
}
