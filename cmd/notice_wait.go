package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/camrelay/internal/application"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type noticesDoneMsg struct {
	err error
}

type noticeWaitModel struct {
	spinner spinner.Model
	label   string
	wait    tea.Cmd
	err     error
	done    bool
}

func newNoticeWaitModel(label string, wait tea.Cmd) noticeWaitModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return noticeWaitModel{spinner: s, label: label, wait: wait}
}

func (m noticeWaitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wait)
}

func (m noticeWaitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case noticesDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m noticeWaitModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// waitForNotices keeps a one-shot invocation alive until its deferred
// notices are posted. Interrupting ctx abandons them.
func waitForNotices(ctx context.Context, output io.Writer, scheduler *application.Scheduler) error {
	if scheduler == nil || scheduler.Pending() == 0 {
		return nil
	}

	waitCmd := func() tea.Msg {
		return noticesDoneMsg{err: scheduler.Wait(ctx)}
	}

	label := fmt.Sprintf("Posting %d pending notice(s), press Ctrl+C to skip...", scheduler.Pending())
	p := tea.NewProgram(
		newNoticeWaitModel(label, waitCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(noticeWaitModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
