package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	shellPrompt         = "camrelay> "
	stoppedNoticeBudget = 5 * time.Second
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively against one long-lived session",
		Long:  "Run commands interactively. The shell keeps the client directory cache and the active session in memory between commands and posts deferred notices while it runs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.lifecycle.Started(cmd.Context())
			defer func() {
				ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), stoppedNoticeBudget)
				defer cancel()
				a.lifecycle.Stopped(ctx)
			}()

			return runShell(cmd, a)
		},
	}
}

func runShell(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	done := make(chan struct{})
	defer close(done)
	lines, scanErr := readLines(cmd.InOrStdin(), done)

	for {
		if _, err := fmt.Fprint(out, shellPrompt); err != nil {
			return err
		}

		var raw string
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(out)
			return nil
		case line, ok := <-lines:
			if !ok {
				_, _ = fmt.Fprintln(out)
				return <-scanErr
			}
			raw = line
		}

		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}

		line := newShellLineCmd(a, out, cmd.ErrOrStderr())
		line.SetArgs(fields)
		if err := line.ExecuteContext(ctx); err != nil {
			a.logger.Debug().Err(err).Str("line", raw).Msg("shell command failed")
		}
		if err := a.syncSession(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("could not save session")
		}
	}
}

// readLines feeds input lines to the shell loop so it can also watch for
// cancellation while the operator is idle. The reader stops handing out
// lines once done is closed.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

// newShellLineCmd builds a fresh command tree for each line so flag values
// never leak between lines.
func newShellLineCmd(a *app, out, errOut io.Writer) *cobra.Command {
	line := &cobra.Command{
		Use:           "camrelay",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logCommand(a, cmd, args)
		},
	}
	line.CompletionOptions.DisableDefaultCmd = true
	line.SetOut(out)
	line.SetErr(errOut)
	line.SetIn(strings.NewReader(""))

	addRelayCommands(line, a)

	return line
}
