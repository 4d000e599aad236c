package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, cleanup := newRootCmd()
	defer cleanup()

	return root.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, func()) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "camrelay",
		Short:         "camrelay: drive remote client cameras through the relay API",
		Long:          "camrelay lists the clients reachable through the relay API, keeps one of them as the active session and forwards camera commands to it.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipWiring(cmd) {
				return nil
			}
			if err := a.wire(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			logCommand(a, cmd, args)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !a.wired {
				return nil
			}
			if err := a.syncSession(cmd.Context()); err != nil {
				return err
			}
			if err := waitForNotices(cmd.Context(), cmd.ErrOrStderr(), a.scheduler); err != nil {
				a.logger.Warn().Err(err).Msg("pending notices dropped")
			}
			a.logger.Debug().Str("command", cmd.CommandPath()).Msg("command finished")
			return nil
		},
	}

	rootCmd.AddCommand(newVersionCmd(), newShellCmd(a), newNotifyCmd(a))
	addRelayCommands(rootCmd, a)

	return rootCmd, a.close
}

// addRelayCommands registers the session and camera commands. The shell
// registers the same set on its own per-line root.
func addRelayCommands(parent *cobra.Command, a *app) {
	parent.AddCommand(
		newClientsCmd(a),
		newConnectCmd(a),
		newSessionCmd(a),
		newStatusCmd(a),
		newToggleCmd(a),
		newTurnCmd(a),
		newBlinkCmd(a),
		newCloseCmd(a),
	)
}

// skipWiring reports commands that must work without a valid config.
func skipWiring(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion":
			return true
		}
	}
	return false
}

func logCommand(a *app, cmd *cobra.Command, args []string) {
	event := a.logger.Info().Str("command", cmd.CommandPath())
	if len(args) > 0 {
		event = event.Str("args", strings.Join(args, " "))
	}
	event.Msg("command used")
}
