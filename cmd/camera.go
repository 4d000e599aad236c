package cmd

import (
	"fmt"

	"github.com/bnema/camrelay/internal/application"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the active client's camera is on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeOutcome(cmd, a, a.relay.Status(cmd.Context()))
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Toggle the active client's camera",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeOutcome(cmd, a, a.relay.Toggle(cmd.Context()))
		},
	}
}

func newTurnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "turn on|off",
		Short:     "Switch the active client's camera on or off",
		Long:      "Switch the active client's camera on or off. Switching on posts the viewing link once the stream has had time to start.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutcome(cmd, a, a.relay.SetState(cmd.Context(), args[0] == "on"))
		},
	}
}

func newBlinkCmd(a *app) *cobra.Command {
	var repeat int
	var delay int

	cmd := &cobra.Command{
		Use:   "blink",
		Short: "Blink the active client's camera light",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outcome, err := a.relay.Invoke(cmd.Context(), application.ControlRequest{
				Operation: application.OperationBlink,
				Repeat:    repeat,
				Delay:     delay,
			})
			if err != nil {
				return fmt.Errorf("blink: %w", err)
			}
			return writeOutcome(cmd, a, outcome)
		},
	}

	cmd.Flags().IntVar(&repeat, "repeat", 1, "Number of times the light should blink")
	cmd.Flags().IntVar(&delay, "delay", 1, "Interval between each blink")

	return cmd
}

func newCloseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Close the active session on the client (it cannot reconnect)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeOutcome(cmd, a, a.relay.Terminate(cmd.Context()))
		},
	}
}
