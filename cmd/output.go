package cmd

import (
	"fmt"

	rendersession "github.com/bnema/camrelay/internal/adapters/render/session"
	"github.com/bnema/camrelay/internal/application"
	"github.com/spf13/cobra"
)

func writeRendered(cmd *cobra.Command, a *app, content rendersession.Content) error {
	rendered, err := a.render(content)
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// writeOutcome prints the outcome and turns backend failures into a command
// error. A missing session is a prompt, not a failure.
func writeOutcome(cmd *cobra.Command, a *app, outcome application.Outcome) error {
	if err := writeRendered(cmd, a, rendersession.OutcomeReport{Outcome: outcome}); err != nil {
		return err
	}

	switch outcome.Kind {
	case application.OutcomeBackendUnreachable, application.OutcomeBackendError:
		return fmt.Errorf("%s: %w", outcome.Operation, outcome.Err)
	default:
		return nil
	}
}
