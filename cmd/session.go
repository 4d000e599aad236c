package cmd

import (
	"strings"

	rendersession "github.com/bnema/camrelay/internal/adapters/render/session"
	"github.com/bnema/camrelay/internal/domain"
	"github.com/spf13/cobra"
)

func newClientsCmd(a *app) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List the clients reachable through the relay API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients := a.relay.ListClients(cmd.Context(), prefix)
			active, ok := a.relay.ActiveSession()

			return writeRendered(cmd, a, rendersession.ClientList{
				Clients:   clients,
				Prefix:    prefix,
				Active:    active,
				HasActive: ok,
			})
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Only list clients whose host:port starts with this prefix")

	return cmd
}

func newConnectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connect HOST:PORT",
		Short: "Make a client the active session",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			if err := a.wire(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return a.relay.ListClients(cmd.Context(), toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := domain.ParseClientIdentity(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			client, err := a.relay.SelectClient(target.Host, target.Port)
			if err != nil {
				return err
			}

			return writeRendered(cmd, a, rendersession.SessionSwitched{Client: client})
		},
	}
}

func newSessionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, ok := a.relay.ActiveSession()
			return writeRendered(cmd, a, rendersession.ActiveSession{Client: client, HasActive: ok})
		},
	}
}
