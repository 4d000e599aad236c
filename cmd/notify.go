package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/camrelay/internal/adapters/notify"
	"github.com/bnema/camrelay/internal/domain"
	"github.com/spf13/cobra"
)

func newNotifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Configure where notices are posted",
	}

	cmd.AddCommand(newNotifyWebhookCmd(a), newNotifyTestCmd(a))

	return cmd
}

func newNotifyWebhookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the chat webhook notices are posted to",
	}

	var webhookURL string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Store the webhook URL in the secret store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			webhookURL = strings.TrimSpace(webhookURL)
			if err := notify.ValidateWebhookURL(webhookURL); err != nil {
				return err
			}
			if err := a.secrets.Put(cmd.Context(), a.cfg.Notify.WebhookSecret, webhookURL); err != nil {
				return fmt.Errorf("store webhook url: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Webhook saved.")
			return err
		},
	}
	setCmd.Flags().StringVar(&webhookURL, "url", "", "Webhook URL")
	_ = setCmd.MarkFlagRequired("url")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored webhook URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.secrets.Delete(cmd.Context(), a.cfg.Notify.WebhookSecret); err != nil {
				return fmt.Errorf("remove webhook url: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Webhook removed.")
			return err
		},
	}

	cmd.AddCommand(setCmd, clearCmd)

	return cmd
}

func newNotifyTestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Post a test notice to the configured webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			notice := domain.Notice{Text: "camrelay test notice", Colour: domain.ColourBlue}
			if err := a.webhook.PostNotice(cmd.Context(), notice); err != nil {
				return fmt.Errorf("post test notice: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Test notice posted.")
			return err
		},
	}
}
