package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports"
)

const maxWebhookErrorBytes = 4 << 10

var ErrWebhookNotConfigured = errors.New("notification webhook is not configured")

// Webhook posts notices as a single embed to a Discord compatible webhook.
// The URL is read from the secret store on every post.
type Webhook struct {
	http      ports.HTTPDoer
	secrets   ports.SecretStore
	secretKey string
	username  string
}

var _ ports.Notifier = (*Webhook)(nil)

func NewWebhook(doer ports.HTTPDoer, secrets ports.SecretStore, secretKey, username string) *Webhook {
	return &Webhook{http: doer, secrets: secrets, secretKey: secretKey, username: username}
}

type webhookPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []webhookEmbed `json:"embeds"`
}

type webhookEmbed struct {
	Description string `json:"description"`
	Color       int    `json:"color,omitempty"`
}

func (w *Webhook) PostNotice(ctx context.Context, notice domain.Notice) error {
	endpoint, err := w.endpoint(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(webhookPayload{
		Username: w.username,
		Embeds:   []webhookEmbed{{Description: notice.Text, Color: int(notice.Colour)}},
	})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxWebhookErrorBytes))
		if msg := strings.TrimSpace(string(detail)); msg != "" {
			return fmt.Errorf("post webhook: status %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("post webhook: status %d", resp.StatusCode)
	}

	return nil
}

func (w *Webhook) endpoint(ctx context.Context) (string, error) {
	if w.secrets == nil {
		return "", ErrWebhookNotConfigured
	}

	raw, err := w.secrets.Get(ctx, w.secretKey)
	if errors.Is(err, domain.ErrSecretNotFound) {
		return "", ErrWebhookNotConfigured
	}
	if err != nil {
		return "", fmt.Errorf("resolve webhook url: %w", err)
	}

	if err := ValidateWebhookURL(raw); err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// ValidateWebhookURL accepts absolute http(s) URLs only.
func ValidateWebhookURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("parse webhook url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("webhook url must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("webhook url must include a host")
	}
	return nil
}
