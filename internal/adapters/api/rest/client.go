package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports"
)

const maxResponseBytes = 1 << 20

// Client talks to the backend control API. Every method maps transport
// failures to domain.ErrBackendUnreachable and non-2xx answers to
// *domain.BackendError.
type Client struct {
	baseURL *url.URL
	http    ports.HTTPDoer
}

var _ ports.ClientBackend = (*Client)(nil)

type clientPayload struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func NewClient(baseURL string, doer ports.HTTPDoer) (*Client, error) {
	if doer == nil {
		return nil, errors.New("http client is required")
	}

	parsed, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	return &Client{baseURL: parsed, http: doer}, nil
}

func (c *Client) ListClients(ctx context.Context) ([]domain.ClientIdentity, error) {
	var payload []clientPayload
	if err := c.do(ctx, http.MethodGet, c.endpoint(nil, "clients"), nil, &payload); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	clients := make([]domain.ClientIdentity, 0, len(payload))
	for _, entry := range payload {
		clients = append(clients, domain.ClientIdentity{Host: entry.Host, Port: entry.Port})
	}

	return clients, nil
}

func (c *Client) CameraStatus(ctx context.Context, client domain.ClientIdentity) (domain.CameraState, error) {
	var state struct {
		On *bool `json:"on"`
	}
	if err := c.do(ctx, http.MethodGet, c.clientEndpoint(client, nil, "camera"), nil, &state); err != nil {
		return domain.CameraState{}, fmt.Errorf("camera status of %s: %w", client, err)
	}
	if state.On == nil {
		return domain.CameraState{}, fmt.Errorf("camera status of %s: %w", client, &domain.BackendError{
			Status: http.StatusOK,
			Err:    errors.New(`response missing "on" field`),
		})
	}

	return domain.CameraState{On: *state.On}, nil
}

func (c *Client) ToggleCamera(ctx context.Context, client domain.ClientIdentity) error {
	if err := c.do(ctx, http.MethodPost, c.clientEndpoint(client, nil, "camera", "toggle"), nil, nil); err != nil {
		return fmt.Errorf("toggle camera of %s: %w", client, err)
	}
	return nil
}

func (c *Client) SwitchCamera(ctx context.Context, client domain.ClientIdentity, on bool) error {
	query := url.Values{}
	// The backend parses the flag case-insensitively, so "true" and "True"
	// are equivalent.
	query.Set("on", strconv.FormatBool(on))

	if err := c.do(ctx, http.MethodPost, c.clientEndpoint(client, query, "camera", "switch"), nil, nil); err != nil {
		return fmt.Errorf("switch camera of %s: %w", client, err)
	}
	return nil
}

func (c *Client) BlinkCamera(ctx context.Context, client domain.ClientIdentity, repeat, delay int) error {
	query := url.Values{}
	query.Set("repeat", strconv.Itoa(repeat))
	query.Set("delay", strconv.Itoa(delay))

	if err := c.do(ctx, http.MethodPost, c.clientEndpoint(client, query, "camera", "blink"), nil, nil); err != nil {
		return fmt.Errorf("blink camera of %s: %w", client, err)
	}
	return nil
}

func (c *Client) CloseClient(ctx context.Context, client domain.ClientIdentity) error {
	if err := c.do(ctx, http.MethodDelete, c.clientEndpoint(client, nil), nil, nil); err != nil {
		return fmt.Errorf("close client %s: %w", client, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrBackendUnreachable, method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &domain.BackendError{Status: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return &domain.BackendError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func (c *Client) clientEndpoint(client domain.ClientIdentity, query url.Values, segments ...string) string {
	path := append([]string{"clients", client.Host, strconv.Itoa(client.Port)}, segments...)
	return c.endpoint(query, path...)
}

func (c *Client) endpoint(query url.Values, segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}

	endpoint := *c.baseURL
	endpoint.RawPath = ""
	endpoint.Path = strings.TrimSuffix(c.baseURL.Path, "/") + "/" + strings.Join(segments, "/")
	endpoint.RawPath = strings.TrimSuffix(c.baseURL.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	endpoint.RawQuery = query.Encode()

	return endpoint.String()
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	if baseURL == "" {
		return nil, errors.New("api base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("api base url host is required")
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""

	return parsed, nil
}
