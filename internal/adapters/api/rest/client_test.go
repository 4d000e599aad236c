package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClient = domain.ClientIdentity{Host: "10.0.0.1", Port: 9000}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)
	return client
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		wantErr string
	}{
		{name: "empty", baseURL: "", wantErr: "api base url is required"},
		{name: "scheme", baseURL: "ftp://example.com", wantErr: "must use http or https"},
		{name: "host", baseURL: "http://", wantErr: "host is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.baseURL, http.DefaultClient)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := NewClient("http://example.com", nil)
	require.Error(t, err)
}

func TestListClientsParsesBackendOrder(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/clients", r.URL.Path)
		_, _ = w.Write([]byte(`[{"host":"10.0.0.2","port":9001},{"host":"10.0.0.1","port":9000}]`))
	})

	clients, err := client.ListClients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.ClientIdentity{
		{Host: "10.0.0.2", Port: 9001},
		{Host: "10.0.0.1", Port: 9000},
	}, clients)
}

func TestListClientsKeepsBasePath(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/clients", r.URL.Path)
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/api/v1/", server.Client())
	require.NoError(t, err)

	clients, err := client.ListClients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestCameraStatusDecodesOnField(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/clients/10.0.0.1/9000/camera", r.URL.Path)
		_, _ = w.Write([]byte(`{"on":true}`))
	})

	state, err := client.CameraStatus(context.Background(), testClient)
	require.NoError(t, err)
	assert.True(t, state.On)
}

func TestCameraStatusMissingFieldIsBackendError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"state":"on"}`))
	})

	_, err := client.CameraStatus(context.Background(), testClient)
	var backendErr *domain.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusOK, backendErr.Status)
}

func TestCameraStatusInvalidJSONIsBackendError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.CameraStatus(context.Background(), testClient)
	var backendErr *domain.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Contains(t, err.Error(), "decode response")
}

func TestControlRequestsUseDocumentedRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		call       func(*Client) error
		wantMethod string
		wantPath   string
		wantQuery  map[string]string
	}{
		{
			name:       "toggle",
			call:       func(c *Client) error { return c.ToggleCamera(context.Background(), testClient) },
			wantMethod: http.MethodPost,
			wantPath:   "/clients/10.0.0.1/9000/camera/toggle",
		},
		{
			name:       "switch on",
			call:       func(c *Client) error { return c.SwitchCamera(context.Background(), testClient, true) },
			wantMethod: http.MethodPost,
			wantPath:   "/clients/10.0.0.1/9000/camera/switch",
			wantQuery:  map[string]string{"on": "true"},
		},
		{
			name:       "switch off",
			call:       func(c *Client) error { return c.SwitchCamera(context.Background(), testClient, false) },
			wantMethod: http.MethodPost,
			wantPath:   "/clients/10.0.0.1/9000/camera/switch",
			wantQuery:  map[string]string{"on": "false"},
		},
		{
			name:       "blink",
			call:       func(c *Client) error { return c.BlinkCamera(context.Background(), testClient, 3, 500) },
			wantMethod: http.MethodPost,
			wantPath:   "/clients/10.0.0.1/9000/camera/blink",
			wantQuery:  map[string]string{"repeat": "3", "delay": "500"},
		},
		{
			name:       "close",
			call:       func(c *Client) error { return c.CloseClient(context.Background(), testClient) },
			wantMethod: http.MethodDelete,
			wantPath:   "/clients/10.0.0.1/9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantMethod, r.Method)
				assert.Equal(t, tt.wantPath, r.URL.Path)
				for key, want := range tt.wantQuery {
					assert.Equal(t, want, r.URL.Query().Get(key))
				}
				w.WriteHeader(http.StatusOK)
			})

			require.NoError(t, tt.call(client))
		})
	}
}

func TestNonSuccessStatusIsBackendError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := client.ToggleCamera(context.Background(), testClient)
	var backendErr *domain.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusInternalServerError, backendErr.Status)
	assert.False(t, errors.Is(err, domain.ErrBackendUnreachable))
}

func TestConnectionFailureIsUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := NewClient(baseURL, &http.Client{Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.ListClients(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnreachable)
}
