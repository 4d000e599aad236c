package gateway

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptrace"
	"sync"
	"time"

	"github.com/bnema/camrelay/internal/ports"
	"github.com/rs/zerolog"
)

var ErrClosed = errors.New("http gateway is closed")

type Config struct {
	RequestTimeout time.Duration
	DialTimeout    time.Duration
	KeepAlive      time.Duration
	MaxIdleConns   int
	UserAgent      string
}

func DefaultConfig() Config {
	return Config{
		RequestTimeout: 10 * time.Second,
		DialTimeout:    5 * time.Second,
		KeepAlive:      30 * time.Second,
		MaxIdleConns:   16,
		UserAgent:      "camrelay",
	}
}

func (c Config) validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("dial timeout must be positive, got %s", c.DialTimeout)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("max idle conns must not be negative, got %d", c.MaxIdleConns)
	}
	return nil
}

// Gateway is the single HTTP client every backend and notifier call goes
// through. It dials IPv4 only and emits trace events for each request.
type Gateway struct {
	client    *http.Client
	transport *http.Transport
	userAgent string
	logger    zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

var _ ports.HTTPDoer = (*Gateway)(nil)

func Open(cfg Config, logger zerolog.Logger) (*Gateway, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("open http gateway: %w", err)
	}

	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
		Resolver:  &net.Resolver{PreferGo: true},
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, _ string, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp4", addr)
		},
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConns,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   cfg.DialTimeout,
		ExpectContinueTimeout: time.Second,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
	}

	logger = logger.With().Str("component", "gateway").Logger()
	logger.Debug().
		Dur("request_timeout", cfg.RequestTimeout).
		Int("max_idle_conns", cfg.MaxIdleConns).
		Msg("http gateway opened")

	return &Gateway{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		transport: transport,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}, nil
}

// Do sends req through the shared connection pool. It never touches the
// network once Close has been called.
func (g *Gateway) Do(req *http.Request) (*http.Response, error) {
	if g == nil || g.client == nil {
		return nil, ErrClosed
	}

	g.mu.RLock()
	closed := g.closed
	g.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}

	if g.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	start := time.Now()
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), g.clientTrace(req)))

	resp, err := g.client.Do(req)
	var event *zerolog.Event
	if err != nil {
		event = g.logger.Warn().Err(err)
	} else {
		event = g.logger.Debug().Int("status", resp.StatusCode)
	}
	event.
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Dur("duration", time.Since(start)).
		Msg("http_request")

	return resp, err
}

// Close releases pooled connections. It is safe to call more than once and
// on a nil gateway.
func (g *Gateway) Close() error {
	if g == nil {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true

	if g.transport != nil {
		g.transport.CloseIdleConnections()
	}
	g.logger.Debug().Msg("http gateway closed")
	return nil
}

func (g *Gateway) clientTrace(req *http.Request) *httptrace.ClientTrace {
	logger := g.logger.With().Str("method", req.Method).Str("host", req.URL.Host).Logger()

	return &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			logger.Trace().Str("lookup", info.Host).Msg("dns_start")
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			event := logger.Trace().Int("addrs", len(info.Addrs))
			if info.Err != nil {
				event = event.Err(info.Err)
			}
			event.Msg("dns_done")
		},
		ConnectStart: func(network, addr string) {
			logger.Trace().Str("network", network).Str("addr", addr).Msg("connect_start")
		},
		ConnectDone: func(network, addr string, err error) {
			event := logger.Trace().Str("network", network).Str("addr", addr)
			if err != nil {
				event = event.Err(err)
			}
			event.Msg("connect_done")
		},
		GotConn: func(info httptrace.GotConnInfo) {
			logger.Trace().Bool("reused", info.Reused).Bool("was_idle", info.WasIdle).Msg("got_conn")
		},
		GotFirstResponseByte: func() {
			logger.Trace().Msg("first_response_byte")
		},
	}
}
