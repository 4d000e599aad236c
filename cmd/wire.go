package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/camrelay/internal/adapters/api/rest"
	"github.com/bnema/camrelay/internal/adapters/gateway"
	"github.com/bnema/camrelay/internal/adapters/notify"
	rendersession "github.com/bnema/camrelay/internal/adapters/render/session"
	redisrepo "github.com/bnema/camrelay/internal/adapters/repo/redis"
	tomlrepo "github.com/bnema/camrelay/internal/adapters/repo/toml"
	"github.com/bnema/camrelay/internal/adapters/secrets"
	"github.com/bnema/camrelay/internal/application"
	"github.com/bnema/camrelay/internal/config"
	"github.com/bnema/camrelay/internal/logging"
	"github.com/bnema/camrelay/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type app struct {
	cfg       config.Config
	logger    zerolog.Logger
	gateway   *gateway.Gateway
	relay     *application.Relay
	scheduler *application.Scheduler
	lifecycle *application.Lifecycle
	sessions  *application.SessionContinuity
	secrets   ports.SecretStore
	notifier  ports.Notifier
	webhook   *notify.Webhook
	render    func(rendersession.Content) (string, error)
	closers   []func() error

	wired bool
}

// wire builds the object graph once. Later calls are no-ops.
func (a *app) wire(ctx context.Context, stdout, stderr io.Writer) error {
	if a.wired {
		return nil
	}

	v, err := config.NewViper()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	a.logger = logging.New(logging.ProfileRuntime, stderr)
	a.render = rendersession.Render

	gatewayCfg := gateway.DefaultConfig()
	gatewayCfg.RequestTimeout = cfg.API.RequestTimeout
	gatewayCfg.DialTimeout = cfg.API.DialTimeout
	gatewayCfg.MaxIdleConns = cfg.API.MaxIdleConns
	gw, err := gateway.Open(gatewayCfg, a.logger)
	if err != nil {
		return fmt.Errorf("open http gateway: %w", err)
	}
	a.gateway = gw
	a.closers = append(a.closers, gw.Close)

	backend, err := rest.NewClient(cfg.API.URL, gw)
	if err != nil {
		return fmt.Errorf("wire backend client: %w", err)
	}

	secretStore, err := secrets.NewPassWithFileFallback(cfg.SecretsDir())
	if err != nil {
		return fmt.Errorf("wire secret store: %w", err)
	}
	a.secrets = secretStore
	a.webhook = notify.NewWebhook(gw, secretStore, cfg.Notify.WebhookSecret, cfg.Notify.Username)
	a.notifier = notify.Fanout{notify.NewConsole(stdout), a.webhook}

	store, err := a.openSessionStore(v)
	if err != nil {
		return err
	}
	registry := application.NewRegistry()
	a.sessions = application.NewSessionContinuity(store, registry, a.logger)
	a.sessions.Restore(ctx)

	directory := application.NewDirectory(backend, ports.SystemClock{}, cfg.Directory.StaleAfter, a.logger)
	a.scheduler = application.NewScheduler(a.logger)
	a.relay = application.NewRelay(backend, registry, directory, a.scheduler, a.notifier, application.RelayConfig{
		LiveNoticeDelay: cfg.Notify.LiveDelay,
		ViewingURL:      cfg.Notify.ViewingURL,
	}, a.logger)
	a.lifecycle = application.NewLifecycle(a.notifier, a.logger)

	a.wired = true
	return nil
}

func (a *app) openSessionStore(v *viper.Viper) (ports.SessionStore, error) {
	switch a.cfg.Session.Store {
	case config.SessionStoreMemory:
		return nil, nil
	case config.SessionStoreRedis:
		client, err := redisrepo.NewUniversalClient(a.cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("wire redis session store: %w", err)
		}
		repo := redisrepo.NewSessionRepository(client, a.cfg.Redis.Key)
		a.closers = append(a.closers, repo.Close)
		return repo, nil
	default:
		repo, err := tomlrepo.NewSessionRepository(v, ports.SystemClock{})
		if err != nil {
			return nil, fmt.Errorf("wire session repository: %w", err)
		}
		return repo, nil
	}
}

func (a *app) syncSession(ctx context.Context) error {
	if !a.wired {
		return nil
	}
	return a.sessions.Sync(ctx)
}

// close stops deferred work before the gateway it depends on.
func (a *app) close() {
	if a.scheduler != nil {
		a.scheduler.Shutdown()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Debug().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}
