package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "CAMRELAY"
	configName = "config"
	configType = "toml"
	configDir  = ".camrelay"

	liveURLFormat = "https://www.youtube.com/channel/%s/live"
)

type SessionStoreKind string

const (
	SessionStoreTOML   SessionStoreKind = "toml"
	SessionStoreRedis  SessionStoreKind = "redis"
	SessionStoreMemory SessionStoreKind = "memory"
)

type Config struct {
	Dir       string
	API       APIConfig
	Directory DirectoryConfig
	Notify    NotifyConfig
	Session   SessionConfig
	Redis     RedisConfig
}

type APIConfig struct {
	URL            string
	RequestTimeout time.Duration
	DialTimeout    time.Duration
	MaxIdleConns   int
}

type DirectoryConfig struct {
	StaleAfter time.Duration
}

type NotifyConfig struct {
	LiveDelay time.Duration
	// ViewingURL is posted once a camera goes live. When unset it is built
	// from ChannelID.
	ViewingURL    string
	ChannelID     string
	WebhookSecret string
	Username      string
}

type SessionConfig struct {
	Store SessionStoreKind
	Path  string
}

type RedisConfig struct {
	URL string
	Key string
}

// SecretsDir is where file-backed secrets live when pass is unavailable.
func (c Config) SecretsDir() string {
	return filepath.Join(c.Dir, "secrets")
}

// NewViper returns a viper instance bound to ~/.camrelay/config.toml and the
// CAMRELAY_ environment. A missing config file is not an error.
func NewViper() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(homeDir, configDir)

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("dir", dir)
	v.SetDefault("api.url", "http://localhost:8000")
	v.SetDefault("api.request_timeout", 10*time.Second)
	v.SetDefault("api.dial_timeout", 5*time.Second)
	v.SetDefault("api.max_idle_conns", 16)
	v.SetDefault("directory.stale_after", 10*time.Second)
	v.SetDefault("notify.live_delay", 10*time.Second)
	v.SetDefault("notify.viewing_url", "")
	v.SetDefault("notify.channel_id", "")
	v.SetDefault("notify.webhook_secret", "camrelay/notify/webhook_url")
	v.SetDefault("notify.username", "camrelay")
	v.SetDefault("session.store", string(SessionStoreTOML))
	v.SetDefault("session.path", filepath.Join(dir, "session.toml"))
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.key", "camrelay:session:active")
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Dir: v.GetString("dir"),
		API: APIConfig{
			URL:            strings.TrimSpace(v.GetString("api.url")),
			RequestTimeout: v.GetDuration("api.request_timeout"),
			DialTimeout:    v.GetDuration("api.dial_timeout"),
			MaxIdleConns:   v.GetInt("api.max_idle_conns"),
		},
		Directory: DirectoryConfig{
			StaleAfter: v.GetDuration("directory.stale_after"),
		},
		Notify: NotifyConfig{
			LiveDelay:     v.GetDuration("notify.live_delay"),
			ViewingURL:    strings.TrimSpace(v.GetString("notify.viewing_url")),
			ChannelID:     strings.TrimSpace(v.GetString("notify.channel_id")),
			WebhookSecret: v.GetString("notify.webhook_secret"),
			Username:      v.GetString("notify.username"),
		},
		Session: SessionConfig{
			Store: SessionStoreKind(strings.ToLower(strings.TrimSpace(v.GetString("session.store")))),
			Path:  v.GetString("session.path"),
		},
		Redis: RedisConfig{
			URL: v.GetString("redis.url"),
			Key: v.GetString("redis.key"),
		},
	}

	if cfg.Notify.ViewingURL == "" && cfg.Notify.ChannelID != "" {
		cfg.Notify.ViewingURL = LiveURL(cfg.Notify.ChannelID)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LiveURL is the public live page of a YouTube channel.
func LiveURL(channelID string) string {
	return fmt.Sprintf(liveURLFormat, url.PathEscape(channelID))
}

func (c Config) validate() error {
	var errs []error

	parsed, err := url.Parse(c.API.URL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("api.url: %w", err))
	case parsed.Scheme != "http" && parsed.Scheme != "https":
		errs = append(errs, fmt.Errorf("api.url must be an absolute http or https URL, got %q", c.API.URL))
	case parsed.Host == "":
		errs = append(errs, fmt.Errorf("api.url must include a host, got %q", c.API.URL))
	}

	if c.Notify.ViewingURL == "" {
		errs = append(errs, errors.New("notify.viewing_url or notify.channel_id is required"))
	} else if viewing, err := url.Parse(c.Notify.ViewingURL); err != nil || (viewing.Scheme != "http" && viewing.Scheme != "https") || viewing.Host == "" {
		errs = append(errs, fmt.Errorf("notify.viewing_url must be an absolute http or https URL, got %q", c.Notify.ViewingURL))
	}

	positive := []struct {
		key   string
		value time.Duration
	}{
		{"api.request_timeout", c.API.RequestTimeout},
		{"api.dial_timeout", c.API.DialTimeout},
		{"directory.stale_after", c.Directory.StaleAfter},
		{"notify.live_delay", c.Notify.LiveDelay},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", p.key, p.value))
		}
	}
	if c.API.MaxIdleConns < 0 {
		errs = append(errs, fmt.Errorf("api.max_idle_conns must not be negative, got %d", c.API.MaxIdleConns))
	}

	switch c.Session.Store {
	case SessionStoreTOML:
		if c.Session.Path == "" {
			errs = append(errs, errors.New("session.path is required for the toml store"))
		}
	case SessionStoreRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url is required for the redis store"))
		}
	case SessionStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("session.store must be toml, redis or memory, got %q", c.Session.Store))
	}

	return errors.Join(errs...)
}
