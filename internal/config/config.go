// Package config loads the walletwidget service configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// WW_* environment variables. Command-line flags are applied last by the
// CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	API     API     `yaml:"api"`
	Widgets Widgets `yaml:"widgets"`
	Tokens  Tokens  `yaml:"tokens"`
	Log     Log     `yaml:"log"`
	OTel    OTel    `yaml:"otel"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr            string        `yaml:"addr" env:"WW_HTTP_ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"WW_SHUTDOWN_TIMEOUT"`
	// AllowedOrigins may load widgets cross-origin with credentials.
	AllowedOrigins []string `yaml:"allowed_origins" env:"WW_ALLOWED_ORIGINS" envSeparator:","`
}

// API configures the remote wallet API the widgets read from. A relative
// LoginURL is resolved against BaseURL so the sign-in link points at the
// wallet, not at the embedding site.
type API struct {
	BaseURL      string        `yaml:"base_url" env:"WW_API_BASE_URL"`
	LoginURL     string        `yaml:"login_url" env:"WW_LOGIN_URL"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"WW_FETCH_TIMEOUT"`
}

// Widgets configures embed tag discovery and settlement. PublicPath is the
// widget endpoint deferred containers load from; it must be an absolute URL
// once deferred mode is enabled, because it is requested from the host page.
type Widgets struct {
	ScriptName  string `yaml:"script_name" env:"WW_SCRIPT_NAME"`
	PublicPath  string `yaml:"public_path" env:"WW_WIDGET_PATH"`
	Concurrency int    `yaml:"concurrency" env:"WW_CONCURRENCY"`
}

// Tokens configures deferred widget tokens.
type Tokens struct {
	SigningKey string        `yaml:"signing_key" env:"WW_SIGNING_KEY"`
	TTL        time.Duration `yaml:"ttl" env:"WW_TOKEN_TTL"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `yaml:"level" env:"WW_LOG_LEVEL"`
	Format string `yaml:"format" env:"WW_LOG_FORMAT"`
}

// OTel configures trace export. Tracing is off when Endpoint is empty.
type OTel struct {
	Endpoint    string `yaml:"endpoint" env:"WW_OTEL_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"WW_OTEL_SERVICE_NAME"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		API: API{
			LoginURL:     "/auth",
			FetchTimeout: 10 * time.Second,
		},
		Widgets: Widgets{
			ScriptName:  "wallet-widget.js",
			PublicPath:  "/v1/widgets",
			Concurrency: 8,
		},
		Tokens: Tokens{
			TTL: 24 * time.Hour,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
		OTel: OTel{
			ServiceName: "walletwidget",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports configuration that cannot run the service.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.API.BaseURL) == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	} else if !absoluteURL(c.API.BaseURL) {
		errs = append(errs, fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL))
	} else if _, err := c.LoginURL(); err != nil {
		errs = append(errs, err)
	}
	if c.API.FetchTimeout <= 0 {
		errs = append(errs, errors.New("api.fetch_timeout must be positive"))
	}
	if c.Widgets.Concurrency <= 0 {
		errs = append(errs, errors.New("widgets.concurrency must be positive"))
	}
	if strings.TrimSpace(c.Widgets.ScriptName) == "" {
		errs = append(errs, errors.New("widgets.script_name is required"))
	}
	if c.DeferredEnabled() && !absoluteURL(c.Widgets.PublicPath) {
		errs = append(errs, fmt.Errorf("widgets.public_path %q must be an absolute URL when tokens.signing_key is set", c.Widgets.PublicPath))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoginURL returns the sign-in link shown on AuthError, resolved against
// the API base URL when it is relative.
func (c Config) LoginURL() (string, error) {
	login, err := url.Parse(strings.TrimSpace(c.API.LoginURL))
	if err != nil {
		return "", fmt.Errorf("api.login_url %q: %w", c.API.LoginURL, err)
	}
	if login.IsAbs() {
		if login.Scheme != "http" && login.Scheme != "https" {
			return "", fmt.Errorf("api.login_url %q: scheme must be http or https", c.API.LoginURL)
		}
		return login.String(), nil
	}
	base, err := url.Parse(c.API.BaseURL)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return "", fmt.Errorf("api.login_url %q is relative and api.base_url is not an absolute URL", c.API.LoginURL)
	}
	return base.ResolveReference(login).String(), nil
}

func absoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// DeferredEnabled reports whether deferred tokens can be issued.
func (c Config) DeferredEnabled() bool {
	return c.Tokens.SigningKey != ""
}

// ParseLevel maps a level name onto slog.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: %w", s, err)
	}
	return l, nil
}
