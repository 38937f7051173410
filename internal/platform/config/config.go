package config

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile       = ".env"
	defaultPort          = "8080"
	defaultReadTimeout   = 10 * time.Second
	defaultWriteTimeout  = 15 * time.Second
	defaultIdleTimeout   = 120 * time.Second
	defaultLogLevel      = "info"
	defaultSource        = "webpagewale.in"
	defaultBrand         = "WebpageWale"
	defaultCC            = "contact@webpagewale.in"
	defaultRelayEndpoint = "https://formsubmit.co/contact@webpagewale.in"
	defaultRevealTarget  = "#contact"
	defaultRevealFocus   = `input[name="name"]`
	defaultFocusDelay    = 450 * time.Millisecond
)

// Config captures runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Site    SiteConfig
	Catalog CatalogConfig
	Reveal  RevealConfig
	Log     LogConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	Dev            bool
	MetricsEnabled bool
}

// SiteConfig feeds the submission metadata and the review page.
type SiteConfig struct {
	Source        string
	Brand         string
	CC            string
	RelayEndpoint string
}

// CatalogConfig points at an optional YAML catalog; empty means the embedded default.
type CatalogConfig struct {
	File string
}

// RevealConfig holds the scroll and focus hints sent after a plan is chosen.
type RevealConfig struct {
	Target     string
	Focus      string
	FocusDelay time.Duration
}

// LogConfig configures zap.
type LogConfig struct {
	Level string
}

// ValidationError lists fields that are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the offending field names.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the dotenv path. An empty path disables dotenv loading.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects explicit values that win over the process environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves configuration with precedence dotenv < OS env < explicit map.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnv, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if value, ok := options.envMap[key]; ok {
			return value, true
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		value, ok := dotEnv[key]
		return value, ok
	}

	cfg := Config{
		Server: ServerConfig{
			Port:           stringWithDefault(lookup, "QUOTE_WEB_PORT", defaultPort),
			ReadTimeout:    durationWithDefault(lookup, "QUOTE_WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:   durationWithDefault(lookup, "QUOTE_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:    durationWithDefault(lookup, "QUOTE_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			Dev:            boolWithDefault(lookup, "QUOTE_WEB_DEV", false),
			MetricsEnabled: boolWithDefault(lookup, "QUOTE_WEB_METRICS_ENABLED", true),
		},
		Site: SiteConfig{
			Source:        stringWithDefault(lookup, "QUOTE_SITE_SOURCE", defaultSource),
			Brand:         stringWithDefault(lookup, "QUOTE_SITE_BRAND", defaultBrand),
			CC:            stringWithDefault(lookup, "QUOTE_SITE_CC", defaultCC),
			RelayEndpoint: stringWithDefault(lookup, "QUOTE_SITE_RELAY_ENDPOINT", defaultRelayEndpoint),
		},
		Catalog: CatalogConfig{
			File: stringWithDefault(lookup, "QUOTE_CATALOG_FILE", ""),
		},
		Reveal: RevealConfig{
			Target:     stringWithDefault(lookup, "QUOTE_REVEAL_TARGET", defaultRevealTarget),
			Focus:      stringWithDefault(lookup, "QUOTE_REVEAL_FOCUS", defaultRevealFocus),
			FocusDelay: durationWithDefault(lookup, "QUOTE_REVEAL_FOCUS_DELAY", defaultFocusDelay),
		},
		Log: LogConfig{
			Level: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address derived from the port.
func (c ServerConfig) Addr() string {
	return ":" + c.Port
}

func validateConfig(cfg Config) error {
	var invalid []string

	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port <= 0 || port > 65535 {
		invalid = append(invalid, "Server.Port")
	}
	if cfg.Server.ReadTimeout <= 0 {
		invalid = append(invalid, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		invalid = append(invalid, "Server.WriteTimeout")
	}
	if strings.TrimSpace(cfg.Site.Source) == "" {
		invalid = append(invalid, "Site.Source")
	}
	if _, err := mail.ParseAddress(cfg.Site.CC); err != nil {
		invalid = append(invalid, "Site.CC")
	}
	if u, err := url.Parse(cfg.Site.RelayEndpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		invalid = append(invalid, "Site.RelayEndpoint")
	}
	if cfg.Reveal.FocusDelay < 0 {
		invalid = append(invalid, "Reveal.FocusDelay")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

// loadDotEnv reads KEY=value pairs from path. A missing file or an empty path yields no
// values.
func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
