package cookie

import (
	"net/http"
	"strings"
)

// Config provides environment-based configuration for the cookie manager.
type Config struct {
	// Secrets is a comma-separated list; the first signs, all verify.
	Secrets  string        `env:"COOKIE_SECRETS"`
	Path     string        `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string        `env:"COOKIE_DOMAIN" envDefault:""`
	Secure   bool          `env:"COOKIE_SECURE" envDefault:"true"`
	SameSite http.SameSite `env:"COOKIE_SAME_SITE" envDefault:"2"`
	MaxSize  int           `env:"COOKIE_MAX_SIZE" envDefault:"4096"`
}

// ParseSecrets splits comma-separated secrets, dropping blanks.
func ParseSecrets(raw string) []string {
	var secrets []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

// NewFromConfig creates a Manager from configuration.
// Only non-zero config values override the secure defaults.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	configOpts := make([]Option, 0, 4+len(opts))
	if cfg.Path != "" {
		configOpts = append(configOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	configOpts = append(configOpts, WithSecure(cfg.Secure))
	if cfg.SameSite != 0 {
		configOpts = append(configOpts, WithSameSite(cfg.SameSite))
	}
	configOpts = append(configOpts, opts...)

	m, err := New(ParseSecrets(cfg.Secrets), configOpts...)
	if err != nil {
		return nil, err
	}
	if cfg.MaxSize > 0 {
		m.maxSize = cfg.MaxSize
	}
	return m, nil
}
