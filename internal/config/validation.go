package config

import (
	"slices"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// ValidateConfig checks a defaulted configuration.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	for _, check := range []func() error{v.validateSite, v.validateArticles, v.validateWatch, v.validateLogging} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type configurationValidator struct {
	config *Config
}

func (v *configurationValidator) validateSite() error {
	base := v.config.Base
	if !strings.HasPrefix(base, "/") || !strings.HasSuffix(base, "/") {
		return ferrors.ConfigError("base must start and end with /").
			WithContext("base", base).
			Build()
	}
	return nil
}

func (v *configurationValidator) validateArticles() error {
	a := v.config.Articles
	if a.LinkPrefix != "" && !strings.HasPrefix(a.LinkPrefix, "/") {
		return ferrors.ConfigError("articles.link_prefix must start with /").
			WithContext("link_prefix", a.LinkPrefix).
			Build()
	}
	if strings.TrimSpace(a.Dir) == "" {
		return ferrors.ConfigError("articles.dir cannot be empty").Build()
	}
	return nil
}

func (v *configurationValidator) validateWatch() error {
	if _, err := v.config.DebounceDuration(); err != nil {
		return err
	}
	if _, err := v.config.RescanIntervalDuration(); err != nil {
		return err
	}
	return nil
}

func (v *configurationValidator) validateLogging() error {
	l := v.config.Logging
	if !slices.Contains(validLogLevels, l.Level) {
		return ferrors.ConfigError("invalid logging.level").
			WithContext("level", l.Level).
			WithContext("valid", validLogLevels).
			Build()
	}
	if !slices.Contains(validLogFormats, l.Format) {
		return ferrors.ConfigError("invalid logging.format").
			WithContext("format", l.Format).
			WithContext("valid", validLogFormats).
			Build()
	}
	return nil
}

// DebounceDuration parses watch.debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	return parseDuration("watch.debounce", c.Watch.Debounce)
}

// RescanIntervalDuration parses watch.rescan_interval; zero disables periodic rescans.
func (c *Config) RescanIntervalDuration() (time.Duration, error) {
	if c.Watch.RescanInterval == "" {
		return 0, nil
	}
	return parseDuration("watch.rescan_interval", c.Watch.RescanInterval)
}

func parseDuration(field, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid duration").
			UserAction().
			WithContext("field", field).
			WithContext("value", raw).
			Build()
	}
	if d < 0 {
		return 0, ferrors.ConfigError("duration cannot be negative").
			WithContext("field", field).
			WithContext("value", raw).
			Build()
	}
	return d, nil
}
