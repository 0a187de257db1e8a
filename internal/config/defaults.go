package config

import "strings"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

type siteDefaultApplier struct{}

func (siteDefaultApplier) Domain() string { return "site" }

func (siteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if strings.TrimSpace(cfg.Title) == "" {
		cfg.Title = "Documentation"
	}
	if cfg.Base == "" {
		cfg.Base = "/"
	}
	return nil
}

type articlesDefaultApplier struct{}

func (articlesDefaultApplier) Domain() string { return "articles" }

func (articlesDefaultApplier) ApplyDefaults(cfg *Config) error {
	a := &cfg.Articles
	if a.Dir == "" {
		a.Dir = "articles"
	}
	if a.LinkPrefix == "" {
		a.LinkPrefix = "/articles"
	}
	a.LinkPrefix = strings.TrimRight(a.LinkPrefix, "/")
	if a.Section == "" {
		a.Section = "Articles"
	}
	// An explicit empty list disables ignoring; only a missing key gets the default.
	if a.Ignore == nil {
		a.Ignore = []string{"assets"}
	}
	return nil
}

type runtimeDefaultApplier struct{}

func (runtimeDefaultApplier) Domain() string { return "runtime" }

func (runtimeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = "500ms"
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9464"
	}
	return nil
}

var defaultAppliers = []DefaultApplier{
	siteDefaultApplier{},
	articlesDefaultApplier{},
	runtimeDefaultApplier{},
}

// ApplyDefaults fills unset fields in every configuration domain.
func ApplyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
