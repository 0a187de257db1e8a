package config

import (
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "docsite.yaml"

// Config describes the site: its identity, where articles live and how the
// tooling around it behaves.
type Config struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description,omitempty"`
	Base        string         `yaml:"base"`
	LastUpdated bool           `yaml:"last_updated"`
	Mermaid     bool           `yaml:"mermaid"`
	Theme       ThemeConfig    `yaml:"theme"`
	Articles    ArticlesConfig `yaml:"articles"`
	Watch       WatchConfig    `yaml:"watch"`
	Logging     LoggingConfig  `yaml:"logging"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}

// ThemeConfig selects the layout wrapping the default theme.
type ThemeConfig struct {
	Layout string `yaml:"layout,omitempty"`
}

// ArticlesConfig controls how the sidebar is derived from article filenames.
type ArticlesConfig struct {
	Dir        string   `yaml:"dir"`
	LinkPrefix string   `yaml:"link_prefix"`
	Section    string   `yaml:"section"`
	Ignore     []string `yaml:"ignore"`
	Headings   bool     `yaml:"headings"`
}

// WatchConfig controls the article watcher.
type WatchConfig struct {
	Debounce       string `yaml:"debounce"`
	RescanInterval string `yaml:"rescan_interval,omitempty"`
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig enables the Prometheus endpoint of the watch command.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads, expands, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read configuration").
			WithContext("path", path).
			Build()
	}
	return Parse(data)
}

// Parse expands ${VAR} references in data and decodes it.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").
			UserAction().
			Build()
	}
	if err := ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.NewError(ferrors.CategoryAlreadyExists, "configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := Config{
		Title:       "My Blog",
		Description: "Articles and notes",
		Base:        "/my-blog/",
		LastUpdated: true,
		Mermaid:     true,
		Theme:       ThemeConfig{Layout: "custom-layout"},
		Articles: ArticlesConfig{
			Dir:        "articles",
			LinkPrefix: "/articles",
			Section:    "Articles",
			Ignore:     []string{"assets"},
		},
		Watch:   WatchConfig{Debounce: "500ms"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Addr: ":9464"},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "marshal example config").Build()
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write configuration").
			WithContext("path", path).
			Build()
	}
	return nil
}
