package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/articles"
	"git.home.luguber.info/inful/docsite/internal/config"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/git"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/observability"
)

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"docsite.yaml" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text, json); defaults to logging.format from the config, then text"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Sidebar SidebarCmd `cmd:"" help:"Print the article sidebar derived from the articles directory"`
	Site    SiteCmd    `cmd:"" help:"Print the full site manifest"`
	Watch   WatchCmd   `cmd:"" help:"Watch the articles directory and print the sidebar on every change"`
	Dialog  DialogCmd  `cmd:"" help:"Open a dialog through the in-process dialog bus"`

	// logWriter replaces stderr as the log destination; nil means stderr.
	logWriter io.Writer
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return ferrors.ValidationError("invalid --log-format (use text or json)").
			WithContext("log_format", c.LogFormat).
			Build()
	}
	level := "info"
	if c.Verbose {
		level = "debug"
	}
	slog.SetDefault(observability.NewLogger(level, c.LogFormat, c.logOutput()))
	return nil
}

// loadConfig reads the configuration and applies its logging section. Flags
// win: --verbose forces debug and an explicit --log-format keeps its format.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	level, format := cfg.Logging.Level, cfg.Logging.Format
	if c.Verbose {
		level = "debug"
	}
	if c.LogFormat != "" {
		format = c.LogFormat
	}
	g.Logger = observability.NewLogger(level, format, c.logOutput())
	slog.SetDefault(g.Logger)
	return cfg, nil
}

func (c *CLI) logOutput() io.Writer {
	if c.logWriter != nil {
		return c.logWriter
	}
	return os.Stderr
}

// articlesDir resolves the configured articles directory relative to the
// configuration file.
func (c *CLI) articlesDir(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Articles.Dir) {
		return cfg.Articles.Dir
	}
	return filepath.Join(filepath.Dir(c.Config), cfg.Articles.Dir)
}

// scanOptions derives scan options from cfg. Git history is consulted only
// when last_updated is enabled; a directory outside any repository simply
// yields no timestamps.
func scanOptions(cfg *config.Config, dir string, logger *slog.Logger) articles.ScanOptions {
	opts := articles.ScanOptions{
		LinkPrefix: cfg.Articles.LinkPrefix,
		Ignore:     cfg.Articles.Ignore,
		Headings:   cfg.Articles.Headings,
		Logger:     logger,
	}
	if cfg.LastUpdated {
		history, err := git.OpenHistory(dir)
		if err != nil {
			logger.Warn("Last-updated timestamps unavailable", logfields.Path(dir), logfields.Error(err))
		} else {
			logger.Debug("Reading last-updated timestamps from git", logfields.Path(history.Root()))
			opts.LastUpdated = history
		}
	}
	return opts
}
