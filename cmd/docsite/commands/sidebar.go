package commands

import (
	"git.home.luguber.info/inful/docsite/internal/articles"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// SidebarCmd implements the 'sidebar' command.
type SidebarCmd struct {
	Format string `short:"f" help:"Output format (yaml, json)" enum:"yaml,json" default:"yaml"`
}

func (s *SidebarCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	dir := root.articlesDir(cfg)
	list, err := articles.Scan(dir, scanOptions(cfg, dir, g.Logger))
	if err != nil {
		return err
	}
	return site.Encode(g.Out, s.Format, list)
}

// SiteCmd implements the 'site' command.
type SiteCmd struct {
	Format string `short:"f" help:"Output format (yaml, json)" enum:"yaml,json" default:"yaml"`
}

func (s *SiteCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	dir := root.articlesDir(cfg)
	list, err := articles.Scan(dir, scanOptions(cfg, dir, g.Logger))
	if err != nil {
		return err
	}
	return site.Build(cfg, list).Encode(g.Out, s.Format)
}
