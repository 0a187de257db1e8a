// Package site assembles the site manifest consumed by the static site
// generator: identity, theme settings and the article sidebar.
package site

import (
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/articles"
	"git.home.luguber.info/inful/docsite/internal/config"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Output formats accepted by Encode.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Site is the generated manifest.
type Site struct {
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Base        string         `yaml:"base" json:"base"`
	LastUpdated bool           `yaml:"lastUpdated" json:"lastUpdated"`
	Mermaid     bool           `yaml:"mermaid" json:"mermaid"`
	Theme       Theme          `yaml:"themeConfig" json:"themeConfig"`
	Sidebar     []SidebarGroup `yaml:"sidebar" json:"sidebar"`
}

// Theme carries the theme options.
type Theme struct {
	Layout string `yaml:"layout,omitempty" json:"layout,omitempty"`
}

// SidebarGroup is one titled section of the sidebar.
type SidebarGroup struct {
	Text  string            `yaml:"text" json:"text"`
	Items []articles.Article `yaml:"items" json:"items"`
}

// Build derives the manifest from cfg and the scanned articles.
func Build(cfg *config.Config, list []articles.Article) *Site {
	items := list
	if items == nil {
		items = []articles.Article{}
	}
	return &Site{
		Title:       cfg.Title,
		Description: cfg.Description,
		Base:        cfg.Base,
		LastUpdated: cfg.LastUpdated,
		Mermaid:     cfg.Mermaid,
		Theme:       Theme{Layout: cfg.Theme.Layout},
		Sidebar: []SidebarGroup{
			{Text: cfg.Articles.Section, Items: items},
		},
	}
}

// Encode writes s to w in the given format.
func (s *Site) Encode(w io.Writer, format string) error {
	return Encode(w, format, s)
}

// Encode writes v as YAML or indented JSON.
func Encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case FormatYAML, "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "encode yaml").Build()
		}
		if err := enc.Close(); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "encode yaml").Build()
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "encode json").Build()
		}
		return nil
	default:
		return ferrors.ValidationError("unsupported output format").
			WithContext("format", format).
			WithContext("supported", FormatYAML+","+FormatJSON).
			Build()
	}
}
