package articles

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// LastUpdatedSource reports when a file was last changed, typically from git history.
type LastUpdatedSource interface {
	LastUpdated(path string) (time.Time, bool, error)
}

// ScanOptions controls which entries become articles and what is read from them.
type ScanOptions struct {
	LinkPrefix  string
	Ignore      []string
	Headings    bool
	LastUpdated LastUpdatedSource
	Logger      *slog.Logger
}

// Scan lists the articles in dir, ordered by filename. Ignored names,
// subdirectories and non-markdown files are skipped.
func Scan(dir string, opts ScanOptions) ([]Article, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.NotFoundError("articles directory not found").
				WithCause(err).
				WithContext("path", dir).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read articles directory").
			WithContext("path", dir).
			Build()
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if slices.Contains(opts.Ignore, name) || e.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]Article, 0, len(names))
	for _, name := range names {
		a := ParseFilename(name, opts.LinkPrefix)
		path := filepath.Join(dir, name)

		if opts.Headings {
			heading, err := readHeading(path)
			if err != nil {
				return nil, err
			}
			a.Heading = heading
		}
		if opts.LastUpdated != nil {
			when, ok, err := opts.LastUpdated.LastUpdated(path)
			switch {
			case err != nil:
				logger.Warn("Cannot determine last update", logfields.Article(name), logfields.Error(err))
			case ok:
				a.LastUpdated = &when
			}
		}
		list = append(list, a)
	}
	return list, nil
}

// readHeading returns the text of the first level-one heading, or "".
func readHeading(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "read article").
			WithContext("path", path).
			Build()
	}
	return FirstHeading(src), nil
}

// FirstHeading parses markdown and returns the plain text of its first "# " heading.
func FirstHeading(src []byte) string {
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var heading string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok || h.Level != 1 {
			return gmast.WalkContinue, nil
		}
		heading = strings.TrimSpace(nodeText(h, src))
		return gmast.WalkStop, nil
	})
	return heading
}

func nodeText(n gmast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, src))
		}
	}
	return b.String()
}
