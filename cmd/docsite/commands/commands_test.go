package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/articles"
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/dialog"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// syncBuffer guards a buffer written by the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func testGlobal(out io.Writer) *Global {
	return &Global{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), Out: out}
}

// newProject writes a config and an articles directory with the given files.
func newProject(t *testing.T, files ...string) *CLI {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, config.DefaultPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte("title: Test Site\nbase: /test/\n"), 0o600))

	articlesDir := filepath.Join(dir, "articles")
	require.NoError(t, os.Mkdir(articlesDir, 0o750))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(articlesDir, f), []byte("# "+f+"\n"), 0o600))
	}
	return newCLI(t, cfgPath)
}

// newCLI returns a verbose CLI logging to io.Discard and restores the default
// logger that loadConfig replaces.
func newCLI(t *testing.T, cfgPath string) *CLI {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &CLI{Config: cfgPath, Verbose: true, logWriter: io.Discard}
}

func TestInitCmd(t *testing.T) {
	root := newCLI(t, filepath.Join(t.TempDir(), config.DefaultPath))
	var out bytes.Buffer

	require.NoError(t, (&InitCmd{}).Run(testGlobal(&out), root))
	assert.Contains(t, out.String(), "initialized successfully")
	assert.FileExists(t, root.Config)

	err := (&InitCmd{}).Run(testGlobal(&out), root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryAlreadyExists))

	require.NoError(t, (&InitCmd{Force: true}).Run(testGlobal(&out), root))
}

func TestSidebarCmd(t *testing.T) {
	root := newProject(t, "getting-started.md", "faq.md", "image.png")
	var out bytes.Buffer

	require.NoError(t, (&SidebarCmd{Format: "yaml"}).Run(testGlobal(&out), root))

	var items []map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Faq", items[0]["text"])
	assert.Equal(t, "/articles/faq", items[0]["link"])
	assert.Equal(t, "Getting Started", items[1]["text"])
}

func TestSiteCmd(t *testing.T) {
	root := newProject(t, "hello.md")
	var out bytes.Buffer

	require.NoError(t, (&SiteCmd{Format: "json"}).Run(testGlobal(&out), root))
	assert.Contains(t, out.String(), `"title": "Test Site"`)
	assert.Contains(t, out.String(), `"base": "/test/"`)
	assert.Contains(t, out.String(), `"link": "/articles/hello"`)
}

func TestSidebarCmd_LastUpdatedFromGit(t *testing.T) {
	root := newProject(t, "committed.md")
	dir := filepath.Dir(root.Config)
	require.NoError(t, os.WriteFile(root.Config, []byte("last_updated: true\n"), 0o600))

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("articles/committed.md")
	require.NoError(t, err)
	when := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	sig := &object.Signature{Name: "Test User", Email: "test@example.com", When: when}
	_, err = wt.Commit("add article", &gogit.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, (&SidebarCmd{Format: "json"}).Run(testGlobal(&out), root))
	assert.Contains(t, out.String(), `"lastUpdated": "2024-02-03T04:05:06Z"`)
}

func TestSiteCmd_MissingConfig(t *testing.T) {
	root := newCLI(t, filepath.Join(t.TempDir(), "missing.yaml"))
	err := (&SiteCmd{Format: "yaml"}).Run(testGlobal(io.Discard), root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoadConfig_LogFormatPrecedence(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), config.DefaultPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: warn\n  format: json\n"), 0o600))

	tests := []struct {
		name     string
		flag     string
		verbose  bool
		wantJSON bool
		wantInfo bool
	}{
		{name: "config format applies without flag", wantJSON: true},
		{name: "explicit text flag wins over config", flag: "text"},
		{name: "explicit json flag", flag: "json", wantJSON: true},
		{name: "verbose raises config level", verbose: true, wantJSON: true, wantInfo: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			root := newCLI(t, cfgPath)
			root.Verbose = tt.verbose
			root.LogFormat = tt.flag
			root.logWriter = &logs
			g := testGlobal(io.Discard)

			_, err := root.loadConfig(g)
			require.NoError(t, err)
			g.Logger.Info("info line")
			g.Logger.Warn("warn line")

			out := logs.String()
			if tt.wantJSON {
				assert.Contains(t, out, `"msg":"warn line"`)
			} else {
				assert.Contains(t, out, `msg="warn line"`)
			}
			if tt.wantInfo {
				assert.Contains(t, out, "info line")
			} else {
				assert.NotContains(t, out, "info line")
			}
		})
	}
}

func TestAfterApply_RejectsUnknownLogFormat(t *testing.T) {
	err := (&CLI{LogFormat: "xml"}).AfterApply()
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestDialogCommands(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&DialogConfirmCmd{Message: "Delete article?", ConfirmLabel: "Delete", CancelLabel: "Keep"}).Run(testGlobal(&out)))
	assert.Contains(t, out.String(), "Delete article?")
	assert.Contains(t, out.String(), "Delete")
	assert.Contains(t, out.String(), "Keep")

	out.Reset()
	require.NoError(t, (&DialogNoticeCmd{Title: "Saved", Message: "All changes written"}).Run(testGlobal(&out)))
	assert.Contains(t, out.String(), "Saved")
	assert.Contains(t, out.String(), "All changes written")
}

func TestWatchCmd_MetricsAddr(t *testing.T) {
	cfg := &config.Config{Metrics: config.MetricsConfig{Addr: ":9464"}}
	assert.Empty(t, (&WatchCmd{}).metricsAddr(cfg))

	cfg.Metrics.Enabled = true
	assert.Equal(t, ":9464", (&WatchCmd{}).metricsAddr(cfg))
	assert.Equal(t, "127.0.0.1:9999", (&WatchCmd{MetricsAddr: "127.0.0.1:9999"}).metricsAddr(cfg))
}

func TestWatchCmd_ReportRemovedArticlesAsNotice(t *testing.T) {
	var out bytes.Buffer
	g := testGlobal(&out)
	bus := dialog.NewBus()
	host := dialog.NewHost(bus, dialog.DefaultRegistry(), &out)
	host.Attach()
	defer host.Detach()

	w := &WatchCmd{Format: "yaml"}
	w.report(context.Background(), g, bus, articles.Snapshot{
		Trigger: articles.TriggerInitial,
		Removed: []articles.Article{{Text: "Ignored"}},
	})
	_, ok := host.Current()
	assert.False(t, ok, "initial snapshot raises no notice")

	w.report(context.Background(), g, bus, articles.Snapshot{
		Trigger: articles.TriggerFSNotify,
		Removed: []articles.Article{{Text: "Old Post"}},
	})
	req, ok := host.Current()
	require.True(t, ok)
	notice, ok := dialog.ContextAs(req, dialog.Notice)
	require.True(t, ok)
	assert.Equal(t, "Removed from the sidebar: Old Post", notice.Message)
	assert.Contains(t, out.String(), "Old Post")
}

func TestWatchCmd_Run(t *testing.T) {
	root := newProject(t, "first.md")
	cfg, err := config.Load(root.Config)
	require.NoError(t, err)
	cfg.Watch.Debounce = "20ms"

	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	dir := root.articlesDir(cfg)
	go func() { done <- (&WatchCmd{Format: "yaml"}).run(ctx, testGlobal(out), cfg, dir) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "/articles/first")
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(dir, "first.md")))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Articles removed")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}
