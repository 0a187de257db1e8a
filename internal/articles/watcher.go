package articles

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// Scan triggers reported in snapshots.
const (
	TriggerInitial  = "initial"
	TriggerFSNotify = "fsnotify"
	TriggerInterval = "interval"
)

// Snapshot is the article list after a scan that changed it.
type Snapshot struct {
	ID       string
	Trigger  string
	At       time.Time
	Articles []Article
	Added    []Article
	Removed  []Article
}

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	Scan           ScanOptions
	Debounce       time.Duration
	RescanInterval time.Duration
	Recorder       metrics.Recorder
	Logger         *slog.Logger
}

// Watcher rescans an articles directory whenever it changes and reports
// snapshots that differ from the previous one. A periodic rescan covers
// filesystems where change notifications are unreliable.
type Watcher struct {
	dir        string
	opts       WatcherOptions
	onSnapshot func(Snapshot)
	fsw        *fsnotify.Watcher
	requests   chan string
	previous   []Article
	scanned    bool
}

// NewWatcher prepares a watcher for dir. Nothing is watched until Run.
func NewWatcher(dir string, opts WatcherOptions, onSnapshot func(Snapshot)) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve articles directory").
			WithContext("path", dir).
			Build()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "create file watcher").Build()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Scan.Logger == nil {
		opts.Scan.Logger = opts.Logger
	}
	return &Watcher{
		dir:        abs,
		opts:       opts,
		onSnapshot: onSnapshot,
		fsw:        fsw,
		requests:   make(chan string, 1),
	}, nil
}

// Run performs an initial scan and then watches until ctx is canceled.
// Snapshots are delivered from the Run goroutine, one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.opts.Logger.Warn("Error closing file watcher", logfields.Error(err))
		}
	}()

	if err := w.fsw.Add(w.dir); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "watch articles directory").
			WithContext("path", w.dir).
			Build()
	}

	if w.opts.RescanInterval > 0 {
		scheduler, err := w.startScheduler()
		if err != nil {
			return err
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				w.opts.Logger.Warn("Error stopping rescan scheduler", logfields.Error(err))
			}
		}()
	}

	w.opts.Logger.Info("Watching articles", logfields.Path(w.dir))
	w.rescan(TriggerInitial)

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.opts.Logger.Debug("Article change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			w.rescan(TriggerFSNotify)
		case trigger := <-w.requests:
			w.rescan(trigger)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Error("Article watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) startScheduler() (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "create rescan scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.opts.RescanInterval),
		gocron.NewTask(w.requestRescan, TriggerInterval),
		gocron.WithName("articles-rescan"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "schedule rescan").
			WithContext("interval", w.opts.RescanInterval.String()).
			Build()
	}
	s.Start()
	return s, nil
}

// requestRescan asks the Run loop for a scan; a request already pending absorbs it.
func (w *Watcher) requestRescan(trigger string) {
	select {
	case w.requests <- trigger:
	default:
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Dir(event.Name) != w.dir {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return !slices.Contains(w.opts.Scan.Ignore, name)
}

func (w *Watcher) rescan(trigger string) {
	start := time.Now()
	list, err := Scan(w.dir, w.opts.Scan)
	w.opts.Recorder.IncArticleScan(trigger, err == nil)
	if err != nil {
		w.opts.Logger.Error("Article scan failed", logfields.Trigger(trigger), logfields.Error(err))
		return
	}

	if w.scanned && slices.EqualFunc(w.previous, list, sameArticle) {
		w.opts.Logger.Debug("Article scan found no changes", logfields.Trigger(trigger))
		return
	}

	added, removed := diff(w.previous, list)
	snap := Snapshot{
		ID:       uuid.NewString(),
		Trigger:  trigger,
		At:       time.Now(),
		Articles: list,
		Added:    added,
		Removed:  removed,
	}
	w.previous = list
	w.scanned = true
	w.opts.Recorder.SetArticles(len(list))
	w.opts.Logger.Info("Articles updated",
		logfields.ReloadID(snap.ID),
		logfields.Trigger(trigger),
		logfields.Articles(len(list)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))

	if w.onSnapshot != nil {
		w.onSnapshot(snap)
	}
}

func sameArticle(a, b Article) bool {
	if a.Text != b.Text || a.Link != b.Link || a.Heading != b.Heading {
		return false
	}
	switch {
	case a.LastUpdated == nil && b.LastUpdated == nil:
		return true
	case a.LastUpdated == nil || b.LastUpdated == nil:
		return false
	default:
		return a.LastUpdated.Equal(*b.LastUpdated)
	}
}

func diff(before, after []Article) (added, removed []Article) {
	inBefore := make(map[string]bool, len(before))
	for _, a := range before {
		inBefore[a.File] = true
	}
	inAfter := make(map[string]bool, len(after))
	for _, a := range after {
		inAfter[a.File] = true
		if !inBefore[a.File] {
			added = append(added, a)
		}
	}
	for _, a := range before {
		if !inAfter[a.File] {
			removed = append(removed, a)
		}
	}
	return added, removed
}
