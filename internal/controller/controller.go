// Package controller runs the stuck detector's long-lived polling loop:
// it watches a session transcript directory for new JSONL lines, feeds
// them into per-session history, and calls the detector whenever new
// lines arrive — the concrete host for spec.md §1's "controller that
// polls the detector" and §2's "controller -> is_stuck(...)" arrow.
//
// Grounded on the teacher's internal/controller/controller.go reconcile
// loop (ticker-driven Start/reconcileOnce split, context-cancellation
// shutdown), generalized from a Kubernetes pod reconciler to a
// filesystem/detector reconciler.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/steveyegge/stuckdetector/internal/detector"
	"github.com/steveyegge/stuckdetector/internal/historystore"
	"github.com/steveyegge/stuckdetector/internal/telemetry"
)

// DefaultReconcileInterval is the fallback poll interval used when no
// filesystem event arrives within it.
const DefaultReconcileInterval = 10 * time.Second

// Config holds the loop's runtime configuration.
type Config struct {
	// WatchDir is the directory scanned for session transcript files,
	// one "<session-id>.jsonl" file per session.
	WatchDir string

	// ReconcileInterval is the fallback poll interval, run in addition
	// to filesystem notifications in case an event is coalesced or
	// missed (common under heavy write bursts, per fsnotify's own
	// documented caveats).
	ReconcileInterval time.Duration

	// Headless is forwarded to Detector.IsStuck for every session this
	// loop drives — transcript-replay sessions have no interactive
	// operator, so headless mode is typically on.
	Headless bool
}

// OnStuck is called synchronously whenever a reconcile pass detects a
// new stuck loop for a session. The callback runs under the loop's
// per-session processing, never concurrently for the same session.
type OnStuck func(sessionID string, analysis *detector.StuckAnalysis)

// Loop watches Config.WatchDir and drives new transcript lines through
// a per-session Detector, persisting history via a historystore.Store.
type Loop struct {
	cfg     Config
	store   historystore.Store
	logger  *slog.Logger
	onStuck OnStuck

	mu        sync.Mutex
	detectors map[string]*detector.Detector
	offsets   map[string]int // transcript path -> lines already ingested
}

// New creates a Loop. A zero-value cfg.ReconcileInterval is replaced
// with DefaultReconcileInterval. A nil onStuck is a no-op.
func New(cfg Config, store historystore.Store, logger *slog.Logger, onStuck OnStuck) *Loop {
	if cfg.ReconcileInterval == 0 {
		cfg.ReconcileInterval = DefaultReconcileInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	if onStuck == nil {
		onStuck = func(string, *detector.StuckAnalysis) {}
	}
	return &Loop{
		cfg:       cfg,
		store:     store,
		logger:    logger,
		onStuck:   onStuck,
		detectors: make(map[string]*detector.Detector),
		offsets:   make(map[string]int),
	}
}

// Run starts the filesystem watcher and the reconcile ticker, blocking
// until ctx is cancelled or either sub-loop returns a fatal error.
func (l *Loop) Run(ctx context.Context) error {
	watcher, err := l.connectWatcher(ctx)
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.cfg.WatchDir); err != nil {
		return fmt.Errorf("controller: watch %s: %w", l.cfg.WatchDir, err)
	}

	// Run an initial sweep so sessions already on disk at startup are
	// picked up before the first tick or filesystem event arrives.
	if err := l.reconcileAll(ctx); err != nil {
		l.logger.Warn("controller: initial reconcile failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.watchLoop(ctx, watcher) })
	g.Go(func() error { return l.reconcileLoop(ctx) })

	return g.Wait()
}

// connectWatcher creates the fsnotify watcher, retrying with backoff
// since transient resource errors (e.g. too many open files) are
// common right after daemon startup alongside other fsnotify users.
func (l *Loop) connectWatcher(ctx context.Context) (*fsnotify.Watcher, error) {
	var watcher *fsnotify.Watcher
	bo := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)

	op := func() error {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			l.logger.Warn("controller: watcher init failed, retrying", "error", err)
			return err
		}
		watcher = w
		return nil
	}

	if err := backoff.Retry(op, bo); err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return watcher, nil
}

// watchLoop reacts to filesystem events by immediately reconciling the
// transcript file that changed.
func (l *Loop) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := l.reconcileFile(ctx, ev.Name); err != nil {
				l.logger.Warn("controller: reconcile on fs event failed", "file", ev.Name, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("controller: watcher error", "error", err)
		}
	}
}

// reconcileLoop is the ticker-driven fallback sweep of the whole watch
// directory.
func (l *Loop) reconcileLoop(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := l.reconcileAll(ctx); err != nil {
				l.logger.Warn("controller: reconcile sweep failed", "error", err)
			}
		}
	}
}

// reconcileAll sweeps every "*.jsonl" transcript in the watch directory.
func (l *Loop) reconcileAll(ctx context.Context) error {
	telemetry.ReconcileTick(ctx)

	entries, err := os.ReadDir(l.cfg.WatchDir)
	if err != nil {
		return fmt.Errorf("read watch dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		path := filepath.Join(l.cfg.WatchDir, entry.Name())
		if err := l.reconcileFile(ctx, path); err != nil {
			l.logger.Warn("controller: reconcile failed", "file", path, "error", err)
		}
	}
	return nil
}

// reconcileFile ingests any lines of path not yet processed, appends
// them to the store, and runs the detector on the resulting history.
func (l *Loop) reconcileFile(ctx context.Context, path string) error {
	if !strings.HasSuffix(path, ".jsonl") {
		return nil
	}
	sessionID := strings.TrimSuffix(filepath.Base(path), ".jsonl")

	events, err := historystore.ReadTranscript(path)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	// Held for the whole pass: the watch and ticker loops both call
	// reconcileFile, and a session must be ingested and checked by one
	// pass at a time.
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := l.offsets[path]
	d, ok := l.detectors[sessionID]
	if !ok {
		d = detector.New(l.logger)
		l.detectors[sessionID] = d
	}

	if seen >= len(events) {
		return nil
	}

	for _, ev := range events[seen:] {
		if err := l.store.Append(ctx, sessionID, ev); err != nil {
			return fmt.Errorf("append event: %w", err)
		}
	}

	l.offsets[path] = len(events)

	hist, err := l.store.History(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	var analysis *detector.StuckAnalysis
	_, stuck := telemetry.StuckCheck(ctx, sessionID, func(context.Context) (string, bool) {
		if !d.IsStuck(hist, l.cfg.Headless) {
			return "", false
		}
		var ok bool
		analysis, ok = d.StuckAnalysis()
		return string(analysis.LoopType), ok
	})
	if stuck {
		l.onStuck(sessionID, analysis)
	}
	return nil
}
