// Package poller periodically scans the input directory for pending report
// files and feeds them to the processing queue. A filesystem watcher reacts
// to freshly dropped files ahead of the next tick.
package poller

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yorch88/tech-performance/internal/adapters/ingest"
	"github.com/yorch88/tech-performance/internal/domain/dedupe"
	"github.com/yorch88/tech-performance/pkg/logger"
)

// defaultInterval between directory scans; matches the original once-a-minute
// schedule.
const defaultInterval = time.Minute

// Sink accepts discovered report files for processing.
type Sink interface {
	Enqueue(ctx context.Context, j ingest.ReportFile) bool
}

// Poller owns the scan loop for one input directory.
type Poller struct {
	dir      string
	interval time.Duration
	sink     Sink
	seen     dedupe.Tracker
	log      logger.Logger
}

// Option applies a configuration option to the Poller.
type Option func(*Poller)

// WithInterval sets the scan interval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithTracker sets the seen-file tracker.
func WithTracker(t dedupe.Tracker) Option {
	return func(p *Poller) {
		if t != nil {
			p.seen = t
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(p *Poller) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a poller over dir that enqueues discovered files into sink.
func New(dir string, sink Sink, opts ...Option) *Poller {
	p := &Poller{
		dir:      dir,
		interval: defaultInterval,
		sink:     sink,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.seen == nil {
		p.seen = dedupe.NewTracker()
	}
	if p.log == nil {
		p.log = logger.Named("poller")
	}
	return p
}

// Run scans on a fixed interval, and additionally whenever the watcher
// reports a new CSV in the directory. It blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	notify := p.watch(ctx)

	// Pick up whatever is already waiting before the first tick.
	p.Scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Scan(ctx)
		case <-notify:
			p.Scan(ctx)
		}
	}
}

// Scan discovers pending report files and enqueues the ones not seen yet.
// Returns the number of files enqueued.
func (p *Poller) Scan(ctx context.Context) int {
	files, err := ingest.Discover(p.dir)
	if err != nil {
		p.log.Error(ctx, "scan failed", logger.String("dir", p.dir), logger.Error(err))
		return 0
	}

	enqueued := 0
	for _, f := range files {
		if p.seen.SeenAndRecord(ctx, f.Name) {
			continue
		}
		if !p.sink.Enqueue(ctx, f) {
			// Queue full; forget the file so a later scan retries it.
			p.seen.Unrecord(ctx, f.Name)
			p.log.Warn(ctx, "queue refused report file; will retry",
				logger.String("file", f.Name))
			continue
		}
		enqueued++
		p.log.Info(ctx, "report file enqueued",
			logger.String("file", f.Name),
			logger.String("kind", string(f.Kind)),
			logger.Int("period", f.Period),
		)
	}
	if enqueued == 0 && len(files) == 0 {
		p.log.Debug(ctx, "no report files pending", logger.String("dir", p.dir))
	}
	return enqueued
}

// watch starts a filesystem watcher on the input directory and returns a
// channel that fires when a CSV file appears. Watching is best-effort: on
// error the ticker alone drives scanning.
func (p *Poller) watch(ctx context.Context) <-chan struct{} {
	notify := make(chan struct{}, 1)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.log.Warn(ctx, "filesystem watcher unavailable; relying on ticker", logger.Error(err))
		return notify
	}
	if err := watcher.Add(p.dir); err != nil {
		p.log.Warn(ctx, "cannot watch input dir; relying on ticker",
			logger.String("dir", p.dir), logger.Error(err))
		watcher.Close()
		return notify
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if !strings.EqualFold(filepath.Ext(event.Name), ".csv") {
					continue
				}
				select {
				case notify <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.log.Warn(ctx, "watcher error", logger.Error(err))
			}
		}
	}()
	return notify
}
