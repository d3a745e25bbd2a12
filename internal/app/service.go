// Package app wires the ingestion pipeline together: the poller discovers
// report files, the queue hands them to the worker pool, and the service
// processes each file into a rendered report and a stored run.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/yorch88/tech-performance/internal/adapters/ingest"
	"github.com/yorch88/tech-performance/internal/adapters/mq/queue"
	"github.com/yorch88/tech-performance/internal/adapters/mq/worker"
	"github.com/yorch88/tech-performance/internal/adapters/poller"
	"github.com/yorch88/tech-performance/internal/adapters/repository"
	"github.com/yorch88/tech-performance/internal/domain/dedupe"
	"github.com/yorch88/tech-performance/internal/domain/perf"
	"github.com/yorch88/tech-performance/internal/domain/report"
	"github.com/yorch88/tech-performance/pkg/logger"
	"github.com/yorch88/tech-performance/pkg/metrics"
)

// Service runs the report-processing pipeline for one input directory.
type Service struct {
	inputDir        string
	reportsDir      string
	deleteProcessed bool

	scanInterval  time.Duration
	workerCount   int
	queueCapacity int
	maxRuns       int
	seenCacheSize int

	calcOpts []perf.Option

	calc    *perf.Calculator
	queue   queue.Queue
	tracker dedupe.Tracker
	store   repository.Store
	poller  *poller.Poller
	pool    *worker.Pool
	log     logger.Logger
	now     func() time.Time

	cancel context.CancelFunc
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithScanInterval sets how often the input directory is scanned.
func WithScanInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.scanInterval = d
		}
	}
}

// WithWorkerCount sets the number of processing workers.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithQueueCapacity bounds the job queue.
func WithQueueCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueCapacity = n
		}
	}
}

// WithMaxRuns bounds how many completed runs the store retains.
func WithMaxRuns(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRuns = n
		}
	}
}

// WithSeenCacheSize bounds the seen-file tracker.
func WithSeenCacheSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.seenCacheSize = n
		}
	}
}

// WithRepairStation overrides the designated repair station name.
func WithRepairStation(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.calcOpts = append(s.calcOpts, perf.WithRepairStation(name))
		}
	}
}

// WithStationOrder supplies an explicit station rank map instead of inferring
// the flow order from each file.
func WithStationOrder(order map[string]int) Option {
	return func(s *Service) {
		if len(order) > 0 {
			s.calcOpts = append(s.calcOpts, perf.WithStationOrder(order))
		}
	}
}

// WithDeleteProcessed removes input files once their report is written.
func WithDeleteProcessed(del bool) Option {
	return func(s *Service) {
		s.deleteProcessed = del
	}
}

// WithStore sets a custom run store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// withClock overrides the time source. Test hook.
func withClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a fully wired service over inputDir that writes rendered
// reports to reportsDir.
func New(inputDir, reportsDir string, opts ...Option) *Service {
	s := &Service{
		inputDir:    inputDir,
		reportsDir:  reportsDir,
		workerCount: 2,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("app")
	}
	if s.store == nil {
		var storeOpts []repository.Option
		if s.maxRuns > 0 {
			storeOpts = append(storeOpts, repository.WithMaxRuns(s.maxRuns))
		}
		s.store = repository.NewMemStore(storeOpts...)
	}

	s.calc = perf.New(s.calcOpts...)

	var queueOpts []queue.Option
	if s.queueCapacity > 0 {
		queueOpts = append(queueOpts, queue.WithCapacity(s.queueCapacity))
	}
	s.queue = queue.NewInMemoryQueue(queueOpts...)

	var trackerOpts []dedupe.Option
	if s.seenCacheSize > 0 {
		trackerOpts = append(trackerOpts, dedupe.WithMaxSize(s.seenCacheSize))
	}
	s.tracker = dedupe.NewTracker(trackerOpts...)

	var pollerOpts []poller.Option
	if s.scanInterval > 0 {
		pollerOpts = append(pollerOpts, poller.WithInterval(s.scanInterval))
	}
	pollerOpts = append(pollerOpts, poller.WithTracker(s.tracker))
	s.poller = poller.New(inputDir, s.queue, pollerOpts...)

	s.pool = worker.NewPool(s.workerCount, s.queue, s)
	return s
}

// Start launches the workers and the poller. It returns immediately; call
// Stop to shut the pipeline down.
func (s *Service) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.pool.Start(ctx)
	go s.poller.Run(ctx)
	s.log.Info(ctx, "service started",
		logger.String("input_dir", s.inputDir),
		logger.String("reports_dir", s.reportsDir),
		logger.Int("workers", s.workerCount),
	)
}

// Stop shuts the pipeline down and waits for in-flight jobs to settle.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	_ = s.queue.Close()
	s.pool.Stop()
}

// Process handles one report file end to end: parse the event log, compute
// the scorecard, render and write the text report, and record the run.
// Implements the worker pool's processor contract.
func (s *Service) Process(ctx context.Context, job worker.Job) error {
	started := s.now()

	events, err := ingest.ReadEventsFile(job.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", job.Name, err)
	}

	res, err := s.calc.Compute(ctx, events)
	if err != nil {
		return fmt.Errorf("compute %s: %w", job.Name, err)
	}

	finished := s.now()
	text := report.Render(res, job.Title(), finished)

	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return fmt.Errorf("reports dir: %w", err)
	}
	outPath := filepath.Join(s.reportsDir, job.ReportName())
	if err := os.WriteFile(outPath, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", outPath, err)
	}

	run := repository.Run{
		ID:         uuid.NewString(),
		SourceFile: job.Name,
		Kind:       job.Kind,
		Period:     job.Period,
		Title:      job.Title(),
		Result:     res,
		ReportPath: outPath,
		ReportText: text,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if err := s.store.Add(ctx, run); err != nil {
		return fmt.Errorf("store run %s: %w", run.ID, err)
	}

	attempts := 0
	for _, row := range res.Rows {
		attempts += row.Attempts
	}
	metrics.RecordRunDuration(finished.Sub(started).Seconds())
	metrics.UpdateLastRun(float64(finished.Unix()))
	metrics.RecordFailuresDetected(res.Meta.TotalFailures)
	metrics.RecordRepairAttempts(attempts)
	metrics.UpdateActiveTechnicians(res.Meta.ActiveTechnicians)

	if s.deleteProcessed {
		if err := os.Remove(job.Path); err != nil {
			s.log.Warn(ctx, "cannot remove processed file",
				logger.String("file", job.Path), logger.Error(err))
		}
	}

	s.log.Info(ctx, "report generated",
		logger.String("file", job.Name),
		logger.String("report", outPath),
		logger.Int("failures", res.Meta.TotalFailures),
		logger.Int("technicians", res.Meta.ActiveTechnicians),
	)
	return nil
}

// TriggerScan forces an immediate directory scan and returns how many files
// were enqueued.
func (s *Service) TriggerScan(ctx context.Context) int {
	return s.poller.Scan(ctx)
}

// Store exposes the run store for the HTTP API.
func (s *Service) Store() repository.Store {
	return s.store
}

// RunSummary identifies the most recent run in Stats.
type RunSummary struct {
	ID         string    `json:"id"`
	SourceFile string    `json:"source_file"`
	FinishedAt time.Time `json:"finished_at"`
}

// Stats is an operational snapshot of the pipeline.
type Stats struct {
	Runs         int         `json:"runs"`
	Queued       int         `json:"queued"`
	TrackedFiles int         `json:"tracked_files"`
	Workers      int         `json:"workers"`
	LastRun      *RunSummary `json:"last_run,omitempty"`
}

// Stats reports the current pipeline state.
func (s *Service) Stats(ctx context.Context) Stats {
	st := Stats{
		Runs:         s.store.Count(ctx),
		Queued:       s.queue.Len(ctx),
		TrackedFiles: s.tracker.Size(),
		Workers:      s.workerCount,
	}
	if last, err := s.store.Latest(ctx); err == nil {
		st.LastRun = &RunSummary{
			ID:         last.ID,
			SourceFile: last.SourceFile,
			FinishedAt: last.FinishedAt,
		}
	}
	return st
}
