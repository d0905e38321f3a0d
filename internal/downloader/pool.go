package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"lensdl/pkg/logger"
	"lensdl/pkg/metadata"
	"lensdl/pkg/metrics"
	"lensdl/pkg/ratelimit"
)

// Result labels reported to metrics
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// DownloadJob represents a single file download
type DownloadJob struct {
	URL string
	// Path is the final location of the file
	Path string
	// ArchiveKey is recorded once the file is on disk; empty disables it
	ArchiveKey string
	// Data is written to the metadata sidecar when enabled
	Data map[string]any
}

// DownloadResult represents the result of a download job
type DownloadResult struct {
	Job      DownloadJob
	Success  bool
	Skipped  bool
	Error    error
	Duration time.Duration
	Size     int64
}

// FileDownloader fetches file contents
type FileDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// FileStorage stores downloaded files
type FileStorage interface {
	Exists(path string) bool
	Save(path string, r io.Reader) (int64, error)
}

// Archive records finished downloads
type Archive interface {
	Add(ctx context.Context, key string) error
}

// Options tune a WorkerPool
type Options struct {
	Workers int
	// Timeout bounds a single job; zero means no limit
	Timeout       time.Duration
	WriteMetadata bool
	Metrics       *metrics.Metrics
	Logger        logger.Logger
}

// WorkerPool manages concurrent download workers
type WorkerPool struct {
	numWorkers    int
	timeout       time.Duration
	writeMetadata bool
	jobQueue      chan DownloadJob
	resultQueue   chan DownloadResult
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
	client        FileDownloader
	storage       FileStorage
	archive       Archive
	rateLimiter   ratelimit.Limiter
	metrics       *metrics.Metrics
	logger        logger.Logger
}

// NewWorkerPool creates a download worker pool bound to ctx. archive
// and rateLimiter may be nil.
func NewWorkerPool(
	ctx context.Context,
	opts Options,
	client FileDownloader,
	storage FileStorage,
	archive Archive,
	rateLimiter ratelimit.Limiter,
) *WorkerPool {
	ctx, cancel := context.WithCancel(ctx)

	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	if rateLimiter == nil {
		rateLimiter = ratelimit.Unlimited{}
	}
	numWorkers := max(opts.Workers, 1)

	return &WorkerPool{
		numWorkers:    numWorkers,
		timeout:       opts.Timeout,
		writeMetadata: opts.WriteMetadata,
		jobQueue:      make(chan DownloadJob, numWorkers*2), // Buffer size = 2x workers
		resultQueue:   make(chan DownloadResult, numWorkers),
		ctx:           ctx,
		cancel:        cancel,
		client:        client,
		storage:       storage,
		archive:       archive,
		rateLimiter:   rateLimiter,
		metrics:       opts.Metrics,
		logger:        log,
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.InfoWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for queued jobs to finish and closes
// the result channel. It must be called exactly once, after the last Submit.
func (wp *WorkerPool) Stop() {
	wp.logger.Debug("Stopping worker pool...")

	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("Worker pool stopped")
}

// Submit adds a new download job to the queue
func (wp *WorkerPool) Submit(ctx context.Context, job DownloadJob) error {
	select {
	case wp.jobQueue <- job:
		wp.logger.DebugWithFields("Job submitted to queue", map[string]interface{}{
			"url":  job.URL,
			"path": job.Path,
		})
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Results returns the result channel for consuming download results
func (wp *WorkerPool) Results() <-chan DownloadResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		var result DownloadResult
		if err := wp.ctx.Err(); err != nil {
			result = DownloadResult{Job: job, Error: err}
		} else {
			result = wp.processJob(job, id)
		}

		// results are always delivered so consumers see every job
		wp.resultQueue <- result
	}

	wp.logger.DebugWithFields("Worker stopping - job queue closed", map[string]interface{}{
		"worker_id": id,
	})
}

func (wp *WorkerPool) processJob(job DownloadJob, workerID int) DownloadResult {
	start := time.Now()
	result := DownloadResult{Job: job}

	ctx := wp.ctx
	if wp.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wp.timeout)
		defer cancel()
	}

	if wp.storage.Exists(job.Path) {
		logger.LogSkip(wp.logger, job.ArchiveKey, "file exists")
		wp.record(ctx, job)
		wp.metrics.IncDownload(ResultSkipped, 0)
		result.Success, result.Skipped = true, true
		result.Duration = time.Since(start)
		return result
	}

	if err := wp.rateLimiter.Wait(ctx); err != nil {
		return wp.fail(result, start, fmt.Errorf("rate limit wait: %w", err))
	}

	data, err := wp.client.Download(ctx, job.URL)
	if err != nil {
		return wp.fail(result, start, fmt.Errorf("download failed: %w", err))
	}

	n, err := wp.storage.Save(job.Path, bytes.NewReader(data))
	if err != nil {
		return wp.fail(result, start, fmt.Errorf("save failed: %w", err))
	}
	result.Size = n

	if wp.writeMetadata {
		if err := metadata.FromMessage(job.URL, job.Data, n).Save(job.Path); err != nil {
			wp.logger.WithError(err).WarnWithFields("Failed to write metadata", map[string]interface{}{
				"path": job.Path,
			})
		}
	}
	wp.record(ctx, job)

	result.Success = true
	result.Duration = time.Since(start)
	wp.metrics.IncDownload(ResultSuccess, n)
	logger.LogDownload(wp.logger.WithField("worker_id", workerID), job.ArchiveKey, job.Path, n, nil)
	return result
}

func (wp *WorkerPool) fail(result DownloadResult, start time.Time, err error) DownloadResult {
	result.Error = err
	result.Duration = time.Since(start)
	wp.metrics.IncDownload(ResultFailed, 0)
	logger.LogDownload(wp.logger, result.Job.ArchiveKey, result.Job.Path, 0, err)
	return result
}

func (wp *WorkerPool) record(ctx context.Context, job DownloadJob) {
	if wp.archive == nil || job.ArchiveKey == "" {
		return
	}
	if err := wp.archive.Add(ctx, job.ArchiveKey); err != nil {
		wp.logger.WithError(err).WarnWithFields("Failed to update archive", map[string]interface{}{
			"key": job.ArchiveKey,
		})
	}
}
