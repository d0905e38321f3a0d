package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"

	"lensdl/internal/downloader"
	"lensdl/pkg/archive"
	"lensdl/pkg/config"
	"lensdl/pkg/lensdump"
	"lensdl/pkg/logger"
	"lensdl/pkg/metrics"
	"lensdl/pkg/ratelimit"
	"lensdl/pkg/retry"
	"lensdl/pkg/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrFailedDownloads reports a run in which at least one download failed
var ErrFailedDownloads = errors.New("some downloads failed")

// Err returns ErrFailedDownloads when any download failed
func (s *Summary) Err() error {
	if s.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFailedDownloads, s.Failed, s.Queued)
	}
	return nil
}

// Summary counts what a run did
type Summary struct {
	URL string
	// Queued files were handed to the download pool
	Queued int
	// Archived files were skipped because the archive lists them
	Archived int
	// Downloaded, Skipped and Failed are download pool outcomes
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64
	// Errors counts queued extractors that failed
	Errors   int
	Duration time.Duration
}

// Option configures a Scraper
type Option func(*Scraper)

// WithHTTPClient replaces the HTTP client used for pages and files
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) { s.httpClient = hc }
}

// WithMetrics records run metrics on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// WithProgress reports per-file events to p
func WithProgress(p Progress) Option {
	return func(s *Scraper) { s.progress = p }
}

// WithLogger sets the scraper logger
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// Scraper runs lensdump extractors and downloads what they emit
type Scraper struct {
	client      *lensdump.Client
	httpClient  *http.Client
	storage     *storage.Manager
	archive     *archive.Archive
	metrics     *metrics.Metrics
	progress    Progress
	config      *config.Config
	logger      logger.Logger
}

// New creates a Scraper from cfg. Close releases the archive.
func New(cfg *config.Config, opts ...Option) (*Scraper, error) {
	s := &Scraper{config: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.GetLogger()
	}

	limiter, err := ratelimit.New(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	clientOpts := []lensdump.Option{
		lensdump.WithLimiter(limiter),
		lensdump.WithRetry(retry.FromConfig(cfg.Retry, s.logger)),
		lensdump.WithMetrics(s.metrics),
		lensdump.WithLogger(s.logger),
	}
	if s.httpClient != nil {
		clientOpts = append(clientOpts, lensdump.WithHTTPClient(s.httpClient))
	}
	s.client = lensdump.NewClient(cfg.Lensdump, clientOpts...)

	s.storage, err = storage.NewManager(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	if cfg.Archive.Path != "" {
		s.archive, err = archive.Open(cfg.Archive.Path)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close releases the download archive
func (s *Scraper) Close() error {
	return s.archive.Close()
}

// Run extracts rawURL and downloads every file it yields. Queued URLs are
// extracted recursively up to the configured depth. Failed downloads are
// counted in the summary; Run only returns an error when extraction of
// rawURL itself fails.
func (s *Scraper) Run(ctx context.Context, rawURL string) (*Summary, error) {
	start := time.Now()
	sum := &Summary{URL: rawURL}

	ex, err := lensdump.Find(s.client, rawURL)
	if err != nil {
		return sum, err
	}

	s.logger.InfoWithFields("Starting extraction", map[string]interface{}{
		"url":         rawURL,
		"subcategory": ex.Subcategory(),
	})

	g, gctx := errgroup.WithContext(ctx)
	pool := downloader.NewWorkerPool(gctx, downloader.Options{
		Workers:       s.config.Download.ConcurrentDownloads,
		Timeout:       s.config.Download.DownloadTimeout,
		WriteMetadata: s.config.Metadata.Enabled,
		Metrics:       s.metrics,
		Logger:        s.logger,
	}, s.client, s.storage, s.archive, s.client.Limiter())
	pool.Start()

	g.Go(func() error {
		s.processDownloadResults(pool.Results(), sum)
		return nil
	})
	g.Go(func() error {
		defer pool.Stop()
		return s.extract(gctx, pool, ex, 0, sum)
	})

	err = g.Wait()
	sum.Duration = time.Since(start)

	s.logger.InfoWithFields("Extraction finished", map[string]interface{}{
		"url":        rawURL,
		"queued":     sum.Queued,
		"downloaded": sum.Downloaded,
		"skipped":    sum.Skipped + sum.Archived,
		"failed":     sum.Failed,
		"duration":   sum.Duration.String(),
	})
	return sum, err
}

// extract walks the messages of ex. Directory messages set the target
// directory for the URL messages that follow them.
func (s *Scraper) extract(ctx context.Context, pool *downloader.WorkerPool, ex lensdump.Extractor, depth int, sum *Summary) error {
	formats := ex.Formats()
	archiveFmt, err := storage.Compile(formats.Archive)
	if err != nil {
		return err
	}

	var dir string
	for msg, err := range ex.Items(ctx) {
		if err != nil {
			return fmt.Errorf("%s extraction failed: %w", ex.Subcategory(), err)
		}

		switch msg.Kind {
		case lensdump.KindDirectory:
			dir, err = s.storage.Directory(formats.Directory, msg.Data)
			if err != nil {
				return err
			}

		case lensdump.KindURL:
			if dir == "" {
				if dir, err = s.storage.Directory(formats.Directory, msg.Data); err != nil {
					return err
				}
			}
			name, err := s.storage.Filename(formats.Filename, msg.Data)
			if err != nil {
				return err
			}
			key := archiveKey(archiveFmt, msg.Data)

			archived, err := s.archive.Has(ctx, key)
			if err != nil {
				return err
			}
			if archived {
				logger.LogSkip(s.logger, key, "archived")
				s.metrics.IncDownload(downloader.ResultSkipped, 0)
				sum.Archived++
				if s.progress != nil {
					s.progress.Skipped(name)
				}
				continue
			}

			job := downloader.DownloadJob{
				URL:        msg.URL,
				Path:       filepath.Join(dir, name),
				ArchiveKey: key,
				Data:       msg.Data,
			}
			if err := pool.Submit(ctx, job); err != nil {
				return fmt.Errorf("failed to submit download job: %w", err)
			}
			sum.Queued++
			if s.progress != nil {
				s.progress.Queued(name)
			}

		case lensdump.KindQueue:
			if depth >= s.config.Download.MaxDepth {
				s.logger.WarnWithFields("Queue depth exceeded, not following", map[string]interface{}{
					"url":   msg.URL,
					"depth": depth,
				})
				continue
			}
			child, err := lensdump.FindNamed(s.client, msg.Extractor, msg.URL)
			if err != nil {
				s.logger.WithError(err).Warn("Unsupported queued URL")
				sum.Errors++
				continue
			}
			if err := s.extract(ctx, pool, child, depth+1, sum); err != nil {
				if ctx.Err() != nil {
					return err
				}
				s.logger.WithError(err).ErrorWithFields("Queued extraction failed", map[string]interface{}{
					"url": msg.URL,
				})
				sum.Errors++
			}
		}
	}
	return nil
}

// archiveKey is the category followed by the rendered archive format
func archiveKey(t *storage.Template, data map[string]any) string {
	category, _ := data["category"].(string)
	return category + t.Render(data)
}

func (s *Scraper) processDownloadResults(results <-chan downloader.DownloadResult, sum *Summary) {
	for result := range results {
		name := filepath.Base(result.Job.Path)
		switch {
		case result.Error != nil:
			sum.Failed++
			if s.progress != nil {
				s.progress.Failed(name, result.Error)
			}
		case result.Skipped:
			sum.Skipped++
			if s.progress != nil {
				s.progress.Skipped(name)
			}
		default:
			sum.Downloaded++
			sum.Bytes += result.Size
			if s.progress != nil {
				s.progress.Completed(name, result.Size)
			}
		}
	}
}

// Dump writes every message of the extractor for rawURL to w as one JSON
// object per line. Nothing is downloaded and queued URLs are not followed.
func (s *Scraper) Dump(ctx context.Context, rawURL string, w io.Writer) (int, error) {
	ex, err := lensdump.Find(s.client, rawURL)
	if err != nil {
		return 0, err
	}

	n := 0
	enc := json.NewEncoder(w)
	for msg, err := range ex.Items(ctx) {
		if err != nil {
			return n, fmt.Errorf("%s extraction failed: %w", ex.Subcategory(), err)
		}
		if err := enc.Encode(msg); err != nil {
			return n, fmt.Errorf("failed to write message: %w", err)
		}
		n++
	}
	return n, nil
}
