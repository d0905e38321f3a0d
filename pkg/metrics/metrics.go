package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lensdl/pkg/logger"
)

// Metrics holds the Prometheus collectors for one run.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	PagesWalked     prometheus.Counter
	MessagesTotal   *prometheus.CounterVec
	DownloadsTotal  *prometheus.CounterVec
	DownloadedBytes prometheus.Counter
}

// New registers a fresh set of collectors on their own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lensdl_http_requests_total",
			Help: "HTTP requests sent to lensdump, by kind and status code.",
		}, []string{"kind", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lensdl_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		PagesWalked: factory.NewCounter(prometheus.CounterOpts{
			Name: "lensdl_pages_walked_total",
			Help: "Listing pages visited by the pagination walker.",
		}),
		MessagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lensdl_messages_total",
			Help: "Extractor messages, by extractor and message kind.",
		}, []string{"extractor", "kind"}),
		DownloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lensdl_downloads_total",
			Help: "File downloads, by result (success, failed, skipped).",
		}, []string{"result"}),
		DownloadedBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "lensdl_downloaded_bytes_total",
			Help: "Bytes written to disk.",
		}),
	}
}

// ObserveRequest records one HTTP round trip. status is 0 for transport errors.
func (m *Metrics) ObserveRequest(kind string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(kind, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) IncPagesWalked() {
	if m == nil {
		return
	}
	m.PagesWalked.Inc()
}

func (m *Metrics) IncMessage(extractor, kind string) {
	if m == nil {
		return
	}
	m.MessagesTotal.WithLabelValues(extractor, kind).Inc()
}

func (m *Metrics) IncDownload(result string, bytes int64) {
	if m == nil {
		return
	}
	m.DownloadsTotal.WithLabelValues(result).Inc()
	if bytes > 0 {
		m.DownloadedBytes.Add(float64(bytes))
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs a /metrics endpoint on addr until ctx is done
func (m *Metrics) Serve(ctx context.Context, addr string, log logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.InfoWithFields("Serving metrics", map[string]interface{}{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
