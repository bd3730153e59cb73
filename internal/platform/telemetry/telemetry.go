// Package telemetry records service metrics (counters, gauges, histograms)
// and serves them in Prometheus text exposition format, without importing a
// metrics SDK. The serve command mounts the middleware and the /metrics
// endpoint; the report service records build outcomes.
package telemetry

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Config holds the telemetry provider settings.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Enabled        *bool // nil means enabled
}

func (c *Config) on() bool {
	return c.Enabled == nil || *c.Enabled
}

func (c *Config) applyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "rosterpdf"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// BoolPtr returns a pointer to b, for literal Config construction.
func BoolPtr(b bool) *bool {
	return &b
}

// ---------------------------------------------------------------------------
// Histogram — Prometheus-style histogram with buckets
// ---------------------------------------------------------------------------

// histogram is a thread-safe histogram with configurable bucket boundaries.
// Bucket counts are non-cumulative in storage; cumulative counts are computed
// at export time.
type histogram struct {
	boundaries   []float64
	bucketCounts []int64    // one per boundary, non-cumulative
	count        int64
	sum          uint64     // stored as math.Float64bits for atomic add
	mu           sync.Mutex // protects bucketCounts
}

func newHistogram(boundaries []float64) *histogram {
	return &histogram{
		boundaries:   boundaries,
		bucketCounts: make([]int64, len(boundaries)),
	}
}

// Observe records a single value.
func (h *histogram) Observe(v float64) {
	atomic.AddInt64(&h.count, 1)
	atomicAddFloat64(&h.sum, v)

	h.mu.Lock()
	for i, b := range h.boundaries {
		if v <= b {
			h.bucketCounts[i]++
			h.mu.Unlock()
			return
		}
	}
	// Value exceeds all boundaries; counted in +Inf at export.
	h.mu.Unlock()
}

// Count returns the total number of observations.
func (h *histogram) Count() int64 {
	return atomic.LoadInt64(&h.count)
}

// Sum returns the total sum of all observations.
func (h *histogram) Sum() float64 {
	return math.Float64frombits(atomic.LoadUint64(&h.sum))
}

// cumulativeBuckets returns cumulative bucket counts for Prometheus export.
func (h *histogram) cumulativeBuckets() []int64 {
	h.mu.Lock()
	raw := make([]int64, len(h.bucketCounts))
	copy(raw, h.bucketCounts)
	h.mu.Unlock()

	cum := make([]int64, len(raw))
	var running int64
	for i, c := range raw {
		running += c
		cum[i] = running
	}
	return cum
}

// atomicAddFloat64 performs an atomic add on a uint64 that stores a float64
// using CAS.
func atomicAddFloat64(addr *uint64, delta float64) {
	for {
		old := atomic.LoadUint64(addr)
		newVal := math.Float64frombits(old) + delta
		if atomic.CompareAndSwapUint64(addr, old, math.Float64bits(newVal)) {
			return
		}
	}
}

// ---------------------------------------------------------------------------
// Labeled histogram — keyed by (method, route, status_code)
// ---------------------------------------------------------------------------

type labeledHistogramStore struct {
	mu    sync.RWMutex
	items map[string]*histogram
}

func newLabeledHistogramStore() *labeledHistogramStore {
	return &labeledHistogramStore{items: make(map[string]*histogram)}
}

func (s *labeledHistogramStore) getOrCreate(key string, boundaries []float64) *histogram {
	s.mu.RLock()
	h, ok := s.items[key]
	s.mu.RUnlock()
	if ok {
		return h
	}
	s.mu.Lock()
	h, ok = s.items[key]
	if !ok {
		h = newHistogram(boundaries)
		s.items[key] = h
	}
	s.mu.Unlock()
	return h
}

func (s *labeledHistogramStore) snapshot() map[string]*histogram {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(map[string]*histogram, len(s.items))
	for k, v := range s.items {
		cp[k] = v
	}
	return cp
}

// LabelsKey builds the map key for a labeled histogram. Exported so tests
// can construct the same key.
func LabelsKey(method, route, statusCode string) string {
	return method + "|" + route + "|" + statusCode
}

// ---------------------------------------------------------------------------
// Counter store — keyed by (metricName, labelValue)
// ---------------------------------------------------------------------------

type counterStore struct {
	mu    sync.RWMutex
	items map[string]*int64
}

func newCounterStore() *counterStore {
	return &counterStore{items: make(map[string]*int64)}
}

func (s *counterStore) inc(key string) {
	s.mu.RLock()
	p, ok := s.items[key]
	s.mu.RUnlock()
	if ok {
		atomic.AddInt64(p, 1)
		return
	}
	s.mu.Lock()
	p, ok = s.items[key]
	if !ok {
		v := int64(1)
		s.items[key] = &v
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	atomic.AddInt64(p, 1)
}

func (s *counterStore) get(key string) int64 {
	s.mu.RLock()
	p, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	return atomic.LoadInt64(p)
}

func (s *counterStore) snapshot() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(map[string]int64, len(s.items))
	for k, p := range s.items {
		cp[k] = atomic.LoadInt64(p)
	}
	return cp
}

// ---------------------------------------------------------------------------
// Gauge store — keyed by name
// ---------------------------------------------------------------------------

type gaugeStore struct {
	mu    sync.RWMutex
	items map[string]*int64
}

func newGaugeStore() *gaugeStore {
	return &gaugeStore{items: make(map[string]*int64)}
}

func (s *gaugeStore) add(name string, delta int64) {
	s.mu.RLock()
	p, ok := s.items[name]
	s.mu.RUnlock()
	if ok {
		atomic.AddInt64(p, delta)
		return
	}
	s.mu.Lock()
	p, ok = s.items[name]
	if !ok {
		v := delta
		s.items[name] = &v
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	atomic.AddInt64(p, delta)
}

func (s *gaugeStore) get(name string) int64 {
	s.mu.RLock()
	p, ok := s.items[name]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	return atomic.LoadInt64(p)
}

// ---------------------------------------------------------------------------
// Provider — the main entry point
// ---------------------------------------------------------------------------

// defaultDurationBuckets are the histogram bucket boundaries (in seconds)
// for HTTP request duration.
var defaultDurationBuckets = []float64{
	0.010, 0.025, 0.050, 0.100, 0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
}

// defaultSizeBuckets are the histogram bucket boundaries (in bytes) for
// response and document sizes.
var defaultSizeBuckets = []float64{
	10_000, 50_000, 100_000, 500_000, 1_000_000, 5_000_000, 10_000_000,
}

// buildDurationBuckets are the boundaries (in seconds) for document builds.
var buildDurationBuckets = []float64{
	0.025, 0.050, 0.100, 0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
}

// pageBuckets are the boundaries for pages per document.
var pageBuckets = []float64{1, 2, 5, 10, 25, 50, 100}

// Metric names.
const (
	metricRequestDuration = "http.server.request.duration"
	metricActiveRequests  = "http.server.active_requests"
	metricResponseSize    = "http.server.response.size"
	metricDocumentsBuilt  = "documents.built"
	metricBuildDuration   = "document.build.duration"
	metricDocumentPages   = "document.pages"
	metricDocumentSize    = "document.size"
)

// Provider manages all metric state. Safe for concurrent use.
type Provider struct {
	cfg Config

	histograms        map[string]*histogram
	labeledHistograms map[string]*labeledHistogramStore
	histMu            sync.RWMutex

	counters *counterStore
	gauges   *gaugeStore
}

// NewProvider creates and initialises the telemetry provider.
func NewProvider(cfg Config) *Provider {
	cfg.applyDefaults()

	return &Provider{
		cfg:               cfg,
		histograms:        make(map[string]*histogram),
		labeledHistograms: make(map[string]*labeledHistogramStore),
		counters:          newCounterStore(),
		gauges:            newGaugeStore(),
	}
}

func (p *Provider) getOrCreateHistogram(name string, boundaries []float64) *histogram {
	p.histMu.RLock()
	h, ok := p.histograms[name]
	p.histMu.RUnlock()
	if ok {
		return h
	}
	p.histMu.Lock()
	h, ok = p.histograms[name]
	if !ok {
		h = newHistogram(boundaries)
		p.histograms[name] = h
	}
	p.histMu.Unlock()
	return h
}

func (p *Provider) getOrCreateLabeledStore(name string) *labeledHistogramStore {
	p.histMu.RLock()
	s, ok := p.labeledHistograms[name]
	p.histMu.RUnlock()
	if ok {
		return s
	}
	p.histMu.Lock()
	s, ok = p.labeledHistograms[name]
	if !ok {
		s = newLabeledHistogramStore()
		p.labeledHistograms[name] = s
	}
	p.histMu.Unlock()
	return s
}

// ---------------------------------------------------------------------------
// Accessors (for tests and introspection)
// ---------------------------------------------------------------------------

// GetHistogram returns the named histogram, or nil if it does not exist.
func (p *Provider) GetHistogram(name string) *histogram {
	p.histMu.RLock()
	defer p.histMu.RUnlock()
	return p.histograms[name]
}

// GetLabeledHistogram returns a specific labeled histogram, or nil.
func (p *Provider) GetLabeledHistogram(name, key string) *histogram {
	p.histMu.RLock()
	s, ok := p.labeledHistograms[name]
	p.histMu.RUnlock()
	if !ok {
		return nil
	}
	s.mu.RLock()
	h := s.items[key]
	s.mu.RUnlock()
	return h
}

// GetGauge returns the current value of the named gauge.
func (p *Provider) GetGauge(name string) int64 {
	return p.gauges.get(name)
}

// GetCounter returns the current value of a counter with the given name
// and label value.
func (p *Provider) GetCounter(name, label string) int64 {
	return p.counters.get(name + "|" + label)
}

// ---------------------------------------------------------------------------
// Build metrics
// ---------------------------------------------------------------------------

// Build outcomes.
const (
	OutcomeWritten = "written"
	OutcomeFailed  = "failed"
)

// RecordBuild observes one completed build attempt. Failed builds carry
// zero pages and bytes and only count toward the outcome and duration.
func (p *Provider) RecordBuild(outcome string, seconds float64, pages int, bytes int64) {
	p.counters.inc(metricDocumentsBuilt + "|" + outcome)

	p.getOrCreateHistogram(metricBuildDuration, buildDurationBuckets).Observe(seconds)
	if pages > 0 {
		p.getOrCreateHistogram(metricDocumentPages, pageBuckets).Observe(float64(pages))
	}
	if bytes > 0 {
		p.getOrCreateHistogram(metricDocumentSize, defaultSizeBuckets).Observe(float64(bytes))
	}
}

// ---------------------------------------------------------------------------
// MetricsMiddleware
// ---------------------------------------------------------------------------

// MetricsMiddleware returns an Echo middleware that records HTTP server
// metrics per route pattern.
func (p *Provider) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !p.cfg.on() {
				return next(c)
			}

			p.gauges.add(metricActiveRequests, 1)

			start := time.Now()
			req := c.Request()

			err := next(c)

			duration := time.Since(start).Seconds()
			resp := c.Response()
			p.gauges.add(metricActiveRequests, -1)

			// Route pattern, not the raw path
			route := c.Path()
			if route == "" {
				route = req.URL.Path
			}
			statusStr := fmt.Sprintf("%d", resp.Status)

			p.getOrCreateHistogram(metricRequestDuration, defaultDurationBuckets).Observe(duration)

			store := p.getOrCreateLabeledStore(metricRequestDuration)
			store.getOrCreate(LabelsKey(req.Method, route, statusStr), defaultDurationBuckets).Observe(duration)

			if resp.Size > 0 {
				p.getOrCreateHistogram(metricResponseSize, defaultSizeBuckets).Observe(float64(resp.Size))
			}

			return err
		}
	}
}

// ---------------------------------------------------------------------------
// PrometheusHandler
// ---------------------------------------------------------------------------

// PrometheusHandler returns an Echo handler that serves metrics in
// Prometheus text exposition format.
func (p *Provider) PrometheusHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		var b strings.Builder

		p.histMu.RLock()
		durationHist := p.histograms[metricRequestDuration]
		durationStore := p.labeledHistograms[metricRequestDuration]
		respSizeHist := p.histograms[metricResponseSize]
		buildHist := p.histograms[metricBuildDuration]
		pagesHist := p.histograms[metricDocumentPages]
		docSizeHist := p.histograms[metricDocumentSize]
		p.histMu.RUnlock()

		writeHistogramMetric(&b, "http_server_request_duration_seconds",
			"Duration of HTTP requests in seconds.",
			durationHist, durationStore, defaultDurationBuckets)

		b.WriteString("# HELP http_server_active_requests Number of active HTTP requests.\n")
		b.WriteString("# TYPE http_server_active_requests gauge\n")
		fmt.Fprintf(&b, "http_server_active_requests %d\n", p.gauges.get(metricActiveRequests))
		b.WriteByte('\n')

		writeSimpleHistogram(&b, "http_server_response_size_bytes",
			"Size of HTTP response bodies in bytes.", respSizeHist, defaultSizeBuckets)

		counters := p.counters.snapshot()
		b.WriteString("# HELP documents_built_total Completed document builds by outcome.\n")
		b.WriteString("# TYPE documents_built_total counter\n")
		for key, val := range counters {
			parts := strings.SplitN(key, "|", 2)
			if len(parts) == 2 && parts[0] == metricDocumentsBuilt {
				fmt.Fprintf(&b, "documents_built_total{outcome=%q} %d\n", parts[1], val)
			}
		}
		b.WriteByte('\n')

		writeSimpleHistogram(&b, "document_build_duration_seconds",
			"Duration of document builds in seconds.", buildHist, buildDurationBuckets)
		writeSimpleHistogram(&b, "document_pages",
			"Pages per written document.", pagesHist, pageBuckets)
		writeSimpleHistogram(&b, "document_size_bytes",
			"Size of written documents in bytes.", docSizeHist, defaultSizeBuckets)

		return c.String(http.StatusOK, b.String())
	}
}

// ---------------------------------------------------------------------------
// Prometheus format helpers
// ---------------------------------------------------------------------------

func writeHistogramMetric(b *strings.Builder, name, help string,
	global *histogram, labeled *labeledHistogramStore, boundaries []float64) {

	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s histogram\n", name)

	if labeled != nil {
		snap := labeled.snapshot()
		for key, h := range snap {
			parts := strings.SplitN(key, "|", 3)
			if len(parts) != 3 {
				continue
			}
			method, route, status := parts[0], parts[1], parts[2]
			labels := fmt.Sprintf("method=%q,route=%q,status_code=%q", method, route, status)
			writeSingleHistogram(b, name, labels, h, boundaries)
		}
	} else if global != nil {
		writeSingleHistogram(b, name, "", global, boundaries)
	}
	b.WriteByte('\n')
}

func writeSimpleHistogram(b *strings.Builder, name, help string,
	h *histogram, boundaries []float64) {

	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s histogram\n", name)
	if h != nil {
		writeSingleHistogram(b, name, "", h, boundaries)
	}
	b.WriteByte('\n')
}

func writeSingleHistogram(b *strings.Builder, name, labels string,
	h *histogram, boundaries []float64) {

	cum := h.cumulativeBuckets()
	total := h.Count()

	labelsPrefix := ""
	labelsSuffix := ""
	if labels != "" {
		labelsPrefix = labels + ","
		labelsSuffix = "{" + labels + "}"
	}

	for i, boundary := range boundaries {
		if labels != "" {
			fmt.Fprintf(b, "%s_bucket{%sle=\"%g\"} %d\n", name, labelsPrefix, boundary, cum[i])
		} else {
			fmt.Fprintf(b, "%s_bucket{le=\"%g\"} %d\n", name, boundary, cum[i])
		}
	}

	// +Inf bucket
	if labels != "" {
		fmt.Fprintf(b, "%s_bucket{%sle=\"+Inf\"} %d\n", name, labelsPrefix, total)
	} else {
		fmt.Fprintf(b, "%s_bucket{le=\"+Inf\"} %d\n", name, total)
	}

	fmt.Fprintf(b, "%s_sum%s %g\n", name, labelsSuffix, h.Sum())
	fmt.Fprintf(b, "%s_count%s %d\n", name, labelsSuffix, total)
}
