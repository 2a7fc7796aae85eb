// Package metrics defines the Prometheus collectors used by the CLI, the HTTP
// server and the stream worker, and serves them for scraping.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds all Prometheus collectors.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SentencesTotal       *prometheus.CounterVec
	TokensTotal          *prometheus.CounterVec
	SentenceLatency      *prometheus.HistogramVec
	LemmaChangesTotal    *prometheus.CounterVec
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	CacheCircuitOpen     prometheus.Gauge
	StreamMessagesTotal  *prometheus.CounterVec
	LexiconPrefixes      prometheus.Gauge
}

// New creates the collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer in binaries and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SentencesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tdz_sentences_total",
				Help: "Sentences processed by mode and status (ok, error).",
			},
			[]string{"mode", "status"},
		),
		TokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tdz_tokens_total",
				Help: "Tokens processed by mode.",
			},
			[]string{"mode"},
		),
		SentenceLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tdz_sentence_duration_seconds",
				Help:    "Time to run the rule pipeline over one sentence.",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
			[]string{"mode"},
		),
		LemmaChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tdz_lemma_changes_total",
				Help: "Lemmas rewritten, by rule.",
			},
			[]string{"rule"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of sentence cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of sentence cache misses.",
			},
		),
		CacheCircuitOpen: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cache_circuit_open",
				Help: "1 while the sentence cache is bypassed after repeated store failures.",
			},
		),
		StreamMessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tdz_stream_messages_total",
				Help: "Stream messages handled by result (processed, failed, malformed).",
			},
			[]string{"result"},
		),
		LexiconPrefixes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tdz_lexicon_prefixes",
				Help: "Number of separable verb prefixes in the loaded lexicon.",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SentencesTotal,
		m.TokensTotal,
		m.SentenceLatency,
		m.LemmaChangesTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CacheCircuitOpen,
		m.StreamMessagesTotal,
		m.LexiconPrefixes,
	)

	return m
}
