package telemetry

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// PrometheusExporter exports metrics in Prometheus text format.
type PrometheusExporter struct {
	collector *Collector
	namespace string
}

// NewPrometheusExporter creates a new Prometheus exporter for the given
// collector. The namespace is prepended to all metric names.
func NewPrometheusExporter(c *Collector, namespace string) *PrometheusExporter {
	return &PrometheusExporter{
		collector: c,
		namespace: namespace,
	}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (e *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		e.WriteMetrics(w)
	})
}

// WriteMetrics writes all metrics in Prometheus text format to the writer.
func (e *PrometheusExporter) WriteMetrics(w io.Writer) {
	snap := e.collector.Snapshot()
	labels := e.formatLabels(snap.Labels)

	e.writeHelp(w, "handshakes_active", "Number of handshakes currently in progress")
	e.writeType(w, "handshakes_active", "gauge")
	e.writeMetric(w, "handshakes_active", labels, float64(snap.HandshakesActive))

	e.writeHelp(w, "handshakes_total", "Total number of handshakes started")
	e.writeType(w, "handshakes_total", "counter")
	e.writeMetric(w, "handshakes_total", labels, float64(snap.HandshakesTotal))

	e.writeHelp(w, "handshakes_failed_total", "Total number of handshakes that ended in a fatal alert")
	e.writeType(w, "handshakes_failed_total", "counter")
	e.writeMetric(w, "handshakes_failed_total", labels, float64(snap.HandshakesFailed))

	e.writeHelp(w, "renegotiations_total", "Total number of secure renegotiations completed")
	e.writeType(w, "renegotiations_total", "counter")
	e.writeMetric(w, "renegotiations_total", labels, float64(snap.Renegotiations))

	e.writeHelp(w, "connection_rate_limited_total", "Total connections rejected by the per-IP concurrent handshake limiter")
	e.writeType(w, "connection_rate_limited_total", "counter")
	e.writeMetric(w, "connection_rate_limited_total", labels, float64(snap.ConnectionRateLimited))

	e.writeHelp(w, "handshake_rate_limited_total", "Total handshakes rejected by the token-bucket rate limiter")
	e.writeType(w, "handshake_rate_limited_total", "counter")
	e.writeMetric(w, "handshake_rate_limited_total", labels, float64(snap.HandshakeRateLimited))

	e.writeHelp(w, "uptime_seconds", "Time since the collector was created")
	e.writeType(w, "uptime_seconds", "gauge")
	e.writeMetric(w, "uptime_seconds", labels, snap.Uptime.Seconds())

	e.writeHelp(w, "alerts_sent_total", "Total fatal alerts sent, by alert code")
	e.writeType(w, "alerts_sent_total", "counter")
	for code, count := range snap.AlertsByCode {
		e.writeMetric(w, "alerts_sent_total", e.joinLabels(labels, "code", strconv.Itoa(int(code))), float64(count))
	}

	e.writeHelp(w, "versions_negotiated_total", "Total handshakes completed, by negotiated protocol version")
	e.writeType(w, "versions_negotiated_total", "counter")
	for version, count := range snap.VersionsByValue {
		e.writeMetric(w, "versions_negotiated_total", e.joinLabels(labels, "version", fmt.Sprintf("0x%04x", version)), float64(count))
	}

	e.writeHelp(w, "ciphers_negotiated_total", "Total handshakes completed, by negotiated cipher suite")
	e.writeType(w, "ciphers_negotiated_total", "counter")
	for suite, count := range snap.CiphersByValue {
		e.writeMetric(w, "ciphers_negotiated_total", e.joinLabels(labels, "cipher_suite", fmt.Sprintf("0x%04x", suite)), float64(count))
	}

	e.writeHistogram(w, "handshake_duration_milliseconds", "Handshake duration in milliseconds", labels, snap.HandshakeLatency)
}

func (e *PrometheusExporter) writeHelp(w io.Writer, name, help string) {
	fmt.Fprintf(w, "# HELP %s_%s %s\n", e.namespace, name, help)
}

func (e *PrometheusExporter) writeType(w io.Writer, name, typ string) {
	fmt.Fprintf(w, "# TYPE %s_%s %s\n", e.namespace, name, typ)
}

func (e *PrometheusExporter) writeMetric(w io.Writer, name, labels string, value float64) {
	if labels != "" {
		fmt.Fprintf(w, "%s_%s{%s} %g\n", e.namespace, name, labels, value)
	} else {
		fmt.Fprintf(w, "%s_%s %g\n", e.namespace, name, value)
	}
}

func (e *PrometheusExporter) writeHistogram(w io.Writer, name, help, labels string, h HistogramSummary) {
	e.writeHelp(w, name, help)
	e.writeType(w, name, "histogram")

	fullName := e.namespace + "_" + name

	for _, b := range h.Buckets {
		le := fmt.Sprintf("%g", b.UpperBound)
		if math.IsInf(b.UpperBound, 1) {
			le = "+Inf"
		}
		if labels != "" {
			fmt.Fprintf(w, "%s_bucket{%s,le=\"%s\"} %d\n", fullName, labels, le, b.Count)
		} else {
			fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", fullName, le, b.Count)
		}
	}

	if labels != "" {
		fmt.Fprintf(w, "%s_sum{%s} %g\n", fullName, labels, h.Sum)
		fmt.Fprintf(w, "%s_count{%s} %d\n", fullName, labels, h.Count)
	} else {
		fmt.Fprintf(w, "%s_sum %g\n", fullName, h.Sum)
		fmt.Fprintf(w, "%s_count %d\n", fullName, h.Count)
	}
}

// formatLabels converts Labels to Prometheus label format.
func (e *PrometheusExporter) formatLabels(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := escapePromValue(labels[k])
		parts = append(parts, fmt.Sprintf("%s=\"%s\"", k, v))
	}

	return strings.Join(parts, ",")
}

// joinLabels appends one extra key="value" label to an already-formatted
// label string, used for the per-code/version/cipher breakdown metrics.
func (e *PrometheusExporter) joinLabels(base, key, value string) string {
	extra := fmt.Sprintf("%s=\"%s\"", key, escapePromValue(value))
	if base == "" {
		return extra
	}
	return base + "," + extra
}

func escapePromValue(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// ServePrometheus starts an HTTP server serving Prometheus metrics. A
// convenience function for simple use cases.
func ServePrometheus(addr string, c *Collector, namespace string) error {
	exp := NewPrometheusExporter(c, namespace)
	http.Handle("/metrics", exp.Handler())
	return http.ListenAndServe(addr, nil)
}
