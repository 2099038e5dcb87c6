// Package telemetry provides observability primitives for the handshake
// server.
//
// # Overview
//
// The telemetry package offers a complete observability solution including:
//   - Metrics collection (counters, gauges, histograms) keyed to handshake
//     lifecycle events rather than record-layer traffic
//   - Prometheus-compatible metrics export
//   - Distributed tracing support (OpenTelemetry-compatible interface)
//   - Structured logging with levels
//   - Health check endpoints
//
// # Quick Start
//
// Basic usage with the global collector:
//
//	import "github.com/mattgray/tls-handshake/pkg/telemetry"
//
//	telemetry.Global().HandshakeStarted()
//	telemetry.Global().RecordHandshakeLatency(150 * time.Millisecond)
//	telemetry.Global().RecordVersionNegotiated(0x0303)
//
//	go telemetry.ServePrometheus(":9090", telemetry.Global(), "tls_handshake")
//
// # Metrics Collection
//
// The Collector type aggregates metrics from handshake attempts:
//
//	collector := telemetry.NewCollector(telemetry.Labels{
//		"instance": "node-1",
//		"region":   "us-west-2",
//	})
//
//	collector.HandshakeStarted()
//	collector.HandshakeEnded()
//	collector.HandshakeFailed()
//	collector.RecordHandshakeLatency(d)
//	collector.RecordRenegotiation()
//	collector.RecordAlertSent(alertCode)
//	collector.RecordVersionNegotiated(version)
//	collector.RecordCipherNegotiated(suite)
//
//	snap := collector.Snapshot()
//
// # Prometheus Export
//
// Export metrics in Prometheus format:
//
//	exporter := telemetry.NewPrometheusExporter(collector, "tls_handshake")
//	http.Handle("/metrics", exporter.Handler())
//
// # Tracing
//
// The package provides a Tracer interface compatible with OpenTelemetry:
//
//	tracer := telemetry.NewSimpleTracer()
//	telemetry.SetTracer(tracer)
//
//	otelTracer := telemetry.NewOTelTracer("tls-handshake")
//	telemetry.SetTracer(otelTracer)
//	// Build with -tags otel to enable the adapter.
//
//	ctx, end := telemetry.StartSpan(ctx, telemetry.SpanHandshakeServer)
//	defer end(nil) // or end(err) on error
//
// or use telemetry.SpanClientHello, SpanServerKeyExchange,
// SpanClientKeyExchange, SpanFinished, SpanRenegotiation for finer-grained
// spans within a handshake.
//	defer end(nil) // or end(err) on error
//
// # Structured Logging
//
// The Logger provides structured logging with levels:
//
//	logger := telemetry.NewLogger(
//		telemetry.WithLevel(telemetry.LevelInfo),
//		telemetry.WithFormat(telemetry.FormatJSON),
//		telemetry.WithFields(telemetry.Fields{"service": "tls-handshake"}),
//	)
//
//	logger.Info("handshake established", telemetry.Fields{
//		"cipher_suite": cipherName,
//		"version":      versionName,
//	})
//
//	hsLog := logger.Named("handshake").With(telemetry.Fields{"remote_ip": remoteIP})
//	hsLog.Debug("processing ClientHello")
//
// # Health Checks
//
// Provide health check endpoints for Kubernetes and load balancers:
//
//	health := telemetry.NewHealthCheck(collector, "1.0.0")
//	health.AddCheck("certificate", func() error {
//		return nil
//	})
//
//	http.Handle("/health", health.Handler())
//	http.Handle("/healthz", health.LivenessHandler())
//	http.Handle("/readyz", health.ReadinessHandler())
//
// # Observability Server
//
// Start a complete observability server:
//
//	server := telemetry.NewServer(telemetry.ServerConfig{
//		Collector:        collector,
//		Version:          "1.0.0",
//		Namespace:        "tls_handshake",
//		EnablePrometheus: true,
//		EnableHealth:     true,
//	})
//
//	go server.ListenAndServe(":9090")
//
// This provides:
//   - /metrics - Prometheus metrics
//   - /health  - Detailed health status
//   - /healthz - Kubernetes liveness probe
//   - /readyz  - Kubernetes readiness probe
package telemetry
