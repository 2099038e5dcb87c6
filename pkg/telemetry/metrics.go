package telemetry

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector aggregates metrics from handshake attempts.
type Collector struct {
	handshakesActive atomic.Uint64
	handshakesTotal  atomic.Uint64
	handshakesFailed atomic.Uint64
	handshakeLatency *Histogram

	renegotiations atomic.Uint64

	connectionRateLimited atomic.Uint64
	handshakeRateLimited  atomic.Uint64

	alertMu sync.Mutex
	alerts  map[uint8]uint64

	versionMu sync.Mutex
	versions  map[uint16]uint64

	cipherMu sync.Mutex
	ciphers  map[uint16]uint64

	createdAt time.Time
	labels    Labels
}

// Labels represents key-value pairs for metric labeling.
type Labels map[string]string

// NewCollector creates a new metrics collector.
func NewCollector(labels Labels) *Collector {
	if labels == nil {
		labels = make(Labels)
	}
	return &Collector{
		handshakeLatency: NewHistogram(HandshakeLatencyBuckets),
		alerts:           make(map[uint8]uint64),
		versions:         make(map[uint16]uint64),
		ciphers:          make(map[uint16]uint64),
		createdAt:        time.Now(),
		labels:           labels,
	}
}

// HandshakeLatencyBuckets are the default bucket boundaries for handshake
// duration, in milliseconds.
var HandshakeLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

// HandshakeStarted increments active and total handshake counters.
func (c *Collector) HandshakeStarted() {
	c.handshakesActive.Add(1)
	c.handshakesTotal.Add(1)
}

// HandshakeEnded decrements the active handshake counter.
func (c *Collector) HandshakeEnded() {
	for {
		current := c.handshakesActive.Load()
		if current == 0 {
			return
		}
		if c.handshakesActive.CompareAndSwap(current, current-1) {
			return
		}
	}
}

// HandshakeFailed records a failed handshake attempt.
func (c *Collector) HandshakeFailed() {
	c.handshakesFailed.Add(1)
}

// RecordHandshakeLatency records the duration from ClientHello to
// Established (or to failure).
func (c *Collector) RecordHandshakeLatency(d time.Duration) {
	c.handshakeLatency.Observe(float64(d.Milliseconds()))
}

// RecordRenegotiation increments the renegotiation counter.
func (c *Collector) RecordRenegotiation() {
	c.renegotiations.Add(1)
}

// RecordConnectionRateLimit increments the count of connections rejected
// by the per-IP concurrent handshake limiter.
func (c *Collector) RecordConnectionRateLimit() {
	c.connectionRateLimited.Add(1)
}

// RecordHandshakeRateLimit increments the count of handshakes rejected by
// the token-bucket handshake rate limiter.
func (c *Collector) RecordHandshakeRateLimit() {
	c.handshakeRateLimited.Add(1)
}

// RecordAlertSent increments the per-alert-code counter, keyed by the
// one-octet TLS alert description value.
func (c *Collector) RecordAlertSent(code uint8) {
	c.alertMu.Lock()
	defer c.alertMu.Unlock()
	c.alerts[code]++
}

// RecordVersionNegotiated increments the per-version counter, keyed by the
// two-octet protocol version value.
func (c *Collector) RecordVersionNegotiated(version uint16) {
	c.versionMu.Lock()
	defer c.versionMu.Unlock()
	c.versions[version]++
}

// RecordCipherNegotiated increments the per-cipher-suite counter, keyed by
// the two-octet cipher suite identifier.
func (c *Collector) RecordCipherNegotiated(suite uint16) {
	c.cipherMu.Lock()
	defer c.cipherMu.Unlock()
	c.ciphers[suite]++
}

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Timestamp time.Time
	Uptime    time.Duration

	HandshakesActive uint64
	HandshakesTotal  uint64
	HandshakesFailed uint64
	Renegotiations   uint64

	ConnectionRateLimited uint64
	HandshakeRateLimited  uint64

	AlertsByCode    map[uint8]uint64
	VersionsByValue map[uint16]uint64
	CiphersByValue  map[uint16]uint64

	HandshakeLatency HistogramSummary

	Labels Labels
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.alertMu.Lock()
	alerts := make(map[uint8]uint64, len(c.alerts))
	for k, v := range c.alerts {
		alerts[k] = v
	}
	c.alertMu.Unlock()

	c.versionMu.Lock()
	versions := make(map[uint16]uint64, len(c.versions))
	for k, v := range c.versions {
		versions[k] = v
	}
	c.versionMu.Unlock()

	c.cipherMu.Lock()
	ciphers := make(map[uint16]uint64, len(c.ciphers))
	for k, v := range c.ciphers {
		ciphers[k] = v
	}
	c.cipherMu.Unlock()

	return Snapshot{
		Timestamp:        time.Now(),
		Uptime:           time.Since(c.createdAt),
		HandshakesActive: c.handshakesActive.Load(),
		HandshakesTotal:  c.handshakesTotal.Load(),
		HandshakesFailed: c.handshakesFailed.Load(),
		Renegotiations:   c.renegotiations.Load(),
		ConnectionRateLimited: c.connectionRateLimited.Load(),
		HandshakeRateLimited:  c.handshakeRateLimited.Load(),
		AlertsByCode:     alerts,
		VersionsByValue:  versions,
		CiphersByValue:   ciphers,
		HandshakeLatency: c.handshakeLatency.Summary(),
		Labels:           c.labels,
	}
}

// Reset clears all metrics (useful for testing).
func (c *Collector) Reset() {
	c.handshakesActive.Store(0)
	c.handshakesTotal.Store(0)
	c.handshakesFailed.Store(0)
	c.renegotiations.Store(0)
	c.connectionRateLimited.Store(0)
	c.handshakeRateLimited.Store(0)
	c.handshakeLatency.Reset()

	c.alertMu.Lock()
	c.alerts = make(map[uint8]uint64)
	c.alertMu.Unlock()

	c.versionMu.Lock()
	c.versions = make(map[uint16]uint64)
	c.versionMu.Unlock()

	c.cipherMu.Lock()
	c.ciphers = make(map[uint16]uint64)
	c.cipherMu.Unlock()

	c.createdAt = time.Now()
}

var (
	globalCollector     *Collector
	globalCollectorOnce sync.Once
)

// Global returns the global metrics collector, creating one with default
// settings if not already initialized.
func Global() *Collector {
	globalCollectorOnce.Do(func() {
		if globalCollector == nil {
			globalCollector = NewCollector(Labels{"instance": "default"})
		}
	})
	return globalCollector
}

// SetGlobal sets the global metrics collector. Should be called during
// initialization before any metrics are recorded.
func SetGlobal(c *Collector) {
	globalCollector = c
}
