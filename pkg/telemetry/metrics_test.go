package telemetry

import (
	"testing"
	"time"
)

func TestNewCollector(t *testing.T) {
	labels := Labels{"instance": "test"}
	c := NewCollector(labels)

	if c == nil {
		t.Fatal("expected non-nil collector")
	}

	snap := c.Snapshot()
	if snap.Labels["instance"] != "test" {
		t.Errorf("expected label instance=test, got %v", snap.Labels)
	}
}

func TestCollectorHandshakeMetrics(t *testing.T) {
	c := NewCollector(nil)

	c.HandshakeStarted()
	c.HandshakeStarted()
	snap := c.Snapshot()
	if snap.HandshakesActive != 2 {
		t.Errorf("expected 2 active handshakes, got %d", snap.HandshakesActive)
	}
	if snap.HandshakesTotal != 2 {
		t.Errorf("expected 2 total handshakes, got %d", snap.HandshakesTotal)
	}

	c.HandshakeEnded()
	snap = c.Snapshot()
	if snap.HandshakesActive != 1 {
		t.Errorf("expected 1 active handshake, got %d", snap.HandshakesActive)
	}
	if snap.HandshakesTotal != 2 {
		t.Errorf("expected 2 total handshakes, got %d", snap.HandshakesTotal)
	}

	c.HandshakeFailed()
	snap = c.Snapshot()
	if snap.HandshakesFailed != 1 {
		t.Errorf("expected 1 failed handshake, got %d", snap.HandshakesFailed)
	}
}

func TestCollectorHandshakeEndedNeverUnderflows(t *testing.T) {
	c := NewCollector(nil)

	c.HandshakeEnded()
	snap := c.Snapshot()
	if snap.HandshakesActive != 0 {
		t.Errorf("expected active handshakes to stay at 0, got %d", snap.HandshakesActive)
	}
}

func TestCollectorRenegotiationAndRateLimitMetrics(t *testing.T) {
	c := NewCollector(nil)

	c.RecordRenegotiation()
	c.RecordRenegotiation()
	c.RecordConnectionRateLimit()
	c.RecordHandshakeRateLimit()
	c.RecordHandshakeRateLimit()
	c.RecordHandshakeRateLimit()

	snap := c.Snapshot()
	if snap.Renegotiations != 2 {
		t.Errorf("expected 2 renegotiations, got %d", snap.Renegotiations)
	}
	if snap.ConnectionRateLimited != 1 {
		t.Errorf("expected 1 connection rate limit, got %d", snap.ConnectionRateLimited)
	}
	if snap.HandshakeRateLimited != 3 {
		t.Errorf("expected 3 handshake rate limits, got %d", snap.HandshakeRateLimited)
	}
}

func TestCollectorAlertVersionCipherMetrics(t *testing.T) {
	c := NewCollector(nil)

	c.RecordAlertSent(40) // handshake_failure
	c.RecordAlertSent(40)
	c.RecordAlertSent(70) // protocol_version
	c.RecordVersionNegotiated(0x0303)
	c.RecordCipherNegotiated(0x002F)

	snap := c.Snapshot()
	if snap.AlertsByCode[40] != 2 {
		t.Errorf("expected 2 alerts of code 40, got %d", snap.AlertsByCode[40])
	}
	if snap.AlertsByCode[70] != 1 {
		t.Errorf("expected 1 alert of code 70, got %d", snap.AlertsByCode[70])
	}
	if snap.VersionsByValue[0x0303] != 1 {
		t.Errorf("expected 1 negotiation of version 0x0303, got %d", snap.VersionsByValue[0x0303])
	}
	if snap.CiphersByValue[0x002F] != 1 {
		t.Errorf("expected 1 negotiation of cipher 0x002F, got %d", snap.CiphersByValue[0x002F])
	}
}

func TestCollectorLatencyMetrics(t *testing.T) {
	c := NewCollector(nil)

	c.RecordHandshakeLatency(100 * time.Millisecond)
	c.RecordHandshakeLatency(200 * time.Millisecond)

	snap := c.Snapshot()
	if snap.HandshakeLatency.Count != 2 {
		t.Errorf("expected 2 handshake latency observations, got %d", snap.HandshakeLatency.Count)
	}
	if snap.HandshakeLatency.Mean != 150 {
		t.Errorf("expected mean handshake latency 150ms, got %.2f", snap.HandshakeLatency.Mean)
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(nil)

	c.HandshakeStarted()
	c.RecordRenegotiation()
	c.RecordConnectionRateLimit()
	c.RecordAlertSent(40)

	snap := c.Snapshot()
	if snap.HandshakesActive != 1 || snap.Renegotiations != 1 {
		t.Fatal("metrics not recorded")
	}

	c.Reset()

	snap = c.Snapshot()
	if snap.HandshakesActive != 0 {
		t.Errorf("expected 0 active handshakes after reset, got %d", snap.HandshakesActive)
	}
	if snap.Renegotiations != 0 {
		t.Errorf("expected 0 renegotiations after reset, got %d", snap.Renegotiations)
	}
	if snap.ConnectionRateLimited != 0 {
		t.Errorf("expected 0 connection rate limits after reset, got %d", snap.ConnectionRateLimited)
	}
	if len(snap.AlertsByCode) != 0 {
		t.Errorf("expected empty alert map after reset, got %v", snap.AlertsByCode)
	}
}

func TestCollectorUptime(t *testing.T) {
	c := NewCollector(nil)
	time.Sleep(10 * time.Millisecond)

	snap := c.Snapshot()
	if snap.Uptime < 10*time.Millisecond {
		t.Errorf("expected uptime >= 10ms, got %v", snap.Uptime)
	}
}

func TestGlobalCollector(t *testing.T) {
	g := Global()
	if g == nil {
		t.Fatal("expected non-nil global collector")
	}

	g2 := Global()
	if g != g2 {
		t.Error("expected same global collector instance")
	}
}

func TestCollectorConcurrency(t *testing.T) {
	c := NewCollector(nil)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				c.HandshakeStarted()
				c.RecordHandshakeLatency(time.Duration(j) * time.Millisecond)
				c.HandshakeEnded()
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	snap := c.Snapshot()
	if snap.HandshakesTotal != 1000 {
		t.Errorf("expected 1000 total handshakes, got %d", snap.HandshakesTotal)
	}
	if snap.HandshakesActive != 0 {
		t.Errorf("expected 0 active handshakes, got %d", snap.HandshakesActive)
	}
}
