package integration

import (
	"testing"
	"time"

	"github.com/mattgray/tls-handshake/pkg/handshake"
)

type recordingObserver struct {
	connHits, hsHits []string
}

func (r *recordingObserver) OnConnectionRateLimit(remoteIP string) {
	r.connHits = append(r.connHits, remoteIP)
}

func (r *recordingObserver) OnHandshakeRateLimit(remoteIP string) {
	r.hsHits = append(r.hsHits, remoteIP)
}

// TestConnectionRateLimit exercises IPRateLimiter the way a listener would:
// bounding concurrent in-flight handshakes per source IP before any
// ClientHello is ever parsed.
func TestConnectionRateLimit(t *testing.T) {
	limiter := handshake.NewIPRateLimiter(1)
	obs := &recordingObserver{}
	limiter.SetObserver(obs)

	const ip = "203.0.113.7"

	if !limiter.AllowConnection(ip) {
		t.Fatal("first connection from a fresh IP should be allowed")
	}
	if limiter.AllowConnection(ip) {
		t.Fatal("second concurrent connection should be rejected")
	}
	if len(obs.connHits) != 1 || obs.connHits[0] != ip {
		t.Errorf("expected one observer notification for %s, got %v", ip, obs.connHits)
	}

	limiter.ReleaseConnection(ip)
	if !limiter.AllowConnection(ip) {
		t.Fatal("connection should be allowed again after release")
	}

	other := "198.51.100.9"
	if !limiter.AllowConnection(other) {
		t.Fatal("a distinct IP must have its own independent quota")
	}
}

// TestConnectionRateLimitUnlimited verifies that maxPerIP <= 0 disables the
// limiter entirely, matching the documented "no limit" behavior.
func TestConnectionRateLimitUnlimited(t *testing.T) {
	limiter := handshake.NewIPRateLimiter(0)
	const ip = "203.0.113.7"
	for i := 0; i < 100; i++ {
		if !limiter.AllowConnection(ip) {
			t.Fatalf("unlimited limiter rejected connection %d", i)
		}
	}
}

// TestHandshakeRateLimit exercises HandshakeLimiter's token bucket: a burst
// of 1 allows exactly one handshake before the next must wait for refill.
func TestHandshakeRateLimit(t *testing.T) {
	limiter := handshake.NewHandshakeLimiter(1.0, 1)
	obs := &recordingObserver{}
	limiter.SetObserver(obs)

	const ip = "203.0.113.7"

	if !limiter.AllowHandshake(ip) {
		t.Fatal("first handshake should consume the initial burst token")
	}
	if limiter.AllowHandshake(ip) {
		t.Fatal("second immediate handshake should be rate limited")
	}
	if len(obs.hsHits) != 1 || obs.hsHits[0] != ip {
		t.Errorf("expected one observer notification for %s, got %v", ip, obs.hsHits)
	}

	time.Sleep(1100 * time.Millisecond)
	if !limiter.AllowHandshake(ip) {
		t.Fatal("handshake should succeed once the bucket refills")
	}
}

// TestHandshakeRateLimitUnlimited verifies that rate <= 0 disables the
// limiter entirely.
func TestHandshakeRateLimitUnlimited(t *testing.T) {
	limiter := handshake.NewHandshakeLimiter(0, 0)
	const ip = "203.0.113.7"
	for i := 0; i < 10; i++ {
		if !limiter.AllowHandshake(ip) {
			t.Fatalf("unlimited limiter rejected handshake %d", i)
		}
	}
}
