package handshake

import (
	"sync"
	"time"
)

// RateLimitObserver receives notifications when a rate limit rejects an
// attempt, so a caller can log or export metrics without the limiters
// themselves depending on any particular observability stack.
type RateLimitObserver interface {
	OnConnectionRateLimit(remoteIP string)
	OnHandshakeRateLimit(remoteIP string)
}

// IPRateLimiter tracks and limits the number of concurrent in-flight
// handshakes per client IP, so a listener can bound per-source resource
// use before the handshake state machine ever sees a ClientHello.
type IPRateLimiter struct {
	mu          sync.Mutex
	connections map[string]int
	maxPerIP    int
	observer    RateLimitObserver
}

// NewIPRateLimiter creates a new IPRateLimiter.
func NewIPRateLimiter(maxPerIP int) *IPRateLimiter {
	return &IPRateLimiter{
		connections: make(map[string]int),
		maxPerIP:    maxPerIP,
	}
}

// SetObserver registers an observer notified of rejected connections.
func (l *IPRateLimiter) SetObserver(o RateLimitObserver) {
	l.observer = o
}

// AllowConnection checks if the IP is allowed to start a new handshake.
// If allowed, it increments the connection count.
func (l *IPRateLimiter) AllowConnection(ip string) bool {
	if l.maxPerIP <= 0 {
		return true // No limit
	}

	l.mu.Lock()
	if l.connections[ip] >= l.maxPerIP {
		l.mu.Unlock()
		if l.observer != nil {
			l.observer.OnConnectionRateLimit(ip)
		}
		return false
	}
	l.connections[ip]++
	l.mu.Unlock()
	return true
}

// ReleaseConnection decrements the connection count for the IP.
func (l *IPRateLimiter) ReleaseConnection(ip string) {
	if l.maxPerIP <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.connections[ip] > 0 {
		l.connections[ip]--
		if l.connections[ip] == 0 {
			delete(l.connections, ip) // Cleanup to prevent map growth
		}
	}
}

// HandshakeLimiter limits the rate of new handshakes using a token bucket.
type HandshakeLimiter struct {
	mu         sync.Mutex
	rate       float64 // Tokens per second
	burst      int     // Max bucket size
	tokens     float64 // Current tokens
	lastRefill time.Time
	observer   RateLimitObserver
}

// NewHandshakeLimiter creates a new HandshakeLimiter.
func NewHandshakeLimiter(rate float64, burst int) *HandshakeLimiter {
	return &HandshakeLimiter{
		rate:       rate,
		burst:      burst,
		tokens:     float64(burst),
		lastRefill: time.Now(),
	}
}

// SetObserver registers an observer notified of rejected handshakes.
func (l *HandshakeLimiter) SetObserver(o RateLimitObserver) {
	l.observer = o
}

// AllowHandshake checks if a new handshake is allowed (consumes 1 token)
// for the given client IP, used only for the observer notification.
func (l *HandshakeLimiter) AllowHandshake(remoteIP string) bool {
	if l.rate <= 0 {
		return true // No limit
	}

	l.mu.Lock()
	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()

	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
	l.lastRefill = now

	if l.tokens >= 1.0 {
		l.tokens -= 1.0
		l.mu.Unlock()
		return true
	}
	l.mu.Unlock()
	if l.observer != nil {
		l.observer.OnHandshakeRateLimit(remoteIP)
	}
	return false
}
