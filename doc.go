// Package tlshandshake implements a server-side TLS 1.0/1.1/1.2 handshake
// state machine, supporting RSA and DHE_RSA key exchange with RFC 5746
// secure renegotiation.
//
// # Quick Start
//
// Feeding handshake messages to the state machine:
//
//	import (
//		"github.com/mattgray/tls-handshake/internal/constants"
//		"github.com/mattgray/tls-handshake/pkg/handshake"
//	)
//
//	cfg, err := handshake.NewConfig(handshake.Config{
//		ProtocolVersions: []constants.ProtocolVersion{constants.VersionTLS12},
//		CipherSuites:     suites,
//		OwnCertificate:   cert,
//	})
//	g := handshake.NewGlobal(cfg, constants.VersionTLS12)
//	g, signals, err = handshake.HandleHandshake(g, msg)
//
// # Package Structure
//
// The library is organized into several packages:
//
//   - pkg/handshake: the handshake state machine, config, rate limiting
//   - pkg/tlscrypto: RSA/DHE key exchange, PRF, master secret derivation
//   - pkg/tlswire: TLS handshake message wire encoding/decoding
//   - pkg/telemetry: metrics, structured logging, health checks, tracing
//   - internal/constants: protocol version, cipher suite, and limit constants
//   - internal/alert: TLS alert codes and the fatal-error taxonomy
//
// # Security Properties
//
//   - Bleichenbacher-safe RSA premaster secret handling: a malformed
//     ciphertext never causes a distinguishable error or early return
//   - RFC 5746 secure renegotiation: binds each renegotiation to the prior
//     handshake's Finished values
//   - Constant-time Finished/MAC comparisons
//
// # Testing
//
// The library includes comprehensive tests:
//
//	go test ./...                         # All tests
//	go test -fuzz=FuzzParseClientHello ./test/fuzz/
//	go test -bench=. ./test/benchmark      # Benchmarks
//
// # References
//
//   - RFC 5246: The Transport Layer Security (TLS) Protocol Version 1.2
//   - RFC 4346: The Transport Layer Security (TLS) Protocol Version 1.1
//   - RFC 2246: The TLS Protocol Version 1.0
//   - RFC 5746: TLS Renegotiation Indication Extension
//   - RFC 2409: The Internet Key Exchange (IKE), Oakley Group 2
package tlshandshake
