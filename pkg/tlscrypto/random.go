// Package tlscrypto provides the cryptographic primitives adapter consumed
// by the handshake state machine: RSA PKCS#1v1.5 decrypt/sign, the fixed
// RFC 2409 group-2 Diffie-Hellman group, the TLS PRF, and a strong RNG.
// The state machine never calls into crypto/rsa, crypto/hmac, or math/big
// directly; it only calls through this package.
package tlscrypto

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	"github.com/mattgray/tls-handshake/internal/alert"
)

// SecureRandom reads cryptographically secure random bytes into b, sourced
// from the OS CSPRNG.
func SecureRandom(b []byte) error {
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return alert.HandshakeFailure("SecureRandom", err)
	}
	return nil
}

// SecureRandomBytes returns n cryptographically secure random bytes.
func SecureRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := SecureRandom(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Reader is an io.Reader returning cryptographically secure random bytes.
var Reader = rand.Reader

// ConstantTimeCompare reports whether a and b are equal, without branching
// on the comparison result. Used for Finished verify_data comparison, where
// the mismatch path must be non-observable via timing.
func ConstantTimeCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites b with zeros. Called on premaster secrets, master
// secrets, and key blocks once they are no longer needed.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ZeroizeMultiple zeroizes each of slices.
func ZeroizeMultiple(slices ...[]byte) {
	for _, s := range slices {
		Zeroize(s)
	}
}

// RandomBuffer32 returns a fresh 32-octet random buffer, used for
// client_random/server_random.
func RandomBuffer32() ([32]byte, error) {
	var b [32]byte
	err := SecureRandom(b[:])
	return b, err
}
