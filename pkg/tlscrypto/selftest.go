// Conditional self-tests, in the FIPS 140-3 pairwise-consistency style
// adapted to this implementation's classical RSA/DH primitives: verify a
// configured RSA certificate's key halves agree, and that the fixed DH
// group-2 parameters are well-formed, once at startup rather than on every
// operation.
package tlscrypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// RunSelfTest performs the startup conditional self-tests. It is a no-op
// unless the binary was built with the "selftest" tag. A failure here means
// the configured certificate's private key does not match its public key,
// or the fixed DH group parameters are malformed — both indicate a broken
// deployment rather than a transient fault, so the caller should refuse to
// start rather than accept connections it cannot serve correctly.
func RunSelfTest(key *rsa.PrivateKey) error {
	if !SelfTestEnabled() {
		return nil
	}
	if err := rsaPairwiseConsistencyTest(key); err != nil {
		return fmt.Errorf("tlscrypto: RSA pairwise consistency test failed: %w", err)
	}
	if err := dhGroupSanityTest(); err != nil {
		return fmt.Errorf("tlscrypto: DH group sanity test failed: %w", err)
	}
	return nil
}

// rsaPairwiseConsistencyTest signs a fixed message with key and verifies
// the signature with key's public half, confirming the two halves
// correspond before the key is used to authenticate any handshake.
func rsaPairwiseConsistencyTest(key *rsa.PrivateKey) error {
	if key == nil {
		return fmt.Errorf("no RSA key configured")
	}
	digest := sha256.Sum256([]byte("tlscrypto-pairwise-consistency-test"))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, 0, signPrefix(digest[:]))
	if err != nil {
		return err
	}
	return rsa.VerifyPKCS1v15(&key.PublicKey, 0, signPrefix(digest[:]), sig)
}

// signPrefix is a trivial passthrough kept separate so the hashed value
// signed and verified is visibly the same slice on both sides.
func signPrefix(digest []byte) []byte { return digest }

// dhGroupSanityTest checks the fixed RFC 2409 group-2 parameters are the
// shape a DH exchange needs: p odd and g in (1, p). Primality of p is not
// tested.
func dhGroupSanityTest() error {
	if group2P == nil || group2G == nil {
		return fmt.Errorf("DH group parameters not initialized")
	}
	if group2P.Bit(0) != 1 {
		return fmt.Errorf("DH group modulus is even")
	}
	if group2G.Cmp(group2P) >= 0 || group2G.Sign() <= 0 || group2G.BitLen() < 2 {
		return fmt.Errorf("DH group generator out of range")
	}
	return nil
}
