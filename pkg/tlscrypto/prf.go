package tlscrypto

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"hash"

	"github.com/mattgray/tls-handshake/internal/constants"
)

// pHash implements RFC 5246 §5's P_hash(secret, seed) expansion: the
// iterated HMAC construction that both PRF variants are built from.
func pHash(newHash func() hash.Hash, secret, seed []byte, length int) []byte {
	out := make([]byte, 0, length)
	h := hmac.New(newHash, secret)
	h.Write(seed)
	a := h.Sum(nil)

	for len(out) < length {
		h.Reset()
		h.Write(a)
		h.Write(seed)
		out = append(out, h.Sum(nil)...)

		h.Reset()
		h.Write(a)
		a = h.Sum(nil)
	}
	return out[:length]
}

// prf10 is the TLS 1.0/1.1 PRF: split the secret in half, run P_MD5 over
// one half and P_SHA1 over the other, then XOR the results together.
func prf10(secret, label, seed []byte, length int) []byte {
	labelSeed := append(append([]byte{}, label...), seed...)

	half := (len(secret) + 1) / 2
	s1 := secret[:half]
	s2 := secret[len(secret)-half:]

	r1 := pHash(md5.New, s1, labelSeed, length)
	r2 := pHash(sha1.New, s2, labelSeed, length)

	out := make([]byte, length)
	for i := range out {
		out[i] = r1[i] ^ r2[i]
	}
	return out
}

// prf12 is the TLS 1.2 PRF: a single P_hash run with the suite-bound hash,
// always SHA-256 for every cipher suite this implementation supports.
func prf12(secret, label, seed []byte, length int) []byte {
	labelSeed := append(append([]byte{}, label...), seed...)
	return pHash(sha256.New, secret, labelSeed, length)
}

// PRF evaluates the TLS pseudo-random function for the given negotiated
// version.
func PRF(version constants.ProtocolVersion, secret, label, seed []byte, length int) []byte {
	if version == constants.VersionTLS12 {
		return prf12(secret, label, seed, length)
	}
	return prf10(secret, label, seed, length)
}

// Labels used by the master-secret and key-block derivations, per
// RFC 5246 §8.1/§6.3.
var (
	LabelMasterSecret   = []byte("master secret")
	LabelKeyExpansion   = []byte("key expansion")
	LabelClientFinished = []byte("client finished")
	LabelServerFinished = []byte("server finished")
)

// DeriveMasterSecret implements master-secret derivation:
// master_secret = PRF(pms, "master secret", client_random || server_random),
// truncated to 48 octets.
func DeriveMasterSecret(version constants.ProtocolVersion, pms, clientRandom, serverRandom []byte) []byte {
	seed := append(append([]byte{}, clientRandom...), serverRandom...)
	return PRF(version, pms, LabelMasterSecret, seed, constants.MasterSecretSize)
}

// KeyBlock holds the per-direction key material split out of the PRF key
// expansion, per master-secret derivation step.
type KeyBlock struct {
	ClientMACKey  []byte
	ServerMACKey  []byte
	ClientKey     []byte
	ServerKey     []byte
	ClientIV      []byte
	ServerIV      []byte
}

// DeriveKeyBlock expands the master secret into a key block of the length
// the cipher suite's MAC/cipher/IV parameter set requires and splits it,
// following the same client-then-server, MAC-then-key-then-IV ordering
// used throughout TLS 1.0-1.2 (RFC 5246 §6.3).
func DeriveKeyBlock(version constants.ProtocolVersion, masterSecret, serverRandom, clientRandom []byte, macKeyLen, keyLen, ivLen int) KeyBlock {
	seed := append(append([]byte{}, serverRandom...), clientRandom...)
	total := 2*macKeyLen + 2*keyLen + 2*ivLen
	block := PRF(version, masterSecret, LabelKeyExpansion, seed, total)

	off := 0
	next := func(n int) []byte {
		b := block[off : off+n]
		off += n
		return b
	}

	return KeyBlock{
		ClientMACKey: next(macKeyLen),
		ServerMACKey: next(macKeyLen),
		ClientKey:    next(keyLen),
		ServerKey:    next(keyLen),
		ClientIV:     next(ivLen),
		ServerIV:     next(ivLen),
	}
}

// FinishedVerifyData computes a Finished verify_data value:
// PRF(master_secret, label, Hash(log)), truncated to FinishedLength.
func FinishedVerifyData(version constants.ProtocolVersion, masterSecret []byte, label []byte, transcriptHash []byte) []byte {
	return PRF(version, masterSecret, label, transcriptHash, constants.FinishedLength)
}

// TranscriptHash hashes the handshake transcript log for Finished and for
// the TLS 1.2 ServerKeyExchange signature: MD5||SHA1 concatenation pre-1.2,
// the suite-bound hash (SHA-256 here) at 1.2.
func TranscriptHash(version constants.ProtocolVersion, log []byte) []byte {
	if version == constants.VersionTLS12 {
		sum := sha256.Sum256(log)
		return sum[:]
	}
	md5sum := md5.Sum(log)
	sha1sum := sha1.Sum(log)
	return append(md5sum[:], sha1sum[:]...)
}
