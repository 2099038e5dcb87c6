package tlscrypto

import (
	"crypto"
	"crypto/md5"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"hash"
	"io"

	"github.com/mattgray/tls-handshake/internal/constants"
)

// DecryptPMS implements RSA key-exchange defensive flow.
// It never returns an error: on any decryption or validation failure it
// silently substitutes a random 48-octet buffer whose first two octets are
// clientVersion, so the caller cannot distinguish "ciphertext malformed"
// from "ciphertext decrypted to a structurally-wrong plaintext" by any
// observable. rsa.DecryptPKCS1v15SessionKey performs exactly this
// substitution internally (it is the stdlib's purpose-built primitive for
// this countermeasure): on failure it leaves the caller-supplied buffer
// untouched, so pre-filling that buffer with the "other" fallback before
// the call produces the required constant-shape result.
func DecryptPMS(rand io.Reader, key *rsa.PrivateKey, ciphertext []byte, clientVersion constants.ProtocolVersion) ([]byte, error) {
	other := make([]byte, constants.PreMasterSecretSize)
	other[0] = byte(clientVersion >> 8)
	other[1] = byte(clientVersion)
	if _, err := io.ReadFull(rand, other[2:]); err != nil {
		return nil, err
	}

	pms := make([]byte, constants.PreMasterSecretSize)
	copy(pms, other)

	// rsa.DecryptPKCS1v15SessionKey conditionally copies the decrypted
	// plaintext into pms (in constant time, only when decryption produced
	// exactly len(pms) bytes); on any failure pms is left holding the
	// "other" fallback already copied into it above. It does not check the
	// embedded protocol version itself (by design — see the stdlib doc
	// comment on leaking validity through a version check), so that check
	// is applied here as a second, equally constant-time, selection.
	_ = rsa.DecryptPKCS1v15SessionKey(rand, key, ciphertext, pms)

	versionOK := subtle.ConstantTimeCompare(pms[0:2], other[0:2])
	subtle.ConstantTimeCopy(1-versionOK, pms, other)

	return pms, nil
}

// SignServerKeyExchangeLegacy signs payload for TLS 1.0/1.1 ServerKeyExchange:
// RSA PKCS#1v1.5 over MD5(payload) || SHA1(payload), with no algorithm
// identifier on the wire.
func SignServerKeyExchangeLegacy(rand io.Reader, key *rsa.PrivateKey, payload []byte) ([]byte, error) {
	md5sum := md5.Sum(payload)
	sha1sum := sha1.Sum(payload)
	digest := append(md5sum[:], sha1sum[:]...)
	return rsa.SignPKCS1v15(rand, key, crypto.MD5SHA1, digest)
}

// SignServerKeyExchangeTLS12 signs payload for TLS 1.2 ServerKeyExchange:
// RSA PKCS#1v1.5 over the single hash named by hashID, with that hash
// explicitly identified on the wire via the SignatureAndHashAlgorithm pair.
func SignServerKeyExchangeTLS12(rand io.Reader, key *rsa.PrivateKey, hashID constants.HashAlgorithmID, payload []byte) ([]byte, error) {
	h, cryptoHash := hashForID(hashID)
	h.Write(payload)
	digest := h.Sum(nil)
	return rsa.SignPKCS1v15(rand, key, cryptoHash, digest)
}

func hashForID(id constants.HashAlgorithmID) (hash.Hash, crypto.Hash) {
	switch id {
	case constants.HashIDSHA384:
		return sha512.New384(), crypto.SHA384
	case constants.HashIDSHA512:
		return sha512.New(), crypto.SHA512
	case constants.HashIDSHA256:
		return sha256.New(), crypto.SHA256
	default:
		return sha1.New(), crypto.SHA1
	}
}

// SelectSignatureHash picks the hash to use for a TLS 1.2 ServerKeyExchange
// signature: the first of the server's configured preference order also
// present in the client's advertised RSA-compatible hashes (server order
// wins), falling back to SHA-1 when the client sent no
// SignatureAlgorithms extension at all.
func SelectSignatureHash(clientHashes []constants.HashAlgorithmID, serverPreference []constants.HashAlgorithmID) (constants.HashAlgorithmID, bool) {
	if len(clientHashes) == 0 {
		return constants.HashIDSHA1, true
	}
	offered := make(map[constants.HashAlgorithmID]bool, len(clientHashes))
	for _, h := range clientHashes {
		offered[h] = true
	}
	for _, h := range serverPreference {
		if offered[h] {
			return h, true
		}
	}
	return 0, false
}
