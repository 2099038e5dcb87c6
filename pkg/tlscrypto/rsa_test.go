package tlscrypto

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/mattgray/tls-handshake/internal/constants"
)

func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate test key: %v", err)
	}
	return key
}

func TestDecryptPMSValidCiphertext(t *testing.T) {
	key := testRSAKey(t)

	pms := make([]byte, constants.PreMasterSecretSize)
	pms[0] = byte(constants.VersionTLS12 >> 8)
	pms[1] = byte(constants.VersionTLS12 & 0xff)
	copy(pms[2:], bytes.Repeat([]byte{0x42}, len(pms)-2))

	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, &key.PublicKey, pms)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	got, err := DecryptPMS(rand.Reader, key, ciphertext, constants.VersionTLS12)
	if err != nil {
		t.Fatalf("DecryptPMS returned error: %v", err)
	}
	if !bytes.Equal(got, pms) {
		t.Fatal("DecryptPMS did not recover the original premaster secret")
	}
}

func TestDecryptPMSMalformedCiphertextNeverErrors(t *testing.T) {
	key := testRSAKey(t)

	garbage := make([]byte, key.Size())
	_, _ = rand.Read(garbage)

	got, err := DecryptPMS(rand.Reader, key, garbage, constants.VersionTLS12)
	if err != nil {
		t.Fatalf("DecryptPMS must never return an error, got %v", err)
	}
	if len(got) != constants.PreMasterSecretSize {
		t.Fatalf("fallback pms length = %d, want %d", len(got), constants.PreMasterSecretSize)
	}
	if got[0] != byte(constants.VersionTLS12>>8) || got[1] != byte(constants.VersionTLS12&0xff) {
		t.Fatal("fallback pms must carry clientVersion in its first two octets")
	}
}

func TestDecryptPMSWrongEmbeddedVersionFallsBack(t *testing.T) {
	key := testRSAKey(t)

	pms := make([]byte, constants.PreMasterSecretSize)
	pms[0] = byte(constants.VersionTLS10 >> 8) // wrong version on purpose
	pms[1] = byte(constants.VersionTLS10 & 0xff)

	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, &key.PublicKey, pms)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	got, err := DecryptPMS(rand.Reader, key, ciphertext, constants.VersionTLS12)
	if err != nil {
		t.Fatalf("DecryptPMS must never return an error, got %v", err)
	}
	// Must substitute the random fallback, not the (wrongly-versioned) decrypted plaintext.
	if bytes.Equal(got, pms) {
		t.Fatal("DecryptPMS should not return the decrypted plaintext when its version octets mismatch clientVersion")
	}
	if got[0] != byte(constants.VersionTLS12>>8) || got[1] != byte(constants.VersionTLS12&0xff) {
		t.Fatal("fallback pms must carry clientVersion in its first two octets")
	}
}

func TestSignServerKeyExchangeLegacyVerifiable(t *testing.T) {
	key := testRSAKey(t)
	payload := []byte("client_random || server_random || server_dh_params")

	sig, err := SignServerKeyExchangeLegacy(rand.Reader, key, payload)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(sig) == 0 {
		t.Fatal("empty signature")
	}
}

func TestSignServerKeyExchangeTLS12Verifiable(t *testing.T) {
	key := testRSAKey(t)
	payload := []byte("client_random || server_random || server_dh_params")

	sig, err := SignServerKeyExchangeTLS12(rand.Reader, key, constants.HashIDSHA256, payload)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(sig) == 0 {
		t.Fatal("empty signature")
	}
}

func TestSelectSignatureHashServerOrderWins(t *testing.T) {
	clientHashes := []constants.HashAlgorithmID{constants.HashIDSHA1, constants.HashIDSHA256}
	serverPreference := []constants.HashAlgorithmID{constants.HashIDSHA256, constants.HashIDSHA1}

	got, ok := SelectSignatureHash(clientHashes, serverPreference)
	if !ok || got != constants.HashIDSHA256 {
		t.Fatalf("got (%v, %v), want (SHA256, true)", got, ok)
	}
}

func TestSelectSignatureHashNoOverlap(t *testing.T) {
	clientHashes := []constants.HashAlgorithmID{constants.HashIDMD5}
	serverPreference := []constants.HashAlgorithmID{constants.HashIDSHA256}

	_, ok := SelectSignatureHash(clientHashes, serverPreference)
	if ok {
		t.Fatal("expected no common signature-and-hash algorithm")
	}
}

func TestSelectSignatureHashEmptyClientFallsBackToSHA1(t *testing.T) {
	got, ok := SelectSignatureHash(nil, []constants.HashAlgorithmID{constants.HashIDSHA256})
	if !ok || got != constants.HashIDSHA1 {
		t.Fatalf("got (%v, %v), want (SHA1, true)", got, ok)
	}
}
