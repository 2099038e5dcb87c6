package tlscrypto

import (
	"testing"

	"github.com/mattgray/tls-handshake/internal/constants"
)

func TestDeriveContextPairSymmetric(t *testing.T) {
	masterSecret := make([]byte, constants.MasterSecretSize)
	for i := range masterSecret {
		masterSecret[i] = byte(i)
	}
	clientRandom := make([]byte, 32)
	serverRandom := make([]byte, 32)
	for i := range clientRandom {
		clientRandom[i] = byte(i + 1)
		serverRandom[i] = byte(i + 2)
	}

	pair, err := DeriveContextPair(constants.VersionTLS12, constants.TLS_RSA_WITH_AES_128_CBC_SHA256, masterSecret, serverRandom, clientRandom)
	if err != nil {
		t.Fatalf("DeriveContextPair: %v", err)
	}
	if pair.ServerWrite == nil || pair.ClientRead == nil {
		t.Fatal("expected both contexts to be populated")
	}
	if pair.ServerWrite.Block == nil || pair.ClientRead.Block == nil {
		t.Fatal("expected both contexts to carry a block cipher")
	}

	// Re-deriving from the same inputs must be fully deterministic.
	pair2, err := DeriveContextPair(constants.VersionTLS12, constants.TLS_RSA_WITH_AES_128_CBC_SHA256, masterSecret, serverRandom, clientRandom)
	if err != nil {
		t.Fatalf("DeriveContextPair (second call): %v", err)
	}
	if string(pair.ServerWrite.MACKey) != string(pair2.ServerWrite.MACKey) {
		t.Fatal("key-block derivation must be deterministic given identical inputs")
	}
}

func TestDeriveContextPairRejectsUnsupportedSuite(t *testing.T) {
	masterSecret := make([]byte, constants.MasterSecretSize)
	_, err := DeriveContextPair(constants.VersionTLS12, constants.CipherSuite(0xBEEF), masterSecret, nil, nil)
	if err == nil {
		t.Fatal("expected an error for an unsupported cipher suite")
	}
}
