package tlscrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/mattgray/tls-handshake/internal/constants"
)

// CipherContext is the read or write cryptographic context the record
// layer is handed on the ChangeCipherSpec barrier; applying it to record
// bytes is the record layer's own responsibility, out of scope here.
type CipherContext struct {
	Block  cipher.Block
	MACKey []byte
	IV     []byte
}

// NewCipherContext builds a CBC block cipher from key and validates the IV
// length against a key block split into per-direction (cipher key, MAC key,
// IV) triples.
func NewCipherContext(key, macKey, iv []byte) (*CipherContext, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != block.BlockSize() {
		return nil, errors.New("tlscrypto: IV length does not match the cipher block size")
	}
	return &CipherContext{Block: block, MACKey: macKey, IV: iv}, nil
}

// ContextPair is the pair of contexts derived for one side's write
// direction and the peer's read direction: `server_write_ctx` / `client_read_ctx`.
type ContextPair struct {
	ServerWrite *CipherContext
	ClientRead  *CipherContext
}

// DeriveContextPair expands masterSecret into a key block sized for suite
// and constructs the server-write and client-read cipher contexts from it.
func DeriveContextPair(version constants.ProtocolVersion, suite constants.CipherSuite, masterSecret, serverRandom, clientRandom []byte) (*ContextPair, error) {
	macKeyLen, keyLen, ivLen, ok := suite.KeyMaterialSizes()
	if !ok {
		return nil, errUnsupportedSuite(suite)
	}
	kb := DeriveKeyBlock(version, masterSecret, serverRandom, clientRandom, macKeyLen, keyLen, ivLen)

	serverWrite, err := NewCipherContext(kb.ServerKey, kb.ServerMACKey, kb.ServerIV)
	if err != nil {
		return nil, err
	}
	clientRead, err := NewCipherContext(kb.ClientKey, kb.ClientMACKey, kb.ClientIV)
	if err != nil {
		return nil, err
	}
	return &ContextPair{ServerWrite: serverWrite, ClientRead: clientRead}, nil
}

type unsupportedSuiteError struct {
	suite constants.CipherSuite
}

func (e *unsupportedSuiteError) Error() string {
	return "tlscrypto: unsupported cipher suite " + e.suite.String()
}

func errUnsupportedSuite(suite constants.CipherSuite) error {
	return &unsupportedSuiteError{suite: suite}
}
