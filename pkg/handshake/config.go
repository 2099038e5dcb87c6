package handshake

import (
	"crypto/rsa"

	"github.com/mattgray/tls-handshake/internal/constants"
	"github.com/mattgray/tls-handshake/pkg/tlscrypto"
)

// Certificate pairs a leaf-first DER chain with its RSA private key.
type Certificate struct {
	Chain      [][]byte
	PrivateKey *rsa.PrivateKey
}

// Config is the immutable policy shared read-only across connections.
type Config struct {
	ProtocolVersions []constants.ProtocolVersion
	CipherSuites     []constants.CipherSuite
	Hashes           []constants.HashAlgorithmID
	OwnCertificate   *Certificate
	SecureReneg      bool
	UseReneg         bool
}

// NewConfig validates and freezes a Config, running the startup
// conditional self-test (pkg/tlscrypto.RunSelfTest) against the configured
// certificate when the binary was built with the "selftest" tag.
func NewConfig(cfg Config) (*Config, error) {
	c := cfg
	if c.OwnCertificate != nil {
		if err := tlscrypto.RunSelfTest(c.OwnCertificate.PrivateKey); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// negotiateVersion selects the highest configured version at most the
// client's offered version.
func (c *Config) negotiateVersion(clientVersion constants.ProtocolVersion) (constants.ProtocolVersion, bool) {
	var best constants.ProtocolVersion
	found := false
	for _, v := range c.ProtocolVersions {
		if v > clientVersion {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	return best, found
}

// negotiateCipherSuite selects the first cipher suite in the client's
// offered order that is also server-configured (client-order precedence),
// ignoring the empty-renegotiation-info signaling value.
func (c *Config) negotiateCipherSuite(clientOffered []constants.CipherSuite) (constants.CipherSuite, bool) {
	serverSet := make(map[constants.CipherSuite]bool, len(c.CipherSuites))
	for _, cs := range c.CipherSuites {
		serverSet[cs] = true
	}
	for _, cs := range clientOffered {
		if cs == constants.TLS_EMPTY_RENEGOTIATION_INFO_SCSV {
			continue
		}
		if serverSet[cs] {
			return cs, true
		}
	}
	return 0, false
}
