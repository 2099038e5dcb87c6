// Package constants defines the protocol and cryptographic parameters for
// the TLS 1.0/1.1/1.2 server-side handshake state machine.
package constants

// ProtocolVersion is the wire encoding of a TLS protocol version: the pair
// (major, minor) packed as major<<8|minor, per RFC 5246 §6.2.1.
type ProtocolVersion uint16

// Supported protocol versions, totally ordered by their numeric value.
const (
	VersionTLS10 ProtocolVersion = 0x0301
	VersionTLS11 ProtocolVersion = 0x0302
	VersionTLS12 ProtocolVersion = 0x0303
)

// String returns a human-readable name for the version.
func (v ProtocolVersion) String() string {
	switch v {
	case VersionTLS10:
		return "TLS1.0"
	case VersionTLS11:
		return "TLS1.1"
	case VersionTLS12:
		return "TLS1.2"
	default:
		return "unknown"
	}
}

// CipherSuite is the two-octet wire identifier of a TLS cipher suite,
// per the IANA TLS Cipher Suite registry.
type CipherSuite uint16

// Supported cipher suites. All require a server certificate and use either
// RSA or DHE_RSA key exchange; no ECDHE, export, or anonymous suites.
const (
	TLS_RSA_WITH_AES_128_CBC_SHA        CipherSuite = 0x002F
	TLS_RSA_WITH_AES_256_CBC_SHA        CipherSuite = 0x0035
	TLS_RSA_WITH_AES_128_CBC_SHA256     CipherSuite = 0x003C
	TLS_DHE_RSA_WITH_AES_128_CBC_SHA    CipherSuite = 0x0033
	TLS_DHE_RSA_WITH_AES_256_CBC_SHA    CipherSuite = 0x0039
	TLS_DHE_RSA_WITH_AES_128_CBC_SHA256 CipherSuite = 0x0067
	TLS_DHE_RSA_WITH_AES_256_CBC_SHA256 CipherSuite = 0x006B

	// TLS_EMPTY_RENEGOTIATION_INFO_SCSV signals RFC 5746 support without
	// consuming an extension slot, for clients unable to send extensions.
	TLS_EMPTY_RENEGOTIATION_INFO_SCSV CipherSuite = 0x00FF
)

// KeyExchange identifies the key-exchange kind used by a cipher suite.
type KeyExchange int

const (
	KeyExchangeRSA KeyExchange = iota
	KeyExchangeDHERSA
)

// HashAlgorithm is the hash half of a PRF/MAC parameter set.
type HashAlgorithm int

const (
	HashSHA1 HashAlgorithm = iota
	HashSHA256
)

// cipherSuiteParams holds the derived properties of a cipher suite: its
// key-exchange kind and the PRF/MAC/cipher triple used for key-block
// expansion.
type cipherSuiteParams struct {
	kex        KeyExchange
	prfHash    HashAlgorithm // the TLS 1.2 PRF hash: SHA-256 for every supported suite; unused pre-1.2
	macHash    HashAlgorithm
	macKeyLen  int
	keyLen     int // bulk cipher key length in octets
	ivLen      int // CBC IV length in octets (== block size)
	macKeySize int
}

var suiteParams = map[CipherSuite]cipherSuiteParams{
	TLS_RSA_WITH_AES_128_CBC_SHA:        {KeyExchangeRSA, HashSHA256, HashSHA1, 20, 16, 16, 20},
	TLS_RSA_WITH_AES_256_CBC_SHA:        {KeyExchangeRSA, HashSHA256, HashSHA1, 20, 32, 16, 20},
	TLS_RSA_WITH_AES_128_CBC_SHA256:     {KeyExchangeRSA, HashSHA256, HashSHA256, 32, 16, 16, 32},
	TLS_DHE_RSA_WITH_AES_128_CBC_SHA:    {KeyExchangeDHERSA, HashSHA256, HashSHA1, 20, 16, 16, 20},
	TLS_DHE_RSA_WITH_AES_256_CBC_SHA:    {KeyExchangeDHERSA, HashSHA256, HashSHA1, 20, 32, 16, 20},
	TLS_DHE_RSA_WITH_AES_128_CBC_SHA256: {KeyExchangeDHERSA, HashSHA256, HashSHA256, 32, 16, 16, 32},
	TLS_DHE_RSA_WITH_AES_256_CBC_SHA256: {KeyExchangeDHERSA, HashSHA256, HashSHA256, 32, 32, 16, 32},
}

// KeyExchange returns the key-exchange kind for a supported cipher suite.
func (cs CipherSuite) KeyExchange() (KeyExchange, bool) {
	p, ok := suiteParams[cs]
	return p.kex, ok
}

// IsSupported reports whether cs is one of the cipher suites this
// implementation negotiates.
func (cs CipherSuite) IsSupported() bool {
	_, ok := suiteParams[cs]
	return ok
}

// RequiresCertificate always reports true: both RSA and DHE_RSA key exchange
// require a server certificate in this implementation's scope.
func (cs CipherSuite) RequiresCertificate() bool {
	return true
}

// KeyMaterialSizes returns the MAC key length, bulk-cipher key length, and
// IV length (all in octets, per direction) needed from the key block.
func (cs CipherSuite) KeyMaterialSizes() (macKeyLen, keyLen, ivLen int, ok bool) {
	p, ok := suiteParams[cs]
	return p.macKeySize, p.keyLen, p.ivLen, ok
}

// PRFHash returns the hash used in the TLS 1.2 PRF for this suite. Ignored
// pre-1.2, where the PRF is always MD5+SHA1 regardless of suite.
func (cs CipherSuite) PRFHash() HashAlgorithm {
	return suiteParams[cs].prfHash
}

// String returns a human-readable name for well-known suites.
func (cs CipherSuite) String() string {
	switch cs {
	case TLS_RSA_WITH_AES_128_CBC_SHA:
		return "TLS_RSA_WITH_AES_128_CBC_SHA"
	case TLS_RSA_WITH_AES_256_CBC_SHA:
		return "TLS_RSA_WITH_AES_256_CBC_SHA"
	case TLS_RSA_WITH_AES_128_CBC_SHA256:
		return "TLS_RSA_WITH_AES_128_CBC_SHA256"
	case TLS_DHE_RSA_WITH_AES_128_CBC_SHA:
		return "TLS_DHE_RSA_WITH_AES_128_CBC_SHA"
	case TLS_DHE_RSA_WITH_AES_256_CBC_SHA:
		return "TLS_DHE_RSA_WITH_AES_256_CBC_SHA"
	case TLS_DHE_RSA_WITH_AES_128_CBC_SHA256:
		return "TLS_DHE_RSA_WITH_AES_128_CBC_SHA256"
	case TLS_DHE_RSA_WITH_AES_256_CBC_SHA256:
		return "TLS_DHE_RSA_WITH_AES_256_CBC_SHA256"
	case TLS_EMPTY_RENEGOTIATION_INFO_SCSV:
		return "TLS_EMPTY_RENEGOTIATION_INFO_SCSV"
	default:
		return "unknown"
	}
}

// HandshakeType is the one-octet message-type tag of a handshake message,
// per RFC 5246 §7.4.
type HandshakeType uint8

const (
	HandshakeTypeClientHello        HandshakeType = 1
	HandshakeTypeServerHello        HandshakeType = 2
	HandshakeTypeCertificate        HandshakeType = 11
	HandshakeTypeServerKeyExchange  HandshakeType = 12
	HandshakeTypeServerHelloDone    HandshakeType = 14
	HandshakeTypeClientKeyExchange  HandshakeType = 16
	HandshakeTypeFinished           HandshakeType = 20
)

// Handshake-layer size limits and fixed lengths.
const (
	// MaxHandshakeMessageSize bounds a single parsed handshake message.
	MaxHandshakeMessageSize = 1 << 24

	// RandomSize is the length of client_random / server_random.
	RandomSize = 32

	// PreMasterSecretSize is the fixed length of the RSA premaster secret.
	PreMasterSecretSize = 48

	// MasterSecretSize is the fixed length of the derived master secret.
	MasterSecretSize = 48

	// FinishedLength is the fixed length of a Finished verify_data value.
	FinishedLength = 12
)

// ExtensionType identifies a ClientHello/ServerHello extension.
type ExtensionType uint16

const (
	ExtensionServerName            ExtensionType = 0
	ExtensionSignatureAlgorithms   ExtensionType = 13
	ExtensionRenegotiationInfo     ExtensionType = 0xff01
)

// SignatureScheme pairs a hash and signature algorithm as sent in the
// TLS 1.2 SignatureAlgorithms extension, per RFC 5246 §7.4.1.4.1.
type SignatureScheme struct {
	Hash HashAlgorithmID
	Sig  SignatureAlgorithmID
}

// HashAlgorithmID is the one-octet hash identifier on the wire.
type HashAlgorithmID uint8

const (
	HashIDMD5    HashAlgorithmID = 1
	HashIDSHA1   HashAlgorithmID = 2
	HashIDSHA224 HashAlgorithmID = 3
	HashIDSHA256 HashAlgorithmID = 4
	HashIDSHA384 HashAlgorithmID = 5
	HashIDSHA512 HashAlgorithmID = 6
)

// SignatureAlgorithmID is the one-octet signature-algorithm identifier.
type SignatureAlgorithmID uint8

const (
	SigIDRSA   SignatureAlgorithmID = 1
	SigIDDSA   SignatureAlgorithmID = 2
	SigIDECDSA SignatureAlgorithmID = 3
)

// DefaultSignatureScheme is used for ServerKeyExchange signing when the
// client sends no SignatureAlgorithms extension.
var DefaultSignatureScheme = SignatureScheme{Hash: HashIDSHA1, Sig: SigIDRSA}

// AlertCode is the one-octet TLS alert description, per RFC 5246 §7.2.
type AlertCode uint8

const (
	AlertProtocolVersion    AlertCode = 70
	AlertHandshakeFailure   AlertCode = 40
	AlertInsufficientSec    AlertCode = 71
	AlertUnexpectedMessage  AlertCode = 10
)
