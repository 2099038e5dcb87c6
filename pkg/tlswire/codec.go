package tlswire

import (
	"golang.org/x/crypto/cryptobyte"

	"github.com/mattgray/tls-handshake/internal/alert"
	"github.com/mattgray/tls-handshake/internal/constants"
)

// HandshakeHeader splits off the 4-byte handshake header (1-octet type,
// 3-octet length, per RFC 5246 §7.4) and returns the message type and its
// body. The caller already owns one reassembled handshake message; this
// does not handle fragmentation across records (record-layer concern, out
// of scope).
func HandshakeHeader(raw []byte) (constants.HandshakeType, []byte, error) {
	s := cryptobyte.String(raw)
	var msgType uint8
	var body cryptobyte.String
	if !s.ReadUint8(&msgType) || !s.ReadUint24LengthPrefixed(&body) || !s.Empty() {
		return 0, nil, alert.UnexpectedMessage("tlswire.HandshakeHeader", alert.ErrUnparseableMessage)
	}
	return constants.HandshakeType(msgType), []byte(body), nil
}

// wrapHandshake prefixes body with the 1-octet type + 3-octet length
// handshake header.
func wrapHandshake(msgType constants.HandshakeType, body []byte) []byte {
	b := cryptobyte.NewBuilder(nil)
	b.AddUint8(uint8(msgType))
	b.AddUint24LengthPrefixed(func(c *cryptobyte.Builder) {
		c.AddBytes(body)
	})
	return b.BytesOrPanic()
}

// ParseClientHello decodes a ClientHello body (post-header), per
// RFC 5246 §7.4.1.2.
func ParseClientHello(body []byte) (*ClientHello, error) {
	s := cryptobyte.String(body)
	ch := &ClientHello{}

	var version uint16
	var sessionID cryptobyte.String
	var cipherSuites cryptobyte.String
	var compression cryptobyte.String

	if !s.ReadUint16(&version) {
		return nil, parseErr("ClientHello.client_version")
	}
	var randomBytes []byte
	if !s.ReadBytes(&randomBytes, 32) {
		return nil, parseErr("ClientHello.random")
	}
	copy(ch.Random[:], randomBytes)

	if !s.ReadUint8LengthPrefixed(&sessionID) {
		return nil, parseErr("ClientHello.session_id")
	}
	ch.SessionID = append([]byte{}, sessionID...)

	if !s.ReadUint16LengthPrefixed(&cipherSuites) {
		return nil, parseErr("ClientHello.cipher_suites")
	}
	if len(cipherSuites)%2 != 0 || len(cipherSuites) == 0 {
		return nil, parseErr("ClientHello.cipher_suites")
	}
	for !cipherSuites.Empty() {
		var cs uint16
		if !cipherSuites.ReadUint16(&cs) {
			return nil, parseErr("ClientHello.cipher_suites")
		}
		ch.CipherSuites = append(ch.CipherSuites, constants.CipherSuite(cs))
	}

	if !s.ReadUint8LengthPrefixed(&compression) || compression.Empty() {
		return nil, parseErr("ClientHello.compression_methods")
	}
	ch.CompressionMethods = append([]byte{}, compression...)

	ch.ClientVersion = constants.ProtocolVersion(version)

	if s.Empty() {
		return ch, nil
	}

	var extensions cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&extensions) || !s.Empty() {
		return nil, parseErr("ClientHello.extensions")
	}
	if err := parseClientExtensions(&extensions, ch); err != nil {
		return nil, err
	}

	return ch, nil
}

func parseClientExtensions(extensions *cryptobyte.String, ch *ClientHello) error {
	for !extensions.Empty() {
		var extType uint16
		var extData cryptobyte.String
		if !extensions.ReadUint16(&extType) || !extensions.ReadUint16LengthPrefixed(&extData) {
			return parseErr("ClientHello.extension")
		}
		switch constants.ExtensionType(extType) {
		case constants.ExtensionServerName:
			if err := parseServerNameExtension(extData, ch); err != nil {
				return err
			}
		case constants.ExtensionRenegotiationInfo:
			var info cryptobyte.String
			if !extData.ReadUint8LengthPrefixed(&info) || !extData.Empty() {
				return parseErr("ClientHello.renegotiation_info")
			}
			ch.HasRenegotiationInfo = true
			ch.RenegotiationInfo = append([]byte{}, info...)
		case constants.ExtensionSignatureAlgorithms:
			var list cryptobyte.String
			if !extData.ReadUint16LengthPrefixed(&list) || !extData.Empty() {
				return parseErr("ClientHello.signature_algorithms")
			}
			for !list.Empty() {
				var h, sg uint8
				if !list.ReadUint8(&h) || !list.ReadUint8(&sg) {
					return parseErr("ClientHello.signature_algorithms")
				}
				ch.SignatureSchemes = append(ch.SignatureSchemes, constants.SignatureScheme{
					Hash: constants.HashAlgorithmID(h),
					Sig:  constants.SignatureAlgorithmID(sg),
				})
			}
		default:
			// Unknown extension: skip, per RFC 5246 §7.4.1.4 ("MUST ignore").
		}
	}
	return nil
}

func parseServerNameExtension(extData cryptobyte.String, ch *ClientHello) error {
	var serverNameList cryptobyte.String
	if !extData.ReadUint16LengthPrefixed(&serverNameList) {
		return parseErr("ClientHello.server_name")
	}
	for !serverNameList.Empty() {
		var nameType uint8
		var hostName cryptobyte.String
		if !serverNameList.ReadUint8(&nameType) || !serverNameList.ReadUint16LengthPrefixed(&hostName) {
			return parseErr("ClientHello.server_name")
		}
		if nameType == 0 { // host_name
			ch.ServerName = string(hostName)
			ch.HasServerName = true
		}
	}
	return nil
}

// MarshalServerHello encodes a ServerHello message body, per
// RFC 5246 §7.4.1.3, wrapped in its handshake header.
func MarshalServerHello(sh *ServerHello) []byte {
	b := cryptobyte.NewBuilder(nil)
	b.AddUint16(uint16(sh.Version))
	b.AddBytes(sh.Random[:])
	b.AddUint8LengthPrefixed(func(c *cryptobyte.Builder) {}) // empty session_id: no resumption
	b.AddUint16(uint16(sh.CipherSuite))
	b.AddUint8(0) // compression_method: null

	b.AddUint16LengthPrefixed(func(ext *cryptobyte.Builder) {
		ext.AddUint16(uint16(constants.ExtensionRenegotiationInfo))
		ext.AddUint16LengthPrefixed(func(c *cryptobyte.Builder) {
			c.AddUint8LengthPrefixed(func(c2 *cryptobyte.Builder) {
				c2.AddBytes(sh.RenegotiationInfo)
			})
		})
		if sh.IncludeServerName {
			ext.AddUint16(uint16(constants.ExtensionServerName))
			ext.AddUint16LengthPrefixed(func(c *cryptobyte.Builder) {}) // empty host_name response, RFC 4366/6066
		}
	})

	return wrapHandshake(constants.HandshakeTypeServerHello, b.BytesOrPanic())
}

// MarshalCertificate encodes a Certificate message body, per RFC 5246 §7.4.2.
func MarshalCertificate(cert *Certificate) []byte {
	b := cryptobyte.NewBuilder(nil)
	b.AddUint24LengthPrefixed(func(list *cryptobyte.Builder) {
		for _, der := range cert.Chain {
			list.AddUint24LengthPrefixed(func(c *cryptobyte.Builder) {
				c.AddBytes(der)
			})
		}
	})
	return wrapHandshake(constants.HandshakeTypeCertificate, b.BytesOrPanic())
}

// MarshalServerHelloDone encodes the empty ServerHelloDone message.
func MarshalServerHelloDone() []byte {
	return wrapHandshake(constants.HandshakeTypeServerHelloDone, nil)
}

// MarshalServerKeyExchangeDHE encodes a DHE_RSA ServerKeyExchange, per
// RFC 5246 §7.4.3 (pre-1.2 signature form) or §7.4.1.4.1 (1.2 form with an
// explicit SignatureAndHashAlgorithm prefix).
func MarshalServerKeyExchangeDHE(skx *ServerKeyExchangeDHE) []byte {
	b := cryptobyte.NewBuilder(nil)
	addDHParams(b, &skx.Params)
	if skx.HasScheme {
		b.AddUint8(uint8(skx.SignatureScheme.Hash))
		b.AddUint8(uint8(skx.SignatureScheme.Sig))
	}
	b.AddUint16LengthPrefixed(func(c *cryptobyte.Builder) {
		c.AddBytes(skx.Signature)
	})
	return wrapHandshake(constants.HandshakeTypeServerKeyExchange, b.BytesOrPanic())
}

func addDHParams(b *cryptobyte.Builder, p *ServerDHParams) {
	b.AddUint16LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes(p.P) })
	b.AddUint16LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes(p.G) })
	b.AddUint16LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes(p.Ys) })
}

// EncodeDHParams returns the encoded dh_params bytes alone (no signature),
// used to build the signed payload client_random || server_random ||
// dh_params.
func EncodeDHParams(p *ServerDHParams) []byte {
	b := cryptobyte.NewBuilder(nil)
	addDHParams(b, p)
	return b.BytesOrPanic()
}

// ParseClientKeyExchangeRSA decodes an RSA ClientKeyExchange body, per
// RFC 5246 §7.4.7.1.
func ParseClientKeyExchangeRSA(body []byte) (*ClientKeyExchangeRSA, error) {
	s := cryptobyte.String(body)
	var ct cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&ct) || !s.Empty() {
		return nil, parseErr("ClientKeyExchange.encrypted_pre_master_secret")
	}
	return &ClientKeyExchangeRSA{EncryptedPreMasterSecret: append([]byte{}, ct...)}, nil
}

// ParseClientKeyExchangeDHE decodes a DHE_RSA ClientKeyExchange body, per
// RFC 5246 §7.4.7.2.
func ParseClientKeyExchangeDHE(body []byte) (*ClientKeyExchangeDHE, error) {
	s := cryptobyte.String(body)
	var yc cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&yc) || !s.Empty() {
		return nil, parseErr("ClientKeyExchange.dh_Yc")
	}
	return &ClientKeyExchangeDHE{Yc: append([]byte{}, yc...)}, nil
}

// ParseFinished decodes a Finished message body: the fixed 12-octet
// verify_data.
func ParseFinished(body []byte) (*Finished, error) {
	if len(body) != constants.FinishedLength {
		return nil, parseErr("Finished.verify_data")
	}
	f := &Finished{}
	copy(f.VerifyData[:], body)
	return f, nil
}

// MarshalFinished encodes a Finished message.
func MarshalFinished(verifyData []byte) []byte {
	return wrapHandshake(constants.HandshakeTypeFinished, verifyData)
}

// ChangeCipherSpecBytes is the one-octet ChangeCipherSpec record body, per
// RFC 5246 §7.1.
var ChangeCipherSpecBytes = []byte{0x01}

// ValidateChangeCipherSpec reports whether b is the single valid
// ChangeCipherSpec encoding.
func ValidateChangeCipherSpec(b []byte) bool {
	return len(b) == 1 && b[0] == 0x01
}

func parseErr(what string) error {
	return alert.UnexpectedMessage("tlswire.Parse:"+what, alert.ErrUnparseableMessage)
}
