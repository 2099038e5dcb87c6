package tlswire

import "github.com/mattgray/tls-handshake/internal/constants"

// ClientHello is the structural decode of a ClientHello message, per
// RFC 5246 §7.4.1.2. Fields irrelevant to this implementation's scope
// (session_id resumption, compression methods beyond "null") are retained
// only insofar as the wire format requires parsing past them.
type ClientHello struct {
	ClientVersion      constants.ProtocolVersion
	Random             [32]byte
	SessionID          []byte
	CipherSuites       []constants.CipherSuite
	CompressionMethods []byte
	ServerName         string
	HasServerName      bool
	RenegotiationInfo  []byte
	HasRenegotiationInfo bool
	SignatureSchemes   []constants.SignatureScheme
}

// HasSCSV reports whether the TLS_EMPTY_RENEGOTIATION_INFO_SCSV cipher id
// is present in CipherSuites.
func (ch *ClientHello) HasSCSV() bool {
	for _, cs := range ch.CipherSuites {
		if cs == constants.TLS_EMPTY_RENEGOTIATION_INFO_SCSV {
			return true
		}
	}
	return false
}

// RSACompatibleHashes returns the hash half of every SignatureScheme the
// client offered with the RSA signature algorithm, in client order, for the
// TLS 1.2 hash-selection rule.
func (ch *ClientHello) RSACompatibleHashes() []constants.HashAlgorithmID {
	var out []constants.HashAlgorithmID
	for _, s := range ch.SignatureSchemes {
		if s.Sig == constants.SigIDRSA {
			out = append(out, s.Hash)
		}
	}
	return out
}

// ServerHello is the structural encode of a ServerHello message, per
// RFC 5246 §7.4.1.3.
type ServerHello struct {
	Version            constants.ProtocolVersion
	Random             [32]byte
	CipherSuite        constants.CipherSuite
	RenegotiationInfo  []byte // client_verify_data || server_verify_data, or empty on initial handshake
	IncludeServerName  bool   // echo an empty server_name extension when the client sent SNI
}

// Certificate is the structural encode of a Certificate message, per
// RFC 5246 §7.4.2: a leaf-first chain of DER-encoded certificates.
type Certificate struct {
	Chain [][]byte
}

// ServerDHParams is the DH half of a DHE_RSA ServerKeyExchange, per
// RFC 5246 §7.4.3.
type ServerDHParams struct {
	P  []byte
	G  []byte
	Ys []byte
}

// ServerKeyExchangeDHE is a DHE_RSA ServerKeyExchange message: the DH
// parameters plus the "digitally signed" envelope over
// client_random || server_random || dh_params.
type ServerKeyExchangeDHE struct {
	Params          ServerDHParams
	SignatureScheme constants.SignatureScheme // zero value for pre-1.2 (implicit MD5+SHA1/RSA)
	HasScheme       bool
	Signature       []byte
}

// ClientKeyExchangeRSA carries the RSA-encrypted premaster secret.
type ClientKeyExchangeRSA struct {
	EncryptedPreMasterSecret []byte
}

// ClientKeyExchangeDHE carries the client's DH public share.
type ClientKeyExchangeDHE struct {
	Yc []byte
}

// Finished carries the fixed-length Finished verify_data.
type Finished struct {
	VerifyData [constants.FinishedLength]byte
}
