// Package handshake implements the server-side TLS 1.0/1.1/1.2 handshake
// state machine: version/cipher negotiation, RSA/DHE_RSA key exchange,
// master-secret derivation, the ChangeCipherSpec barrier, and Finished
// verification/emission, including RFC 5746 secure renegotiation.
package handshake

import "github.com/mattgray/tls-handshake/internal/constants"

// RenegPair is the prior handshake's Finished verify_data pair, bound into
// a subsequent renegotiation's secure_renegotiation extension per RFC 5746.
type RenegPair struct {
	ClientVerifyData []byte
	ServerVerifyData []byte
}

// Epoch is the negotiated session record: no rekey state, no
// ticket/resumption fields, no replay window — those belong to the record
// layer and session resumption, both out of scope here.
type Epoch struct {
	ProtocolVersion constants.ProtocolVersion
	CipherSuite     constants.CipherSuite
	ServerName      string
	HasServerName   bool
	OwnCertificate  [][]byte // leaf-first DER chain
	MasterSecret    []byte   // 48 octets once derived, empty before
	Reneg           RenegPair
}

// HandshakeParams are the ephemeral values scoped to one handshake attempt:
// the client/server randoms and the client's offered version, needed for
// master-secret derivation and the RSA version-check inside DecryptPMS.
type HandshakeParams struct {
	ClientRandom  [32]byte
	ServerRandom  [32]byte
	ClientVersion constants.ProtocolVersion
}

// EpochTag distinguishes an EpochSlot holding no established epoch yet
// (TagInitial) from one holding a completed handshake's epoch (TagEstablished).
type EpochTag int

const (
	TagInitial EpochTag = iota
	TagEstablished
)

// EpochSlot is the tagged epoch field of Global: either an initial protocol
// version (no epoch established yet) or a completed epoch.
type EpochSlot struct {
	Tag            EpochTag
	InitialVersion constants.ProtocolVersion
	Epoch          *Epoch
}
