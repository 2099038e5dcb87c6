package handshake

import (
	"github.com/mattgray/tls-handshake/internal/constants"
	"github.com/mattgray/tls-handshake/pkg/tlscrypto"
)

// StateKind tags the handshake state sum type. Each variant carries exactly
// the data its transition needs.
type StateKind int

const (
	KindAwaitClientHello StateKind = iota
	KindAwaitClientKeyExchangeRSA
	KindAwaitClientKeyExchangeDHERSA
	KindAwaitClientChangeCipherSpec
	KindAwaitClientFinished
	KindEstablished
)

// State is the handshake state. Only the fields relevant to Kind are
// populated; the driver only ever reads the fields its Kind guarantees
// were set.
type State struct {
	Kind StateKind

	Epoch  *Epoch           // set in AwaitClientKeyExchange_*, AwaitClientChangeCipherSpec and AwaitClientFinished
	Params *HandshakeParams // set in AwaitClientKeyExchange_* and AwaitClientChangeCipherSpec
	DH     *tlscrypto.DHKeyPair // set only for the DHE_RSA path
	Log    *Transcript

	ServerWriteCtx *tlscrypto.CipherContext // set only in AwaitClientChangeCipherSpec
	ClientReadCtx  *tlscrypto.CipherContext // set only in AwaitClientChangeCipherSpec
}

// Global is the top-level handshake record: immutable config, the current
// machine state, the tagged epoch slot, and any unconsumed handshake-record
// reassembly bytes.
type Global struct {
	Config     *Config
	Machina    State
	EpochSlot  EpochSlot
	HSFragment []byte
}

// NewGlobal returns the initial Global state before any ClientHello has
// been processed, with the epoch slot tagged TagInitial.
func NewGlobal(cfg *Config, initialVersion constants.ProtocolVersion) *Global {
	return &Global{
		Config:  cfg,
		Machina: State{Kind: KindAwaitClientHello},
		EpochSlot: EpochSlot{
			Tag:            TagInitial,
			InitialVersion: initialVersion,
		},
	}
}
