package handshake

import "github.com/mattgray/tls-handshake/pkg/tlscrypto"

// SignalKind tags the outbound signal variants.
type SignalKind int

const (
	SignalRecordHandshake SignalKind = iota
	SignalRecordChangeCipherSpec
	SignalChangeEnc
	SignalChangeDec
)

// Signal is one entry in the ordered list of outgoing directives the
// driver returns. The handshake state machine never writes to a connection
// itself (record layer / transport are out of scope); it only enqueues
// these.
type Signal struct {
	Kind SignalKind
	// Bytes holds the record payload for SignalRecordHandshake and
	// SignalRecordChangeCipherSpec.
	Bytes []byte
	// Context holds the cipher context for SignalChangeEnc/SignalChangeDec.
	Context *tlscrypto.CipherContext
}

// recordHandshake builds a SignalRecordHandshake signal.
func recordHandshake(b []byte) Signal {
	return Signal{Kind: SignalRecordHandshake, Bytes: b}
}

// recordChangeCipherSpec builds the one-octet ChangeCipherSpec record
// signal.
func recordChangeCipherSpec() Signal {
	return Signal{Kind: SignalRecordChangeCipherSpec, Bytes: []byte{0x01}}
}

// changeEnc builds an outbound cipher-context swap directive.
func changeEnc(ctx *tlscrypto.CipherContext) Signal {
	return Signal{Kind: SignalChangeEnc, Context: ctx}
}

// changeDec builds an inbound cipher-context swap directive.
func changeDec(ctx *tlscrypto.CipherContext) Signal {
	return Signal{Kind: SignalChangeDec, Context: ctx}
}
