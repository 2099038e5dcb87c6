package handshake

import (
	"github.com/mattgray/tls-handshake/internal/constants"
	"github.com/mattgray/tls-handshake/pkg/tlscrypto"
)

// Transcript is the ordered sequence of raw handshake-message byte buffers
// exchanged since the start of the current handshake: stored as
// already-encoded message buffers rather than an incremental hash, since
// which TLS-1.2 hash is needed isn't fixed until ServerKeyExchange signing
// time.
//
// ChangeCipherSpec is never appended — it is not a handshake message.
type Transcript struct {
	messages [][]byte
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a raw handshake message to the log, in wire order.
func (t *Transcript) Append(raw []byte) {
	buf := make([]byte, len(raw))
	copy(buf, raw)
	t.messages = append(t.messages, buf)
}

// Bytes returns the concatenation of every message appended so far.
func (t *Transcript) Bytes() []byte {
	total := 0
	for _, m := range t.messages {
		total += len(m)
	}
	out := make([]byte, 0, total)
	for _, m := range t.messages {
		out = append(out, m...)
	}
	return out
}

// Hash returns the transcript hash for the given negotiated version:
// MD5||SHA1 pre-1.2, the suite hash at 1.2.
func (t *Transcript) Hash(version constants.ProtocolVersion) []byte {
	return tlscrypto.TranscriptHash(version, t.Bytes())
}

// Clone returns a copy of t whose message slice is independent, so a
// caller can append the client Finished to a copy for server-Finished
// hashing without mutating the log used for the client-Finished check.
func (t *Transcript) Clone() *Transcript {
	c := &Transcript{messages: make([][]byte, len(t.messages))}
	copy(c.messages, t.messages)
	return c
}
