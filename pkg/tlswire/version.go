// Package tlswire is the wire codec adapter: encode/decode of handshake
// messages, ChangeCipherSpec, protocol versions, signature-and-hash lists,
// DH parameters, and the digitally-signed envelope. It is opaque to the
// handshake state machine — callers hand it typed
// messages and get bytes, or bytes and get typed messages; it carries no
// protocol-state logic of its own.
package tlswire

import "github.com/mattgray/tls-handshake/internal/constants"

// HighestVersionAtMost returns the highest version in configured that is
// less than or equal to offered. ok is false when no configured version
// qualifies.
func HighestVersionAtMost(configured []constants.ProtocolVersion, offered constants.ProtocolVersion) (constants.ProtocolVersion, bool) {
	var best constants.ProtocolVersion
	found := false
	for _, v := range configured {
		if v <= offered && (!found || v > best) {
			best = v
			found = true
		}
	}
	return best, found
}
