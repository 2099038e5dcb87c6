package handshake

import (
	"github.com/mattgray/tls-handshake/internal/alert"
	"github.com/mattgray/tls-handshake/internal/constants"
	"github.com/mattgray/tls-handshake/pkg/tlswire"
)

// HandleHandshake is the driver's inbound entry point for handshake-channel
// messages: (state, bytes) -> (state', [signal]) | error. It peeks the
// message type, checks it against the (state, message) dispatch table, and
// calls the matching handler. Any pair not in the table is a fatal
// handshake_failure with no state change.
func HandleHandshake(g *Global, raw []byte) (*Global, []Signal, error) {
	typ, _, err := tlswire.HandshakeHeader(raw)
	if err != nil {
		return nil, nil, alert.UnexpectedMessage("handle_handshake", alert.ErrUnparseableMessage)
	}

	switch {
	case typ == constants.HandshakeTypeClientHello && (g.Machina.Kind == KindAwaitClientHello || g.Machina.Kind == KindEstablished):
		return HandleClientHello(g, raw)
	case typ == constants.HandshakeTypeClientKeyExchange && g.Machina.Kind == KindAwaitClientKeyExchangeRSA:
		return HandleClientKeyExchangeRSA(g, raw)
	case typ == constants.HandshakeTypeClientKeyExchange && g.Machina.Kind == KindAwaitClientKeyExchangeDHERSA:
		return HandleClientKeyExchangeDHE(g, raw)
	case typ == constants.HandshakeTypeFinished && g.Machina.Kind == KindAwaitClientFinished:
		return HandleFinished(g, raw)
	default:
		return nil, nil, alert.HandshakeFailure("handle_handshake", alert.ErrUnexpectedState)
	}
}
