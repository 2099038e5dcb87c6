package handshake

import (
	"math/big"

	"github.com/mattgray/tls-handshake/internal/alert"
	"github.com/mattgray/tls-handshake/internal/constants"
	"github.com/mattgray/tls-handshake/pkg/tlswire"
)

// HandleClientKeyExchangeDHE processes a ClientKeyExchange in
// AwaitClientKeyExchange_DHE_RSA.
func HandleClientKeyExchangeDHE(g *Global, raw []byte) (*Global, []Signal, error) {
	if g.Machina.Kind != KindAwaitClientKeyExchangeDHERSA {
		return nil, nil, alert.HandshakeFailure("client_key_exchange", alert.ErrUnexpectedState)
	}
	if len(g.HSFragment) != 0 {
		return nil, nil, alert.UnexpectedMessage("client_key_exchange", alert.ErrFragmentNotEmpty)
	}

	typ, body, err := tlswire.HandshakeHeader(raw)
	if err != nil || typ != constants.HandshakeTypeClientKeyExchange {
		return nil, nil, alert.UnexpectedMessage("client_key_exchange", alert.ErrUnparseableMessage)
	}
	cke, err := tlswire.ParseClientKeyExchangeDHE(body)
	if err != nil {
		return nil, nil, alert.UnexpectedMessage("client_key_exchange", alert.ErrUnparseableMessage)
	}

	st := g.Machina
	if st.DH == nil {
		return nil, nil, alert.HandshakeFailure("client_key_exchange", alert.ErrUnexpectedState)
	}

	yc := new(big.Int).SetBytes(cke.Yc)
	pms, err := st.DH.SharedSecret(yc)
	if err != nil {
		return nil, nil, err
	}

	next, err := establishSession(g.Config, g.EpochSlot, st.Epoch, st.Params, pms, st.Log, raw)
	if err != nil {
		return nil, nil, err
	}
	return next, nil, nil
}
