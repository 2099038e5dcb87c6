package handshake

import (
	"github.com/mattgray/tls-handshake/internal/alert"
	"github.com/mattgray/tls-handshake/internal/constants"
	"github.com/mattgray/tls-handshake/pkg/tlscrypto"
	"github.com/mattgray/tls-handshake/pkg/tlswire"
)

// HandleClientKeyExchangeRSA processes a ClientKeyExchange in
// AwaitClientKeyExchangeRSA. The Bleichenbacher countermeasure lives
// entirely in tlscrypto.DecryptPMS; this handler never observes whether
// decryption or version validation failed.
func HandleClientKeyExchangeRSA(g *Global, raw []byte) (*Global, []Signal, error) {
	if g.Machina.Kind != KindAwaitClientKeyExchangeRSA {
		return nil, nil, alert.HandshakeFailure("client_key_exchange", alert.ErrUnexpectedState)
	}
	if len(g.HSFragment) != 0 {
		return nil, nil, alert.UnexpectedMessage("client_key_exchange", alert.ErrFragmentNotEmpty)
	}

	typ, body, err := tlswire.HandshakeHeader(raw)
	if err != nil || typ != constants.HandshakeTypeClientKeyExchange {
		return nil, nil, alert.UnexpectedMessage("client_key_exchange", alert.ErrUnparseableMessage)
	}
	cke, err := tlswire.ParseClientKeyExchangeRSA(body)
	if err != nil {
		return nil, nil, alert.UnexpectedMessage("client_key_exchange", alert.ErrUnparseableMessage)
	}

	st := g.Machina
	cert := g.Config.OwnCertificate
	if cert == nil {
		return nil, nil, alert.HandshakeFailure("client_key_exchange", alert.ErrNoCertificate)
	}

	pms, err := tlscrypto.DecryptPMS(tlscrypto.Reader, cert.PrivateKey, cke.EncryptedPreMasterSecret, st.Params.ClientVersion)
	if err != nil {
		return nil, nil, err
	}

	next, err := establishSession(g.Config, g.EpochSlot, st.Epoch, st.Params, pms, st.Log, raw)
	if err != nil {
		return nil, nil, err
	}
	return next, nil, nil
}
