package handshake

import (
	"github.com/mattgray/tls-handshake/internal/alert"
	"github.com/mattgray/tls-handshake/internal/constants"
	"github.com/mattgray/tls-handshake/pkg/tlscrypto"
	"github.com/mattgray/tls-handshake/pkg/tlswire"
)

// HandleFinished verifies the client Finished and emits the server
// Finished. Transitions to Established on success.
func HandleFinished(g *Global, raw []byte) (*Global, []Signal, error) {
	if g.Machina.Kind != KindAwaitClientFinished {
		return nil, nil, alert.HandshakeFailure("finished", alert.ErrUnexpectedState)
	}
	if len(g.HSFragment) != 0 {
		return nil, nil, alert.UnexpectedMessage("finished", alert.ErrFragmentNotEmpty)
	}

	typ, body, err := tlswire.HandshakeHeader(raw)
	if err != nil || typ != constants.HandshakeTypeFinished {
		return nil, nil, alert.UnexpectedMessage("finished", alert.ErrUnparseableMessage)
	}
	fin, err := tlswire.ParseFinished(body)
	if err != nil {
		return nil, nil, alert.UnexpectedMessage("finished", alert.ErrUnparseableMessage)
	}

	st := g.Machina
	epoch := st.Epoch

	clientHash := st.Log.Hash(epoch.ProtocolVersion)
	expectedClient := tlscrypto.FinishedVerifyData(epoch.ProtocolVersion, epoch.MasterSecret, tlscrypto.LabelClientFinished, clientHash)

	if !tlscrypto.ConstantTimeCompare(expectedClient, fin.VerifyData[:]) {
		return nil, nil, alert.HandshakeFailure("finished", alert.ErrFinishedMismatch)
	}

	serverLog := st.Log.Clone()
	serverLog.Append(raw)
	serverHash := serverLog.Hash(epoch.ProtocolVersion)
	serverVerify := tlscrypto.FinishedVerifyData(epoch.ProtocolVersion, epoch.MasterSecret, tlscrypto.LabelServerFinished, serverHash)

	epoch.Reneg = RenegPair{
		ClientVerifyData: append([]byte{}, fin.VerifyData[:]...),
		ServerVerifyData: append([]byte{}, serverVerify...),
	}

	record := tlswire.MarshalFinished(serverVerify)
	signals := []Signal{recordHandshake(record)}

	next := &Global{
		Config:  g.Config,
		Machina: State{Kind: KindEstablished},
		EpochSlot: EpochSlot{
			Tag:   TagEstablished,
			Epoch: epoch,
		},
		HSFragment: nil,
	}
	return next, signals, nil
}
