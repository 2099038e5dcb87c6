package handshake

import (
	"github.com/mattgray/tls-handshake/internal/alert"
	"github.com/mattgray/tls-handshake/pkg/tlscrypto"
	"github.com/mattgray/tls-handshake/pkg/tlswire"
)

// ChangeDec is the inbound cipher-context swap directive returned to the
// caller on acceptance of ChangeCipherSpec. The caller MUST
// apply it before decrypting the next inbound record.
type ChangeDec struct {
	Context *tlscrypto.CipherContext
}

// HandleChangeCipherSpec processes the out-of-band ChangeCipherSpec
// message. Accepted only in AwaitClientChangeCipherSpec; any other state,
// or a non-empty hs_fragment, is fatal.
func HandleChangeCipherSpec(g *Global, ccs []byte) (*Global, []Signal, ChangeDec, error) {
	if g.Machina.Kind != KindAwaitClientChangeCipherSpec {
		return nil, nil, ChangeDec{}, alert.UnexpectedMessage("change_cipher_spec", alert.ErrChangeCipherSpecBad)
	}
	if len(g.HSFragment) != 0 {
		return nil, nil, ChangeDec{}, alert.UnexpectedMessage("change_cipher_spec", alert.ErrFragmentNotEmpty)
	}
	if !tlswire.ValidateChangeCipherSpec(ccs) {
		return nil, nil, ChangeDec{}, alert.UnexpectedMessage("change_cipher_spec", alert.ErrUnparseableMessage)
	}

	st := g.Machina
	signals := []Signal{
		recordChangeCipherSpec(),
		changeEnc(st.ServerWriteCtx),
	}
	changeDec := ChangeDec{Context: st.ClientReadCtx}

	next := &Global{
		Config: g.Config,
		Machina: State{
			Kind:  KindAwaitClientFinished,
			Epoch: st.Epoch,
			Log:   st.Log,
		},
		EpochSlot:  g.EpochSlot,
		HSFragment: nil,
	}
	return next, signals, changeDec, nil
}
