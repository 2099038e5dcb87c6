package handshake

import (
	"github.com/mattgray/tls-handshake/pkg/tlscrypto"
)

// establishSession derives the master secret and both cipher contexts from
// pms, appends the ClientKeyExchange's raw bytes to the transcript, and
// returns the AwaitClientChangeCipherSpec state. No signals are produced
// here; the next outbound activity is the ChangeCipherSpec barrier.
func establishSession(cfg *Config, prevEpochSlot EpochSlot, epoch *Epoch, params *HandshakeParams, pms []byte, log *Transcript, ckeRaw []byte) (*Global, error) {
	masterSecret := tlscrypto.DeriveMasterSecret(epoch.ProtocolVersion, pms, params.ClientRandom[:], params.ServerRandom[:])
	tlscrypto.Zeroize(pms)

	ctxPair, err := tlscrypto.DeriveContextPair(epoch.ProtocolVersion, epoch.CipherSuite, masterSecret, params.ServerRandom[:], params.ClientRandom[:])
	if err != nil {
		return nil, err
	}

	epoch.MasterSecret = masterSecret
	log.Append(ckeRaw)

	return &Global{
		Config: cfg,
		Machina: State{
			Kind:           KindAwaitClientChangeCipherSpec,
			Epoch:          epoch,
			Params:         params,
			Log:            log,
			ServerWriteCtx: ctxPair.ServerWrite,
			ClientReadCtx:  ctxPair.ClientRead,
		},
		EpochSlot: prevEpochSlot,
	}, nil
}
