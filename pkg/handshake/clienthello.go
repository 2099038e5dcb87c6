package handshake

import (
	"github.com/mattgray/tls-handshake/internal/alert"
	"github.com/mattgray/tls-handshake/internal/constants"
	"github.com/mattgray/tls-handshake/pkg/tlscrypto"
	"github.com/mattgray/tls-handshake/pkg/tlswire"
)

// HandleClientHello processes a ClientHello in either the initial
// (g.Machina.Kind == KindAwaitClientHello) or renegotiation
// (g.Machina.Kind == KindEstablished) position, negotiating version,
// cipher suite, and secure renegotiation binding, then runs the common
// first flight.
func HandleClientHello(g *Global, raw []byte) (*Global, []Signal, error) {
	if len(g.HSFragment) != 0 {
		return nil, nil, alert.UnexpectedMessage("client_hello", alert.ErrFragmentNotEmpty)
	}

	typ, body, err := tlswire.HandshakeHeader(raw)
	if err != nil || typ != constants.HandshakeTypeClientHello {
		return nil, nil, alert.UnexpectedMessage("client_hello", alert.ErrUnparseableMessage)
	}
	ch, err := tlswire.ParseClientHello(body)
	if err != nil {
		return nil, nil, alert.UnexpectedMessage("client_hello", alert.ErrUnparseableMessage)
	}

	renegotiating := g.Machina.Kind == KindEstablished
	var priorEpoch *Epoch
	if renegotiating {
		if !g.Config.UseReneg {
			return nil, nil, alert.HandshakeFailure("client_hello", alert.ErrRenegDisabled)
		}
		if g.EpochSlot.Tag != TagEstablished || g.EpochSlot.Epoch == nil {
			return nil, nil, alert.HandshakeFailure("client_hello", alert.ErrUnexpectedState)
		}
		priorEpoch = g.EpochSlot.Epoch
	} else if g.Machina.Kind != KindAwaitClientHello {
		return nil, nil, alert.HandshakeFailure("client_hello", alert.ErrUnexpectedState)
	}

	version, ok := g.Config.negotiateVersion(ch.ClientVersion)
	if !ok {
		return nil, nil, alert.ProtocolVersion("client_hello", alert.ErrNoCommonVersion)
	}
	if renegotiating && version != priorEpoch.ProtocolVersion {
		return nil, nil, alert.HandshakeFailure("client_hello", alert.ErrRenegBindingMismatch)
	}

	suite, ok := g.Config.negotiateCipherSuite(ch.CipherSuites)
	if !ok {
		return nil, nil, alert.HandshakeFailure("client_hello", alert.ErrNoCommonCipher)
	}

	if renegotiating {
		if !ch.HasRenegotiationInfo {
			return nil, nil, alert.HandshakeFailure("client_hello", alert.ErrRenegRequired)
		}
		if !tlscrypto.ConstantTimeCompare(ch.RenegotiationInfo, priorEpoch.Reneg.ClientVerifyData) {
			return nil, nil, alert.HandshakeFailure("client_hello", alert.ErrRenegBindingMismatch)
		}
	} else if g.Config.SecureReneg {
		if ch.HasSCSV() {
			// SCSV present, no extension required.
		} else if ch.HasRenegotiationInfo {
			if len(ch.RenegotiationInfo) != 0 {
				return nil, nil, alert.HandshakeFailure("client_hello", alert.ErrRenegNotEmpty)
			}
		} else {
			return nil, nil, alert.HandshakeFailure("client_hello", alert.ErrRenegRequired)
		}
	}

	epoch := &Epoch{
		ProtocolVersion: version,
		CipherSuite:     suite,
		ServerName:      ch.ServerName,
		HasServerName:   ch.HasServerName,
	}
	if g.Config.OwnCertificate != nil {
		epoch.OwnCertificate = g.Config.OwnCertificate.Chain
	}
	if renegotiating {
		epoch.Reneg = priorEpoch.Reneg
	}

	var clientRandom [32]byte
	copy(clientRandom[:], ch.Random[:])
	params := &HandshakeParams{
		ClientRandom:  clientRandom,
		ClientVersion: ch.ClientVersion,
	}

	log := NewTranscript()
	log.Append(raw)

	return firstFlight(g, epoch, params, log, ch)
}

// firstFlight builds the common server first flight: ServerHello,
// Certificate, optional ServerKeyExchange, ServerHelloDone, transitioning
// to the appropriate ClientKeyExchange-await state.
func firstFlight(g *Global, epoch *Epoch, params *HandshakeParams, log *Transcript, ch *tlswire.ClientHello) (*Global, []Signal, error) {
	var serverRandom [32]byte
	if err := tlscrypto.SecureRandom(serverRandom[:]); err != nil {
		return nil, nil, err
	}
	params.ServerRandom = serverRandom

	var record []byte

	var renegValue []byte
	if len(epoch.Reneg.ClientVerifyData) != 0 || len(epoch.Reneg.ServerVerifyData) != 0 {
		renegValue = append(append([]byte{}, epoch.Reneg.ClientVerifyData...), epoch.Reneg.ServerVerifyData...)
	}
	sh := &tlswire.ServerHello{
		Version:           epoch.ProtocolVersion,
		Random:            serverRandom,
		CipherSuite:       epoch.CipherSuite,
		RenegotiationInfo: renegValue,
		IncludeServerName: epoch.HasServerName,
	}
	shBytes := tlswire.MarshalServerHello(sh)
	log.Append(shBytes)
	record = append(record, shBytes...)

	if epoch.CipherSuite.RequiresCertificate() {
		if g.Config.OwnCertificate == nil || len(g.Config.OwnCertificate.Chain) == 0 {
			return nil, nil, alert.HandshakeFailure("server_hello", alert.ErrNoCertificate)
		}
		certBytes := tlswire.MarshalCertificate(&tlswire.Certificate{Chain: g.Config.OwnCertificate.Chain})
		log.Append(certBytes)
		record = append(record, certBytes...)
	}

	kex, _ := epoch.CipherSuite.KeyExchange()

	var dh *tlscrypto.DHKeyPair
	if kex == constants.KeyExchangeDHERSA {
		var err error
		dh, err = tlscrypto.GenerateDHKeyPair(tlscrypto.Reader)
		if err != nil {
			return nil, nil, err
		}

		skxBytes, err := buildServerKeyExchangeDHE(g.Config, epoch, params, dh, ch)
		if err != nil {
			return nil, nil, err
		}
		log.Append(skxBytes)
		record = append(record, skxBytes...)
	}

	doneBytes := tlswire.MarshalServerHelloDone()
	log.Append(doneBytes)
	record = append(record, doneBytes...)

	signals := []Signal{recordHandshake(record)}

	nextKind := KindAwaitClientKeyExchangeRSA
	if kex == constants.KeyExchangeDHERSA {
		nextKind = KindAwaitClientKeyExchangeDHERSA
	}

	next := &Global{
		Config: g.Config,
		Machina: State{
			Kind:   nextKind,
			Epoch:  epoch,
			Params: params,
			DH:     dh,
			Log:    log,
		},
		EpochSlot:  g.EpochSlot,
		HSFragment: nil,
	}
	return next, signals, nil
}

// buildServerKeyExchangeDHE constructs and signs the DHE_RSA
// ServerKeyExchange payload.
func buildServerKeyExchangeDHE(cfg *Config, epoch *Epoch, params *HandshakeParams, dh *tlscrypto.DHKeyPair, ch *tlswire.ClientHello) ([]byte, error) {
	if cfg.OwnCertificate == nil {
		return nil, alert.HandshakeFailure("server_key_exchange", alert.ErrNoCertificate)
	}
	dhParams := tlswire.ServerDHParams{
		P:  dh.P.Bytes(),
		G:  dh.G.Bytes(),
		Ys: dh.Public.Bytes(),
	}
	payload := make([]byte, 0, 64+len(dhParams.P)+len(dhParams.G)+len(dhParams.Ys)+16)
	payload = append(payload, params.ClientRandom[:]...)
	payload = append(payload, params.ServerRandom[:]...)
	payload = append(payload, tlswire.EncodeDHParams(&dhParams)...)

	skx := &tlswire.ServerKeyExchangeDHE{Params: dhParams}

	if epoch.ProtocolVersion == constants.VersionTLS12 {
		hashID, ok := tlscrypto.SelectSignatureHash(ch.RSACompatibleHashes(), cfg.Hashes)
		if !ok {
			return nil, alert.HandshakeFailure("server_key_exchange", alert.ErrNoSignatureMatch)
		}
		sig, err := tlscrypto.SignServerKeyExchangeTLS12(tlscrypto.Reader, cfg.OwnCertificate.PrivateKey, hashID, payload)
		if err != nil {
			return nil, err
		}
		skx.HasScheme = true
		skx.SignatureScheme = constants.SignatureScheme{Hash: hashID, Sig: constants.SigIDRSA}
		skx.Signature = sig
	} else {
		sig, err := tlscrypto.SignServerKeyExchangeLegacy(tlscrypto.Reader, cfg.OwnCertificate.PrivateKey, payload)
		if err != nil {
			return nil, err
		}
		skx.Signature = sig
	}

	return tlswire.MarshalServerKeyExchangeDHE(skx), nil
}
