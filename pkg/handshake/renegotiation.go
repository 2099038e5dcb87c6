package handshake

// RenegotiationAllowed reports whether g's current state and configuration
// permit a renegotiation ClientHello: config.use_reneg must be true and the
// global state must already carry an established epoch. HandleClientHello
// re-checks this internally; this helper lets a caller (e.g. the record
// layer deciding whether to even attempt a handshake-channel delivery)
// probe it without side effects.
func RenegotiationAllowed(g *Global) bool {
	return g.Config.UseReneg && g.Machina.Kind == KindEstablished && g.EpochSlot.Tag == TagEstablished && g.EpochSlot.Epoch != nil
}
