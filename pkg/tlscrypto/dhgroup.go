package tlscrypto

import (
	cryptorand "crypto/rand"
	"io"
	"math/big"

	"github.com/mattgray/tls-handshake/internal/alert"
)

// Oakley group 2: the 1024-bit MODP group from RFC 2409 §6.2, fixed rather
// than configurable.
var (
	group2P *big.Int
	group2G = big.NewInt(2)
)

func init() {
	group2P, _ = new(big.Int).SetString(
		"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD"+
			"129024E088A67CC74020BBEA63B139B22514A08798E3404DDEF9519"+
			"B3CD3A431B302B0A6DF25F14374FE1356D6D51C245E485B576625E7"+
			"EC6F44C42E9A637ED6B0BFF5CB6F406B7EDEE386BFB5A899FA5AE9F"+
			"24117C4B1FE649286651ECE65381FFFFFFFFFFFFFFFF", 16)
}

// DHKeyPair is one side's ephemeral Diffie-Hellman keypair within the
// fixed group-2 parameters.
type DHKeyPair struct {
	P, G    *big.Int
	Private *big.Int
	Public  *big.Int
}

// GenerateDHKeyPair generates a fresh server-side ephemeral keypair in the
// fixed RFC 2409 group 2, for use in DHE_RSA ServerKeyExchange.
func GenerateDHKeyPair(rand io.Reader) (*DHKeyPair, error) {
	// A private exponent of the same bit length as P is generated and then
	// reduced; this mirrors the common practice of picking x in [1, p-2]
	// without requiring the (unknown, unconfigured) subgroup order.
	max := new(big.Int).Sub(group2P, big.NewInt(2))
	x, err := cryptorand.Int(rand, max)
	if err != nil {
		return nil, err
	}
	x.Add(x, big.NewInt(1))

	y := new(big.Int).Exp(group2G, x, group2P)

	return &DHKeyPair{P: group2P, G: group2G, Private: x, Public: y}, nil
}

// SharedSecret computes the DH shared secret g^(x*x_peer) mod p from this
// keypair's private exponent and the peer's public share, rejecting shares
// that are zero, negative, or out of range.
func (kp *DHKeyPair) SharedSecret(peerPublic *big.Int) ([]byte, error) {
	if peerPublic.Sign() <= 0 || peerPublic.Cmp(kp.P) >= 0 {
		return nil, alert.InsufficientSecurity("dhe.SharedSecret", alert.ErrDHShareRejected)
	}
	secret := new(big.Int).Exp(peerPublic, kp.Private, kp.P)
	if secret.Sign() <= 0 {
		return nil, alert.InsufficientSecurity("dhe.SharedSecret", alert.ErrDHShareRejected)
	}
	return secret.Bytes(), nil
}
