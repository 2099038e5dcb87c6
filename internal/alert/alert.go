// Package alert defines the fatal error taxonomy surfaced by the handshake
// state machine and its mapping onto TLS alert codes.
package alert

import (
	"errors"
	"fmt"

	"github.com/mattgray/tls-handshake/internal/constants"
)

// Sentinel errors for the ClientHello / negotiation path.
var (
	ErrNoCommonVersion   = errors.New("handshake: no common protocol version")
	ErrNoCommonCipher    = errors.New("handshake: no common cipher suite")
	ErrRenegBindingMismatch = errors.New("handshake: secure_renegotiation binding mismatch")
	ErrRenegNotEmpty     = errors.New("handshake: secure_renegotiation extension must be empty on initial handshake")
	ErrRenegRequired     = errors.New("handshake: secure renegotiation required but not offered")
	ErrRenegDisabled     = errors.New("handshake: renegotiation not permitted by configuration")
	ErrNoCertificate     = errors.New("handshake: no certificate configured for selected cipher suite")
)

// Sentinel errors for key exchange.
var (
	ErrDHShareRejected = errors.New("handshake: DH client share rejected")
	ErrNoSignatureMatch = errors.New("handshake: no common signature-and-hash algorithm")
)

// Sentinel errors for transitions and framing.
var (
	ErrUnparseableMessage  = errors.New("handshake: unparseable handshake message")
	ErrUnexpectedState     = errors.New("handshake: message not valid in current state")
	ErrFragmentNotEmpty    = errors.New("handshake: unconsumed handshake bytes at state boundary")
	ErrChangeCipherSpecBad = errors.New("handshake: ChangeCipherSpec in wrong state")
)

// Sentinel errors for Finished verification.
var (
	ErrFinishedMismatch = errors.New("handshake: Finished verify_data mismatch")
)

// Error wraps an underlying cause with the TLS alert code it surfaces as.
type Error struct {
	Code constants.AlertCode
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AlertCode returns the TLS alert description this error surfaces as.
func (e *Error) AlertCode() constants.AlertCode {
	return e.Code
}

// New wraps err as a fatal handshake error tagged with the given alert code.
func New(code constants.AlertCode, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// ProtocolVersion builds a PROTOCOL_VERSION fatal error.
func ProtocolVersion(op string, err error) *Error {
	return New(constants.AlertProtocolVersion, op, err)
}

// HandshakeFailure builds a HANDSHAKE_FAILURE fatal error.
func HandshakeFailure(op string, err error) *Error {
	return New(constants.AlertHandshakeFailure, op, err)
}

// InsufficientSecurity builds an INSUFFICIENT_SECURITY fatal error.
func InsufficientSecurity(op string, err error) *Error {
	return New(constants.AlertInsufficientSec, op, err)
}

// UnexpectedMessage builds an UNEXPECTED_MESSAGE fatal error.
func UnexpectedMessage(op string, err error) *Error {
	return New(constants.AlertUnexpectedMessage, op, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
