//go:build selftest
// +build selftest

package tlscrypto

// SelfTestEnabled reports whether the binary was built with the "selftest"
// build tag. When true, Config construction runs the conditional
// consistency checks in selftest.go before serving any connection.
func SelfTestEnabled() bool { return true }
