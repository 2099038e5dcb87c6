//go:build !selftest
// +build !selftest

package tlscrypto

// SelfTestEnabled reports whether the binary was built with the "selftest"
// build tag. When false, RunSelfTest is a no-op.
func SelfTestEnabled() bool { return false }
