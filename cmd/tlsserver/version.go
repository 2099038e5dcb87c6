package main

import pkgversion "github.com/mattgray/tls-handshake/pkg/version"

func packageVersion() string {
	return pkgversion.String()
}
