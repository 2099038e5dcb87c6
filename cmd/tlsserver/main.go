package main

import (
	"flag"
	"fmt"
	"os"
)

// Build-time variables (set via -ldflags).
var (
	buildVersion = ""
	buildTime    = "unknown"
	gitCommit    = "unknown"
)

func versionString() string {
	if buildVersion != "" {
		return buildVersion
	}
	return packageVersion()
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		serveCommand()
	case "version":
		fmt.Printf("tlsserver version %s\n", versionString())
		if buildTime != "unknown" {
			fmt.Printf("Built: %s\n", buildTime)
		}
		if gitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", gitCommit)
		}
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tlsserver - TLS 1.0/1.1/1.2 server-side handshake demo

USAGE:
    tlsserver <command> [options]

COMMANDS:
    serve     Run a TCP listener driving the handshake state machine
    version   Print version information
    help      Show this help message

EXAMPLES:
    # Start the demo server on :8443 with a generated self-signed cert
    tlsserver serve --addr :8443

    # Allow renegotiation and expose Prometheus/health on :9090
    tlsserver serve --addr :8443 --reneg --obs-addr :9090`)
}

func serveCommand() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8443", "Address to listen on")
	obsAddr := fs.String("obs-addr", "", "Observability server address (empty disables)")
	reneg := fs.Bool("reneg", false, "Permit secure renegotiation (RFC 5746)")
	maxPerIP := fs.Int("max-per-ip", 16, "Max concurrent handshakes per client IP (0 = unlimited)")
	rate := fs.Float64("rate", 0, "Handshake rate limit in handshakes/sec (0 = unlimited)")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn, error, silent")
	logFormat := fs.String("log-format", "text", "Log format: text or json")
	verbose := fs.Bool("verbose", false, "Verbose per-connection output")

	fs.Usage = func() {
		fmt.Println(`USAGE: tlsserver serve [options]

Run a TCP listener that drives the handshake package's state machine
directly, framing plaintext handshake/ChangeCipherSpec/alert records
itself (the encrypted record layer is out of scope).

OPTIONS:`)
		fs.PrintDefaults()
	}

	_ = fs.Parse(os.Args[2:])

	runServe(serveOptions{
		addr:         *addr,
		obsAddr:      *obsAddr,
		useReneg:     *reneg,
		maxPerIP:     *maxPerIP,
		handshakeQPS: *rate,
		logLevel:     *logLevel,
		logFormat:    *logFormat,
		verbose:      *verbose,
	})
}
