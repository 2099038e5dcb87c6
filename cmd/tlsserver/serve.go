package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattgray/tls-handshake/internal/alert"
	"github.com/mattgray/tls-handshake/internal/constants"
	"github.com/mattgray/tls-handshake/pkg/handshake"
	"github.com/mattgray/tls-handshake/pkg/telemetry"
)

// serveOptions holds the parsed flags of the `serve` subcommand.
type serveOptions struct {
	addr         string
	obsAddr      string
	useReneg     bool
	maxPerIP     int
	handshakeQPS float64
	logLevel     string
	logFormat    string
	verbose      bool
}

func runServe(opts serveOptions) {
	logger := telemetry.NewLogger(
		telemetry.WithOutput(os.Stderr),
		telemetry.WithLevel(mustLogLevel(opts.logLevel)),
		telemetry.WithFormat(mustLogFormat(opts.logFormat)),
		telemetry.WithFields(telemetry.Fields{"app": "tlsserver"}),
	)
	telemetry.SetLogger(logger)

	collector := telemetry.NewCollector(telemetry.Labels{"service": "tlsserver"})
	telemetry.SetGlobal(collector)

	cert, err := generateSelfSignedCertificate([]string{"localhost"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to generate certificate: %v\n", err)
		os.Exit(1)
	}

	cfg, err := handshake.NewConfig(handshake.Config{
		ProtocolVersions: []constants.ProtocolVersion{
			constants.VersionTLS10, constants.VersionTLS11, constants.VersionTLS12,
		},
		CipherSuites: []constants.CipherSuite{
			constants.TLS_DHE_RSA_WITH_AES_256_CBC_SHA256,
			constants.TLS_DHE_RSA_WITH_AES_128_CBC_SHA256,
			constants.TLS_RSA_WITH_AES_256_CBC_SHA,
			constants.TLS_RSA_WITH_AES_128_CBC_SHA,
		},
		Hashes:         []constants.HashAlgorithmID{constants.HashIDSHA256, constants.HashIDSHA1},
		OwnCertificate: cert,
		SecureReneg:    true,
		UseReneg:       opts.useReneg,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ipLimiter := handshake.NewIPRateLimiter(opts.maxPerIP)
	hsLimiter := handshake.NewHandshakeLimiter(opts.handshakeQPS, opts.maxPerIP+1)
	rlObserver := telemetry.NewRateLimitObserver(collector, logger)
	ipLimiter.SetObserver(rlObserver)
	hsLimiter.SetObserver(rlObserver)

	listener, err := net.Listen("tcp", opts.addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to listen: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = listener.Close() }()

	fmt.Printf("tlsserver listening on %s\n", listener.Addr())

	if opts.obsAddr != "" {
		obs := telemetry.NewServer(telemetry.ServerConfig{
			Collector:        collector,
			Version:          versionString(),
			Namespace:        "tls_handshake",
			EnablePrometheus: true,
			EnableHealth:     true,
		})
		go func() {
			if err := obs.ListenAndServe(opts.obsAddr); err != nil {
				logger.Error("observability server error", telemetry.Fields{"error": err.Error()})
			}
		}()
		fmt.Printf("observability server on %s (metrics: /metrics, health: /health)\n", opts.obsAddr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nshutting down")
		_ = listener.Close()
		os.Exit(0)
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			fmt.Fprintf(os.Stderr, "accept error: %v\n", err)
			continue
		}
		go handleConn(conn, cfg, ipLimiter, hsLimiter, collector, logger, opts.verbose)
	}
}

func handleConn(conn net.Conn, cfg *handshake.Config, ipLimiter *handshake.IPRateLimiter, hsLimiter *handshake.HandshakeLimiter, collector *telemetry.Collector, logger *telemetry.Logger, verbose bool) {
	defer func() { _ = conn.Close() }()

	remoteIP := hostOf(conn.RemoteAddr())

	if !ipLimiter.AllowConnection(remoteIP) {
		return
	}
	defer ipLimiter.ReleaseConnection(remoteIP)

	if !hsLimiter.AllowHandshake(remoteIP) {
		return
	}

	start := time.Now()
	collector.HandshakeStarted()
	defer collector.HandshakeEnded()

	g := handshake.NewGlobal(cfg, constants.VersionTLS12)
	recordVersion := uint16(constants.VersionTLS12)

	for {
		typ, payload, err := readRecord(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn("record read failed", telemetry.Fields{"remote_ip": remoteIP, "error": err.Error()})
			}
			return
		}

		switch typ {
		case contentTypeHandshake:
			var signals []handshake.Signal
			g, signals, err = handshake.HandleHandshake(g, payload)
			if err != nil {
				sendAlert(conn, recordVersion, err)
				collector.HandshakeFailed()
				logger.Warn("handshake failed", telemetry.Fields{"remote_ip": remoteIP, "error": err.Error()})
				return
			}
			if g.Machina.Epoch != nil {
				recordVersion = uint16(g.Machina.Epoch.ProtocolVersion)
			}
			if err := emit(conn, recordVersion, signals); err != nil {
				logger.Warn("record write failed", telemetry.Fields{"remote_ip": remoteIP, "error": err.Error()})
				return
			}

			if g.Machina.Kind == handshake.KindEstablished {
				collector.RecordHandshakeLatency(time.Since(start))
				collector.RecordVersionNegotiated(uint16(g.EpochSlot.Epoch.ProtocolVersion))
				collector.RecordCipherNegotiated(uint16(g.EpochSlot.Epoch.CipherSuite))
				if verbose {
					fmt.Printf("[%s] handshake established: version=%s cipher=%s\n",
						remoteIP, g.EpochSlot.Epoch.ProtocolVersion, g.EpochSlot.Epoch.CipherSuite)
				}
				// Application data / further record-layer traffic is out of
				// scope; the demo stops driving the connection here.
				return
			}

		case contentTypeChangeCipherSpec:
			var signals []handshake.Signal
			var changeDec handshake.ChangeDec
			g, signals, changeDec, err = handshake.HandleChangeCipherSpec(g, payload)
			if err != nil {
				sendAlert(conn, recordVersion, err)
				collector.HandshakeFailed()
				return
			}
			_ = changeDec // the demo does not implement record encryption
			if err := emit(conn, recordVersion, signals); err != nil {
				return
			}
			if g.EpochSlot.Epoch != nil {
				collector.RecordRenegotiation()
			}

		case contentTypeAlert:
			return

		default:
			sendAlert(conn, recordVersion, alert.UnexpectedMessage("record", alert.ErrUnexpectedState))
			return
		}
	}
}

func emit(conn net.Conn, recordVersion uint16, signals []handshake.Signal) error {
	for _, s := range signals {
		switch s.Kind {
		case handshake.SignalRecordHandshake:
			if err := writeRecord(conn, contentTypeHandshake, recordVersion, s.Bytes); err != nil {
				return err
			}
		case handshake.SignalRecordChangeCipherSpec:
			if err := writeRecord(conn, contentTypeChangeCipherSpec, recordVersion, s.Bytes); err != nil {
				return err
			}
		case handshake.SignalChangeEnc, handshake.SignalChangeDec:
			// Cipher-context swap: the record layer would install s.Context
			// here. Out of scope for this demo.
		}
	}
	return nil
}

func sendAlert(conn net.Conn, recordVersion uint16, err error) {
	var herr *alert.Error
	code := constants.AlertHandshakeFailure
	if alert.As(err, &herr) {
		code = herr.Code
	}
	_ = writeRecord(conn, contentTypeAlert, recordVersion, []byte{2 /* fatal */, byte(code)})
}

func hostOf(addr net.Addr) string {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

func mustLogLevel(s string) telemetry.Level {
	switch strings.ToLower(s) {
	case "debug":
		return telemetry.LevelDebug
	case "info":
		return telemetry.LevelInfo
	case "warn", "warning":
		return telemetry.LevelWarn
	case "error":
		return telemetry.LevelError
	case "silent", "off", "none":
		return telemetry.LevelSilent
	default:
		return telemetry.LevelInfo
	}
}

func mustLogFormat(s string) telemetry.Format {
	if strings.ToLower(s) == "json" {
		return telemetry.FormatJSON
	}
	return telemetry.FormatText
}
