package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoOpTracer(t *testing.T) {
	tracer := NoOpTracer{}
	ctx := context.Background()

	newCtx, end := tracer.StartSpan(ctx, "test")

	if newCtx != ctx {
		t.Error("NoOpTracer should return same context")
	}

	end(nil)
	end(errors.New("test error"))
}

func TestSimpleTracer(t *testing.T) {
	tracer := NewSimpleTracer()
	ctx := context.Background()

	_, end := tracer.StartSpan(ctx, SpanHandshakeServer, WithSpanKind(SpanKindServer))
	time.Sleep(10 * time.Millisecond)
	end(nil)

	spans := tracer.Spans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	span := spans[0]
	if span.Name != SpanHandshakeServer {
		t.Errorf("expected name %s, got %s", SpanHandshakeServer, span.Name)
	}
	if span.Kind != SpanKindServer {
		t.Errorf("expected kind SpanKindServer, got %v", span.Kind)
	}
	if span.Duration < 10*time.Millisecond {
		t.Errorf("expected duration >= 10ms, got %v", span.Duration)
	}
	if span.Error != nil {
		t.Error("expected no error")
	}
}

func TestSimpleTracerWithError(t *testing.T) {
	tracer := NewSimpleTracer()
	ctx := context.Background()

	expectedErr := errors.New("test error")
	_, end := tracer.StartSpan(ctx, SpanFinished)
	end(expectedErr)

	spans := tracer.Spans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	if spans[0].Error != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, spans[0].Error)
	}
}

func TestSimpleTracerAttributes(t *testing.T) {
	tracer := NewSimpleTracer()
	ctx := context.Background()

	attrs := SpanAttributes{
		ProtocolVersion: "TLS1.2",
		CipherSuite:     "TLS_RSA_WITH_AES_128_CBC_SHA",
	}.ToMap()

	_, end := tracer.StartSpan(ctx, SpanClientHello, WithAttributes(attrs))
	end(nil)

	spans := tracer.Spans()
	if spans[0].Attributes["tls.version"] != "TLS1.2" {
		t.Error("expected tls.version attribute")
	}
	if spans[0].Attributes["tls.cipher_suite"] != "TLS_RSA_WITH_AES_128_CBC_SHA" {
		t.Error("expected tls.cipher_suite attribute")
	}
}

func TestSimpleTracerParentSpan(t *testing.T) {
	tracer := NewSimpleTracer()
	ctx := context.Background()

	ctx, endParent := tracer.StartSpan(ctx, SpanHandshakeServer)

	_, endChild := tracer.StartSpan(ctx, SpanClientKeyExchange)
	endChild(nil)

	endParent(nil)

	spans := tracer.Spans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	var child *RecordedSpan
	for i := range spans {
		if spans[i].Name == SpanClientKeyExchange {
			child = &spans[i]
			break
		}
	}

	if child == nil {
		t.Fatal("child span not found")
	}

	if child.ParentID == "" {
		t.Error("expected child to have parent ID")
	}
}

func TestSimpleTracerReset(t *testing.T) {
	tracer := NewSimpleTracer()
	ctx := context.Background()

	_, end := tracer.StartSpan(ctx, SpanClientHello)
	end(nil)
	_, end = tracer.StartSpan(ctx, SpanServerKeyExchange)
	end(nil)

	if len(tracer.Spans()) != 2 {
		t.Fatal("expected 2 spans before reset")
	}

	tracer.Reset()

	if len(tracer.Spans()) != 0 {
		t.Error("expected 0 spans after reset")
	}
}

func TestGlobalTracer(t *testing.T) {
	tracer := GetTracer()
	if _, ok := tracer.(NoOpTracer); !ok {
		t.Error("default tracer should be NoOpTracer")
	}

	simple := NewSimpleTracer()
	SetTracer(simple)

	if GetTracer() != simple {
		t.Error("expected custom tracer")
	}

	ctx := context.Background()
	_, end := StartSpan(ctx, SpanHandshakeServer)
	end(nil)

	if len(simple.Spans()) != 1 {
		t.Error("expected span from global StartSpan")
	}

	SetTracer(NoOpTracer{})
}

func TestSpanKinds(t *testing.T) {
	if SpanKindInternal != 0 {
		t.Error("SpanKindInternal should be 0")
	}
	if SpanKindServer != 1 {
		t.Error("SpanKindServer should be 1")
	}
	if SpanKindClient != 2 {
		t.Error("SpanKindClient should be 2")
	}
}

func TestSpanAttributes(t *testing.T) {
	attrs := SpanAttributes{
		ProtocolVersion: "TLS1.2",
		CipherSuite:     "TLS_DHE_RSA_WITH_AES_256_CBC_SHA",
		KeyExchange:     "DHE_RSA",
		Renegotiating:   true,
		Error:           "test error",
	}

	m := attrs.ToMap()

	if m["tls.version"] != "TLS1.2" {
		t.Error("expected tls.version")
	}
	if m["tls.cipher_suite"] != "TLS_DHE_RSA_WITH_AES_256_CBC_SHA" {
		t.Error("expected tls.cipher_suite")
	}
	if m["tls.key_exchange"] != "DHE_RSA" {
		t.Error("expected tls.key_exchange")
	}
	if m["tls.renegotiating"] != true {
		t.Error("expected tls.renegotiating")
	}
	if m["error.message"] != "test error" {
		t.Error("expected error.message")
	}
}

func TestSpanAttributesEmpty(t *testing.T) {
	attrs := SpanAttributes{}
	m := attrs.ToMap()

	if len(m) != 0 {
		t.Errorf("expected empty map for empty attributes, got %d items", len(m))
	}
}

func TestSpanAttributesOmitsFalseRenegotiating(t *testing.T) {
	attrs := SpanAttributes{Renegotiating: false, ProtocolVersion: "TLS1.2"}
	m := attrs.ToMap()

	if _, ok := m["tls.renegotiating"]; ok {
		t.Error("expected tls.renegotiating to be omitted when false")
	}
	if m["tls.version"] != "TLS1.2" {
		t.Error("expected tls.version")
	}
}

func TestSpanNames(t *testing.T) {
	names := []string{
		SpanHandshakeServer,
		SpanClientHello,
		SpanServerKeyExchange,
		SpanClientKeyExchange,
		SpanFinished,
		SpanRenegotiation,
	}

	seen := make(map[string]bool)
	for _, name := range names {
		if name == "" {
			t.Error("span name should not be empty")
		}
		if seen[name] {
			t.Errorf("duplicate span name %q", name)
		}
		seen[name] = true
	}
}

func TestSimpleTracerConcurrency(t *testing.T) {
	tracer := NewSimpleTracer()
	ctx := context.Background()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_, end := tracer.StartSpan(ctx, SpanClientHello)
				time.Sleep(time.Microsecond)
				end(nil)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	spans := tracer.Spans()
	if len(spans) != 1000 {
		t.Errorf("expected 1000 spans, got %d", len(spans))
	}
}
