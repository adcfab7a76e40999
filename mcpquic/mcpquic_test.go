package mcpquic

import (
	"bytes"
	"crypto/tls"
	"errors"
	"strings"
	"testing"
)

// WHAT: magic-byte preamble round trip plus rejection of wrong or short input.
// WHY: the preamble is the only thing standing between the listener and a
// peer speaking some other protocol on the stream.
func TestMagicBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := SendMagicBytes(&buf); err != nil {
		t.Fatalf("SendMagicBytes: %v", err)
	}
	if buf.String() != MagicBytesMCP {
		t.Fatalf("wrote %q, want %q", buf.String(), MagicBytesMCP)
	}
	if err := ValidateMagicBytes(&buf); err != nil {
		t.Fatalf("ValidateMagicBytes round trip: %v", err)
	}

	for _, bad := range []string{"HTTP", "MC", ""} {
		err := ValidateMagicBytes(strings.NewReader(bad))
		if err == nil {
			t.Errorf("ValidateMagicBytes(%q) = nil, want error", bad)
			continue
		}
		if !errors.Is(err, ErrInvalidMagicBytes) {
			t.Errorf("ValidateMagicBytes(%q) = %v, want ErrInvalidMagicBytes", bad, err)
		}
	}
}

// WHAT: QUIC tuning values; 0-RTT must stay off because early data is
// replayable and tool calls are not idempotent.
func TestProductionQUICConfig(t *testing.T) {
	cfg := ProductionQUICConfig()
	if cfg.MaxIdleTimeout != DefaultIdleTimeout {
		t.Errorf("MaxIdleTimeout = %v, want %v", cfg.MaxIdleTimeout, DefaultIdleTimeout)
	}
	if cfg.KeepAlivePeriod != DefaultKeepAlive {
		t.Errorf("KeepAlivePeriod = %v, want %v", cfg.KeepAlivePeriod, DefaultKeepAlive)
	}
	if cfg.Allow0RTT {
		t.Error("Allow0RTT = true, want false")
	}
}

func TestSelfSignedTLSConfig(t *testing.T) {
	cfg, err := SelfSignedTLSConfig()
	if err != nil {
		t.Fatalf("SelfSignedTLSConfig: %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Fatalf("got %d certificates, want 1", len(cfg.Certificates))
	}
	if cfg.MinVersion != tls.VersionTLS13 {
		t.Errorf("MinVersion = %x, want TLS 1.3", cfg.MinVersion)
	}
	found := false
	for _, p := range cfg.NextProtos {
		if p == ALPNProtocolMCP {
			found = true
		}
	}
	if !found {
		t.Errorf("NextProtos = %v, missing %q", cfg.NextProtos, ALPNProtocolMCP)
	}
}

func TestClientTLSConfig(t *testing.T) {
	if cfg := ClientTLSConfig(true); !cfg.InsecureSkipVerify {
		t.Error("insecure config should skip verification")
	}
	cfg := ClientTLSConfig(false)
	if cfg.InsecureSkipVerify {
		t.Error("default config must verify the server certificate")
	}
	if cfg.MinVersion != tls.VersionTLS13 {
		t.Errorf("MinVersion = %x, want TLS 1.3", cfg.MinVersion)
	}
}

// WHAT: H3TLSConfig derives without mutating the base config.
func TestH3TLSConfig(t *testing.T) {
	base, err := SelfSignedTLSConfig()
	if err != nil {
		t.Fatalf("SelfSignedTLSConfig: %v", err)
	}
	h3 := H3TLSConfig(base)
	if len(h3.NextProtos) != 1 || h3.NextProtos[0] != "h3" {
		t.Errorf("NextProtos = %v, want [h3]", h3.NextProtos)
	}
	if len(h3.Certificates) != len(base.Certificates) {
		t.Error("certificates not carried over from base")
	}
	if base.NextProtos[0] == "h3" {
		t.Error("base config was mutated")
	}
}

// WHAT: ConnectionError formatting and unwrapping.
func TestConnectionError(t *testing.T) {
	inner := errors.New("timeout")
	ce := &ConnectionError{
		RemoteAddr: "127.0.0.1:8443",
		Code:       ConnErrorProtocolViolation,
		Err:        inner,
	}
	msg := ce.Error()
	if !strings.Contains(msg, "127.0.0.1:8443") || !strings.Contains(msg, "0x03") {
		t.Errorf("Error() = %q, want remote addr and code", msg)
	}
	if !errors.Is(ce, inner) {
		t.Error("errors.Is should reach the wrapped error")
	}
}

// WHAT: a nil TLS config defaults to verifying the server.
func TestNewClientDefaultTLS(t *testing.T) {
	c := NewClient("localhost:8443", nil)
	if c.tlsCfg == nil || c.tlsCfg.InsecureSkipVerify {
		t.Fatal("default client TLS must verify the server certificate")
	}
}
