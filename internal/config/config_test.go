package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadExpandsEnvVars(t *testing.T) {
	os.Setenv("TEST_Z2M_BROKER", "tcp://broker.local:1883")
	defer os.Unsetenv("TEST_Z2M_BROKER")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
bridge:
  mac: "00:17:88:AA:BB:CC"
z2m:
  broker_url: "${TEST_Z2M_BROKER}"
http:
  port: 8443
log:
  level: "${TEST_LOG_LEVEL:debug}"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Z2M.BrokerURL != "tcp://broker.local:1883" {
		t.Errorf("broker_url = %q, want env-expanded value", cfg.Z2M.BrokerURL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want default-expanded %q", cfg.Log.Level, "debug")
	}
	if cfg.HTTP.Port != 8443 {
		t.Errorf("http port = %d, want 8443", cfg.HTTP.Port)
	}
}

func TestDefaultsApplyWhenUnset(t *testing.T) {
	var cfg Config
	if got := cfg.Z2M.GetBrokerURL(); got != DefaultZ2MBrokerURL {
		t.Errorf("broker url default = %q, want %q", got, DefaultZ2MBrokerURL)
	}
	if got := cfg.HTTP.GetPort(); got != DefaultHTTPPort {
		t.Errorf("http port default = %d, want %d", got, DefaultHTTPPort)
	}
	if got := cfg.State.GetPath(); got != DefaultStatePath {
		t.Errorf("state path default = %q, want %q", got, DefaultStatePath)
	}
	if got := cfg.GetShutdownTimeout(); got != DefaultShutdownTimeout {
		t.Errorf("shutdown timeout default = %v, want %v", got, DefaultShutdownTimeout)
	}
}

func TestOptionalBoolDefaultsToTrue(t *testing.T) {
	var mdns MDNSConfig
	if !mdns.IsEnabled() {
		t.Error("mDNS should default to enabled when unset")
	}
	disabled := false
	mdns.Enabled = &disabled
	if mdns.IsEnabled() {
		t.Error("mDNS should be disabled once explicitly set false")
	}
}

func TestDurationUnmarshal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("shutdown_timeout: \"15s\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GetShutdownTimeout() != 15*time.Second {
		t.Errorf("shutdown timeout = %v, want 15s", cfg.GetShutdownTimeout())
	}
}

func TestExpandEnvStringOnlyExpandsBraceForm(t *testing.T) {
	os.Setenv("TEST_PLAIN", "value")
	defer os.Unsetenv("TEST_PLAIN")

	if got := ExpandEnvString("${TEST_PLAIN}"); got != "value" {
		t.Errorf("ExpandEnvString(${...}) = %q, want %q", got, "value")
	}
	if got := ExpandEnvString("literal"); got != "literal" {
		t.Errorf("ExpandEnvString(plain) = %q, want unchanged", got)
	}
}
