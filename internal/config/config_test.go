package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muliwe/go-chunk-entropy/internal/entropy"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entropy.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Classifier != entropy.DefaultConfig() {
		t.Errorf("DefaultConfig().Classifier = %+v, want entropy defaults", cfg.Classifier)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("DefaultConfig().Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
classifier:
  mode: normalized
  chunk_size: 8192
server:
  addr: ":9090"
  read_timeout: 2s
logger:
  log_dir: /tmp/entropy-logs
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Classifier.Mode != entropy.ModeNormalized {
		t.Errorf("Load() mode = %s, want %s", cfg.Classifier.Mode, entropy.ModeNormalized)
	}
	if cfg.Classifier.ChunkSize != 8192 {
		t.Errorf("Load() chunk size = %d, want 8192", cfg.Classifier.ChunkSize)
	}
	if cfg.Classifier.Threshold != entropy.ReferenceThreshold {
		t.Errorf("Load() threshold = %g, want default %d", cfg.Classifier.Threshold, entropy.ReferenceThreshold)
	}
	if cfg.Server.ReadTimeout != 2*time.Second {
		t.Errorf("Load() read timeout = %v, want 2s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 10*time.Second {
		t.Errorf("Load() write timeout = %v, want default 10s", cfg.Server.WriteTimeout)
	}
	if cfg.Logger.FileName != "scans.jsonl" {
		t.Errorf("Load() log file = %q, want default", cfg.Logger.FileName)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad mode", "classifier:\n  mode: shannon\n", "unmarshal"},
		{"bad yaml", "classifier: [", "unmarshal"},
		{"zero threshold", "classifier:\n  threshold: 0\n", "threshold"},
		{"half tls", "server:\n  tls_cert_file: cert.pem\n", "tls"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want error containing %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) error = nil, want error")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PORT":               "9999",
		"DEBUG":              "true",
		"ENTROPY_MODE":       "normalized",
		"ENTROPY_THRESHOLD":  "12000",
		"ENTROPY_CHUNK_SIZE": "2048",
		"LOG_DIR":            "/var/log/entropy",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.Server.Addr != ":9999" {
		t.Errorf("ApplyEnv() addr = %q, want %q", cfg.Server.Addr, ":9999")
	}
	if !cfg.Server.EnableDebug {
		t.Error("ApplyEnv() should enable debug")
	}
	want := entropy.Config{Mode: entropy.ModeNormalized, ChunkSize: 2048, Threshold: 12000}
	if cfg.Classifier != want {
		t.Errorf("ApplyEnv() classifier = %+v, want %+v", cfg.Classifier, want)
	}
	if cfg.Logger.LogDir != "/var/log/entropy" {
		t.Errorf("ApplyEnv() log dir = %q, want %q", cfg.Logger.LogDir, "/var/log/entropy")
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	for _, env := range []map[string]string{
		{"ENTROPY_MODE": "bogus"},
		{"ENTROPY_THRESHOLD": "ten"},
		{"ENTROPY_CHUNK_SIZE": "-5"},
	} {
		cfg := DefaultConfig()
		if err := cfg.ApplyEnv(envMap(env)); err == nil {
			t.Errorf("ApplyEnv(%v) error = nil, want error", env)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Classifier.Mode = entropy.ModeNormalized

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), "mode: normalized") {
		t.Errorf("Marshal() = %s, want textual mode", data)
	}

	loaded, err := Load(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded != cfg {
		t.Errorf("Load(Marshal()) = %+v, want %+v", loaded, cfg)
	}
}
