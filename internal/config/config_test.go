package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
upstream:
  base_url: https://example.monitoring.com/santaba/rest
  bearer_token: secret
  account: acme
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Report.FetchPageSize != 1000 {
		t.Errorf("Report.FetchPageSize = %d, want 1000", cfg.Report.FetchPageSize)
	}
	if cfg.Report.PrintRowLimit != 10000 {
		t.Errorf("Report.PrintRowLimit = %d, want 10000", cfg.Report.PrintRowLimit)
	}
	if cfg.Upstream.FetchTimeout != 30*time.Second {
		t.Errorf("Upstream.FetchTimeout = %v, want 30s", cfg.Upstream.FetchTimeout)
	}
	if cfg.Upstream.APIVersion != "3" {
		t.Errorf("Upstream.APIVersion = %q, want 3", cfg.Upstream.APIVersion)
	}
	if cfg.Logger.Level != "info" || cfg.Logger.Format != "json" {
		t.Errorf("Logger defaults = %+v", cfg.Logger)
	}
}

func TestLoad_ExplicitValuesOverrideDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
upstream:
  base_url: https://example.monitoring.com/santaba/rest
  fetch_timeout: 5s
report:
  fetch_page_size: 200
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Upstream.FetchTimeout != 5*time.Second {
		t.Errorf("Upstream.FetchTimeout = %v, want 5s", cfg.Upstream.FetchTimeout)
	}
	if cfg.Report.FetchPageSize != 200 {
		t.Errorf("Report.FetchPageSize = %d, want 200", cfg.Report.FetchPageSize)
	}
}

func TestLoad_RequiresBaseURL(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
`)

	_, err := Load(path)
	if !errors.Is(err, ErrMissingBaseURL) {
		t.Errorf("Load error = %v, want ErrMissingBaseURL", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does/not/exist.yaml"); err == nil {
		t.Error("Load should fail for a missing file")
	}
}
