package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.Server.Port)
	}
	if cfg.Enrichment.Interval() != time.Second {
		t.Fatalf("unexpected default interval: %v", cfg.Enrichment.Interval())
	}
	if len(cfg.Sources) == 0 {
		t.Fatal("expected default sources")
	}
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	raw := `
server:
  port: "9000"
database:
  dsn: postgres://file@localhost:5432/trends
enrichment:
  paceInterval: 250ms
  batchLimit: 30
affiliate:
  partnerId: pt-file
sources:
  - source: coupang
    pages:
      - name: goldbox
        url: https://example.com/goldbox
    trendFeedUrl: https://example.com/feed
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDSNEnv, "postgres://env@localhost:5432/trends")
	t.Setenv(affiliatePartnerEnv, "pt-env")

	cfg := Load()

	if cfg.Server.Port != "9000" {
		t.Fatalf("file port not applied: %s", cfg.Server.Port)
	}
	if cfg.Database.DSN != "postgres://env@localhost:5432/trends" {
		t.Fatalf("env override lost: %s", cfg.Database.DSN)
	}
	if cfg.Affiliate.PartnerID != "pt-env" {
		t.Fatalf("partner env override lost: %s", cfg.Affiliate.PartnerID)
	}
	if cfg.Enrichment.Interval() != 250*time.Millisecond {
		t.Fatalf("unexpected interval: %v", cfg.Enrichment.Interval())
	}
	if cfg.Enrichment.BatchLimit != 30 {
		t.Fatalf("unexpected batch limit: %d", cfg.Enrichment.BatchLimit)
	}

	if len(cfg.Sources) != 1 || cfg.Sources[0].TrendFeedURL != "https://example.com/feed" {
		t.Fatalf("unexpected sources: %+v", cfg.Sources)
	}
}

func TestIntervalFallback(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "garbage", "-5s"} {
		e := EnrichmentConfig{PaceInterval: raw}
		if e.Interval() != time.Second {
			t.Fatalf("interval %q must fall back to 1s, got %v", raw, e.Interval())
		}
	}
}
