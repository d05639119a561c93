package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDecodeAppliesDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.MLM.MaxTreeDepth != 32 {
		t.Fatalf("expected default tree depth 32, got %d", cfg.MLM.MaxTreeDepth)
	}
	if cfg.MLM.ReportCacheTTLSeconds != 600 {
		t.Fatalf("expected default report ttl 600, got %d", cfg.MLM.ReportCacheTTLSeconds)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected sqlite driver, got %s", cfg.Database.Driver)
	}
	if cfg.Queue.Queues["critical"] != 5 {
		t.Fatalf("expected critical queue weight 5, got %v", cfg.Queue.Queues)
	}
}

func TestDecodeReadsYAMLAndFixesInvalidValues(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	raw := `
mlm:
  max_tree_depth: -1
  report_cache_ttl_seconds: 60
order:
  currency: " "
`
	if err := v.ReadConfig(strings.NewReader(raw)); err != nil {
		t.Fatalf("read config failed: %v", err)
	}

	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.MLM.MaxTreeDepth != 32 {
		t.Fatalf("invalid depth should fall back to 32, got %d", cfg.MLM.MaxTreeDepth)
	}
	if cfg.MLM.ReportCacheTTLSeconds != 60 {
		t.Fatalf("expected ttl 60, got %d", cfg.MLM.ReportCacheTTLSeconds)
	}
	if cfg.Order.Currency != "USD" {
		t.Fatalf("blank currency should fall back to USD, got %q", cfg.Order.Currency)
	}
}
