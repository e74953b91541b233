package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newTestViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(nil))
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.StrapiURL != DefaultStrapiURL {
		t.Fatalf("StrapiURL = %q", cfg.StrapiURL)
	}
	if cfg.StrapiTimeout != 15*time.Second {
		t.Fatalf("StrapiTimeout = %v", cfg.StrapiTimeout)
	}
	if cfg.SyncInterval != 5*time.Minute {
		t.Fatalf("SyncInterval = %v", cfg.SyncInterval)
	}
	if cfg.PreviewDelay != 250*time.Millisecond {
		t.Fatalf("PreviewDelay = %v", cfg.PreviewDelay)
	}
	if !cfg.PreviewEnabled {
		t.Fatalf("expected previews enabled by default")
	}
}

func TestBlankStrapiURLFallsBackToDefault(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{"strapi_url": "   "}))
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.StrapiURL != DefaultStrapiURL {
		t.Fatalf("StrapiURL = %q", cfg.StrapiURL)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("STRAPI_URL", "https://cms.example.com")
	t.Setenv("SYNC_PAGE_SIZE", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StrapiURL != "https://cms.example.com" {
		t.Fatalf("StrapiURL = %q", cfg.StrapiURL)
	}
	if cfg.SyncPageSize != 50 {
		t.Fatalf("SyncPageSize = %d", cfg.SyncPageSize)
	}
}

func TestRejectsInvalidDurations(t *testing.T) {
	cases := map[string]any{
		"strapi_timeout_seconds": 0,
		"sync_interval":          -1,
		"sync_page_size":         0,
		"preview_delay_ms":       -5,
		"storage_ttl_seconds":    0,
	}
	for key, val := range cases {
		if _, err := fromViper(newTestViper(map[string]any{key: val})); err == nil {
			t.Errorf("expected error for %s=%v", key, val)
		}
	}
}
