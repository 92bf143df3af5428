package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"STATE_DIR": t.TempDir(),
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.GraphQLEndpoint != "http://localhost:8080/graphql" {
		t.Errorf("GraphQLEndpoint = %q", cfg.GraphQLEndpoint)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.Stub.AccessTTL != 15*time.Minute {
		t.Errorf("Stub.AccessTTL = %v", cfg.Stub.AccessTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_BASE_URL":     "https://api.example.com",
		"GRAPHQL_ENDPOINT": "https://api.example.com/graphql",
		"REQUEST_TIMEOUT":  "30s",
		"STATE_DIR":        t.TempDir(),
		"STUB_ACCESS_TTL":  "1h",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.APIBaseURL != "https://api.example.com" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.Stub.AccessTTL != time.Hour {
		t.Errorf("Stub.AccessTTL = %v", cfg.Stub.AccessTTL)
	}
}

func TestLoad_RejectsInvalidURL(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_BASE_URL": "not a url",
		"STATE_DIR":    t.TempDir(),
	}))
	if err == nil {
		t.Fatalf("expected validation failure for a malformed base URL")
	}
}
