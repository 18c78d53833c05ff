package paperdex

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestNoopSemantic(t *testing.T) {
	noop := noopSemantic{}
	_, err := noop.Search(context.Background(), "anything", 10)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestOptions(t *testing.T) {
	cfg := &clientConfig{}
	opts := []Option{
		WithRedis("localhost:6379", "secret"),
		WithRedisAuth("svc"),
		WithRedisDB(3),
		WithKeyPrefix("test:"),
		WithSemanticService("https://sem.example.com", "key-1"),
		WithSemanticTimeout(3 * time.Second),
		WithKeywordTimeout(2 * time.Second),
		WithFastMode(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.addrs)
	}
	if cfg.password != "secret" || cfg.username != "svc" || cfg.db != 3 {
		t.Errorf("auth = %q/%q/%d", cfg.username, cfg.password, cfg.db)
	}
	if cfg.keyPrefix != "test:" {
		t.Errorf("keyPrefix = %q", cfg.keyPrefix)
	}
	if cfg.semanticURL != "https://sem.example.com" || cfg.semanticAPIKey != "key-1" {
		t.Errorf("semantic = %q/%q", cfg.semanticURL, cfg.semanticAPIKey)
	}
	if cfg.semanticTimeout != 3*time.Second || cfg.keywordTimeout != 2*time.Second {
		t.Errorf("timeouts = %v/%v", cfg.semanticTimeout, cfg.keywordTimeout)
	}
	if !cfg.fastMode {
		t.Error("fastMode not set")
	}
}
