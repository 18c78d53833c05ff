package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Retrieval: RetrievalConfig{
			SemanticURL: "http://localhost:9000",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingSemanticURL(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.SemanticURL = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing semantic url")
	}

	expected := "retrieval.semantic_url is required"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("expected Driver='redis', got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Retrieval.SemanticTimeoutSec != 10 {
		t.Errorf("expected SemanticTimeoutSec=10, got %d", cfg.Retrieval.SemanticTimeoutSec)
	}
	if cfg.Retrieval.KeywordTimeoutSec != 8 {
		t.Errorf("expected KeywordTimeoutSec=8, got %d", cfg.Retrieval.KeywordTimeoutSec)
	}
	if cfg.Storage.KeyPrefix != "paperdex:" {
		t.Errorf("expected KeyPrefix='paperdex:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database:  DatabaseConfig{Driver: "redis", ReadinessTimeout: 15},
		Retrieval: RetrievalConfig{SemanticTimeoutSec: 20, KeywordTimeoutSec: 4},
		Storage:   StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Retrieval.SemanticTimeoutSec != 20 {
		t.Errorf("expected SemanticTimeoutSec=20, got %d", cfg.Retrieval.SemanticTimeoutSec)
	}
	if cfg.Retrieval.KeywordTimeoutSec != 4 {
		t.Errorf("expected KeywordTimeoutSec=4, got %d", cfg.Retrieval.KeywordTimeoutSec)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PAPERDEX_TEST_ADDR", "redis:6379")

	in := []byte("addrs: [\"${PAPERDEX_TEST_ADDR}\"]\npassword: \"${PAPERDEX_TEST_UNSET:-fallback}\"")
	out := string(expandEnvVars(in))

	if out != "addrs: [\"redis:6379\"]\npassword: \"fallback\"" {
		t.Errorf("unexpected expansion: %q", out)
	}
}
