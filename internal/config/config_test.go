package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("DataBackend = %q, want memory", cfg.DataBackend)
	}
	if cfg.FundAmount != 1_000_000 {
		t.Errorf("FundAmount = %d, want 1000000", cfg.FundAmount)
	}
	if cfg.FixedTransferAmount != 400_000 {
		t.Errorf("FixedTransferAmount = %d, want 400000", cfg.FixedTransferAmount)
	}
	if cfg.RecomputeInterval != 5*time.Minute {
		t.Errorf("RecomputeInterval = %v, want 5m", cfg.RecomputeInterval)
	}
	if cfg.AMQPExchange != "jeongsan" || cfg.AMQPQueue != "period_dirty" {
		t.Errorf("AMQP defaults = %q/%q", cfg.AMQPExchange, cfg.AMQPQueue)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", t.TempDir()+"/test.db")
	t.Setenv("FUND_AMOUNT_WON", "2500000")
	t.Setenv("RECOMPUTE_INTERVAL", "30s")
	t.Setenv("DIRECT_COLLECTOR", "Dave Choi")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Errorf("DataBackend = %q", cfg.DataBackend)
	}
	if cfg.FundAmount != 2500000 {
		t.Errorf("FundAmount = %d", cfg.FundAmount)
	}
	if cfg.RecomputeInterval != 30*time.Second {
		t.Errorf("RecomputeInterval = %v", cfg.RecomputeInterval)
	}
	if cfg.DirectCollector != "Dave Choi" {
		t.Errorf("DirectCollector = %q", cfg.DirectCollector)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Load()
	cfg.Port = "not-a-port"
	cfg.DataBackend = "oracle"
	cfg.AMQPURL = "http://wrong-scheme"
	cfg.FundAmount = -1
	cfg.RecomputeInterval = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid config accepted")
	}

	msg := err.Error()
	for _, fragment := range []string{"port", "backend", "AMQP", "fund amount", "recompute interval"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("error message missing %q: %s", fragment, msg)
		}
	}
}

func TestValidateFixedTransferParties(t *testing.T) {
	cfg := Load()
	cfg.FixedTransferFrom = "Carol Park"
	cfg.FixedTransferTo = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("fixed transfer with one party accepted")
	}

	cfg.FixedTransferTo = "Dave Choi"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("fully named fixed transfer rejected: %v", err)
	}

	// Both parties unset disables the seeded transfer entirely.
	cfg.FixedTransferFrom = ""
	cfg.FixedTransferTo = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled fixed transfer rejected: %v", err)
	}
}
