package config

import (
	"testing"

	"github.com/weakphish/notevault/internal/logging"
	"github.com/weakphish/notevault/internal/walker"
)

func TestFromSourcesDefaults(t *testing.T) {
	cfg, err := FromSources("", "", []string{"notevault-daemon"})
	if err != nil {
		t.Fatalf("FromSources: %v", err)
	}
	if cfg.VaultPath != "." {
		t.Fatalf("expected default vault path '.', got %q", cfg.VaultPath)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("expected default log level info, got %v", cfg.LogLevel)
	}
	if cfg.ValidationMode != walker.ModeFast {
		t.Fatalf("expected default validation mode fast, got %v", cfg.ValidationMode)
	}
	if cfg.Wildcard {
		t.Fatalf("expected wildcard to default false")
	}
}

func TestFromSourcesEnvLayering(t *testing.T) {
	cfg, err := FromSources("/vaults/main", "debug", []string{"notevault-daemon"})
	if err != nil {
		t.Fatalf("FromSources: %v", err)
	}
	if cfg.VaultPath != "/vaults/main" {
		t.Fatalf("expected env vault path, got %q", cfg.VaultPath)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("expected debug log level, got %v", cfg.LogLevel)
	}
}

func TestFromSourcesFlagsOverrideEnv(t *testing.T) {
	args := []string{"notevault-daemon", "--vault", "/flag/path", "--log-level", "warn", "--validation-mode", "full", "--wildcard"}
	cfg, err := FromSources("/env/path", "error", args)
	if err != nil {
		t.Fatalf("FromSources: %v", err)
	}
	if cfg.VaultPath != "/flag/path" {
		t.Fatalf("expected flag to override env vault path, got %q", cfg.VaultPath)
	}
	if cfg.LogLevel != logging.LevelWarn {
		t.Fatalf("expected flag to override env log level, got %v", cfg.LogLevel)
	}
	if cfg.ValidationMode != walker.ModeFull {
		t.Fatalf("expected full validation mode, got %v", cfg.ValidationMode)
	}
	if !cfg.Wildcard {
		t.Fatalf("expected wildcard true")
	}
}

func TestFromSourcesRejectsUnknownFlag(t *testing.T) {
	_, err := FromSources("", "", []string{"notevault-daemon", "--bogus"})
	if err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}

func TestFromSourcesRejectsInvalidValidationMode(t *testing.T) {
	_, err := FromSources("", "", []string{"notevault-daemon", "--validation-mode", "turbo"})
	if err == nil {
		t.Fatalf("expected error for invalid validation mode")
	}
}
