package config

import (
	"fmt"
	"os"

	"github.com/weakphish/notevault/internal/logging"
	"github.com/weakphish/notevault/internal/walker"
)

// Config captures CLI/env derived runtime options.
type Config struct {
	VaultPath      string
	LogLevel       logging.Level
	ValidationMode walker.Mode
	Wildcard       bool
}

// Load reads environment variables and CLI args to produce a Config.
func Load(args []string) (Config, error) {
	return FromSources(os.Getenv("NOTE_VAULT_PATH"), os.Getenv("NOTE_DAEMON_LOG"), args)
}

// FromSources is the testable core of Load: env values and args are passed
// in explicitly instead of read from the process.
func FromSources(vaultEnv, logEnv string, args []string) (Config, error) {
	cfg := Config{
		VaultPath:      ".",
		LogLevel:       logging.LevelInfo,
		ValidationMode: walker.ModeFast,
		Wildcard:       false,
	}
	if vaultEnv != "" {
		cfg.VaultPath = vaultEnv
	}
	if logEnv != "" {
		level, err := logging.ParseLevel(logEnv)
		if err != nil {
			return cfg, err
		}
		cfg.LogLevel = level
	}

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--vault", "-v":
			i++
			if i >= len(args) {
				return cfg, fmt.Errorf("--vault expects a following path")
			}
			cfg.VaultPath = args[i]
		case "--log-level", "-l":
			i++
			if i >= len(args) {
				return cfg, fmt.Errorf("--log-level expects a value")
			}
			level, err := logging.ParseLevel(args[i])
			if err != nil {
				return cfg, err
			}
			cfg.LogLevel = level
		case "--validation-mode":
			i++
			if i >= len(args) {
				return cfg, fmt.Errorf("--validation-mode expects a value")
			}
			mode, err := parseValidationMode(args[i])
			if err != nil {
				return cfg, err
			}
			cfg.ValidationMode = mode
		case "--wildcard":
			cfg.Wildcard = true
		case "--help", "-h":
			return cfg, fmt.Errorf("usage: %s", Usage())
		default:
			return cfg, fmt.Errorf("unrecognized argument %q. Usage: %s", args[i], Usage())
		}
	}

	return cfg, nil
}

func parseValidationMode(value string) (walker.Mode, error) {
	switch value {
	case "none":
		return walker.ModeNone, nil
	case "fast":
		return walker.ModeFast, nil
	case "full":
		return walker.ModeFull, nil
	default:
		return walker.ModeFast, fmt.Errorf("invalid validation mode %q (want none|fast|full)", value)
	}
}

// Usage returns the CLI usage text.
func Usage() string {
	return "notevault-daemon [--vault PATH] [--log-level error|warn|info|debug] [--validation-mode none|fast|full] [--wildcard]"
}
