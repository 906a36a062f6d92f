package main

import (
	"fmt"
	"os"

	"github.com/weakphish/notevault/internal/config"
	"github.com/weakphish/notevault/internal/logging"
	"github.com/weakphish/notevault/internal/server"
	"github.com/weakphish/notevault/internal/vault"
)

func main() {
	cfg, err := config.Load(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logging.SetLevel(cfg.LogLevel)
	logging.Infof("starting notevault-daemon (vault: %s)", cfg.VaultPath)

	v, err := vault.Open(cfg.VaultPath)
	if err != nil {
		logging.Errorf("failed to open vault: %v", err)
		os.Exit(1)
	}
	defer v.Close()

	if err := v.InitAndValidate(); err != nil {
		logging.Errorf("initial index validation failed: %v", err)
	} else {
		logging.Infof("index ready")
	}

	if err := server.Run(v); err != nil {
		logging.Errorf("server error: %v", err)
		os.Exit(1)
	}
}
