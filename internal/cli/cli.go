// Package cli holds the cobra command handlers for notevault: one handler
// function per verb, opening a Vault from the --vault flag and printing
// either human-readable text or JSON.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weakphish/notevault/internal/logging"
	"github.com/weakphish/notevault/internal/vault"
	"github.com/weakphish/notevault/internal/vaultpath"
)

// rootPath is the vault's top-level directory, /.
func rootPath() vaultpath.Path {
	return vaultpath.Root()
}

// VaultFlag is the --vault flag shared by every subcommand.
const VaultFlag = "vault"

// JSONFlag switches output from human-readable text to JSON.
const JSONFlag = "json"

func openVault(cmd *cobra.Command) (*vault.Vault, error) {
	path, err := cmd.Flags().GetString(VaultFlag)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = "."
	}
	v, err := vault.Open(path)
	if err != nil {
		return nil, err
	}
	if err := v.InitAndValidate(); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

func wantsJSON(cmd *cobra.Command) bool {
	asJSON, _ := cmd.Flags().GetBool(JSONFlag)
	return asJSON
}

func printResult(cmd *cobra.Command, value interface{}, text string) {
	if wantsJSON(cmd) {
		payload, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			logging.Errorf("marshal result: %v", err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(payload))
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
}

func fail(cmd *cobra.Command, err error) {
	logging.Errorf("%v", err)
	fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
}

// AddSharedFlags registers --vault and --json on every leaf command.
func AddSharedFlags(cmd *cobra.Command) {
	cmd.Flags().String(VaultFlag, ".", "path to the vault's workspace directory")
	cmd.Flags().Bool(JSONFlag, false, "emit JSON instead of human-readable text")
}
