package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SearchCmd runs a full-text query against the vault's index.
func SearchCmd(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fail(cmd, fmt.Errorf("search requires a query term"))
		return
	}
	v, err := openVault(cmd)
	if err != nil {
		fail(cmd, err)
		return
	}
	defer v.Close()

	wildcard, _ := cmd.Flags().GetBool("wildcard")
	results, err := v.SearchNotes(args[0], wildcard)
	if err != nil {
		fail(cmd, err)
		return
	}
	printResult(cmd, results, fmt.Sprintf("%d result(s) for %q", len(results), args[0]))
}
