package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weakphish/notevault/internal/vaultpath"
)

// GetCmd lists the index rows under a subpath without touching disk.
func GetCmd(cmd *cobra.Command, args []string) {
	v, err := openVault(cmd)
	if err != nil {
		fail(cmd, err)
		return
	}
	defer v.Close()

	path := vaultpath.Root()
	if len(args) > 0 {
		path = vaultpath.FromString(args[0])
	}
	recursive, _ := cmd.Flags().GetBool("recursive")

	entries, details, err := v.GetNotes(path, recursive)
	if err != nil {
		fail(cmd, err)
		return
	}
	printResult(cmd,
		map[string]interface{}{"entries": entries, "details": details},
		fmt.Sprintf("%d note(s) under %s", len(entries), path.String()))
}
