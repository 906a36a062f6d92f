package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weakphish/notevault/internal/vault"
	"github.com/weakphish/notevault/internal/vaultmodel"
	"github.com/weakphish/notevault/internal/vaultpath"
)

// BrowseCmd reconciles and lists one subtree of the vault.
func BrowseCmd(cmd *cobra.Command, args []string) {
	v, err := openVault(cmd)
	if err != nil {
		fail(cmd, err)
		return
	}
	defer v.Close()

	mode, err := modeFlag(cmd)
	if err != nil {
		fail(cmd, err)
		return
	}
	recursive, _ := cmd.Flags().GetBool("recursive")

	path := vaultpath.Root()
	if len(args) > 0 {
		path = vaultpath.FromString(args[0])
	}

	observer := make(chan vaultmodel.SearchResult, 64)
	var seen []vaultmodel.SearchResult
	done := make(chan struct{})
	go func() {
		for r := range observer {
			seen = append(seen, r)
		}
		close(done)
	}()

	opts := vault.NewBrowseOptions(path).Recursive(recursive).WithMode(mode).WithObserver(observer).Build()
	browseErr := v.BrowseVault(opts)
	close(observer)
	<-done

	if browseErr != nil {
		fail(cmd, browseErr)
		return
	}
	printResult(cmd, seen, fmt.Sprintf("browsed %s, %d entries observed", path.String(), len(seen)))
}
