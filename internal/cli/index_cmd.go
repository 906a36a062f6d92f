package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weakphish/notevault/internal/walker"
)

// IndexCmd reconciles the whole vault against disk.
func IndexCmd(cmd *cobra.Command, args []string) {
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
	if err := v.IndexNotes(mode); err != nil {
		fail(cmd, err)
		return
	}
	printResult(cmd, map[string]string{"status": "ok"}, "index complete")
}

// StatusCmd reports the index's health and note count after validating it.
func StatusCmd(cmd *cobra.Command, args []string) {
	v, err := openVault(cmd)
	if err != nil {
		fail(cmd, err)
		return
	}
	defer v.Close()

	status, err := v.Status()
	if err != nil {
		fail(cmd, err)
		return
	}
	entries, _, err := v.GetNotes(rootPath(), true)
	if err != nil {
		fail(cmd, err)
		return
	}
	printResult(cmd,
		map[string]interface{}{"status": status, "note_count": len(entries)},
		fmt.Sprintf("status: %s, %d notes indexed", status, len(entries)))
}

func modeFlag(cmd *cobra.Command) (walker.Mode, error) {
	value, err := cmd.Flags().GetString("mode")
	if err != nil {
		return walker.ModeFast, err
	}
	switch value {
	case "", "fast":
		return walker.ModeFast, nil
	case "none":
		return walker.ModeNone, nil
	case "full":
		return walker.ModeFull, nil
	default:
		return walker.ModeFast, fmt.Errorf("invalid --mode %q (want none|fast|full)", value)
	}
}
