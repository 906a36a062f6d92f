package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/weakphish/notevault/internal/vaultpath"
)

// LoadCmd prints a single note's text.
func LoadCmd(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fail(cmd, fmt.Errorf("load requires a note path"))
		return
	}
	v, err := openVault(cmd)
	if err != nil {
		fail(cmd, err)
		return
	}
	defer v.Close()

	text, err := v.LoadNote(vaultpath.FromString(args[0]))
	if err != nil {
		fail(cmd, err)
		return
	}
	printResult(cmd, map[string]string{"text": text}, text)
}

// SaveCmd overwrites a note's text with --text, or stdin's contents if
// --text is empty.
func SaveCmd(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fail(cmd, fmt.Errorf("save requires a note path"))
		return
	}
	text, err := readBody(cmd)
	if err != nil {
		fail(cmd, err)
		return
	}

	v, err := openVault(cmd)
	if err != nil {
		fail(cmd, err)
		return
	}
	defer v.Close()

	if err := v.SaveNote(vaultpath.FromString(args[0]), text); err != nil {
		fail(cmd, err)
		return
	}
	printResult(cmd, map[string]string{"status": "ok"}, "saved")
}

// CreateCmd writes a brand-new note, failing if one already exists there.
func CreateCmd(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fail(cmd, fmt.Errorf("create requires a note path"))
		return
	}
	text, err := readBody(cmd)
	if err != nil {
		fail(cmd, err)
		return
	}

	v, err := openVault(cmd)
	if err != nil {
		fail(cmd, err)
		return
	}
	defer v.Close()

	if err := v.CreateNote(vaultpath.FromString(args[0]), text); err != nil {
		fail(cmd, err)
		return
	}
	printResult(cmd, map[string]string{"status": "ok"}, "created")
}

// JournalCmd opens (creating if necessary) today's journal entry.
func JournalCmd(cmd *cobra.Command, args []string) {
	v, err := openVault(cmd)
	if err != nil {
		fail(cmd, err)
		return
	}
	defer v.Close()

	path, text, err := v.JournalEntry()
	if err != nil {
		fail(cmd, err)
		return
	}
	printResult(cmd, map[string]string{"path": path.String(), "text": text}, text)
}

// readBody reads a note's new text from --text if given, otherwise stdin.
func readBody(cmd *cobra.Command) (string, error) {
	if text, _ := cmd.Flags().GetString("text"); text != "" {
		return text, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading note body from stdin: %w", err)
	}
	return string(data), nil
}
