// Command notevault is the CLI entrypoint: a cobra command tree executed
// through fang for styled help and error output.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/weakphish/notevault/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "notevault",
		Short: "notevault indexes, searches, and edits a Markdown note vault",
	}

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "reconcile the whole vault against disk",
		Run:   cli.IndexCmd,
	}
	indexCmd.Flags().String("mode", "fast", "validation mode: none|fast|full")

	browseCmd := &cobra.Command{
		Use:   "browse [path]",
		Short: "reconcile and list one subtree of the vault",
		Args:  cobra.MaximumNArgs(1),
		Run:   cli.BrowseCmd,
	}
	browseCmd.Flags().String("mode", "fast", "validation mode: none|fast|full")
	browseCmd.Flags().Bool("recursive", false, "descend into child directories")

	searchCmd := &cobra.Command{
		Use:   "search <terms>",
		Short: "full-text search the vault's index",
		Args:  cobra.ExactArgs(1),
		Run:   cli.SearchCmd,
	}
	searchCmd.Flags().Bool("wildcard", false, "match across every indexed column, including path")

	getCmd := &cobra.Command{
		Use:   "get [path]",
		Short: "list index rows under a subpath",
		Args:  cobra.MaximumNArgs(1),
		Run:   cli.GetCmd,
	}
	getCmd.Flags().Bool("recursive", false, "descend into child directories")

	loadCmd := &cobra.Command{
		Use:   "load <path>",
		Short: "print a note's text",
		Args:  cobra.ExactArgs(1),
		Run:   cli.LoadCmd,
	}

	saveCmd := &cobra.Command{
		Use:   "save <path>",
		Short: "overwrite a note's text (from --text or stdin)",
		Args:  cobra.ExactArgs(1),
		Run:   cli.SaveCmd,
	}
	saveCmd.Flags().String("text", "", "note text (reads stdin if omitted)")

	createCmd := &cobra.Command{
		Use:   "create <path>",
		Short: "create a new note, failing if one already exists there",
		Args:  cobra.ExactArgs(1),
		Run:   cli.CreateCmd,
	}
	createCmd.Flags().String("text", "", "note text (reads stdin if omitted)")

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "open (creating if necessary) today's journal entry",
		Run:   cli.JournalCmd,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "report the index's health and note count",
		Run:   cli.StatusCmd,
	}

	for _, sub := range []*cobra.Command{
		indexCmd, browseCmd, searchCmd, getCmd, loadCmd, saveCmd, createCmd, journalCmd, statusCmd,
	} {
		cli.AddSharedFlags(sub)
		rootCmd.AddCommand(sub)
	}

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		slog.Error("failed to execute command", "error", err)
		os.Exit(1)
	}
}
