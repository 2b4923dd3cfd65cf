package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the machine library",
	Long:  `List and add machines stored in --dir (Markdown with frontmatter, YAML or JSON).`,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the machines in the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		return cli.ListLibrary(cmd.Context(), os.Stdout, dir)
	},
}

var librarySaveCmd = &cobra.Command{
	Use:   "save FILE NAME",
	Short: "Validate a machine file and add it to the library",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if err := cli.Save(cmd.Context(), args[0], dir, args[1]); err != nil {
			return err
		}
		fmt.Printf("Saved '%s' to %s\n", args[1], dir)
		return nil
	},
}

func init() {
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(librarySaveCmd)
	rootCmd.AddCommand(libraryCmd)
}
