package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE|NAME",
	Short: "Check a machine for construction errors",
	Long:  `Validates a machine strictly and lists every incomplete, duplicate or malformed rule.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		return cli.Validate(cmd.Context(), os.Stdout, args[0], dir)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
