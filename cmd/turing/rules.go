package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules FILE|NAME",
	Short: "Print the rule table of a machine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		return cli.Rules(cmd.Context(), os.Stdout, args[0], dir)
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
