package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph FILE|NAME",
	Short: "Export the state graph of a machine",
	Long:  `Outputs a Graphviz (dot) or Mermaid description of the machine's states and rules.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		format, _ := cmd.Flags().GetString("format")
		permissive, _ := cmd.Flags().GetBool("permissive")
		return cli.Graph(cmd.Context(), os.Stdout, args[0], dir, format, permissive)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "dot", "Output format: dot or mermaid")
	graphCmd.Flags().Bool("permissive", false, "Draw the graph even if strict validation fails")
}
