package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run FILE|NAME",
	Short: "Run a machine and animate its tape",
	Long: `Runs a machine from a YAML/JSON file, or by name from the library in --dir.
On a terminal the tape is redrawn in place; otherwise every frame is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		interval, _ := cmd.Flags().GetDuration("interval")
		maxSteps, _ := cmd.Flags().GetInt("max-steps")
		micro, _ := cmd.Flags().GetBool("micro")
		plain, _ := cmd.Flags().GetBool("plain")
		permissive, _ := cmd.Flags().GetBool("permissive")

		if !cmd.Flags().Changed("interval") && !plain && term.IsTerminal(int(os.Stdout.Fd())) {
			interval = cli.DefaultInterval
		}

		return cli.Run(cmd.Context(), cli.RunOptions{
			Source:     args[0],
			Dir:        dir,
			Interval:   interval,
			MaxSteps:   maxSteps,
			Micro:      micro,
			Plain:      plain,
			Permissive: permissive,
			Out:        os.Stdout,
			Logger:     logger,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Duration("interval", 0, "Delay between micro-steps (default 150ms on a terminal, none otherwise)")
	runCmd.Flags().Int("max-steps", 0, "Stop after this many micro-steps (0 = no limit)")
	runCmd.Flags().Bool("micro", false, "Draw every micro-step instead of whole transitions")
	runCmd.Flags().Bool("plain", false, "Never animate in place")
	runCmd.Flags().Bool("permissive", false, "Accept duplicate rules (last wins) and unknown head actions")
}
