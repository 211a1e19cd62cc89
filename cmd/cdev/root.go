package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cdev",
	Short: "Parallel task decomposition for coding agents",
	Long: `cdev decomposes a natural-language work item into parallel agent
work units with exclusive, non-overlapping file sets, computes a safe merge
order from inferred dependencies, and validates after execution that no two
agents touched the same file.

Typical flow:
  cdev split PROJ-123 --file issue.txt   # generate a deployment plan
  (external agents execute and drop completion reports)
  cdev validate PROJ-123 --watch         # wait for reports, check conflicts
  cdev status                            # inspect plans and agent state`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
