package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the runwrap version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("runwrap %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
