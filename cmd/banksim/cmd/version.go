package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags, following the teacher's
// convention of a package-level var overridden by the linker.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the banksim version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
