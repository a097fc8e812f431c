// Command scorectl scores answers offline and administers a scorer
// deployment from the shell.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "scorectl",
	Short:         "Offline answer scoring and scorer administration",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
