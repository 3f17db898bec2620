package cmd

import (
	"fmt"
	goruntime "runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the API the client talks to",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s (%s)\n", app, version, goruntime.Version())
		fmt.Printf("api: %s\n", viper.GetString("api-url"))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
