// Package cmd implements the neocortex CLI using cobra.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neocortex/neocortex/internal/config"
)

const version = "0.1.0"
const logo = "🧠"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "neocortex",
	Short: logo + " neocortex — voice-driven conversational agent",
	Long:  logo + " neocortex — a push-to-talk conversational agent with a persistent memory store",
}

// Execute runs the root command and exits on error. Configuration errors
// carry their own guidance and are printed without the usage noise.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(os.Stderr, cfgErr.Guidance)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(memoriesCmd)
	rootCmd.AddCommand(sayCmd)
}
