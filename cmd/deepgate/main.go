package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName    = "deepgate"
	appVersion = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "WebSocket gateway for local development tools",
	Long: `Deepgate is a WebSocket gateway that exposes development tools
to AI agents and other clients over a single connection:
  - File operations (read, write with backup, list)
  - Recursive text search and in-place replacement
  - Sandboxed command execution with timeouts
  - Code assistance delegated to an AI collaborator`,
	Version: appVersion,
	// Piped stdin means a supervisor launched us: go straight to serving.
	Run: func(cmd *cobra.Command, args []string) {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			runServe(cmd, args)
		} else {
			cmd.Help()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ./deepgate.kdl)")

	rootCmd.AddCommand(serveCmd)

	rootCmd.SetVersionTemplate(fmt.Sprintf("%s v%s\n", appName, appVersion))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
