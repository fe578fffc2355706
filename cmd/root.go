package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/browser-conf/internal/app"
	"github.com/firefly-engineering/browser-conf/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	stateDir   string
)

var rootCmd = &cobra.Command{
	Use:   "browser-conf",
	Short: "Declarative configuration for the Zen browser",
	Long: `browser-conf compiles one configuration document into the files the
Zen browser reads:

  - user.js in the profile directory (preferences and toolbar layout)
  - distribution/policies.json in the installation (extensions,
    certificates, search engines and containers)
  - a setup guide for the steps that cannot be automated`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
		if stateDir != "" {
			app.Default.Paths = app.Default.Paths.WithStateDir(stateDir)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Directory for the apply history")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
