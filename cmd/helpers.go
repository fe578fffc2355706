package cmd

import (
	"github.com/firefly-engineering/browser-conf/internal/app"
	"github.com/firefly-engineering/browser-conf/internal/config"
)

// paths returns the default paths configuration.
// This is a helper to reduce repetition in commands.
func paths() *config.Paths {
	return app.Default.Paths
}

// configArg returns the configuration path given on the command line, or
// the default file in the current directory.
func configArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return config.DefaultConfigFile
}

// loadDocument loads the configuration document named by args.
func loadDocument(args []string) (*config.Document, error) {
	return config.Load(configArg(args))
}

// printWarnings shows every collected warning once, after the summary.
func printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	logWarning("%d warning(s):", len(warnings))
	for _, w := range warnings {
		logWarning("  %s", w)
	}
}
