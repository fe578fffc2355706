package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/browser-conf/internal/app"
	"github.com/firefly-engineering/browser-conf/internal/apply"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Check a configuration document without writing anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args)
		if err != nil {
			return err
		}

		compiled, err := apply.Compile(app.Default.FS, doc)
		if err != nil {
			return err
		}

		printWarnings(compiled.Warnings)
		logSuccess("%s is valid (%d preferences, %d mods)", doc.Source, compiled.Prefs.Len(), len(doc.Mods))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
