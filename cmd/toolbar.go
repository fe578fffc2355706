package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/toolbar"
)

var toolbarCmd = &cobra.Command{
	Use:   "toolbar",
	Short: "Work with the toolbar layout",
}

var toolbarImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Convert a copied toolbar state into a toolbar: block",
	Long: `Import converts the value of browser.uiCustomization.state into YAML
that can be pasted into the configuration document.

Copy the value from about:config (or from prefs.js, quoted), then either
pass the file holding it or pipe it on stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 && args[0] != "-" {
			data, err = os.ReadFile(args[0])
			if err != nil {
				return errors.ConfigError("failed to read "+args[0], err)
			}
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return errors.ConfigError("failed to read stdin", err)
			}
		}

		out, err := toolbar.ImportYAML(data)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	toolbarCmd.AddCommand(toolbarImportCmd)
	rootCmd.AddCommand(toolbarCmd)
}
