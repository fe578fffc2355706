package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/browser-conf/internal/app"
	"github.com/firefly-engineering/browser-conf/internal/config"
	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/mods"
	"github.com/firefly-engineering/browser-conf/internal/tui"
)

var modsCatalog string

var modsCmd = &cobra.Command{
	Use:   "mods",
	Short: "Browse Zen mods in the theme store",
}

var modsListCmd = &cobra.Command{
	Use:   "list [config]",
	Short: "List the mods in the catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, catalog, err := loadCatalog(cmd, args)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write([]byte(tui.SimplePicker(catalog.All())))
		return err
	},
}

var modsPickCmd = &cobra.Command{
	Use:   "pick [config]",
	Short: "Choose mods interactively and print the zen_mods: block",
	Long: `Pick opens an interactive list of the catalog grouped by author. Mods
already referenced by the configuration document are preselected. On
confirm, the chosen mods are printed as a zen_mods: block.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, catalog, err := loadCatalog(cmd, args)
		if err != nil {
			return err
		}

		var preselected []string
		if doc != nil {
			resolved, _ := mods.Resolve(catalog, doc.Mods)
			for _, r := range resolved {
				preselected = append(preselected, r.Mod.ID)
			}
		}

		result, err := tui.RunPicker(catalog.All(), preselected)
		if err != nil {
			return err
		}
		if result.Action != tui.ActionConfirm {
			logInfo("No mods selected")
			return nil
		}

		out, err := mods.ReferencesYAML(result.Selected)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	modsCmd.PersistentFlags().StringVar(&modsCatalog, "catalog", "", "Mods catalog URL or file (overrides mods_catalog)")
	modsCmd.AddCommand(modsListCmd)
	modsCmd.AddCommand(modsPickCmd)
	rootCmd.AddCommand(modsCmd)
}

// loadOptionalDocument loads the named document. Without an argument the
// default file is used only when it exists.
func loadOptionalDocument(args []string) (*config.Document, error) {
	if len(args) == 0 {
		if _, err := os.Stat(config.DefaultConfigFile); err != nil {
			return nil, nil
		}
	}
	return loadDocument(args)
}

// loadCatalog fetches the catalog named by --catalog, or by the
// document's mods_catalog, or the public theme store.
func loadCatalog(cmd *cobra.Command, args []string) (*config.Document, *mods.Catalog, error) {
	doc, err := loadOptionalDocument(args)
	if err != nil {
		return nil, nil, err
	}

	source := modsCatalog
	if source == "" && doc != nil && doc.ModsCatalog != "" {
		source = doc.ModsCatalog
		if !mods.IsRemote(source) {
			source = doc.ResolvePath(source)
		}
	}

	catalog, err := app.Default.Catalog.Fetch(cmd.Context(), source)
	if err != nil {
		return nil, nil, errors.ResourceError(source, "failed to load the mods catalog", err)
	}
	return doc, catalog, nil
}
