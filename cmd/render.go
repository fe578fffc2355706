package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/browser-conf/internal/app"
	"github.com/firefly-engineering/browser-conf/internal/apply"
	"github.com/firefly-engineering/browser-conf/internal/errors"
)

const (
	renderUserJS   = "userjs"
	renderPolicies = "policies"
	renderGuide    = "guide"
)

var (
	renderWhat    string
	renderCatalog string
)

var renderCmd = &cobra.Command{
	Use:   "render [config]",
	Short: "Print one generated file to stdout",
	Long: `Render prints what apply would write, without touching the profile or
the installation.

  --what userjs     the profile's user.js
  --what policies   the installation's policies.json
  --what guide      the HTML setup guide (looks up mods in the catalog)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderWhat, "what", renderUserJS, "File to render: userjs, policies or guide")
	renderCmd.Flags().StringVar(&renderCatalog, "catalog", "", "Mods catalog URL or file (overrides mods_catalog)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	switch renderWhat {
	case renderUserJS, renderPolicies, renderGuide:
	default:
		return errors.New(errors.ExitGeneralError, fmt.Sprintf("unknown --what %q (expected userjs, policies or guide)", renderWhat))
	}

	doc, err := loadDocument(args)
	if err != nil {
		return err
	}

	var out []byte
	var warnings []string
	if renderWhat == renderGuide {
		orch, err := app.Default.Orchestrator(doc)
		if err != nil {
			return err
		}
		res, err := orch.Run(cmd.Context(), doc, apply.Options{DryRun: true, CatalogSource: renderCatalog})
		if err != nil {
			return err
		}
		out, warnings = res.Guide, res.Warnings
	} else {
		compiled, err := apply.Compile(app.Default.FS, doc)
		if err != nil {
			return err
		}
		out, warnings = compiled.UserJS, compiled.Warnings
		if renderWhat == renderPolicies {
			out = compiled.Policies
		}
	}

	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return err
	}
	printWarnings(warnings)
	return nil
}
