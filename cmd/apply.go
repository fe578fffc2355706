package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/browser-conf/internal/app"
	"github.com/firefly-engineering/browser-conf/internal/apply"
	"github.com/firefly-engineering/browser-conf/internal/audit"
	"github.com/firefly-engineering/browser-conf/internal/logging"
)

var (
	applyDryRun  bool
	applyNoOpen  bool
	applyCatalog string
)

var applyCmd = &cobra.Command{
	Use:   "apply [config]",
	Short: "Write the browser configuration",
	Long: `Apply compiles the configuration document (config.yaml by default) and
writes user.js into the profile and policies.json into the installation.

Search keywords are added to the profile's bookmarks, configured mods are
looked up in the theme store and opened for installation, and a setup
guide listing the remaining manual steps is written next to the profiles.
Files whose content would not change are left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show what would change without writing anything")
	applyCmd.Flags().BoolVar(&applyNoOpen, "no-open", false, "Do not open mod pages or the setup guide in the browser")
	applyCmd.Flags().StringVar(&applyCatalog, "catalog", "", "Mods catalog URL or file (overrides mods_catalog)")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args)
	if err != nil {
		return err
	}

	orch, err := app.Default.Orchestrator(doc)
	if err != nil {
		return err
	}

	opts := apply.Options{
		DryRun:        applyDryRun,
		OpenMods:      !applyNoOpen,
		OpenGuide:     !applyNoOpen,
		CatalogSource: applyCatalog,
	}
	res, runErr := orch.Run(cmd.Context(), doc, opts)

	if err := app.Default.History().Log(audit.FromResult(doc.Source, res, applyDryRun)); err != nil {
		logging.Warn("failed to record apply history", "error", err)
	}

	if runErr != nil {
		printWarnings(res.Warnings)
		logError("apply stopped at %s", stateBefore(res))
		return runErr
	}

	displayApplyResult(res, applyDryRun)
	return nil
}

// stateBefore names the last state reached before a failure.
func stateBefore(res *apply.Result) string {
	if n := len(res.Transitions); n >= 2 {
		return res.Transitions[n-2].String()
	}
	return res.State.String()
}

// displayApplyResult shows the summary of a run, then its warnings.
func displayApplyResult(res *apply.Result, dryRun bool) {
	title := "Applied profile " + res.Profile.Name
	if dryRun {
		title = "Dry run for profile " + res.Profile.Name
	}
	logging.UserHeading(title)

	for _, f := range res.Files {
		switch {
		case !f.Changed:
			logInfo("unchanged  %s", f.Path)
		case dryRun:
			logInfo("would write  %s", f.Path)
		case f.Privileged:
			logSuccess("wrote  %s (elevated)", f.Path)
		default:
			logSuccess("wrote  %s", f.Path)
		}
	}

	if res.Places != nil {
		logInfo("search keywords: %d added, %d updated", len(res.Places.Created), len(res.Places.Updated))
	}
	if len(res.Resolved) > 0 || len(res.ModWarnings) > 0 {
		logInfo("mods: %d resolved, %d need attention", len(res.Resolved), len(res.ModWarnings))
	}
	if res.GuidePath != "" {
		logInfo("setup guide: %s", res.GuidePath)
	}

	printWarnings(res.Warnings)

	switch {
	case dryRun:
		logSuccess("Dry run complete, nothing written")
	case res.Changed():
		logSuccess("Configuration applied, restart the browser to pick it up")
	default:
		logSuccess("Configuration already up to date (%d files)", len(res.Files))
	}
}
