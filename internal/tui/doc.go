// Package tui provides terminal user interface components for browser-conf.
//
// This package uses the Bubble Tea framework for the interactive mod
// picker behind "browser-conf mods pick".
//
// # Mod Picker
//
// The picker lists the catalog grouped by author and lets the user check
// the mods to add to a configuration document:
//
//	result, err := tui.RunPicker(catalog.All(), alreadyConfiguredIDs)
//	if result.Action == tui.ActionConfirm {
//	    out, _ := mods.ReferencesYAML(result.Selected)
//	    fmt.Print(string(out))
//	}
//
// # Picker Features
//
//   - Mods grouped by author; headers are skipped while navigating
//   - Keyboard navigation (j/k or arrows) and filtering with /
//   - Space toggles a mod, Enter confirms, q or Esc quits
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
