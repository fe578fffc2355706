// Package generator renders the files the browser reads at startup.
//
// Every renderer is a pure function of its input, so rendering an
// unchanged configuration twice yields byte-identical output:
//
//   - UserJS renders a preference set as user.js, one user_pref line per
//     key in sorted order below a fixed header.
//   - Policies renders the enterprise policy manifest (policies.json).
//   - Guide renders the HTML setup guide for the steps that cannot be
//     automated: mods to install by hand, workspaces and essential tabs.
//
// The guide never embeds timestamps or run-specific state.
package generator
