// Package logging provides logging utilities for browser-conf.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("flattened preferences", "count", len(set))
//	logging.Warn("catalog fetch failed", "url", url, "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserHeading("Applying config.yaml")
//	logging.UserInfo("Profile: %s", profileDir)
//	logging.UserSuccess("Wrote %s", path)
//	logging.UserWarning("Mod %q not found in catalog", ref)
//	logging.UserError("Apply failed: %v", err)
//
// Output destinations:
//   - UserHeading, UserInfo, UserSuccess: Stdout
//   - UserWarning, UserError: Stderr
//
// Both writers are package variables so tests can capture them.
//
// # Status Indicators
//
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
