// Package errors provides typed errors with exit codes for browser-conf.
//
// # Error Types
//
// Error is the base error type that wraps an error with an exit code and,
// for validation failures, the offending configuration key path:
//
//	type Error struct {
//	    Code    int    // Exit code
//	    Kind    Kind   // validation, resource, write, config, general
//	    Path    string // Key path ("config.zen.tabs") or file path
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess         = 0 // Success
//	ExitGeneralError    = 1 // General/unknown errors
//	ExitValidationError = 2 // Malformed or contradictory configuration
//	ExitResourceError   = 3 // Missing certificate directory, unreadable file
//	ExitWriteError      = 4 // Output file could not be written
//	ExitConfigError     = 5 // Configuration document unreadable or unparsable
//
// # Error Constructors
//
//	errors.ValidationError("containers[1].name", "duplicate container name %q", name)
//	errors.ResourceError(dir, "certificates directory does not exist", err)
//	errors.WriteError(path, err)
//	errors.ConfigError("failed to parse config.yaml", err)
//
// Unresolved mod references are not errors; they are collected as warnings
// by the apply package and reported once at the end of a run.
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
