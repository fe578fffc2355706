package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitGeneralError, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitGeneralError, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
		{
			name:    "with key path",
			err:     ValidationError("config.zen.tabs", "unsupported value type %s", "sequence"),
			wantMsg: "config.zen.tabs: unsupported value type sequence",
		},
		{
			name:    "with path and cause",
			err:     ResourceError("/certs", "certificates directory does not exist", fmt.Errorf("stat failed")),
			wantMsg: "/certs: certificates directory does not exist: stat failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, "wrapped", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := New(ExitGeneralError, "no cause")
	if unwrapped := errNoCause.Unwrap(); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("disk full")

	tests := []struct {
		name     string
		err      *Error
		wantCode int
		wantKind Kind
	}{
		{"validation", ValidationError("a.b", "bad"), ExitValidationError, KindValidation},
		{"resource", ResourceError("/x", "missing", cause), ExitResourceError, KindResource},
		{"write", WriteError("/x/user.js", cause), ExitWriteError, KindWrite},
		{"config", ConfigError("parse failed", cause), ExitConfigError, KindConfig},
		{"general", New(ExitGeneralError, "oops"), ExitGeneralError, KindGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if tt.err.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", tt.err.Kind, tt.wantKind)
			}
		})
	}
}

func TestWriteError_KeepsPath(t *testing.T) {
	err := WriteError("/profile/user.js", fmt.Errorf("permission denied"))

	if err.Path != "/profile/user.js" {
		t.Errorf("Path = %q, want %q", err.Path, "/profile/user.js")
	}
	if err.Message != "failed to write output" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "Error",
			err:      ValidationError("containers", "duplicate"),
			wantCode: ExitValidationError,
		},
		{
			name:     "wrapped Error",
			err:      fmt.Errorf("outer: %w", WriteError("/tmp/x", nil)),
			wantCode: ExitWriteError,
		},
		{
			name:     "regular error",
			err:      fmt.Errorf("some error"),
			wantCode: ExitGeneralError,
		},
		{
			name:     "nil error",
			err:      nil,
			wantCode: ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.wantCode {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	wrapped := fmt.Errorf("apply: %w", ValidationError("toolbar.currentVersion", "must be an integer"))

	if !IsKind(wrapped, KindValidation) {
		t.Error("IsKind should find wrapped validation error")
	}
	if IsKind(wrapped, KindWrite) {
		t.Error("IsKind should not match a different kind")
	}
	if IsKind(fmt.Errorf("plain"), KindValidation) {
		t.Error("IsKind should be false for plain errors")
	}
}

func TestErrorChaining(t *testing.T) {
	root := fmt.Errorf("root cause")
	middle := Wrap(ExitConfigError, "config error", root)
	outer := fmt.Errorf("operation failed: %w", middle)

	if !errors.Is(outer, root) {
		t.Error("errors.Is should find root cause")
	}

	var e *Error
	if !As(outer, &e) {
		t.Fatal("As should find Error")
	}
	if e.Code != ExitConfigError {
		t.Errorf("Code = %d, want %d", e.Code, ExitConfigError)
	}
	if !Is(outer, root) {
		t.Error("Is should find root cause")
	}
}
