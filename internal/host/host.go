// Package host performs the side effects the apply run cannot do itself:
// opening pages in the browser and installing files that need elevated
// permissions.
package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/browser-conf/internal/logging"
	"github.com/firefly-engineering/browser-conf/internal/system"
)

// Host is the narrow set of host-process side effects.
type Host interface {
	// OpenURL opens url in the configured browser without waiting for it.
	OpenURL(ctx context.Context, url string) error
	// InstallPrivileged writes data to path with elevated permissions.
	InstallPrivileged(ctx context.Context, path string, data []byte) error
}

// SystemHost implements Host with the local browser and sudo.
type SystemHost struct {
	exec    system.CommandExecutor
	fs      system.FileSystem
	browser []string
	tempDir string
}

// Option configures a SystemHost.
type Option func(*SystemHost)

// WithTempDir sets the directory used to stage privileged installs.
func WithTempDir(dir string) Option {
	return func(h *SystemHost) { h.tempDir = dir }
}

// New creates a SystemHost that launches browserCommand, a shell-quoted
// command line such as "flatpak run app.zen_browser.zen".
func New(exec system.CommandExecutor, fsys system.FileSystem, browserCommand string, opts ...Option) (*SystemHost, error) {
	argv, err := shellquote.Split(browserCommand)
	if err != nil {
		return nil, fmt.Errorf("invalid browser command %q: %w", browserCommand, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("browser command is empty")
	}

	h := &SystemHost{
		exec:    exec,
		fs:      fsys,
		browser: argv,
		tempDir: os.TempDir(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// BrowserArgv returns the parsed browser command.
func (h *SystemHost) BrowserArgv() []string {
	return append([]string(nil), h.browser...)
}

// OpenURL starts the browser with url as its last argument.
func (h *SystemHost) OpenURL(ctx context.Context, url string) error {
	args := append(append([]string(nil), h.browser[1:]...), url)
	logging.Debug("opening URL", "browser", h.browser[0], "url", url)
	if err := h.exec.Start(h.browser[0], args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// InstallPrivileged stages data in a temporary file and moves it into
// place with sudo. A non-interactive attempt is made first so cached
// credentials avoid a password prompt.
func (h *SystemHost) InstallPrivileged(ctx context.Context, path string, data []byte) error {
	staged, err := h.fs.WriteTempFile(h.tempDir, "browser-conf-*-"+filepath.Base(path), data)
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", path, err)
	}
	defer func() { _ = h.fs.Remove(staged) }()

	// install -D creates the distribution directory; the rename keeps the
	// replacement atomic for a browser reading the file.
	tmp := path + ".tmp"
	steps := [][]string{
		{"install", "-D", "-m", "0644", staged, tmp},
		{"mv", "-f", tmp, path},
	}
	for _, step := range steps {
		if err := h.sudo(ctx, step); err != nil {
			return fmt.Errorf("privileged install of %s failed: %w", path, err)
		}
	}
	return nil
}

func (h *SystemHost) sudo(ctx context.Context, argv []string) error {
	nonInteractive := append([]string{"-n"}, argv...)
	if _, err := h.exec.Execute(ctx, "sudo", nonInteractive...); err == nil {
		return nil
	}
	logging.UserInfo("Elevated permissions needed: sudo %s", shellquote.Join(argv...))
	return h.exec.ExecuteInteractive(ctx, "sudo", argv...)
}
