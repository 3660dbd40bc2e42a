// File: pkg/external/reveal.go
package external

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Revealer shows a finished output in the platform file manager.
type Revealer interface {
	Reveal(ctx context.Context, path string) error
}

// DesktopRevealer uses open, explorer or xdg-open depending on the OS.
type DesktopRevealer struct{}

// Reveal implements Revealer.
func (DesktopRevealer) Reveal(ctx context.Context, path string) error {
	name, args := revealCommand(runtime.GOOS, path)
	if err := exec.CommandContext(ctx, name, args...).Run(); err != nil {
		return fmt.Errorf("failed to reveal %s with %s: %w", path, name, err)
	}
	return nil
}

func revealCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{"-R", path}
	case "windows":
		return "explorer", []string{"/select," + path}
	default:
		// xdg-open cannot select a file, so open its directory.
		if filepath.Ext(path) != "" {
			path = filepath.Dir(path)
		}
		return "xdg-open", []string{path}
	}
}
