// File: pkg/external/clone.go
package external

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Cloner fetches a remote repository into a local directory. cleanup removes
// the directory and is safe to call once the run is done.
type Cloner interface {
	Clone(ctx context.Context, url string) (dir string, cleanup func(), err error)
}

// IsRemote reports whether root names a git remote rather than a local path.
func IsRemote(root string) bool {
	for _, prefix := range []string{"https://", "http://", "ssh://", "git://", "git@"} {
		if strings.HasPrefix(root, prefix) {
			return true
		}
	}
	return false
}

// GitCloner shallow-clones with `git clone --depth 1` into a temp directory.
type GitCloner struct {
	Command string // Defaults to "git".
	Logger  *zap.Logger
}

// Clone implements Cloner.
func (g GitCloner) Clone(ctx context.Context, url string) (string, func(), error) {
	logger := g.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bin := g.Command
	if bin == "" {
		bin = "git"
	}

	dir, err := os.MkdirTemp("", "repototext-clone-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create clone directory: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("Failed to remove clone directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	logger.Info("Cloning repository", zap.String("url", url), zap.String("dir", dir))
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "clone", "--depth", "1", "--quiet", url, dir)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("git clone %s failed: %w: %s", url, err, strings.TrimSpace(stderr.String()))
	}
	return dir, cleanup, nil
}
