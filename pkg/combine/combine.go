// Package combine runs one serialization: it resolves the rules, walks the
// repository and writes every block to the output target.
package combine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"repototext/pkg/external"
	"repototext/pkg/rules"
	"repototext/pkg/walker"

	"go.uber.org/zap"
)

// Run serializes opts.Root. Remote roots are cloned first and removed when
// the run ends. Only fatal failures are returned; per-file problems are logged
// and reported in the debug block.
func Run(ctx context.Context, opts Options, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()
	if opts.Root == "" {
		return nil, errors.New("no repository path given")
	}
	logger.Info("Starting serialization", zap.String("root", opts.Root))

	root := opts.Root
	if external.IsRemote(root) {
		cloner := opts.Cloner
		if cloner == nil {
			cloner = external.GitCloner{Logger: logger}
		}
		dir, cleanup, err := cloner.Clone(ctx, root)
		if err != nil {
			logger.Error("Failed to clone repository", zap.String("url", root), zap.Error(err))
			return nil, fmt.Errorf("failed to clone repository: %w", err)
		}
		defer cleanup()
		root = dir
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	if err := checkRoot(absRoot); err != nil {
		logger.Error("Invalid repository root", zap.String("root", absRoot), zap.Error(err))
		return nil, err
	}

	rs := rules.Resolve(logger, gatherContributions(absRoot, opts, logger)...)

	res, err := executeProcess(ctx, absRoot, rs, opts, logger)
	if err != nil {
		logger.Error("Serialization failed", zap.Error(err))
		return nil, err
	}
	res.Elapsed = time.Since(startTime)

	logger.Info("Serialization completed",
		zap.String("output", res.Output),
		zap.Int("files", res.Files),
		zap.Int("skipped", res.Skipped),
		zap.Duration("elapsed", res.Elapsed))

	if opts.Reveal {
		revealer := opts.Revealer
		if revealer == nil {
			revealer = external.DesktopRevealer{}
		}
		if err := revealer.Reveal(ctx, res.Output); err != nil {
			logger.Warn("Could not reveal output", zap.String("output", res.Output), zap.Error(err))
		}
	}
	return res, nil
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot access repository root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", walker.ErrRootNotDir, root)
	}
	return nil
}
