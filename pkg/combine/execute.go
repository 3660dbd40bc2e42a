// File: pkg/combine/execute.go
package combine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"repototext/pkg/external"
	"repototext/pkg/rules"
	"repototext/pkg/serialize"
	"repototext/pkg/walker"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// executeProcess writes the file blocks, the tree block and the debug block.
// The target is closed on every path.
func executeProcess(ctx context.Context, root string, rs *rules.RuleSet, opts Options, logger *zap.Logger) (res *Result, err error) {
	target, err := openTarget(opts, time.Now())
	if err != nil {
		return nil, err
	}
	logger.Debug("Opened output", zap.String("path", target.Path()), zap.Bool("split", target.Split()))
	defer func() {
		if cerr := target.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close output: %w", cerr))
			res = nil
		}
	}()

	ser := serialize.NewSerializer(opts.Label, logger)
	w := walker.New(root, rs, walker.Options{
		FollowSymlinks: opts.FollowSymlinks,
		MaxFileSizeKB:  opts.MaxFileSizeKB,
		Omit:           []string{target.Path()},
	}, logger)

	progress := newProgressReporter(opts.Quiet)
	progress.OnStart()
	walkErr := w.Walk(func(c walker.Candidate) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ser.WriteFile(target.Code, c); err != nil {
			return err
		}
		progress.OnFileWritten()
		return nil
	})
	progress.OnFinish()
	if walkErr != nil {
		return nil, fmt.Errorf("failed to serialize files: %w", walkErr)
	}

	treeWritten, err := writeTree(ctx, root, rs, opts.Tree, ser, target, logger)
	if err != nil {
		return nil, err
	}

	if opts.Split || opts.DebugBlock {
		if err := ser.WriteDebug(target.Debug, debugReport(root, rs, w, ser)); err != nil {
			return nil, err
		}
	}

	return &Result{
		Output:  target.Path(),
		Root:    root,
		Files:   ser.Written(),
		Skipped: len(w.Skipped()) + len(ser.Skipped()),
		Tree:    treeWritten,
	}, nil
}

func openTarget(opts Options, now time.Time) (*serialize.Target, error) {
	path := opts.Output
	if path == "" {
		path = serialize.DefaultPath(now, opts.Split)
	}
	if opts.Split {
		return serialize.OpenSplit(path)
	}
	return serialize.OpenCombined(path)
}

// writeTree renders and writes the tree block. A failing renderer only costs
// the block.
func writeTree(ctx context.Context, root string, rs *rules.RuleSet, renderer external.TreeRenderer, ser *serialize.Serializer, target *serialize.Target, logger *zap.Logger) (bool, error) {
	if renderer == nil {
		var err error
		if renderer, err = external.NewTreeRenderer(external.TreeAuto, logger); err != nil {
			return false, err
		}
	}

	text, err := renderer.Render(ctx, root, rs)
	if err != nil {
		if errors.Is(err, external.ErrTreeDisabled) {
			logger.Debug("Tree block disabled")
		} else {
			logger.Warn("Tree rendering failed, omitting tree block", zap.Error(err))
		}
		return false, nil
	}

	if err := ser.WriteTree(target.Tree, text); err != nil {
		return false, err
	}
	return strings.TrimRight(text, "\n") != "", nil
}
