// File: pkg/external/tree.go
package external

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"repototext/pkg/rules"

	"go.uber.org/zap"
)

// TreeRenderer produces the text of the tree block.
type TreeRenderer interface {
	Render(ctx context.Context, root string, rs *rules.RuleSet) (string, error)
}

// Tree renderer modes accepted by NewTreeRenderer.
const (
	TreeAuto   = "auto"
	TreeExec   = "exec"
	TreeNative = "native"
	TreeNone   = "none"
)

// ErrTreeDisabled is returned by NoTree.
var ErrTreeDisabled = errors.New("tree rendering disabled")

// NewTreeRenderer picks a renderer for mode. In auto mode the external `tree`
// program is used when it is on PATH, the native renderer otherwise.
func NewTreeRenderer(mode string, logger *zap.Logger) (TreeRenderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch mode {
	case TreeAuto, "":
		if path, err := exec.LookPath("tree"); err == nil {
			logger.Debug("Using external tree program", zap.String("path", path))
			return ExecTree{Command: path}, nil
		}
		logger.Debug("tree program not found, using native renderer")
		return NativeTree{Logger: logger}, nil
	case TreeExec:
		return ExecTree{}, nil
	case TreeNative:
		return NativeTree{Logger: logger}, nil
	case TreeNone:
		return NoTree{}, nil
	default:
		return nil, fmt.Errorf("unknown tree renderer %q (want %s, %s, %s or %s)", mode, TreeAuto, TreeExec, TreeNative, TreeNone)
	}
}

// ExecTree runs the external `tree` program with `-I <tree exclude>`.
type ExecTree struct {
	Command string // Defaults to "tree".
}

// Render returns the program's stdout, invalid UTF-8 replaced.
func (t ExecTree) Render(ctx context.Context, root string, rs *rules.RuleSet) (string, error) {
	bin := t.Command
	if bin == "" {
		bin = "tree"
	}
	var args []string
	if rs != nil && rs.TreeExclude() != "" {
		args = append(args, "-I", rs.TreeExclude())
	}
	args = append(args, root)

	out, err := exec.CommandContext(ctx, bin, args...).Output()
	if err != nil {
		return "", fmt.Errorf("error running tree command: %w", err)
	}
	return strings.ToValidUTF8(string(out), "�"), nil
}

// NoTree never renders anything.
type NoTree struct{}

// Render always fails with ErrTreeDisabled.
func (NoTree) Render(context.Context, string, *rules.RuleSet) (string, error) {
	return "", ErrTreeDisabled
}

// NativeTree draws the tree in-process, hiding entries the rule set excludes.
type NativeTree struct {
	Logger *zap.Logger
}

// Render lists root with directories first, then files, alphabetically.
func (t NativeTree) Render(ctx context.Context, root string, rs *rules.RuleSet) (string, error) {
	logger := t.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("cannot stat path for tree generation: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("tree root %s is not a directory", root)
	}

	c := &treeCounter{}
	lines := []string{root}
	sub, err := generateTreeRecursively(ctx, root, "", "", rs, c, logger)
	if err != nil {
		return "", err
	}
	lines = append(lines, sub...)
	lines = append(lines, "", fmt.Sprintf("%d directories, %d files", c.dirs, c.files))
	return strings.Join(lines, "\n") + "\n", nil
}

type treeCounter struct {
	dirs, files int
}

// generateTreeRecursively builds the lines below directory.
func generateTreeRecursively(ctx context.Context, directory, rel, prefix string, rs *rules.RuleSet, c *treeCounter, logger *zap.Logger) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		logger.Warn("Failed to read directory for tree structure", zap.String("directory", directory), zap.Error(err))
		return nil, nil
	}

	type item struct {
		name  string
		rel   string
		isDir bool
	}
	var items []item
	for _, entry := range entries {
		entryRel := entry.Name()
		if rel != "" {
			entryRel = rel + "/" + entry.Name()
		}
		isDir := entry.IsDir()
		if rs != nil && rs.Excludes(entryRel, isDir) {
			continue
		}
		items = append(items, item{name: entry.Name(), rel: entryRel, isDir: isDir})
	}

	// Directories first, then files, alphabetically.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].isDir != items[j].isDir {
			return items[i].isDir
		}
		return strings.ToLower(items[i].name) < strings.ToLower(items[j].name)
	})

	var output []string
	for i, it := range items {
		connector := "├── "
		extension := "│   "
		if i == len(items)-1 {
			connector = "└── "
			extension = "    "
		}

		if !it.isDir {
			c.files++
			output = append(output, prefix+connector+it.name)
			continue
		}

		c.dirs++
		output = append(output, prefix+connector+it.name+"/")
		sub, err := generateTreeRecursively(ctx, filepath.Join(directory, it.name), it.rel, prefix+extension, rs, c, logger)
		if err != nil {
			return nil, err
		}
		output = append(output, sub...)
	}
	return output, nil
}
