// File: pkg/walker/walker.go
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"repototext/pkg/rules"

	"go.uber.org/zap"
)

// ErrRootNotDir is returned when the repository root is not a directory.
var ErrRootNotDir = errors.New("repository root is not a directory")

// Candidate is one accepted file.
type Candidate struct {
	Path   string // Absolute filesystem path.
	Rel    string // Root-relative path with '/' separators.
	IsFile bool
}

// Options tune a walk.
type Options struct {
	FollowSymlinks bool // Descend into symlinked directories that are not ancestors.
	MaxFileSizeKB  int  // Skip larger files; 0 disables the limit.

	// Omit lists files or directories that are never visited, such as the
	// output being written. Symlinks are resolved before comparing.
	Omit []string
}

// Stats counts what a walk saw.
type Stats struct {
	Dirs       int // Directories reached, pruned ones included.
	PrunedDirs int // Directories skipped by an exclude pattern.
	Files      int // Files the filter was asked about.
	Accepted   int // Files handed to the visitor.
	Excluded   int // Files rejected by the filter.
	Skipped    int // Files dropped for size, type or symlink policy.
	Errors     int // Entries that could not be read.
}

// SkippedItem records a path that was not handed to the visitor.
type SkippedItem struct {
	Path   string
	Reason string
}

// Walker enumerates the files under a root that a RuleSet accepts.
type Walker struct {
	root    string
	rules   *rules.RuleSet
	opts    Options
	logger  *zap.Logger
	stats   Stats
	skipped []SkippedItem
	omit    map[string]bool // Root-relative paths from Options.Omit.
}

// New creates a Walker. A nil logger disables logging.
func New(root string, rs *rules.RuleSet, opts Options, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{root: root, rules: rs, opts: opts, logger: logger}
}

// Stats returns the counters of the last walk.
func (w *Walker) Stats() Stats {
	return w.stats
}

// Skipped returns the paths the last walk did not accept, with reasons.
func (w *Walker) Skipped() []SkippedItem {
	return w.skipped
}

// Walk descends the root in lexical order and calls visit for every included
// regular file. Errors on individual entries are logged and skipped; an error
// from visit stops the walk and is returned.
func (w *Walker) Walk(visit func(Candidate) error) error {
	absRoot, err := filepath.Abs(w.root)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return fmt.Errorf("cannot access repository root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotDir, absRoot)
	}

	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		realRoot = absRoot
	}

	w.stats = Stats{}
	w.skipped = nil
	w.omit = omittedRels(absRoot, realRoot, w.opts.Omit)
	w.logger.Debug("Starting file traversal", zap.String("root", absRoot))

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return fmt.Errorf("failed to read repository root: %w", err)
	}
	if err := w.walkEntries(absRoot, "", entries, []string{realRoot}, visit); err != nil {
		return err
	}

	w.logger.Debug("Completed file traversal",
		zap.Int("files", w.stats.Files),
		zap.Int("accepted", w.stats.Accepted),
		zap.Int("prunedDirs", w.stats.PrunedDirs))
	return nil
}

func (w *Walker) walkEntries(dir, rel string, entries []fs.DirEntry, chain []string, visit func(Candidate) error) error {
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		entryRel := entry.Name()
		if rel != "" {
			entryRel = rel + "/" + entry.Name()
		}
		if err := w.visitEntry(path, entryRel, entry, chain, visit); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) visitEntry(path, rel string, entry fs.DirEntry, chain []string, visit func(Candidate) error) error {
	if w.omit[rel] {
		w.logger.Debug("Skipping omitted path", zap.String("path", rel))
		return nil
	}

	if entry.Type()&fs.ModeSymlink != 0 {
		return w.visitSymlink(path, rel, chain, visit)
	}

	if entry.IsDir() {
		real := filepath.Join(chain[len(chain)-1], entry.Name())
		return w.enterDir(path, rel, real, chain, visit)
	}

	if !entry.Type().IsRegular() {
		w.skip(rel, "not a regular file")
		return nil
	}

	info, err := entry.Info()
	if err != nil {
		w.fail(rel, "Failed to get file info during traversal", err)
		return nil
	}
	return w.visitFile(path, rel, info, visit)
}

func (w *Walker) visitSymlink(path, rel string, chain []string, visit func(Candidate) error) error {
	target, err := os.Stat(path)
	if err != nil {
		w.fail(rel, "Failed to resolve symlink", err)
		return nil
	}

	if !target.IsDir() {
		if !target.Mode().IsRegular() {
			w.skip(rel, "symlink to a non-regular file")
			return nil
		}
		return w.visitFile(path, rel, target, visit)
	}

	if !w.opts.FollowSymlinks {
		w.logger.Debug("Not following directory symlink", zap.String("path", rel))
		w.skip(rel+"/", "directory symlink not followed")
		return nil
	}

	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		w.fail(rel, "Failed to resolve symlink", err)
		return nil
	}
	if slices.Contains(chain, real) {
		w.logger.Warn("Skipping symlink to an ancestor directory",
			zap.String("path", rel),
			zap.String("target", real))
		w.skip(rel+"/", "symlink to an ancestor directory")
		return nil
	}
	return w.enterDir(path, rel, real, chain, visit)
}

func (w *Walker) enterDir(path, rel, real string, chain []string, visit func(Candidate) error) error {
	w.stats.Dirs++
	if rule, ok := w.rules.ExcludesDir(rel); ok {
		w.stats.PrunedDirs++
		w.logger.Debug("Skipping ignored directory during traversal",
			zap.String("directory", rel),
			zap.String("pattern", rule))
		w.skipped = append(w.skipped, SkippedItem{Path: rel + "/", Reason: "excluded by pattern: " + rule})
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		w.fail(rel+"/", "Error reading directory during traversal", err)
		if len(entries) == 0 {
			return nil
		}
	}

	next := append(chain[:len(chain):len(chain)], real)
	return w.walkEntries(path, rel, entries, next, visit)
}

func (w *Walker) visitFile(path, rel string, info fs.FileInfo, visit func(Candidate) error) error {
	w.stats.Files++

	d := w.rules.Decide(rel)
	if !d.Included {
		w.stats.Excluded++
		w.skipped = append(w.skipped, SkippedItem{Path: rel, Reason: d.String()})
		return nil
	}

	if w.opts.MaxFileSizeKB > 0 && info.Size() > int64(w.opts.MaxFileSizeKB)*1024 {
		w.logger.Debug("Skipping file due to size limit during traversal",
			zap.String("filePath", rel),
			zap.Int64("sizeBytes", info.Size()))
		w.skip(rel, fmt.Sprintf("larger than %d KB", w.opts.MaxFileSizeKB))
		return nil
	}

	w.stats.Accepted++
	return visit(Candidate{Path: path, Rel: rel, IsFile: true})
}

func (w *Walker) skip(rel, reason string) {
	w.stats.Skipped++
	w.skipped = append(w.skipped, SkippedItem{Path: rel, Reason: reason})
}

func (w *Walker) fail(rel, msg string, err error) {
	w.stats.Errors++
	w.logger.Warn(msg, zap.String("path", rel), zap.Error(err))
	w.skipped = append(w.skipped, SkippedItem{Path: rel, Reason: err.Error()})
}

// omittedRels maps the omitted paths that lie under the root to root-relative
// form.
func omittedRels(absRoot, realRoot string, paths []string) map[string]bool {
	out := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if real, err := filepath.EvalSymlinks(abs); err == nil {
			abs = real
		}
		for _, base := range []string{realRoot, absRoot} {
			rel, err := filepath.Rel(base, abs)
			if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				continue
			}
			out[filepath.ToSlash(rel)] = true
		}
	}
	return out
}
