// File: pkg/serialize/output.go
package serialize

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
)

// File names used by a split target.
const (
	CodeFile  = "code.txt"
	TreeFile  = "tree.txt"
	DebugFile = "debug.txt"
)

// Target is where a run writes its blocks: either one combined file, or a
// directory holding separate code, tree and debug files.
type Target struct {
	Code  io.Writer
	Tree  io.Writer
	Debug io.Writer

	path  string
	split bool
	files []*outputFile
}

type outputFile struct {
	f *os.File
	w *bufio.Writer
}

// DefaultPath returns a timestamped path in the system temp directory.
func DefaultPath(now time.Time, split bool) string {
	name := "repototext-" + now.Format("20060102-150405")
	if !split {
		name += ".txt"
	}
	return filepath.Join(os.TempDir(), name)
}

// OpenCombined creates path (and its parent directories). Code, tree and
// debug blocks all go to the same file.
func OpenCombined(path string) (*Target, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	of, err := createOutput(path)
	if err != nil {
		return nil, err
	}
	return &Target{
		Code:  of.w,
		Tree:  of.w,
		Debug: of.w,
		path:  path,
		files: []*outputFile{of},
	}, nil
}

// OpenSplit creates dir and the code, tree and debug files inside it.
func OpenSplit(dir string) (*Target, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	t := &Target{path: dir, split: true}
	for _, name := range []string{CodeFile, TreeFile, DebugFile} {
		of, err := createOutput(filepath.Join(dir, name))
		if err != nil {
			return nil, multierr.Append(err, t.Close())
		}
		t.files = append(t.files, of)
	}
	t.Code, t.Tree, t.Debug = t.files[0].w, t.files[1].w, t.files[2].w
	return t, nil
}

func createOutput(path string) (*outputFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &outputFile{f: f, w: bufio.NewWriter(f)}, nil
}

// Path returns the combined file or the split directory.
func (t *Target) Path() string {
	return t.path
}

// Split reports whether the target is a directory of separate files.
func (t *Target) Split() bool {
	return t.split
}

// Close flushes and closes every file, returning all failures.
func (t *Target) Close() error {
	var err error
	for _, of := range t.files {
		err = multierr.Append(err, of.w.Flush())
		err = multierr.Append(err, of.f.Close())
	}
	t.files = nil
	return err
}
