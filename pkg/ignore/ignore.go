package ignore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"repototext/pkg/rules"

	"go.uber.org/zap"
)

// FileNames are the ignore files read from the repository root.
var FileNames = []string{".gitignore", ".repototextignore"}

// IgnorePattern is one pattern line taken from an ignore file.
type IgnorePattern struct {
	Line   string // Pattern text with escapes removed.
	LineNo int    // Line number in the source (1-based).
	Origin string // File the pattern was read from.
}

// GitIgnore represents the patterns collected from one or more ignore files.
type GitIgnore struct {
	Patterns []*IgnorePattern // Patterns in file order.
	Files    []string         // Files that were read successfully.
	logger   *zap.Logger
}

// NewGitIgnore initializes a GitIgnore instance with an optional logger.
func NewGitIgnore(logger *zap.Logger) *GitIgnore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitIgnore{
		Patterns: []*IgnorePattern{},
		logger:   logger,
	}
}

// LoadIgnoreFiles reads every path in order. Missing files are skipped
// silently; unreadable ones are logged and skipped.
func LoadIgnoreFiles(logger *zap.Logger, paths ...string) *GitIgnore {
	gi := NewGitIgnore(logger)
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := gi.CompileIgnoreFile(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				gi.logger.Debug("Ignore file does not exist and will be skipped", zap.String("filePath", p))
				continue
			}
			gi.logger.Warn("Failed to read ignore file", zap.String("filePath", p), zap.Error(err))
		}
	}
	return gi
}

// RootFiles returns the default ignore file paths under root.
func RootFiles(root string) []string {
	out := make([]string, 0, len(FileNames))
	for _, name := range FileNames {
		out = append(out, filepath.Join(root, name))
	}
	return out
}

// CompileIgnoreLines adds pattern lines read from origin.
func (gi *GitIgnore) CompileIgnoreLines(origin string, lines ...string) {
	for i, line := range lines {
		pattern, ok := parsePatternLine(line)
		if !ok {
			if strings.HasPrefix(strings.TrimSpace(line), "!") {
				gi.logger.Debug("Negated ignore patterns are not supported",
					zap.String("filePath", origin),
					zap.Int("lineNo", i+1),
					zap.String("line", line))
			}
			continue
		}
		gi.Patterns = append(gi.Patterns, &IgnorePattern{
			Line:   pattern,
			LineNo: i + 1,
			Origin: origin,
		})
	}
}

// CompileIgnoreFile reads an ignore file and adds its patterns.
func (gi *GitIgnore) CompileIgnoreFile(fpath string) error {
	content, err := os.ReadFile(fpath)
	if err != nil {
		return err
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	before := len(gi.Patterns)
	gi.CompileIgnoreLines(fpath, lines...)
	gi.Files = append(gi.Files, fpath)
	gi.logger.Debug("Compiled ignore patterns",
		zap.String("filePath", fpath),
		zap.Int("lineCount", len(lines)),
		zap.Int("patternCount", len(gi.Patterns)-before))
	return nil
}

// Lines returns the pattern texts in order.
func (gi *GitIgnore) Lines() []string {
	out := make([]string, 0, len(gi.Patterns))
	for _, p := range gi.Patterns {
		out = append(out, p.Line)
	}
	return out
}

// Contribution exposes the patterns as the highest-precedence exclude tier.
func (gi *GitIgnore) Contribution() rules.Contribution {
	return rules.Contribution{
		Source:  rules.SourceIgnoreFile,
		Origin:  strings.Join(gi.Files, ","),
		Exclude: gi.Lines(),
	}
}

// parsePatternLine returns the pattern on line, or false for blank lines,
// comments and negations.
func parsePatternLine(line string) (string, bool) {
	trimmedLine := strings.TrimSpace(line)

	if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") || strings.HasPrefix(trimmedLine, "!") {
		return "", false
	}

	// Handle escaped characters for `#` and `!`.
	if strings.HasPrefix(trimmedLine, "\\#") || strings.HasPrefix(trimmedLine, "\\!") {
		trimmedLine = trimmedLine[1:]
	}
	return trimmedLine, true
}
