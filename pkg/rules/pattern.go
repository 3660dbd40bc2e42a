// File: pkg/rules/pattern.go
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// globMeta are the characters that turn a pattern into a glob. Anything else
// is a literal matched by substring containment.
const globMeta = "*?[{"

// ErrEmptyPattern is returned when compiling a blank pattern.
var ErrEmptyPattern = errors.New("empty pattern")

// Pattern is a compiled exclude or include rule.
type Pattern struct {
	raw      string
	literal  bool        // No glob metacharacters: substring containment.
	dirOnly  bool        // Written with a trailing '/'.
	segment  bool        // No '/' in the body: matched against single path segments.
	fileOnly bool        // Include rule: matched against the file itself, not its ancestors.
	globs    []glob.Glob // Compiled forms; more than one for a leading "**/".
}

type compileMode int

const (
	modeRule    compileMode = iota // Literals by substring, globs by segment or anchored ancestor.
	modeIgnore                     // .gitignore lines: always glob, literals match whole segments.
	modeInclude                    // Include globs: basename or full path of the file.
)

// CompilePattern compiles an exclude rule from the defaults, the environment,
// a config file or the command line.
//
// Literals match when they are contained in "/"+path (directories also carry a
// trailing '/'). Globs without a '/' match any single segment of the path; globs
// with a '/' are anchored at the root and match the full path or any ancestor
// directory of it.
func CompilePattern(raw string) (Pattern, error) {
	return compilePattern(raw, modeRule)
}

// CompileIgnorePattern compiles a line of a .gitignore-style file. Lines are
// always globs: "bin" matches a segment named bin, "/build" only at the root,
// and "out/" only directories.
func CompileIgnorePattern(raw string) (Pattern, error) {
	return compilePattern(raw, modeIgnore)
}

// CompileIncludePattern compiles an include glob. A glob without '/' matches
// the file name, one with '/' the full path; "dir/" accepts everything below dir.
func CompileIncludePattern(raw string) (Pattern, error) {
	return compilePattern(raw, modeInclude)
}

func compilePattern(raw string, mode compileMode) (Pattern, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Pattern{}, ErrEmptyPattern
	}
	p := Pattern{raw: text, fileOnly: mode == modeInclude}
	if mode == modeRule && !strings.ContainsAny(text, globMeta) {
		p.literal = true
		return p, nil
	}

	body := text
	if strings.HasSuffix(body, "/") {
		p.dirOnly = true
		body = strings.TrimRight(body, "/")
	}
	if strings.Contains(body, "/") {
		body = strings.TrimPrefix(body, "/")
	} else {
		p.segment = true
	}
	if body == "" {
		return Pattern{}, ErrEmptyPattern
	}

	g, err := glob.Compile(body, '/')
	if err != nil {
		return Pattern{}, fmt.Errorf("invalid glob %q: %w", text, err)
	}
	p.globs = append(p.globs, g)

	// "**/x" should also match "x" at the root.
	if rest, ok := strings.CutPrefix(body, "**/"); ok && rest != "" {
		if g, err := glob.Compile(rest, '/'); err == nil {
			p.globs = append(p.globs, g)
		}
	}
	return p, nil
}

// String returns the pattern as written.
func (p Pattern) String() string {
	return p.raw
}

// IsGlob reports whether the pattern uses glob syntax.
func (p Pattern) IsGlob() bool {
	return !p.literal
}

// Match reports whether the root-relative, slash-separated path matches.
func (p Pattern) Match(rel string, isDir bool) bool {
	if p.literal {
		target := "/" + rel
		if isDir {
			target += "/"
		}
		return strings.Contains(target, p.raw)
	}

	segs := strings.Split(rel, "/")
	if p.fileOnly {
		return p.matchFile(segs)
	}
	if p.segment {
		for i, seg := range segs {
			if p.dirOnly && i == len(segs)-1 && !isDir {
				continue
			}
			if p.matchAny(seg) {
				return true
			}
		}
		return false
	}

	for i := 1; i <= len(segs); i++ {
		if p.dirOnly && i == len(segs) && !isDir {
			continue
		}
		if p.matchAny(strings.Join(segs[:i], "/")) {
			return true
		}
	}
	return false
}

// matchFile applies include semantics to the path of a file.
func (p Pattern) matchFile(segs []string) bool {
	if p.dirOnly {
		dirs := segs[:len(segs)-1]
		if p.segment {
			for _, seg := range dirs {
				if p.matchAny(seg) {
					return true
				}
			}
			return false
		}
		for i := 1; i <= len(dirs); i++ {
			if p.matchAny(strings.Join(dirs[:i], "/")) {
				return true
			}
		}
		return false
	}
	if p.segment {
		return p.matchAny(segs[len(segs)-1])
	}
	return p.matchAny(strings.Join(segs, "/"))
}

func (p Pattern) matchAny(s string) bool {
	for _, g := range p.globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}
