// File: pkg/rules/resolve.go
package rules

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// RuleSet is the effective, immutable rule set for one run.
type RuleSet struct {
	exclude     []Pattern
	include     []Pattern
	markers     []string
	extensions  []string
	includeAll  bool
	treeExclude string
}

// Resolve merges contributions into a RuleSet.
//
// Contributions are ordered by Source (input order is kept within a tier).
// Exclude and include patterns and markers are concatenated; extensions and the
// tree exclusion come from the highest tier that sets them. Patterns that fail
// to compile are logged and skipped.
func Resolve(logger *zap.Logger, contribs ...Contribution) *RuleSet {
	if logger == nil {
		logger = zap.NewNop()
	}

	ordered := make([]Contribution, len(contribs))
	copy(ordered, contribs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Source < ordered[j].Source
	})

	rs := &RuleSet{}
	seenMarkers := make(map[string]bool)
	for _, c := range ordered {
		log := logger.With(zap.Stringer("source", c.Source), zap.String("origin", c.Origin))

		compileExclude := CompilePattern
		if c.Source == SourceIgnoreFile {
			compileExclude = CompileIgnorePattern
		}
		rs.exclude = append(rs.exclude, compileAll(c.Exclude, "exclude", compileExclude, log)...)
		rs.include = append(rs.include, compileAll(c.Include, "include", CompileIncludePattern, log)...)

		for _, m := range c.Markers {
			m = strings.TrimSpace(m)
			if m == "" || seenMarkers[m] {
				continue
			}
			seenMarkers[m] = true
			rs.markers = append(rs.markers, m)
		}

		if exts, all := normalizeExtensions(c.Extensions); len(exts) > 0 || all {
			if len(exts) > 0 {
				rs.extensions = exts
			}
			rs.includeAll = rs.includeAll || all
		}
		rs.includeAll = rs.includeAll || c.IncludeAllExtensions

		if c.TreeExclude != "" {
			rs.treeExclude = c.TreeExclude
		}

		log.Debug("Merged rule contribution",
			zap.Int("exclude", len(c.Exclude)),
			zap.Int("include", len(c.Include)),
			zap.Strings("extensions", c.Extensions))
	}

	logger.Debug("Resolved rule set",
		zap.Int("excludePatterns", len(rs.exclude)),
		zap.Int("includePatterns", len(rs.include)),
		zap.Strings("extensions", rs.extensions),
		zap.Bool("includeAllExtensions", rs.includeAll))
	return rs
}

func compileAll(raw []string, kind string, compile func(string) (Pattern, error), logger *zap.Logger) []Pattern {
	var out []Pattern
	for _, r := range raw {
		p, err := compile(r)
		if err != nil {
			logger.Warn("Skipping malformed pattern",
				zap.String("kind", kind),
				zap.String("pattern", r),
				zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out
}

// normalizeExtensions gives every extension a leading dot. The entry "*"
// requests all extensions instead.
func normalizeExtensions(exts []string) ([]string, bool) {
	var out []string
	all := false
	seen := make(map[string]bool)
	for _, e := range exts {
		e = strings.TrimSpace(e)
		switch {
		case e == "":
			continue
		case e == "*" || e == ".*":
			all = true
			continue
		case !strings.HasPrefix(e, "."):
			e = "." + e
		}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out, all
}

// ExcludePatterns returns the exclude patterns in precedence order.
func (rs *RuleSet) ExcludePatterns() []string { return patternStrings(rs.exclude) }

// IncludePatterns returns the include patterns in precedence order.
func (rs *RuleSet) IncludePatterns() []string { return patternStrings(rs.include) }

// Extensions returns the allowed extensions.
func (rs *RuleSet) Extensions() []string { return append([]string(nil), rs.extensions...) }

// Markers returns the always-include markers.
func (rs *RuleSet) Markers() []string { return append([]string(nil), rs.markers...) }

// IncludeAllExtensions reports whether every non-excluded file is accepted.
func (rs *RuleSet) IncludeAllExtensions() bool { return rs.includeAll }

// HasExtensionFilter reports whether an extension filter was configured.
func (rs *RuleSet) HasExtensionFilter() bool { return len(rs.extensions) > 0 || rs.includeAll }

// TreeExclude returns the exclusion string for the tree renderer.
func (rs *RuleSet) TreeExclude() string { return rs.treeExclude }

func patternStrings(ps []Pattern) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.String())
	}
	return out
}

// Describe renders the rule set for the debug report.
func (rs *RuleSet) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "exclude: %s\n", strings.Join(rs.ExcludePatterns(), ", "))
	fmt.Fprintf(&b, "include: %s\n", strings.Join(rs.IncludePatterns(), ", "))
	fmt.Fprintf(&b, "markers: %s\n", strings.Join(rs.markers, ", "))
	fmt.Fprintf(&b, "extensions: %s\n", strings.Join(rs.extensions, ", "))
	fmt.Fprintf(&b, "include all extensions: %t\n", rs.includeAll)
	fmt.Fprintf(&b, "tree exclude: %s", rs.treeExclude)
	return b.String()
}
