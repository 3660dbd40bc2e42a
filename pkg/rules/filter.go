// File: pkg/rules/filter.go
package rules

import "strings"

// Decide reports whether the file at rel (root-relative, '/'-separated) is
// serialized. Exclusion always wins over inclusion.
func (rs *RuleSet) Decide(rel string) Decision {
	if p, ok := rs.excludedBy(rel, false); ok {
		return Decision{Reason: ReasonExcludePattern, Rule: p}
	}

	for _, m := range rs.markers {
		if strings.Contains(rel, m) {
			return Decision{Included: true, Reason: ReasonMarker, Rule: m}
		}
	}

	if rs.includeAll {
		return Decision{Included: true, Reason: ReasonAllExtensions}
	}

	for _, ext := range rs.extensions {
		if strings.HasSuffix(rel, ext) {
			return Decision{Included: true, Reason: ReasonExtension, Rule: ext}
		}
	}

	if len(rs.include) > 0 {
		for _, p := range rs.include {
			if p.Match(rel, false) {
				return Decision{Included: true, Reason: ReasonIncludePattern, Rule: p.String()}
			}
		}
		return Decision{Reason: ReasonNoMatch}
	}

	if !rs.HasExtensionFilter() {
		return Decision{Included: true, Reason: ReasonPermissive}
	}
	return Decision{Reason: ReasonNoMatch}
}

// ExcludesDir reports whether the directory at rel matches an exclude pattern.
// Every path below an excluded directory is excluded as well, so the walker
// can prune it.
func (rs *RuleSet) ExcludesDir(rel string) (string, bool) {
	return rs.excludedBy(rel, true)
}

// Excludes applies only the exclude patterns, for listings that show every
// entry that is not excluded.
func (rs *RuleSet) Excludes(rel string, isDir bool) bool {
	_, ok := rs.excludedBy(rel, isDir)
	return ok
}

func (rs *RuleSet) excludedBy(rel string, isDir bool) (string, bool) {
	for _, p := range rs.exclude {
		if p.Match(rel, isDir) {
			return p.String(), true
		}
	}
	return "", false
}
