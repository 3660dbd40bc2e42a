// Package rules holds the selection model: layered rule contributions, the
// resolved RuleSet, and the path filter that decides which files are serialized.
package rules

import (
	"fmt"
	"strings"
)

// Source identifies where a rule contribution came from. Sources are ordered
// from lowest to highest precedence.
type Source int

const (
	SourceDefault     Source = iota // Built-in exclusions and markers.
	SourceEnvironment               // REPOTOTEXT_* variables and .env.
	SourceRepoConfig                // Global and repository-local config files.
	SourceCLI                       // Command-line flags.
	SourceIgnoreFile                // .gitignore-style files.
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceEnvironment:
		return "environment"
	case SourceRepoConfig:
		return "config"
	case SourceCLI:
		return "cli"
	case SourceIgnoreFile:
		return "ignore-file"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Contribution is a partial set of rule values from one configuration source.
type Contribution struct {
	Source               Source   // Precedence tier.
	Origin               string   // Human-readable origin (file path, variable name) for logs.
	Exclude              []string // Exclude patterns, OR'ed with every other tier.
	Include              []string // Include globs, OR'ed with every other tier.
	Extensions           []string // Allowed extensions; the highest tier that sets any wins.
	Markers              []string // Always-include markers.
	IncludeAllExtensions bool     // Accept every non-excluded file.
	TreeExclude          string   // Exclusion string passed to the tree renderer.
}

// Empty reports whether the contribution carries no values at all.
func (c Contribution) Empty() bool {
	return len(c.Exclude) == 0 && len(c.Include) == 0 && len(c.Extensions) == 0 &&
		len(c.Markers) == 0 && !c.IncludeAllExtensions && c.TreeExclude == ""
}

// Reason explains a Decision.
type Reason string

const (
	ReasonExcludePattern Reason = "excluded by pattern"
	ReasonMarker         Reason = "always-include marker"
	ReasonAllExtensions  Reason = "all extensions enabled"
	ReasonExtension      Reason = "allowed extension"
	ReasonIncludePattern Reason = "include pattern"
	ReasonPermissive     Reason = "no include rules configured"
	ReasonNoMatch        Reason = "no include rule matched"
)

// Decision is the outcome of filtering one path.
type Decision struct {
	Included bool
	Reason   Reason
	Rule     string // The pattern, marker or extension responsible, if any.
}

func (d Decision) String() string {
	verdict := "excluded"
	if d.Included {
		verdict = "included"
	}
	if d.Rule == "" {
		return fmt.Sprintf("%s (%s)", verdict, d.Reason)
	}
	return fmt.Sprintf("%s (%s: %s)", verdict, d.Reason, d.Rule)
}

// SplitList splits a comma-separated list, trimming blanks and dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
