package rules

// Standard exclusions applied to every run.
var DefaultExclusions = []string{
	"node_modules/",
	".git/",
	".DS_Store",
	"dist/",
	"build/",
	"*.log",
}

// Markers that force inclusion regardless of extension or glob rules.
var DefaultMarkers = []string{
	"package.json",
	"README.md",
}

// DefaultTreeExclude is handed to `tree -I` unless a higher tier overrides it.
const DefaultTreeExclude = "node_modules|.git|dist|build"

// Defaults returns the lowest-precedence contribution.
func Defaults() Contribution {
	return Contribution{
		Source:      SourceDefault,
		Origin:      "built-in",
		Exclude:     append([]string(nil), DefaultExclusions...),
		Markers:     append([]string(nil), DefaultMarkers...),
		TreeExclude: DefaultTreeExclude,
	}
}
