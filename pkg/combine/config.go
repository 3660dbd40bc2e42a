// File: pkg/combine/config.go
package combine

import (
	"time"

	"repototext/pkg/external"
	"repototext/pkg/rules"
)

// Options holds everything one run needs.
type Options struct {
	Root           string             // Local directory or git URL to serialize.
	Output         string             // Output file, or directory when Split is set. Empty means a temp path.
	Label          string             // Prefix for block names.
	Split          bool               // Write code.txt, tree.txt and debug.txt into a directory.
	DebugBlock     bool               // Append the debug block to a combined output.
	CLI            rules.Contribution // Rules given on the command line.
	ConfigFile     string             // Explicit global config file; empty means the user config dir.
	DotenvPath     string             // .env file consulted for environment values.
	IgnoreFiles    []string           // Extra ignore files, read after the root ones.
	NoIgnoreFiles  bool               // Skip .gitignore and .repototextignore at the root.
	FollowSymlinks bool               // Descend into symlinked directories.
	MaxFileSizeKB  int                // Skip files larger than this; 0 disables the limit.
	Reveal         bool               // Show the output in the file manager when done.
	Quiet          bool               // Suppress the progress spinner.

	Tree     external.TreeRenderer // Defaults to the auto-selected renderer.
	Cloner   external.Cloner       // Defaults to GitCloner.
	Revealer external.Revealer     // Defaults to DesktopRevealer.
}

// Result summarizes a completed run.
type Result struct {
	Output  string        // Combined file or split directory.
	Root    string        // Directory that was walked.
	Files   int           // File blocks written.
	Skipped int           // Files dropped by the walker or the serializer.
	Tree    bool          // Whether a tree block was written.
	Elapsed time.Duration // Wall time of the run.
}
