package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the rule model:
// - literal patterns match by substring containment, directories with a trailing '/'
// - slash-less globs match any path segment, trailing '/' restricts to directories
// - anchored globs match the full path or an ancestor directory
// - "**/" globs also match at the root
// - ignore-file lines follow .gitignore rules: plain names match whole segments
// - include globs match the file name or the full path, never an ancestor
// - malformed globs are skipped by Resolve
// - exclude and include lists concatenate across tiers, in tier order
// - extensions and tree exclusion come from the highest tier that sets them
// - Decide: exclusion wins, markers, all-extensions, extension, include, permissive default

func TestCompilePattern_Literal(t *testing.T) {
	p, err := CompilePattern("node_modules/")
	require.NoError(t, err)
	assert.False(t, p.IsGlob())

	assert.True(t, p.Match("node_modules", true))
	assert.True(t, p.Match("node_modules/lib.js", false))
	assert.True(t, p.Match("web/node_modules/react/index.js", false))
	assert.False(t, p.Match("node_modules", false), "a file named node_modules has no trailing slash")
	assert.False(t, p.Match("src/app.ts", false))
}

func TestCompilePattern_Empty(t *testing.T) {
	_, err := CompilePattern("   ")
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestCompilePattern_Invalid(t *testing.T) {
	_, err := CompilePattern("src/[a-")
	assert.Error(t, err)
}

func TestPattern_Match(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		{"*.log", "run.log", false, true},
		{"*.log", "logs/deep/run.log", false, true},
		{"*.log", "run.ts", false, false},
		{"*.log", "archive.log/readme.txt", false, true},
		{"?.go", "a.go", false, true},
		{"?.go", "ab.go", false, false},
		{"*.{ts,tsx}", "ui/button.tsx", false, true},
		{"*.{ts,tsx}", "ui/button.js", false, false},
		{"[abc].txt", "b.txt", false, true},
		{"[abc].txt", "d.txt", false, false},
		{"*_cache/", "py_cache", true, true},
		{"*_cache/", "py_cache/x.pyc", false, true},
		{"*_cache/", "py_cache", false, false},
		{"docs/*.md", "docs/intro.md", false, true},
		{"docs/*.md", "docs/guide/intro.md", false, false},
		{"docs/**/*.md", "docs/guide/intro.md", false, true},
		{"/gen/*", "gen/out.go", false, true},
		{"/gen/*", "pkg/gen/out.go", false, false},
		{"build/**", "build/bin/app", false, true},
		{"src/*", "src/deep/file.go", false, true},
		{"**/*.md", "README.md", false, true},
		{"**/*.md", "docs/README.md", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.path, func(t *testing.T) {
			p, err := CompilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Match(tt.path, tt.isDir))
		})
	}
}

func TestCompileIgnorePattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		{"bin", "bin", true, true},
		{"bin", "tools/bin/run.sh", false, true},
		{"bin", "src/combine.go", false, false},
		{"bin", "cabinet.txt", false, false},
		{"/build", "build", true, true},
		{"/build", "build/app", false, true},
		{"/build", "src/builder.go", false, false},
		{"/build", "src/build/app", false, false},
		{"out/", "out", true, true},
		{"out/", "out/a.js", false, true},
		{"out/", "out", false, false},
		{"out/", "web/layout.ts", false, false},
		{".env", ".env", false, true},
		{".env", "src/.environment.ts", false, false},
		{"docs/draft", "docs/draft/a.md", false, true},
		{"docs/draft", "docs/drafts.md", false, false},
		{"*.log", "logs/run.log", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.path, func(t *testing.T) {
			p, err := CompileIgnorePattern(tt.pattern)
			require.NoError(t, err)
			assert.True(t, p.IsGlob())
			assert.Equal(t, tt.want, p.Match(tt.path, tt.isDir))
		})
	}
}

func TestCompileIncludePattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*.go", "main.go", true},
		{"*.go", "cmd/main.go", true},
		{"*.go", "foo.go/notes.txt", false},
		{"src/*", "src/main.go", true},
		{"src/*", "src/deep/x.bin", false},
		{"src/**", "src/deep/x.bin", true},
		{"**/*.md", "README.md", true},
		{"**/*.md", "docs/guide/intro.md", true},
		{"Makefile", "Makefile", true},
		{"Makefile", "build/Makefile", true},
		{"Makefile", "Makefile.old", false},
		{"docs/", "docs/intro.md", true},
		{"docs/", "docs", false},
		{"docs/", "src/docs.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.path, func(t *testing.T) {
			p, err := CompileIncludePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Match(tt.path, false))
		})
	}
}

func TestResolve_IgnoreTierUsesGitignoreRules(t *testing.T) {
	rs := Resolve(nil,
		Contribution{Source: SourceIgnoreFile, Exclude: []string{"bin", "/build", "out", ".env"}},
		Contribution{Source: SourceCLI, Extensions: []string{".go", ".ts"}},
	)

	for _, path := range []string{"src/combine.go", "src/builder.go", "web/layout.ts", "src/.environment.ts"} {
		assert.True(t, rs.Decide(path).Included, path)
	}
	for _, path := range []string{"bin/tool.go", "build/gen.go", "web/out/app.ts", ".env"} {
		assert.False(t, rs.Decide(path).Included, path)
	}

	// The same names from the command line keep substring semantics.
	rs = Resolve(nil, Contribution{Source: SourceCLI, Exclude: []string{"bin"}})
	assert.False(t, rs.Decide("src/combine.go").Included)
}

func TestResolve_ConcatenatesAndOrdersByTier(t *testing.T) {
	rs := Resolve(nil,
		Contribution{Source: SourceIgnoreFile, Exclude: []string{"*.tmp"}},
		Contribution{Source: SourceCLI, Exclude: []string{"vendor/"}, Include: []string{"cmd/**"}},
		Contribution{Source: SourceEnvironment, Exclude: []string{"coverage/"}, Include: []string{"pkg/**"}},
		Defaults(),
	)

	assert.Equal(t,
		[]string{"node_modules/", ".git/", ".DS_Store", "dist/", "build/", "*.log", "coverage/", "vendor/", "*.tmp"},
		rs.ExcludePatterns())
	assert.Equal(t, []string{"pkg/**", "cmd/**"}, rs.IncludePatterns())
	assert.Equal(t, DefaultMarkers, rs.Markers())
}

func TestResolve_KeepsInputOrderWithinTier(t *testing.T) {
	rs := Resolve(nil,
		Contribution{Source: SourceRepoConfig, Origin: "global", Exclude: []string{"a/"}, TreeExclude: "global"},
		Contribution{Source: SourceRepoConfig, Origin: "local", Exclude: []string{"b/"}, TreeExclude: "local"},
	)

	assert.Equal(t, []string{"a/", "b/"}, rs.ExcludePatterns())
	assert.Equal(t, "local", rs.TreeExclude())
}

func TestResolve_ExtensionsFromHighestTier(t *testing.T) {
	rs := Resolve(nil,
		Contribution{Source: SourceCLI, Extensions: []string{"go"}},
		Contribution{Source: SourceRepoConfig, Extensions: []string{".ts", ".tsx"}},
	)

	assert.Equal(t, []string{".go"}, rs.Extensions())
	assert.True(t, rs.HasExtensionFilter())
	assert.False(t, rs.IncludeAllExtensions())
}

func TestResolve_StarExtensionEnablesAll(t *testing.T) {
	rs := Resolve(nil,
		Contribution{Source: SourceRepoConfig, Extensions: []string{".ts"}},
		Contribution{Source: SourceCLI, Extensions: []string{"*"}},
	)

	assert.True(t, rs.IncludeAllExtensions())
	assert.Equal(t, []string{".ts"}, rs.Extensions())
}

func TestResolve_SkipsMalformedPatterns(t *testing.T) {
	rs := Resolve(nil, Contribution{Source: SourceCLI, Exclude: []string{"[oops", "", "tmp/"}})

	assert.Equal(t, []string{"tmp/"}, rs.ExcludePatterns())
}

func TestResolve_DeduplicatesMarkers(t *testing.T) {
	rs := Resolve(nil,
		Defaults(),
		Contribution{Source: SourceCLI, Markers: []string{"README.md", "Makefile"}},
	)

	assert.Equal(t, []string{"package.json", "README.md", "Makefile"}, rs.Markers())
}

func TestDecide(t *testing.T) {
	rs := Resolve(nil,
		Contribution{
			Source:     SourceCLI,
			Exclude:    []string{"node_modules/", "*.log"},
			Include:    []string{"docs/**"},
			Extensions: []string{".ts"},
			Markers:    []string{"README.md"},
		},
	)

	tests := []struct {
		path   string
		want   bool
		reason Reason
	}{
		{"src/app.ts", true, ReasonExtension},
		{"README.md", true, ReasonMarker},
		{"docs/guide/setup.txt", true, ReasonIncludePattern},
		{"node_modules/lib.ts", false, ReasonExcludePattern},
		{"node_modules/README.md", false, ReasonExcludePattern},
		{"docs/build.log", false, ReasonExcludePattern},
		{"src/app.js", false, ReasonNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d := rs.Decide(tt.path)
			assert.Equal(t, tt.want, d.Included, d.String())
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestDecide_IsDeterministic(t *testing.T) {
	rs := Resolve(nil, Defaults(), Contribution{Source: SourceCLI, Extensions: []string{".go"}})

	paths := []string{"main.go", "dist/app.go", "README.md", "notes.txt", "a/b/c.log"}
	for _, p := range paths {
		first := rs.Decide(p)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, rs.Decide(p), p)
		}
	}
}

func TestDecide_PermissiveWithoutIncludeRules(t *testing.T) {
	rs := Resolve(nil, Contribution{Source: SourceCLI, Exclude: []string{"secret/"}})

	assert.True(t, rs.Decide("any/file.bin").Included)
	assert.Equal(t, ReasonPermissive, rs.Decide("any/file.bin").Reason)
	assert.False(t, rs.Decide("secret/key.pem").Included)
}

func TestDecide_IncludeAllExtensions(t *testing.T) {
	rs := Resolve(nil, Contribution{
		Source:               SourceCLI,
		Exclude:              []string{"*.lock"},
		Extensions:           []string{".ts"},
		IncludeAllExtensions: true,
	})

	assert.True(t, rs.Decide("main.go").Included)
	assert.True(t, rs.Decide("image.png").Included)
	assert.False(t, rs.Decide("yarn.lock").Included)
}

func TestDecide_IncludePatternsRestrict(t *testing.T) {
	rs := Resolve(nil, Contribution{Source: SourceEnvironment, Include: []string{"*.go"}})

	assert.True(t, rs.Decide("cmd/main.go").Included)
	assert.False(t, rs.Decide("cmd/main.rs").Included)
}

func TestExcludesDir(t *testing.T) {
	rs := Resolve(nil, Defaults())

	rule, ok := rs.ExcludesDir("web/node_modules")
	assert.True(t, ok)
	assert.Equal(t, "node_modules/", rule)

	_, ok = rs.ExcludesDir("src")
	assert.False(t, ok)

	_, ok = rs.ExcludesDir(".github")
	assert.False(t, ok)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, SplitList(" a, b c ,,d,"))
	assert.Nil(t, SplitList(""))
}
