package cmd

import (
	"bytes"
	"strings"
	"testing"

	"repototext/pkg/external"
	"repototext/pkg/rules"
	"repototext/pkg/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCLIContribution(t *testing.T) {
	f := &rootFlags{
		ext:           "ts, .go",
		allExtensions: true,
		ignore:        "vendor/,*.min.js",
		exclude:       []string{"gen/**"},
		include:       []string{"src/**"},
		markers:       []string{"Makefile"},
	}

	c := cliContribution(f)
	assert.Equal(t, rules.SourceCLI, c.Source)
	assert.Equal(t, []string{"vendor/", "*.min.js", "gen/**"}, c.Exclude)
	assert.Equal(t, []string{"src/**"}, c.Include)
	assert.Equal(t, []string{"ts", ".go"}, c.Extensions)
	assert.Equal(t, []string{"Makefile"}, c.Markers)
	assert.True(t, c.IncludeAllExtensions)
}

func TestCLIContribution_Empty(t *testing.T) {
	assert.True(t, cliContribution(&rootFlags{}).Empty())
}

func TestBuildOptions_Positional(t *testing.T) {
	opts, err := buildOptions(&rootFlags{tree: external.TreeNone}, []string{"repo", "out.txt", "pkg"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "repo", opts.Root)
	assert.Equal(t, "out.txt", opts.Output)
	assert.Equal(t, "pkg", opts.Label)
	assert.IsType(t, external.NoTree{}, opts.Tree)
}

func TestBuildOptions_FlagsWinOverPositional(t *testing.T) {
	f := &rootFlags{tree: external.TreeNative, output: "flag.txt", label: "flag"}
	opts, err := buildOptions(f, []string{"repo", "pos.txt", "pos"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "flag.txt", opts.Output)
	assert.Equal(t, "flag", opts.Label)
}

func TestBuildOptions_Invalid(t *testing.T) {
	_, err := buildOptions(&rootFlags{tree: "fancy"}, []string{"repo"}, zap.NewNop())
	assert.Error(t, err)

	_, err = buildOptions(&rootFlags{tree: external.TreeNone, maxSizeKB: -1}, []string{"repo"}, zap.NewNop())
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"version", "--short"})
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
	})

	require.NoError(t, RootCmd.Execute())
	assert.Equal(t, version.Version, strings.TrimSpace(out.String()))
}
