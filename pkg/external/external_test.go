package external

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"repototext/pkg/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(f), 0644))
	}
	return root
}

func TestNativeTree_Render(t *testing.T) {
	root := makeTree(t,
		"src/app.ts",
		"src/lib/x.go",
		"node_modules/pkg/index.js",
		"README.md",
		"debug.log",
	)
	rs := rules.Resolve(nil, rules.Defaults())

	out, err := NativeTree{}.Render(context.Background(), root, rs)
	require.NoError(t, err)

	want := root + "\n" +
		"├── src/\n" +
		"│   ├── lib/\n" +
		"│   │   └── x.go\n" +
		"│   └── app.ts\n" +
		"└── README.md\n" +
		"\n" +
		"2 directories, 3 files\n"
	assert.Equal(t, want, out)
}

func TestNativeTree_NilRulesShowsEverything(t *testing.T) {
	root := makeTree(t, "a.log", "b/c.txt")

	out, err := NativeTree{}.Render(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "a.log")
	assert.Contains(t, out, "c.txt")
	assert.Contains(t, out, "1 directories, 2 files")
}

func TestNativeTree_MissingRoot(t *testing.T) {
	_, err := NativeTree{}.Render(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestNativeTree_Cancelled(t *testing.T) {
	root := makeTree(t, "a.txt")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NativeTree{}.Render(ctx, root, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecTree_MissingProgram(t *testing.T) {
	_, err := ExecTree{Command: "repototext-no-such-tree-binary"}.Render(context.Background(), t.TempDir(), nil)
	assert.Error(t, err)
}

func TestNoTree(t *testing.T) {
	_, err := NoTree{}.Render(context.Background(), t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrTreeDisabled)
}

func TestNewTreeRenderer(t *testing.T) {
	r, err := NewTreeRenderer(TreeNative, nil)
	require.NoError(t, err)
	assert.IsType(t, NativeTree{}, r)

	r, err = NewTreeRenderer(TreeExec, nil)
	require.NoError(t, err)
	assert.IsType(t, ExecTree{}, r)

	r, err = NewTreeRenderer(TreeNone, nil)
	require.NoError(t, err)
	assert.IsType(t, NoTree{}, r)

	r, err = NewTreeRenderer(TreeAuto, nil)
	require.NoError(t, err)
	assert.NotNil(t, r)

	_, err = NewTreeRenderer("fancy", nil)
	assert.Error(t, err)
}

func TestIsRemote(t *testing.T) {
	for _, s := range []string{
		"https://github.com/org/repo.git",
		"http://example.com/repo",
		"ssh://git@host/repo.git",
		"git://host/repo",
		"git@github.com:org/repo.git",
	} {
		assert.True(t, IsRemote(s), s)
	}
	for _, s := range []string{".", "/tmp/repo", "repo.git", "C:\\code\\repo"} {
		assert.False(t, IsRemote(s), s)
	}
}

func TestGitCloner_Failure(t *testing.T) {
	_, cleanup, err := GitCloner{Command: "repototext-no-such-git-binary"}.Clone(context.Background(), "https://example.invalid/repo.git")
	assert.Error(t, err)
	assert.Nil(t, cleanup)
}

func TestRevealCommand(t *testing.T) {
	name, args := revealCommand("darwin", "/tmp/out.txt")
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"-R", "/tmp/out.txt"}, args)

	name, args = revealCommand("windows", `C:\out.txt`)
	assert.Equal(t, "explorer", name)
	assert.Equal(t, []string{`/select,C:\out.txt`}, args)

	name, args = revealCommand("linux", "/tmp/out.txt")
	assert.Equal(t, "xdg-open", name)
	assert.Equal(t, []string{"/tmp"}, args)

	_, args = revealCommand("linux", "/tmp/split-dir")
	assert.Equal(t, []string{"/tmp/split-dir"}, args)
}
