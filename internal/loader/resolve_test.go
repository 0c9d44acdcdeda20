package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sandbox returns a canonical base directory with a "sub/dir" tree, a
// regular file and a sibling directory outside the base.
func sandbox(t *testing.T) (base, outside string) {
	t.Helper()
	root, err := Canonicalize(t.TempDir())
	require.NoError(t, err)

	base = filepath.Join(root, "sand")
	outside = filepath.Join(root, "sandbox2")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "sub", "dir"), 0o755))
	require.NoError(t, os.MkdirAll(outside, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "file.txt"), []byte("x"), 0o644))
	return base, outside
}

func TestResolvePath(t *testing.T) {
	base, outside := sandbox(t)

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "relative", raw: "sub/dir", want: filepath.Join(base, "sub", "dir")},
		{name: "absolute inside", raw: filepath.Join(base, "sub"), want: filepath.Join(base, "sub")},
		{name: "base itself", raw: ".", want: base},
		{name: "dot segments inside", raw: "sub/../sub/dir", want: filepath.Join(base, "sub", "dir")},
		{name: "empty", raw: "", wantErr: ErrEmptyResult},
		{name: "parent escape", raw: "../escape", wantErr: ErrEscapesSandbox},
		{name: "sibling with shared prefix", raw: outside, wantErr: ErrEscapesSandbox},
		{name: "absolute outside", raw: "/", wantErr: ErrEscapesSandbox},
		{name: "nonexistent", raw: "missing", wantErr: ErrNonexistent},
		{name: "regular file", raw: "file.txt", wantErr: ErrNotDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(base, tt.raw)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePath_SymlinkEscape(t *testing.T) {
	base, outside := sandbox(t)
	require.NoError(t, os.Symlink(outside, filepath.Join(base, "link")))

	_, err := ResolvePath(base, "link")
	assert.ErrorIs(t, err, ErrEscapesSandbox)
}

func TestResolvePath_SymlinkInside(t *testing.T) {
	base, _ := sandbox(t)
	require.NoError(t, os.Symlink(filepath.Join(base, "sub", "dir"), filepath.Join(base, "alias")))

	got, err := ResolvePath(base, "alias")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "sub", "dir"), got)
}

func TestResolvePath_SymlinkedBase(t *testing.T) {
	base, outside := sandbox(t)
	linked := filepath.Join(filepath.Dir(base), "base-link")
	require.NoError(t, os.Symlink(base, linked))

	got, err := ResolvePath(linked, "sub/dir")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "sub", "dir"), got)

	got, err = ResolvePath(linked, filepath.Join(base, "sub"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "sub"), got)

	_, err = ResolvePath(linked, outside)
	assert.ErrorIs(t, err, ErrEscapesSandbox)
}

func TestResolvePath_UncleanedBase(t *testing.T) {
	base, _ := sandbox(t)
	unclean := base + string(filepath.Separator) + "." + string(filepath.Separator)

	got, err := ResolvePath(unclean, "sub")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "sub"), got)

	got, err = ResolvePath(unclean, ".")
	require.NoError(t, err)
	assert.Equal(t, base, got)

	_, err = ResolvePath(filepath.Join(base, "sub", ".."), "../escape")
	assert.ErrorIs(t, err, ErrEscapesSandbox)
}

func TestResolvePath_EscapeCheckedBeforeExistence(t *testing.T) {
	base, _ := sandbox(t)

	_, err := ResolvePath(base, "../does-not-exist")
	assert.ErrorIs(t, err, ErrEscapesSandbox)
	assert.NotErrorIs(t, err, ErrNonexistent)
}

func TestCanonicalize_MissingTail(t *testing.T) {
	base, _ := sandbox(t)
	require.NoError(t, os.Symlink(filepath.Join(base, "sub"), filepath.Join(base, "s")))

	got, err := Canonicalize(filepath.Join(base, "s", "nope", "deeper"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "sub", "nope", "deeper"), got)
}

func TestWithin(t *testing.T) {
	assert.True(t, within("/a/b", "/a/b"))
	assert.True(t, within("/a/b", "/a/b/c"))
	assert.False(t, within("/a/b", "/a/bc"))
	assert.False(t, within("/a/b", "/a"))
	assert.True(t, within("/", "/anything"))
}
