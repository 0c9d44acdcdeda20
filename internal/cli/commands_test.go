package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNQ = "<http://example.org/a> <http://example.org/p> \"1\" <http://e/one> .\n" +
	"<http://example.org/b> <http://example.org/p> \"2\" <http://e/two> .\n"

func initBase(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	res := execute(t, base, "init")
	require.NoError(t, res.err, res.stderr)
	return base
}

func TestInitCommand(t *testing.T) {
	base := t.TempDir()
	res := execute(t, base, "init")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Initialized pow store in")
	assert.FileExists(t, filepath.Join(base, ".pow", "pow.conf"))
	assert.DirExists(t, filepath.Join(base, ".pow", ".git"))
}

func TestInitCommandJSON(t *testing.T) {
	base := t.TempDir()
	res := execute(t, base, "--format", "json", "--powdir", "store", "init")
	require.NoError(t, res.err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.DirExists(t, filepath.Join(base, "store"))
}

func TestContextsRequiresInit(t *testing.T) {
	res := execute(t, t.TempDir(), "contexts")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.stderr, "Error [E002]")
}

func TestAddGraphContextsAndSerialize(t *testing.T) {
	base := initBase(t)
	require.NoError(t, os.WriteFile(filepath.Join(base, "g.nq"), []byte(sampleNQ), 0o644))

	res := execute(t, base, "add-graph", "g.nq")
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "Added 2 statements from g.nq\n", res.stdout)

	res = execute(t, base, "contexts")
	require.NoError(t, res.err)
	assert.Equal(t, "http://e/one\nhttp://e/two\n", res.stdout)

	res = execute(t, base, "serialize")
	require.NoError(t, res.err)
	assert.Equal(t, sampleNQ, res.stdout)

	out := filepath.Join(base, "all.nt")
	res = execute(t, base, "serialize", "--syntax", "nt", "-o", out)
	require.NoError(t, res.err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"<http://example.org/a> <http://example.org/p> \"1\" .\n"+
			"<http://example.org/b> <http://example.org/p> \"2\" .\n",
		string(data))
}

func TestSerializeBadSyntax(t *testing.T) {
	base := initBase(t)
	res := execute(t, base, "serialize", "--syntax", "turtle")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
}

func TestAddGraphUnreadable(t *testing.T) {
	base := initBase(t)
	res := execute(t, base, "add-graph", "missing.nt")
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Contains(t, res.stderr, "Error [E007]")
	assert.Contains(t, res.stderr, "could not read the graph at missing.nt")
}

func TestContextCommand(t *testing.T) {
	base := t.TempDir()

	res := execute(t, base, "context")
	require.NoError(t, res.err)
	assert.Equal(t, "No context\n", res.stdout)

	res = execute(t, base, "context", "http://e/target")
	require.NoError(t, res.err)

	res = execute(t, base, "context")
	require.NoError(t, res.err)
	assert.Equal(t, "http://e/target\n", res.stdout)
}

func TestCommitAndDiffCommands(t *testing.T) {
	base := initBase(t)
	require.NoError(t, os.WriteFile(filepath.Join(base, "g.nq"), []byte(sampleNQ), 0o644))
	require.NoError(t, execute(t, base, "add-graph", "g.nq").err)

	res := execute(t, base, "diff")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	assert.Len(t, lines, 4, "two graph files, the index and the config")
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "A "), l)
	}

	res = execute(t, base, "commit", "-m", "first")
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "Committed\n", res.stdout)

	res = execute(t, base, "--format", "json", "diff")
	require.NoError(t, res.err)
	var resp struct {
		Status string      `json:"status"`
		Data   []DiffEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Data)

	res = execute(t, base, "diff")
	require.NoError(t, res.err)
	assert.Equal(t, "No changes\n", res.stdout)
}

func TestCloneCommand(t *testing.T) {
	src := initBase(t)
	require.NoError(t, os.WriteFile(filepath.Join(src, "g.nq"), []byte(sampleNQ), 0o644))
	require.NoError(t, execute(t, src, "add-graph", "g.nq").err)
	require.NoError(t, execute(t, src, "commit", "-m", "seed").err)

	dest := t.TempDir()
	res := execute(t, dest, "clone", filepath.Join(src, ".pow"))
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stderr, "Cloning...")
	assert.Contains(t, res.stderr, "Done!")

	res = execute(t, dest, "serialize")
	require.NoError(t, res.err)
	assert.Equal(t, sampleNQ, res.stdout)

	res = execute(t, dest, "clone", filepath.Join(src, ".pow"))
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
}

func TestTranslateCommand(t *testing.T) {
	base := initBase(t)
	in := filepath.Join(base, "input")
	require.NoError(t, os.MkdirAll(in, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.nt"),
		[]byte("<http://example.org/a> <http://example.org/p> \"1\" .\n"), 0o644))

	res := execute(t, base, "--format", "json", "translate", "ntriples", "http://e/imports", in, "--output-key", "http://e/out")
	require.NoError(t, res.err, res.stdout)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Contexts []string `json:"contexts"`
			Triples  int      `json:"triples"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, []string{"http://e/out"}, resp.Data.Contexts)
	assert.Equal(t, 1, resp.Data.Triples)

	res = execute(t, base, "translate", "nope", "http://e/imports")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
}
