package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okScenario = `name: one_context
description: "single context"
contexts:
  - id: http://example.org/a
    triples:
      - '<http://example.org/s> <http://example.org/p> "1" .'
assertions:
  - type: triple_count
    context: http://example.org/a
    count: 1
`

const badScenario = `name: wrong_count
description: "assertion that cannot hold"
contexts:
  - id: http://example.org/a
assertions:
  - type: context_count
    count: 4
`

func scenarioDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestCheck_Pass(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"one.yaml": okScenario})

	res := execute(t, t.TempDir(), "check", dir)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "✓ one_context")
	assert.Contains(t, res.stdout, "1 passed, 0 failed, 1 total")
}

func TestCheck_FailingAssertion(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"one.yaml": okScenario, "bad.yml": badScenario})

	res := execute(t, t.TempDir(), "check", dir)
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Contains(t, res.stdout, "✗ wrong_count")
	assert.Contains(t, res.stdout, "context_count failed")
	assert.Contains(t, res.stdout, "1 passed, 1 failed, 2 total")
}

func TestCheck_UpdateThenCompare(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"one.yaml": okScenario})

	res := execute(t, t.TempDir(), "check", dir, "--update")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "(golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "one_context.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), "== index\n")
	assert.Contains(t, string(golden), `<http://example.org/s> <http://example.org/p> "1" .`)

	res = execute(t, t.TempDir(), "check", dir)
	require.NoError(t, res.err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "one_context.golden"), []byte("stale\n"), 0644))
	res = execute(t, t.TempDir(), "check", dir)
	require.Error(t, res.err)
	assert.Contains(t, res.stdout, "do not match golden file")
}

func TestCheck_Filter(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"one.yaml": okScenario, "bad.yaml": badScenario})

	res := execute(t, t.TempDir(), "check", dir, "--filter", "o*")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "1 passed, 0 failed, 1 total")
	assert.NotContains(t, res.stdout, "wrong_count")
}

func TestCheck_InvalidScenarioFile(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"broken.yaml": "name: x\n"})

	res := execute(t, t.TempDir(), "check", dir)
	require.Error(t, res.err)
	assert.Contains(t, res.stdout, "failed to load scenario")
}

func TestCheck_NoScenarios(t *testing.T) {
	res := execute(t, t.TempDir(), "check", t.TempDir())
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "No scenarios found.")
}

func TestCheck_MissingDir(t *testing.T) {
	res := execute(t, t.TempDir(), "check", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.stderr, "scenarios directory not found")
}

func TestCheck_JSON(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"one.yaml": okScenario})

	res := execute(t, t.TempDir(), "--format", "json", "check", dir)
	require.NoError(t, res.err)

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Passed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "one_context", resp.Data.Scenarios[0].Name)
}
