package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

const passingScenario = `name: one_save
description: "A valid submission is saved"
flow:
  - event: submit
    args: { name: "Ana", email: "ana@x.com", age: "30" }
    expect:
      outcome: saved
assertions:
  - type: record_count
    count: 1
`

const failingScenario = `name: wrong_count
description: "Asserts a count the flow cannot produce"
flow:
  - event: submit
    args: { name: "", email: "", age: "" }
    expect:
      outcome: empty_form
assertions:
  - type: record_count
    count: 3
`

func newTestCmd(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func writeScenario(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0644))
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := newTestCmd(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := newTestCmd(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	buf, err := newTestCmd(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	buf, err := newTestCmd(t, "json", t.TempDir())
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	buf, err := newTestCmd(t, "text", harnessScenarios)
	require.NoError(t, err, buf.String())

	out := buf.String()
	assert.Contains(t, out, "✓ save_and_list")
	assert.Contains(t, out, "✓ corrupt_data_recovery")
	assert.Contains(t, out, "Test Summary: 7 passed, 0 failed, 7 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFilterJSON(t *testing.T) {
	buf, err := newTestCmd(t, "json", harnessScenarios, "--filter", "delete_*")
	require.NoError(t, err)

	var response struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, 2, response.Data.Total)
	for _, s := range response.Data.Scenarios {
		assert.True(t, s.Pass, s.Name)
	}
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scenarios")
	writeScenario(t, dir, "wrong_count", failingScenario)

	buf, err := newTestCmd(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, IsReported(err))

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, "E_TEST_FAILED", response.Error.Code)
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "scenarios")
	writeScenario(t, dir, "one_save", passingScenario)

	buf, err := newTestCmd(t, "text", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ one_save (golden updated)")

	golden, err := os.ReadFile(filepath.Join(root, "golden", "one_save.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name": "one_save"`)

	_, err = newTestCmd(t, "text", dir)
	require.NoError(t, err, "fresh golden matches")

	require.NoError(t, os.WriteFile(filepath.Join(root, "golden", "one_save.golden"), []byte("{}\n"), 0644))
	buf, err = newTestCmd(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "trace does not match golden file")
}

func TestTestCommandGoldenDirFlag(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scenarios")
	goldenDir := filepath.Join(t.TempDir(), "elsewhere")
	writeScenario(t, dir, "one_save", passingScenario)

	_, err := newTestCmd(t, "text", dir, "--update", "--golden-dir", goldenDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(goldenDir, "one_save.golden"))
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken", "name: broken\nflow: []\n")

	buf, err := newTestCmd(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "✗ broken.yaml")
	assert.Contains(t, buf.String(), "failed to load scenario")
}

func TestFindScenarioFiles(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test1.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test2.yml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ignore.txt"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFindScenarioFilesWithFilter(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "delete_one.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "delete_all.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "submit_valid.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "delete_*")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = findScenarioFiles(tmpDir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestFindScenarioFilesSubdirectories(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "subdir")
	require.NoError(t, os.MkdirAll(subDir, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "root.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(subDir, "sub.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
