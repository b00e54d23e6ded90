package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const portalYAML = `name: portal
members:
  - id: col-1
    kind: column
    start: [0, 0, 0]
    end: [0, 0, 3000]
    profile: W310x39
    material: A992
  - id: col-2
    kind: column
    start: [6000, 0, 0]
    end: [6000, 0, 3000]
    profile: W310x39
    material: A992
  - id: beam-1
    kind: beam
    start: [0, 0, 3000]
    end: [6000, 0, 3000]
    profile: W310x39
    material: A992
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(portalYAML), 0o644))

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "portal")
	assert.Contains(t, out, "Passed")
}

func TestValidateCommand_JSONAndOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(portalYAML), 0o644))
	resultPath := filepath.Join(dir, "result.json")

	out, err := execute(t, "validate", path, "--format", "json", "--output", resultPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "PASSED"`)

	data, err := os.ReadFile(resultPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id"`)

	// reset flags for other tests
	validateFormat = "text"
	validateOut = ""
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", "/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	// no name field: structures pick up their file names
	unnamed := strings.TrimPrefix(portalYAML, "name: portal\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame-a.yaml"), []byte(unnamed), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame-b.yaml"), []byte(unnamed), 0o644))

	out, err := execute(t, "batch", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "frame-a")
	assert.Contains(t, out, "frame-b")
	assert.Contains(t, out, "Passed")
}

func TestBatchCommand_EmptyDir(t *testing.T) {
	_, err := execute(t, "batch", t.TempDir())
	assert.Error(t, err)
}
