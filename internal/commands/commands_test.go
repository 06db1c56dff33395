package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"collection-generator/internal/schema"
)

func writeConfig(t *testing.T, extra string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	out := filepath.Join(dir, "store")
	content := `packages: [collection-generator/examples/movies]
output:
  dir: ` + out + `
  package: store
log:
  level: error
` + extra

	path := filepath.Join(dir, "collectiongen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path, out
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := RootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestCheck(t *testing.T) {
	path, _ := writeConfig(t, "")

	stdout, _, err := run(t, "check", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "ok: 4 collections, 2 roots\n", stdout)
}

func TestCheck_ReportsDiagnostics(t *testing.T) {
	path, _ := writeConfig(t, `collections:
  - path: series/*/episodes
    type: movies.Studio
  - path: movies/*/notes
    type: movies.Studio
`)

	_, stderr, err := run(t, "check", "-c", path)
	require.Error(t, err)
	assert.Equal(t, "1 error found", err.Error())
	assert.Contains(t, stderr, "[series/*/episodes]")
	assert.Contains(t, stderr, "OrphanSubcollection")
}

func TestGenerate(t *testing.T) {
	path, out := writeConfig(t, "")

	stdout, _, err := run(t, "generate", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "generated 5 files for 4 collections in "+out)

	_, err = os.Stat(filepath.Join(out, "movies_collection.go"))
	assert.NoError(t, err)
}

func TestGenerate_DryRun(t *testing.T) {
	path, out := writeConfig(t, "")

	stdout, _, err := run(t, "generate", "-c", path, "--dry-run", "--out", filepath.Join(out, "elsewhere"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "would write movies_collection.go")

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "dry run writes nothing")
}

func TestInspect(t *testing.T) {
	path, _ := writeConfig(t, "")

	stdout, _, err := run(t, "inspect", "-c", path)
	require.NoError(t, err)

	var ef schema.ExportFile
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &ef))
	require.Len(t, ef.Collections, 4)
	assert.Equal(t, "movies", ef.Collections[0].Path)
	assert.Equal(t, []string{"movies/*/comments"}, ef.Collections[0].Children)
}

func TestInspect_Verbose(t *testing.T) {
	path, _ := writeConfig(t, "")

	_, stderr, err := run(t, "inspect", "-c", path, "-v")
	require.NoError(t, err)
	assert.True(t, strings.Contains(stderr, "DecodeComment"), "verbose mode dumps resolved codecs")
}

func TestMissingConfig(t *testing.T) {
	_, _, err := run(t, "check", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading configuration")
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, Version)
}
