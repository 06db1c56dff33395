package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), FileName+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
packages:
  - ./examples/movies
output:
  dir: ./gen/store
  package: moviestore
  import: example.com/app/gen/store
emitters: [reference, snapshot, codec]
workers: 4
log:
  level: debug
  console: false
collections:
  - path: archive
    type: movies.Movie
  - path: movies/*/drafts
    name: drafts
    type: collection-generator/examples/movies.Comment
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"./examples/movies"}, cfg.Packages)
	assert.Equal(t, OutputConfig{Dir: "./gen/store", Package: "moviestore", Import: "example.com/app/gen/store"}, cfg.Output)
	assert.Equal(t, []string{"reference", "snapshot", "codec"}, cfg.Emitters)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, LogConfig{Level: "debug", Console: false}, cfg.Log)
	assert.Equal(t, []CollectionConfig{
		{Path: "archive", Type: "movies.Movie"},
		{Path: "movies/*/drafts", Name: "drafts", Type: "collection-generator/examples/movies.Comment"},
	}, cfg.Collections)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "packages: [./...]\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./store", cfg.Output.Dir)
	assert.Equal(t, "store", cfg.Output.Package)
	assert.Equal(t, []string{"reference", "snapshot", "query", "codec"}, cfg.Emitters)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Console)
	assert.Empty(t, cfg.Collections)
}

func TestLoad_NoFileInWorkingDirectory(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"./..."}, cfg.Packages)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "output:\n  dir: ./from-file\n")

	t.Setenv("COLLECTIONGEN_OUTPUT_DIR", "./from-env")
	t.Setenv("COLLECTIONGEN_LOG_LEVEL", "trace")
	t.Setenv("COLLECTIONGEN_WORKERS", "2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./from-env", cfg.Output.Dir)
	assert.Equal(t, "trace", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, `
output:
  package: my-store
workers: -1
collections:
  - name: orphan
`)

	_, err := Load(path)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `output.package: "my-store" is not a valid package name`)
	assert.Contains(t, msg, "workers: must not be negative")
	assert.Contains(t, msg, "collections[0]: path is required")
	assert.Contains(t, msg, "collections[0]: type is required")
}
