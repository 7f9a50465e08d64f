package main

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIgnoreCmd_PrintsOnlyIgnoredPaths(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.git/HEAD", "ref: refs/heads/main\n")
	writeFile(t, fs, "/repo/.gitignore", "*.log\n")
	writeFile(t, fs, "/repo/app.log", "")
	writeFile(t, fs, "/repo/main.go", "package main\n")
	cfg := newTestConfig(fs, "/repo")

	var out bytes.Buffer
	require.NoError(t, checkIgnoreCmd(&out, cfg, []string{"app.log", "main.go"}))
	assert.Equal(t, "app.log\n", out.String())
}

func TestCheckIgnoreCmd_BareRepositoryIsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/srv/repo.git/HEAD", "ref: refs/heads/main\n")
	cfg := newTestConfig(fs, "/srv/repo.git")

	var out bytes.Buffer
	err := checkIgnoreCmd(&out, cfg, []string{"whatever"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoWorkingTree)
}
