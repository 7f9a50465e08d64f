package main

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitConfigKey(t *testing.T) {
	section, subsection, name := splitConfigKey("core.bare")
	assert.Equal(t, "core", section)
	assert.Equal(t, "", subsection)
	assert.Equal(t, "bare", name)

	section, subsection, name = splitConfigKey("remote.origin.url")
	assert.Equal(t, "remote", section)
	assert.Equal(t, "origin", subsection)
	assert.Equal(t, "url", name)
}

func TestConfigGetCmd_PrintsValue(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.git/HEAD", "ref: refs/heads/main\n")
	writeFile(t, fs, "/repo/.git/config", "[core]\n\tbare = false\n[remote \"origin\"]\n\turl = git@example.com:a/b.git\n")
	cfg := newTestConfig(fs, "/repo")

	var out bytes.Buffer
	require.NoError(t, configGetCmd(&out, cfg, "remote.origin.url"))
	assert.Equal(t, "git@example.com:a/b.git\n", out.String())
}

func TestConfigGetCmd_UnknownKeyIsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.git/HEAD", "ref: refs/heads/main\n")
	cfg := newTestConfig(fs, "/repo")

	var out bytes.Buffer
	err := configGetCmd(&out, cfg, "core.nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownConfigKey)
}

func TestConfigGetAllCmd_PrintsEveryValue(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.git/HEAD", "ref: refs/heads/main\n")
	writeFile(t, fs, "/repo/.git/config", "[core]\n\tbare = false\n[include]\n\tpath = /repo/.git/extra.conf\n")
	writeFile(t, fs, "/repo/.git/extra.conf", "[remote \"origin\"]\n\tfetch = +refs/heads/a:refs/remotes/origin/a\n\tfetch = +refs/heads/b:refs/remotes/origin/b\n")
	cfg := newTestConfig(fs, "/repo")

	var out bytes.Buffer
	require.NoError(t, configGetAllCmd(&out, cfg, "remote.origin.fetch"))
	assert.Equal(t, "+refs/heads/a:refs/remotes/origin/a\n+refs/heads/b:refs/remotes/origin/b\n", out.String())
}
