package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborist-run/gitmeta/env"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestLoader_HierarchicalPrecedence(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/pd/git/config", "[cfg]\n\tdir = programdata\n")
	writeFile(t, fs, "/etc/gitconfig", "[cfg]\n\tdir = sys\n")
	writeFile(t, fs, "/xdg/git/config", "[cfg]\n\tdir = xdg\n")
	writeFile(t, fs, "/home/.gitconfig", "[cfg]\n\tdir = home1\n")
	writeFile(t, fs, "/repo/.git/config", "[cfg]\n\tdir = common\n")

	e := env.FromKVList([]string{
		"HOME=/home",
		"XDG_CONFIG_HOME=/xdg",
		"PROGRAMDATA=/pd",
	})
	l := NewLoader(fs, e)
	l.SystemEtc = func(*env.Environment) (string, bool) { return "/etc", true }

	cfg, err := l.Load("/repo/.git", "/repo/.git/")
	require.NoError(t, err)

	all := cfg.GetAll("cfg", "", "dir")
	assert.Equal(t, []string{"programdata", "sys", "xdg", "home1", "common"}, all)

	last, ok := cfg.Get("cfg", "", "dir")
	require.True(t, ok)
	assert.Equal(t, "common", last)
}

func TestLoader_ConditionalIncludeGitdir(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.git/config", `[includeIf "gitdir:/tmp/R/"]
	path = /repo/cfg4
[includeIf "gitdir:/tmp/R/.git"]
	path = /repo/cfg5
`)
	writeFile(t, fs, "/repo/cfg4", "[a]\n\tmatched = yes\n")
	writeFile(t, fs, "/repo/cfg5", "[a]\n\tnotmatched = yes\n")

	e := env.FromKVList(nil)
	l := NewLoader(fs, e)
	l.SystemEtc = func(*env.Environment) (string, bool) { return "", false }

	cfg, err := l.Load("/repo/.git", "/tmp/R/.git/")
	require.NoError(t, err)

	_, ok := cfg.Get("a", "", "matched")
	assert.True(t, ok, "gitdir:/tmp/R/ should match /tmp/R/.git/")
	_, ok = cfg.Get("a", "", "notmatched")
	assert.False(t, ok, "gitdir:/tmp/R/.git (no trailing slash) should not match")
}

func TestLoader_ConditionalIncludeCaseInsensitiveHome(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.git/config", `[includeIf "gitdir/i:~/**/.GIT/"]
	path = /repo/cfg6
`)
	writeFile(t, fs, "/repo/cfg6", "[a]\n\tmatched = yes\n")

	e := env.FromKVList([]string{"HOME=/tmp"})
	l := NewLoader(fs, e)
	l.SystemEtc = func(*env.Environment) (string, bool) { return "", false }

	cfg, err := l.Load("/repo/.git", "/tmp/sub/dir/.git/")
	require.NoError(t, err)

	_, ok := cfg.Get("a", "", "matched")
	assert.True(t, ok)
}

func TestLoader_MissingTiersAreSkippedNotFatal(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.git/config", "[a]\n\tx = 1\n")

	e := env.FromKVList(nil)
	l := NewLoader(fs, e)
	l.SystemEtc = func(*env.Environment) (string, bool) { return "", false }

	cfg, err := l.Load("/repo/.git", "/repo/.git/")
	require.NoError(t, err)
	v, ok := cfg.Get("a", "", "x")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestLoader_IncludeRecursionExceeded(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.git/config", "[include]\n\tpath = /repo/a\n")
	for i := 0; i < 12; i++ {
		writeFile(t, fs, "/repo/a", "[include]\n\tpath = /repo/a\n")
	}

	e := env.FromKVList(nil)
	l := NewLoader(fs, e)
	l.SystemEtc = func(*env.Environment) (string, bool) { return "", false }

	_, err := l.Load("/repo/.git", "/repo/.git/")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecursionExceeded)
}
