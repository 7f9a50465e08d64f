package submodule

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborist-run/gitmeta/env"
)

func newTestEnv() *env.Environment {
	return env.FromKVList(nil)
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestEnumerate_NoGitmodulesIsEmptyNotError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo", 0o755))

	subs, err := Enumerate(fs, newTestEnv(), "/repo")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestEnumerate_ResolvesHeadForEachSubmodule(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.gitmodules", ""+
		"[submodule \"vendor/lib\"]\n"+
		"\tpath = vendor/lib\n"+
		"\turl = https://example.com/lib.git\n")
	writeFile(t, fs, "/repo/vendor/lib/.git/HEAD", "ref: refs/heads/main\n")
	writeFile(t, fs, "/repo/vendor/lib/.git/refs/heads/main", "2222222222222222222222222222222222222222\n")

	subs, err := Enumerate(fs, newTestEnv(), "/repo")
	require.NoError(t, err)
	require.Len(t, subs, 1)

	sub := subs[0]
	assert.Equal(t, "vendor/lib", sub.Name)
	assert.Equal(t, "vendor/lib", sub.RelativePathPosix)
	assert.Equal(t, "https://example.com/lib.git", sub.URL)
	assert.True(t, sub.HasHeadCommit)
	assert.Equal(t, "2222222222222222222222222222222222222222", sub.HeadCommit)
}

func TestEnumerate_MissingPathIsSkipped(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.gitmodules", ""+
		"[submodule \"broken\"]\n"+
		"\turl = https://example.com/broken.git\n"+
		"[submodule \"vendor/lib\"]\n"+
		"\tpath = vendor/lib\n")
	writeFile(t, fs, "/repo/vendor/lib/.git/HEAD", "ref: refs/heads/main\n")
	writeFile(t, fs, "/repo/vendor/lib/.git/refs/heads/main", "3333333333333333333333333333333333333333\n")

	subs, err := Enumerate(fs, newTestEnv(), "/repo")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "vendor/lib", subs[0].Name)
}

func TestEnumerate_MissingSubGitDirIsSilentlyOmitted(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.gitmodules", ""+
		"[submodule \"uninitialized\"]\n"+
		"\tpath = vendor/uninitialized\n")
	require.NoError(t, fs.MkdirAll("/repo/vendor/uninitialized", 0o755))

	subs, err := Enumerate(fs, newTestEnv(), "/repo")
	require.NoError(t, err)
	assert.Empty(t, subs, "a submodule whose .git cannot be located contributes no record at all")
}

func TestEnumerate_DotGitFileRedirectionIsFollowed(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.gitmodules", ""+
		"[submodule \"vendor/lib\"]\n"+
		"\tpath = vendor/lib\n")
	writeFile(t, fs, "/repo/vendor/lib/.git", "gitdir: /repo/.git/modules/vendor/lib\n")
	writeFile(t, fs, "/repo/.git/modules/vendor/lib/HEAD", "4444444444444444444444444444444444444444\n")

	subs, err := Enumerate(fs, newTestEnv(), "/repo")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].HasHeadCommit)
	assert.Equal(t, "4444444444444444444444444444444444444444", subs[0].HeadCommit)
}

func TestEnumerate_DuplicateSubsectionUsesLastValue(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/.gitmodules", ""+
		"[submodule \"vendor/lib\"]\n"+
		"\tpath = vendor/lib\n"+
		"[submodule \"vendor/lib\"]\n"+
		"\tpath = vendor/lib-renamed\n")
	writeFile(t, fs, "/repo/vendor/lib-renamed/.git/HEAD", "5555555555555555555555555555555555555555\n")

	subs, err := Enumerate(fs, newTestEnv(), "/repo")
	require.NoError(t, err)
	require.Len(t, subs, 1, "the subsection is only emitted once, at its first occurrence")
	assert.Equal(t, "vendor/lib-renamed", subs[0].RelativePathPosix,
		"but its field values come from cfg.Get, which is last-value-wins")
}
