package main

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/arborist-run/gitmeta/env"
	"github.com/arborist-run/gitmeta/internal/testhelper"
)

// newTestConfig builds a globalFlags whose path flags are
// testhelper.StringValue rather than pathutil.PathValue, so they can
// hold a path into an afero.MemMapFs without going through PathValue's
// real os.Stat validation.
func newTestConfig(fs afero.Fs, path string) *globalFlags {
	return &globalFlags{
		fs:       fs,
		env:      env.FromKVList(nil),
		path:     testhelper.NewStringValue(path),
		gitDir:   testhelper.NewStringValue(""),
		workTree: testhelper.NewStringValue(""),
	}
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
