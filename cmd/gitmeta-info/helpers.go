package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/arborist-run/gitmeta"
)

// openRepository resolves the repository these global flags point at:
// --git-dir bypasses discovery entirely (the working tree then is
// --work-tree, or there is none if --work-tree is unset);
// otherwise Locate walks up from --path the normal way.
func openRepository(cfg *globalFlags) (*gitmeta.Repository, error) {
	if gitDir := cfg.gitDir.String(); gitDir != "" {
		loc := gitmeta.RepositoryLocation{GitDir: gitDir, CommonDir: gitDir}
		if workTree := cfg.workTree.String(); workTree != "" {
			loc.WorkingDir = workTree
			loc.HasWorkingDir = true
		}
		repo, err := gitmeta.Open(cfg.fs, cfg.env, loc)
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", gitDir)
		}
		return repo, nil
	}

	repo, err := gitmeta.OpenFromPath(cfg.fs, cfg.env, cfg.path.String())
	if err != nil {
		return nil, errors.Wrapf(err, "locating repository from %s", cfg.path.String())
	}
	return repo, nil
}

func fprintln(out io.Writer, a ...interface{}) {
	fmt.Fprintln(out, a...)
}

func fprintf(out io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(out, format, a...)
}
