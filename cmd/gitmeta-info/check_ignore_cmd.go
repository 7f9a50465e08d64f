package main

import (
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

// ErrNoWorkingTree is returned when check-ignore is run against a bare
// repository: there is no working tree to classify paths against
// (spec §4.5).
var ErrNoWorkingTree = xerrors.New("gitmeta-info: repository has no working tree")

func newCheckIgnoreCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-ignore <path>...",
		Short: "classify paths against the repository's .gitignore rules",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return checkIgnoreCmd(cmd.OutOrStdout(), cfg, args)
	}

	return cmd
}

// checkIgnoreCmd prints every argument that's classified as ignored,
// mirroring `git check-ignore`'s default (quiet-on-tracked) behavior.
// Each path is resolved relative to --path before classification.
func checkIgnoreCmd(out io.Writer, cfg *globalFlags, paths []string) error {
	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	matcher := repo.IgnoreMatcher()
	if matcher == nil {
		return ErrNoWorkingTree
	}

	for _, p := range paths {
		full := p
		if !filepath.IsAbs(full) {
			full = filepath.Join(cfg.path.String(), full)
		}
		ignored, _ := matcher.Classify(full)
		if ignored {
			fprintln(out, p)
		}
	}
	return nil
}
