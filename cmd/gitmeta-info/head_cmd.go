package main

import (
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

// ErrHeadUnborn is returned when HEAD's symbolic chain dead-ends on a
// missing reference (spec §4.3) — e.g. a freshly initialized
// repository with no commits yet.
var ErrHeadUnborn = xerrors.New("gitmeta-info: HEAD does not resolve to a commit")

func newHeadCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "head",
		Short: "print the object name HEAD resolves to",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return headCmd(cmd.OutOrStdout(), cfg)
	}

	return cmd
}

func headCmd(out io.Writer, cfg *globalFlags) error {
	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	oid, found, err := repo.HeadCommit()
	if err != nil {
		return err
	}
	if !found {
		return ErrHeadUnborn
	}
	fprintln(out, oid)
	return nil
}
