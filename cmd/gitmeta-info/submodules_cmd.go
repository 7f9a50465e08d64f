package main

import (
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSubmodulesCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submodules",
		Short: "list the repository's submodules",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return submodulesCmd(cmd.OutOrStdout(), cfg)
	}

	return cmd
}

func submodulesCmd(out io.Writer, cfg *globalFlags) error {
	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	subs, err := repo.Submodules()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fprintln(w, "NAME\tPATH\tHEAD\tURL")
	for _, s := range subs {
		head := "(none)"
		if s.HasHeadCommit {
			head = s.HeadCommit
		}
		fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, s.RelativePathPosix, head, s.URL)
	}
	return w.Flush()
}
