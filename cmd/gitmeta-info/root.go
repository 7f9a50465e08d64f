// Command gitmeta-info is a read-only inspector for the metadata
// gitmeta.Repository exposes: repository location, resolved config,
// HEAD, submodules, and .gitignore classification. It never writes to
// the repository it inspects.
//
// Grounded on the teacher's cmd/git-go/git.go command-tree shape
// (cobra root command, pflag.Value path flags held on a shared flags
// struct passed to every subcommand constructor).
package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arborist-run/gitmeta/env"
	"github.com/arborist-run/gitmeta/internal/pathutil"
)

// globalFlags is shared by every subcommand: the filesystem, the
// environment snapshot, and the path overrides that control how the
// repository is located.
type globalFlags struct {
	fs  afero.Fs
	env *env.Environment

	path     pflag.Value // -C/--path: start discovery from here instead of the cwd
	gitDir   pflag.Value // --git-dir: skip discovery entirely
	workTree pflag.Value // --work-tree: override the working directory gitDir implies
}

func newRootCmd(cwd string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gitmeta-info",
		Short:         "Inspect a git repository's location, config, HEAD, submodules and ignore rules",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cfg := &globalFlags{
		fs:  afero.NewOsFs(),
		env: env.FromOS(),
	}
	cfg.path = pathutil.NewDirPathFlagWithDefault(cwd)
	cfg.gitDir = pathutil.NewDirPathFlagWithDefault("")
	cfg.workTree = pathutil.NewDirPathFlagWithDefault("")
	cmd.PersistentFlags().VarP(cfg.path, "path", "C", "run as if gitmeta-info was started in the given path instead of the current working directory")
	cmd.PersistentFlags().Var(cfg.gitDir, "git-dir", "use the given directory as the repository's git directory instead of discovering one")
	cmd.PersistentFlags().Var(cfg.workTree, "work-tree", "use the given directory as the working tree instead of the git directory's default")

	cmd.AddCommand(newLocateCmd(cfg))
	cmd.AddCommand(newConfigCmd(cfg))
	cmd.AddCommand(newHeadCmd(cfg))
	cmd.AddCommand(newSubmodulesCmd(cfg))
	cmd.AddCommand(newCheckIgnoreCmd(cfg))

	return cmd
}
