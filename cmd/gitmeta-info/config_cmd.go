package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

// ErrUnknownConfigKey is returned when a requested key has no value in
// the resolved configuration.
var ErrUnknownConfigKey = xerrors.New("gitmeta-info: unknown config key")

func newConfigCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "inspect the repository's resolved configuration",
	}

	cmd.AddCommand(newConfigGetCmd(cfg))
	cmd.AddCommand(newConfigGetAllCmd(cfg))

	return cmd
}

func newConfigGetCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <section>[.<subsection>].<name>",
		Short: "print the last-assigned value of a single config key",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return configGetCmd(cmd.OutOrStdout(), cfg, args[0])
	}

	return cmd
}

func newConfigGetAllCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-all <section>[.<subsection>].<name>",
		Short: "print every assigned value of a config key, in assignment order",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return configGetAllCmd(cmd.OutOrStdout(), cfg, args[0])
	}

	return cmd
}

func configGetCmd(out io.Writer, cfg *globalFlags, dottedKey string) error {
	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	section, subsection, name := splitConfigKey(dottedKey)
	value, ok := repo.Config().Get(section, subsection, name)
	if !ok {
		return xerrors.Errorf("%s: %w", dottedKey, ErrUnknownConfigKey)
	}
	fprintln(out, value)
	return nil
}

func configGetAllCmd(out io.Writer, cfg *globalFlags, dottedKey string) error {
	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	section, subsection, name := splitConfigKey(dottedKey)
	for _, value := range repo.Config().GetAll(section, subsection, name) {
		fprintln(out, value)
	}
	return nil
}

// splitConfigKey splits a dotted "section[.subsection].name" key the
// way git's own config key grammar does: the last "." separates name;
// of what remains, the first "." (if any) separates section from
// subsection.
func splitConfigKey(dottedKey string) (section, subsection, name string) {
	lastDot := strings.LastIndex(dottedKey, ".")
	if lastDot < 0 {
		return dottedKey, "", ""
	}
	name = dottedKey[lastDot+1:]
	rest := dottedKey[:lastDot]

	firstDot := strings.Index(rest, ".")
	if firstDot < 0 {
		return rest, "", name
	}
	return rest[:firstDot], rest[firstDot+1:], name
}
