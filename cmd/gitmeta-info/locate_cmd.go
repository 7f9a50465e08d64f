package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/arborist-run/gitmeta"
)

func newLocateCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate [path]",
		Short: "print the resolved repository location as JSON",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		startPath := cfg.path.String()
		if len(args) > 0 {
			startPath = args[0]
		}
		return locateCmd(cmd.OutOrStdout(), cfg, startPath)
	}

	return cmd
}

// locationJSON mirrors gitmeta.RepositoryLocation, trading its
// exported-field capitalization for the lowerCamelCase the rest of
// this CLI's JSON output uses.
type locationJSON struct {
	GitDir        string `json:"gitDir"`
	CommonDir     string `json:"commonDir"`
	WorkingDir    string `json:"workingDir,omitempty"`
	HasWorkingDir bool   `json:"hasWorkingDir"`
}

func locateCmd(out io.Writer, cfg *globalFlags, startPath string) error {
	loc, found, err := gitmeta.Locate(cfg.fs, startPath)
	if err != nil {
		return err
	}
	if !found {
		return gitmeta.ErrRepositoryNotExist
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(locationJSON{
		GitDir:        loc.GitDir,
		CommonDir:     loc.CommonDir,
		WorkingDir:    loc.WorkingDir,
		HasWorkingDir: loc.HasWorkingDir,
	})
}
