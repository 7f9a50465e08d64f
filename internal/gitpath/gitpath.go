// Package gitpath contains the well-known file and directory names used
// inside a git directory and a working tree.
package gitpath

import "os"

// Names of the files and directories that live directly under a git
// directory.
const (
	DotGit          = ".git"
	ConfigName      = "config"
	HEADName        = "HEAD"
	PackedRefsName  = "packed-refs"
	CommonDirName   = "commondir"
	GitModulesName  = ".gitmodules"
	GitIgnoreName   = ".gitignore"
	GitExcludeName  = "info" + string(os.PathSeparator) + "exclude"
	ReftableDirName = "reftable"
	TablesListName  = "tables.list"

	RefsDirName      = "refs"
	RefsHeadsRelPath = RefsDirName + "/heads"
	RefsTagsRelPath  = RefsDirName + "/tags"
)

// ReftableDir returns the path, relative to a git directory, of the
// reftable directory.
func ReftableDir() string {
	return ReftableDirName
}

// TablesListPath returns the path, relative to a git directory, of the
// reftable table list.
func TablesListPath() string {
	return ReftableDirName + string(os.PathSeparator) + TablesListName
}
