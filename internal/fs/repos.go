package fs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sokinpui/socpatch/internal/errs"
	"github.com/sokinpui/socpatch/model"
)

// ScanRepoSet lists the immediate child directories of dir and maps each
// one to a repository path under root. The child name is read as a path
// with '-' standing for the separator, so "kernel-linux-5.10" maps to
// root/kernel/linux/5.10.
func ScanRepoSet(dir, root string) (model.RepoSet, error) {
	if !DirExists(dir) {
		return nil, errs.Path("not found %s, please check", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.New(errs.KindPath, "failed to list "+dir, err)
	}

	set := make(model.RepoSet)
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		// Follows symlinks, so a linked folder counts as a directory.
		if !DirExists(full) {
			continue
		}
		set[RepoPath(root, entry.Name())] = full
	}
	return set, nil
}

// RepoPath converts a dash-separated folder name into a path under root.
func RepoPath(root, name string) string {
	return filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(name, "-", "/")))
}

// IsGitRepo reports whether path contains a .git directory.
func IsGitRepo(path string) bool {
	return DirExists(filepath.Join(path, ".git"))
}

func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
