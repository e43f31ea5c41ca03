package fs

import (
	"path/filepath"
	"strings"

	"github.com/sokinpui/socpatch/internal/config"
	"github.com/sokinpui/socpatch/internal/errs"
)

// Layout holds every path a run works with, computed once from the
// working directory and the selected platform.
type Layout struct {
	Platform    string
	Root        string
	PlatformDir string
	PatchRoot   string
	FileRoot    string
	SourceRoot  string
	JSONName    string
}

// ResolveLayout validates the platform argument and derives the layout.
// The project root is cwd with cfg.RootDepth trailing components removed,
// unless rootOverride is set.
func ResolveLayout(cwd, platformArg, rootOverride string, cfg config.Config) (*Layout, error) {
	if strings.TrimSpace(platformArg) == "" {
		return nil, errs.Usage("please select a platform: only %s are supported", quoteList(cfg.Platforms))
	}

	platform := strings.ToUpper(strings.TrimSpace(platformArg))
	if !cfg.Supports(platform) {
		return nil, errs.Platform("%s not supported", platform)
	}

	root := rootOverride
	if root == "" {
		root = AncestorDir(cwd, cfg.RootDepth)
	}
	root = filepath.Clean(root)

	platformDir := filepath.Join(root, filepath.FromSlash(cfg.VendorDir), platform)
	return &Layout{
		Platform:    platform,
		Root:        root,
		PlatformDir: platformDir,
		PatchRoot:   filepath.Join(platformDir, filepath.FromSlash(cfg.PatchDir)),
		FileRoot:    filepath.Join(platformDir, filepath.FromSlash(cfg.FileDir)),
		SourceRoot:  filepath.Join(platformDir, filepath.FromSlash(cfg.SourceDir)),
		JSONName:    platform + ".json",
	}, nil
}

// AncestorDir strips levels trailing path components from dir. Stripping
// past the filesystem root stays at the root.
func AncestorDir(dir string, levels int) string {
	dir = filepath.Clean(dir)
	for i := 0; i < levels; i++ {
		dir = filepath.Dir(dir)
	}
	return dir
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	return strings.Join(quoted, " or ")
}
