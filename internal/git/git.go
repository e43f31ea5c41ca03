package git

import (
	"context"

	"github.com/sokinpui/socpatch/internal/shell"
	"github.com/sokinpui/socpatch/model"
)

// Restore discards local modifications in the working tree of repo.
func Restore(ctx context.Context, r shell.Runner, repo string) model.Outcome {
	return r.Run(ctx, shell.Command{Name: "git", Args: []string{"restore", "."}, Dir: repo})
}

// Clean removes untracked files and directories from repo.
func Clean(ctx context.Context, r shell.Runner, repo string) model.Outcome {
	return r.Run(ctx, shell.Command{Name: "git", Args: []string{"clean", "-fd"}, Dir: repo})
}

// Apply applies patches to the working tree of repo in one invocation.
func Apply(ctx context.Context, r shell.Runner, repo string, patches []string) model.Outcome {
	args := append([]string{"apply"}, patches...)
	return r.Run(ctx, shell.Command{Name: "git", Args: args, Dir: repo})
}

// CheckApply reports whether patches would apply cleanly, without
// touching the working tree.
func CheckApply(ctx context.Context, r shell.Runner, repo string, patches []string) model.Outcome {
	args := append([]string{"apply", "--check"}, patches...)
	return r.Run(ctx, shell.Command{Name: "git", Args: args, Dir: repo})
}
