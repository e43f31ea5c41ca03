package patcher

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"

	"github.com/sokinpui/socpatch/internal/fs"
	"github.com/sokinpui/socpatch/internal/git"
	"github.com/sokinpui/socpatch/internal/shell"
	"github.com/sokinpui/socpatch/model"
)

// PatchGlob selects the patch files inside a patch folder.
const PatchGlob = "*.patch"

// Progress is called after each repository a stage has finished with.
type Progress func(stage, repo string, current, total int)

// Validate checks every target for a .git directory and returns all the
// invalid ones, sorted. It never stops at the first failure.
func Validate(set model.RepoSet) []string {
	var invalid []string
	for _, target := range set.Targets() {
		if !fs.IsGitRepo(target) {
			invalid = append(invalid, target)
		}
	}
	return invalid
}

// Stager runs the mutating stages against a validated repository set.
type Stager struct {
	Runner   shell.Runner
	Check    bool
	Progress Progress
}

func (s *Stager) report(stage, repo string, current, total int) {
	if s.Progress != nil {
		s.Progress(stage, repo, current, total)
	}
}

// Clean restores and cleans every repository in the set, whether or not
// it has patches. Results are returned in target order. When ctx is done
// the stage stops before the next repository and returns the results so
// far with ctx.Err().
func (s *Stager) Clean(ctx context.Context, set model.RepoSet) ([]model.RepoResult, error) {
	targets := set.Targets()
	results := make([]model.RepoResult, 0, len(targets))
	for i, repo := range targets {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		restore := git.Restore(ctx, s.Runner, repo)
		clean := git.Clean(ctx, s.Runner, repo)
		log.Info().Str("repo", repo).
			Str("restore", string(restore.Status)).
			Str("clean", string(clean.Status)).
			Msg("cleaned repository")

		results = append(results, model.RepoResult{
			Repo:   repo,
			Folder: set[repo],
			Clean:  []model.Outcome{restore, clean},
		})
		s.report("clean", repo, i+1, len(targets))
	}
	return results, nil
}

// Apply applies each repository's patch folder. results must come from
// Clean for the same set; their Patch and Patches fields are filled in.
// Repositories not reached before ctx is done are marked skipped.
func (s *Stager) Apply(ctx context.Context, results []model.RepoResult) error {
	for i := range results {
		r := &results[i]
		if err := ctx.Err(); err != nil {
			for j := i; j < len(results); j++ {
				results[j].Patch = model.Outcome{Status: model.StatusSkipped, Reason: "interrupted"}
			}
			return err
		}
		r.Patch = s.applyOne(ctx, r)
		log.Info().Str("repo", r.Repo).
			Str("status", string(r.Patch.Status)).
			Int("exit", r.Patch.ExitCode).
			Int("patches", len(r.Patches)).
			Msg("patched repository")
		s.report("patch", r.Repo, i+1, len(results))
	}
	return nil
}

func (s *Stager) applyOne(ctx context.Context, r *model.RepoResult) model.Outcome {
	if r.Folder == "" {
		return model.Outcome{Status: model.StatusSkipped, Reason: "no patch folder"}
	}

	patches, err := PatchFiles(r.Folder)
	if err != nil {
		return model.Outcome{Status: model.StatusFailed, Reason: err.Error()}
	}
	if len(patches) == 0 {
		return model.Outcome{Status: model.StatusSkipped, Reason: "no patch files"}
	}
	r.Patches = Inspect(patches)

	if s.Check {
		if check := git.CheckApply(ctx, s.Runner, r.Repo, patches); check.Failed() {
			check.Reason = "patches do not apply cleanly"
			return check
		}
	}
	return git.Apply(ctx, s.Runner, r.Repo, patches)
}

// PatchFiles lists the *.patch files directly inside folder, sorted the
// way a shell expands the glob. Like the shell, the glob does not match
// hidden files.
func PatchFiles(folder string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(folder), PatchGlob)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.HasPrefix(path.Base(m), ".") {
			continue
		}
		full := filepath.Join(folder, filepath.FromSlash(m))
		if fs.DirExists(full) {
			continue
		}
		files = append(files, full)
	}
	return files, nil
}
