package socpatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sokinpui/socpatch/cli"
	"github.com/sokinpui/socpatch/internal/config"
	"github.com/sokinpui/socpatch/internal/errs"
	"github.com/sokinpui/socpatch/internal/fs"
	"github.com/sokinpui/socpatch/internal/patcher"
	"github.com/sokinpui/socpatch/internal/report"
	"github.com/sokinpui/socpatch/internal/shell"
	"github.com/sokinpui/socpatch/internal/state"
	"github.com/sokinpui/socpatch/internal/ui"
	"github.com/sokinpui/socpatch/model"
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(stage, repo string, current, total int)

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	layoutCfg        config.Config
	cwd              string
	runner           shell.Runner
	progressCallback ProgressUpdate
	now              func() time.Time
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance working from the current directory.
func New(cfg *cli.Config) (*App, error) {
	layoutCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, errs.New(errs.KindConfig, "failed to load configuration", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not get current working directory: %w", err)
	}

	return &App{
		cfg:       cfg,
		layoutCfg: layoutCfg,
		cwd:       cwd,
		runner:    shell.ExecRunner{},
		now:       time.Now,
	}, nil
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// SetRunner replaces the runner used for git and cp.
func (a *App) SetRunner(r shell.Runner) {
	a.runner = r
}

// Execute runs the whole pipeline: resolve, scan, validate, clean, patch,
// push sources and copy files. A returned error with a summary means the
// run went as far as it could; the summary is still worth printing.
func (a *App) Execute(ctx context.Context) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	layout, err := fs.ResolveLayout(a.cwd, a.cfg.Platform, a.cfg.Root, a.layoutCfg)
	if err != nil {
		return model.Summary{}, err
	}
	ui.Info("ic name is %s", layout.Platform)
	log.Info().Str("platform", layout.Platform).Str("root", layout.Root).Msg("starting run")

	summary = model.Summary{Platform: layout.Platform, Root: layout.Root}
	runErr := a.patch(ctx, layout, &summary)
	if runErr != nil && !errs.Is(runErr, errs.KindValidation) {
		return summary, runErr
	}

	if a.cfg.PushSource && runErr == nil {
		if err := a.pushSource(ctx, layout, &summary); err != nil {
			return summary, interrupted(&summary, "push", err)
		}
	}
	if !a.cfg.NoCopy {
		if err := a.copyFiles(ctx, layout, &summary); err != nil {
			return summary, interrupted(&summary, "copy", err)
		}
	}

	a.finish(summary)
	return summary, runErr
}

// interrupted turns a cancelled context into the run's error. Interrupted
// runs are not recorded.
func interrupted(summary *model.Summary, stage string, err error) error {
	summary.Message = fmt.Sprintf("interrupted during %s", stage)
	log.Warn().Str("stage", stage).Msg("run interrupted")
	return errs.New(errs.KindInternal, summary.Message, err)
}

// patch scans the patch root and, when every target is a git repository,
// cleans and patches all of them.
func (a *App) patch(ctx context.Context, layout *fs.Layout, summary *model.Summary) error {
	ui.Header("----------patch code to harmony--------")
	set, err := fs.ScanRepoSet(layout.PatchRoot, layout.Root)
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return errs.Path("no patch to do in %s", layout.PatchRoot)
	}

	if invalid := patcher.Validate(set); len(invalid) > 0 {
		for _, repo := range invalid {
			ui.Warning("not found %s", filepath.Join(repo, ".git"))
		}
		summary.Invalid = invalid
		err := errs.Validation("%d of %d repositories are not git repositories", len(invalid), len(set))
		summary.Message = err.Error()
		return err
	}

	stager := &patcher.Stager{
		Runner:   a.runner,
		Check:    a.cfg.Check,
		Progress: patcher.Progress(a.progressCallback),
	}

	ui.Header("----------- clean code ----------")
	results, err := stager.Clean(ctx, set)
	summary.Repos = results
	if err != nil {
		return interrupted(summary, "clean", err)
	}
	if err := stager.Apply(ctx, results); err != nil {
		return interrupted(summary, "patch", err)
	}

	if summary.CommandFailed() {
		ui.Warning("patch code to harmony finished with failures")
	} else {
		ui.Success("patch code to harmony")
	}
	return nil
}

// pushSource copies each source tree over its repository. The source
// root is optional, so a missing one only warns.
func (a *App) pushSource(ctx context.Context, layout *fs.Layout, summary *model.Summary) error {
	ui.Header("----------push source to harmony-------")
	set, err := fs.ScanRepoSet(layout.SourceRoot, layout.Root)
	if err != nil || len(set) == 0 {
		ui.Warning("no resource in %s", layout.SourceRoot)
		return nil
	}

	targets := set.Targets()
	for i, repo := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		result := fs.CopyContents(ctx, a.runner, set[repo], repo)
		summary.Pushed = append(summary.Pushed, result)
		a.reportProgress("push", repo, i+1, len(targets))
	}
	ui.Success("push source to harmony")
	return nil
}

// copyFiles copies <PLATFORM>.json for every copy rule. Missing inputs
// are logged and skipped.
func (a *App) copyFiles(ctx context.Context, layout *fs.Layout, summary *model.Summary) error {
	for i, rule := range a.layoutCfg.Copies {
		if err := ctx.Err(); err != nil {
			return err
		}
		src := filepath.Join(layout.FileRoot, filepath.FromSlash(rule.From), layout.JSONName)
		dest := filepath.Join(layout.Root, filepath.FromSlash(rule.To))

		result := fs.CopyInto(ctx, a.runner, src, dest)
		if result.Outcome.Status == model.StatusSkipped {
			ui.Error("%s, please check!", result.Outcome.Reason)
		}
		log.Info().Str("src", src).Str("dest", dest).Str("status", string(result.Outcome.Status)).Msg("copied file")
		summary.Copied = append(summary.Copied, result)
		a.reportProgress("copy", dest, i+1, len(a.layoutCfg.Copies))
	}
	ui.Success("copy file to harmony")
	return nil
}

func (a *App) reportProgress(stage, target string, current, total int) {
	if a.progressCallback != nil {
		a.progressCallback(stage, target, current, total)
	}
}

// finish records the run and writes the optional report outputs. Their
// failures are reported but do not change the result of the run.
func (a *App) finish(summary model.Summary) {
	if !a.cfg.NoHistory {
		if err := state.New(summary.Root).Write(state.EntryFromSummary(summary, a.now())); err != nil {
			ui.Error("could not record run history: %v", err)
		}
	}
	if a.cfg.Report != "" {
		if err := report.Write(a.cfg.Report, summary); err != nil {
			ui.Error("%v", err)
		}
	}
	if a.cfg.Clipboard {
		if err := report.CopyToClipboard(summary); err != nil {
			ui.Error("%v", err)
		}
	}
}

// History returns the project root and its recorded runs. The platform
// is not needed for this.
func (a *App) History() (string, []state.HistoryEntry, error) {
	root := a.cfg.Root
	if root == "" {
		root = fs.AncestorDir(a.cwd, a.layoutCfg.RootDepth)
	}
	entries, err := state.New(root).Load()
	if err != nil {
		return root, nil, fmt.Errorf("failed to read history: %w", err)
	}
	return root, entries, nil
}
