package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/sokinpui/socpatch/cli"
	"github.com/sokinpui/socpatch/internal/errs"
	"github.com/sokinpui/socpatch/internal/tui"
	"github.com/sokinpui/socpatch/internal/ui"
	"github.com/sokinpui/socpatch/model"
	"github.com/sokinpui/socpatch/socpatch"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, flags, err := cli.ParseFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		cli.Usage(os.Stdout, flags)
		return 0
	}
	if err != nil {
		ui.Error("%v", err)
		cli.Usage(os.Stderr, flags)
		return 1
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		ui.Error("%v", err)
		return 1
	}
	defer closeLog()

	app, err := socpatch.New(cfg)
	if err != nil {
		ui.Error("Failed to initialize application: %v", err)
		return 1
	}

	if cfg.History {
		root, entries, err := app.History()
		if err != nil {
			ui.Error("%v", err)
			return 1
		}
		ui.PrintHistory(root, entries)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var summary model.Summary
	if cfg.Plain || !isatty.IsTerminal(os.Stdout.Fd()) {
		summary, err = runPlain(ctx, app)
	} else {
		summary, err = runInteractive(ctx, app)
	}
	return exitCode(cfg, summary, err)
}

// runPlain prints stage messages and a progress bar per stage.
func runPlain(ctx context.Context, app *socpatch.App) (model.Summary, error) {
	var bar *ui.ProgressBar
	var stage string
	app.SetProgressCallback(func(s, _ string, current, total int) {
		if s != stage {
			if bar != nil {
				bar.Finish()
			}
			stage = s
			bar = ui.NewProgressBar(total, s)
		}
		bar.Set(current)
	})

	summary, err := app.Execute(ctx)
	if bar != nil {
		bar.Finish()
	}
	if summary.Platform != "" {
		ui.PrintSummary(summary)
	}
	return summary, err
}

// runInteractive shows a spinner with live progress, then the summary.
func runInteractive(ctx context.Context, app *socpatch.App) (model.Summary, error) {
	prev := ui.SetOutput(io.Discard)
	defer ui.SetOutput(prev)

	m := tui.New(ctx, app.Execute)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	app.SetProgressCallback(func(stage, target string, current, total int) {
		p.Send(tui.ProgressMsg{Stage: stage, Target: target, Current: current, Total: total})
	})

	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return model.Summary{}, errs.New(errs.KindInternal, "interrupted", ctx.Err())
	}
	if err != nil {
		return model.Summary{}, fmt.Errorf("error running program: %w", err)
	}
	fm, ok := final.(tui.Model)
	if !ok {
		return model.Summary{}, fmt.Errorf("unexpected program model %T", final)
	}
	// The final view with the summary stays on screen after Quit.
	return fm.Result()
}

// exitCode is the single place that maps a run's result to the process
// status.
func exitCode(cfg *cli.Config, summary model.Summary, err error) int {
	if err != nil {
		var detailed *socpatch.DetailedError
		if errors.As(err, &detailed) {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		ui.Error("%v", err)
		if errs.Is(err, errs.KindUsage) {
			fmt.Fprintln(os.Stderr, "[sample] 'socpatch R818'")
		}
		log.Error().Err(err).Str("kind", string(errs.KindOf(err))).Msg("run failed")
		return 1
	}
	if cfg.Strict && summary.CommandFailed() {
		log.Warn().Msg("commands failed in strict mode")
		return 1
	}
	return 0
}

// setupLogging sends the global zerolog logger to --log-file, or drops
// everything when no file is given.
func setupLogging(cfg *cli.Config) (func(), error) {
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFile == "" {
		if cfg.Verbose {
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		} else {
			log.Logger = zerolog.Nop()
		}
		return func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { f.Close() }, nil
}
