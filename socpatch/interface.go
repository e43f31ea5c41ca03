package socpatch

import (
	"context"
	"fmt"
	"io"

	"github.com/sokinpui/socpatch/cli"
	"github.com/sokinpui/socpatch/internal/ui"
	"github.com/sokinpui/socpatch/model"
)

// Options for using socpatch as a library.
type Options struct {
	// Project root. Empty means four levels above the working directory.
	Root string
	// YAML file overriding the default layout.
	ConfigPath string
	// Run 'git apply --check' before applying.
	Check bool
	// Also copy patches/code trees into their repositories.
	PushSource bool
	// Skip the product definition copy.
	NoCopy bool
	// Record the run in <root>/.socpatch/history.
	RecordHistory bool
	// Print stage messages to stderr.
	Verbose bool
}

// Patch runs the full pipeline for platform and returns its summary.
// Console messages are silenced unless opts.Verbose is set.
func Patch(ctx context.Context, platform string, opts Options) (model.Summary, error) {
	cfg := &cli.Config{
		Platform:   platform,
		Root:       opts.Root,
		ConfigPath: opts.ConfigPath,
		Check:      opts.Check,
		PushSource: opts.PushSource,
		NoCopy:     opts.NoCopy,
		NoHistory:  !opts.RecordHistory,
		Plain:      true,
	}

	app, err := New(cfg)
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to initialize socpatch app: %w", err)
	}

	if !opts.Verbose {
		prev := ui.SetOutput(io.Discard)
		defer ui.SetOutput(prev)
	}
	return app.Execute(ctx)
}
