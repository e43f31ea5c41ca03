package fs

import (
	"context"
	"path/filepath"

	"github.com/sokinpui/socpatch/internal/shell"
	"github.com/sokinpui/socpatch/model"
)

// CopyInto copies src into the existing directory destDir with `cp -a`,
// keeping modes and timestamps. A missing destination or source is
// reported as a skipped outcome and nothing is run.
func CopyInto(ctx context.Context, runner shell.Runner, src, destDir string) model.CopyResult {
	result := model.CopyResult{Src: src, Dest: destDir}

	if !DirExists(destDir) {
		result.Outcome = model.Outcome{Status: model.StatusSkipped, Reason: "not found " + destDir}
		return result
	}
	if !Exists(src) {
		result.Outcome = model.Outcome{Status: model.StatusSkipped, Reason: "not found " + src}
		return result
	}

	result.Outcome = runner.Run(ctx, shell.Command{
		Name: "cp",
		Args: []string{"-a", src, destDir + string(filepath.Separator)},
	})
	return result
}

// CopyContents copies everything inside srcDir into destDir, the way
// `cp -a src/* dest/` would, hidden entries included.
func CopyContents(ctx context.Context, runner shell.Runner, srcDir, destDir string) model.CopyResult {
	result := model.CopyResult{Src: srcDir, Dest: destDir}

	if !DirExists(destDir) {
		result.Outcome = model.Outcome{Status: model.StatusSkipped, Reason: "not found " + destDir}
		return result
	}
	if !DirExists(srcDir) {
		result.Outcome = model.Outcome{Status: model.StatusSkipped, Reason: "not found " + srcDir}
		return result
	}

	result.Outcome = runner.Run(ctx, shell.Command{
		Name: "cp",
		Args: []string{"-a", srcDir + string(filepath.Separator) + ".", destDir + string(filepath.Separator)},
	})
	return result
}
