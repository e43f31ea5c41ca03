package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/sokinpui/socpatch/internal/state"
	"github.com/sokinpui/socpatch/model"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	color.NoColor = true
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })
	return &buf
}

func TestPrefixes(t *testing.T) {
	buf := capture(t)
	Error("not found %s, please check!", "/x")
	Warning("no patch to do")
	Success("patch code to harmony")

	assert.Equal(t,
		"[error] not found /x, please check!\n[false] no patch to do\n[success] patch code to harmony\n",
		buf.String())
}

func TestPrintSummary(t *testing.T) {
	buf := capture(t)
	PrintSummary(model.Summary{
		Platform: "R818",
		Root:     "/proj",
		Repos: []model.RepoResult{
			{Repo: "/proj/kernel/linux", Patch: model.Outcome{Status: model.StatusSuccess}, Patches: make([]model.PatchInfo, 2)},
			{Repo: "/proj/vendor", Patch: model.Outcome{Status: model.StatusSkipped, Reason: "no patch files"}},
			{Repo: "/proj/base", Patch: model.Outcome{Status: model.StatusFailed, Command: "git apply x.patch", ExitCode: 1, Stderr: "error: patch failed\nmore"}},
		},
		Copied: []model.CopyResult{
			{Src: "/proj/a/R818.json", Dest: "/proj/productdefine/common/device", Outcome: model.Outcome{Status: model.StatusSuccess}},
			{Src: "/proj/b/R818.json", Dest: "/proj/missing", Outcome: model.Outcome{Status: model.StatusSkipped, Reason: "not found /proj/missing"}},
		},
	})

	got := buf.String()
	assert.Contains(t, got, "--- Summary (R818) ---")
	assert.Contains(t, got, "kernel/linux (2 patch(es))")
	assert.Contains(t, got, "vendor: no patch files")
	assert.Contains(t, got, "base: git apply x.patch: error: patch failed (exit 1)")
	assert.Contains(t, got, "[success] Copied a/R818.json -> productdefine/common/device")
	assert.Contains(t, got, "[error] not found /proj/missing, please check!")
}

func TestPrintSummaryInvalid(t *testing.T) {
	buf := capture(t)
	PrintSummary(model.Summary{
		Platform: "T507",
		Root:     "/proj",
		Invalid:  []string{"/proj/foundation"},
		Message:  "1 of 4 repositories are not git repositories",
	})
	assert.Contains(t, buf.String(), "1 of 4 repositories are not git repositories")
	assert.Contains(t, buf.String(), "Not a git repository")
	assert.Contains(t, buf.String(), "- foundation")
}

func TestProgressBar(t *testing.T) {
	buf := capture(t)
	p := NewProgressBar(4, "clean")
	p.Start()
	p.Increment()
	p.Set(4)
	p.Set(2)
	p.Finish()
	assert.Contains(t, buf.String(), "[1/4] 25.0%")
	assert.Contains(t, buf.String(), "[4/4] 100.0%")
	assert.NotContains(t, buf.String(), "[2/4]")
}

func TestPrintHistory(t *testing.T) {
	buf := capture(t)
	PrintHistory("/proj", nil)
	assert.Contains(t, buf.String(), "No runs recorded.")

	buf.Reset()
	PrintHistory("/proj", []state.HistoryEntry{{
		Timestamp: 1700000000,
		Platform:  "R818",
		Records: []state.Record{
			{Status: model.StatusSuccess, Repo: "/proj/kernel", Patches: 3},
			{Status: model.StatusFailed, Repo: "/proj/vendor/nxp"},
		},
	}})
	got := buf.String()
	assert.Contains(t, got, "R818")
	assert.Contains(t, got, "2 repo(s): 1 success, 0 skipped, 1 failed")
	assert.Contains(t, got, "- vendor/nxp")
}
