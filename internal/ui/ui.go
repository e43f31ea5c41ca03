package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/sokinpui/socpatch/internal/state"
	"github.com/sokinpui/socpatch/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

var out io.Writer = os.Stderr

// SetOutput redirects console messages, e.g. to io.Discard while a TUI
// owns the terminal. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(out, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(out, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(out, "[success] "+format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(out, "[false] "+format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(out, "[error] "+format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(out, "  "+format+"\n", a...)
}

// --- Summaries ---

// PrintSummary writes the per-stage results of a run. Paths are shown
// relative to the project root.
func PrintSummary(s model.Summary) {
	Header("\n--- Summary (%s) ---", s.Platform)
	if s.Message != "" {
		Info("%s", s.Message)
	}

	if len(s.Invalid) > 0 {
		Error("Not a git repository, nothing was cleaned or patched:")
		for _, p := range s.Invalid {
			Path("- %s", rel(s.Root, p))
		}
	}

	var patched, skipped, failed []string
	for _, r := range s.Repos {
		name := rel(s.Root, r.Repo)
		switch {
		case r.Failed():
			failed = append(failed, name+": "+failureText(r))
		case r.Patch.Status == model.StatusSuccess:
			patched = append(patched, fmt.Sprintf("%s (%d patch(es))", name, len(r.Patches)))
		default:
			skipped = append(skipped, name+": "+r.Patch.Reason)
		}
	}
	printList(Success, "Patched %d repository(ies):", patched)
	printList(Info, "Cleaned without patches %d repository(ies):", skipped)
	printList(Error, "Failed %d repository(ies):", failed)

	printCopies("Pushed", s.Root, s.Pushed)
	printCopies("Copied", s.Root, s.Copied)
}

func printList(emit func(string, ...interface{}), title string, items []string) {
	if len(items) == 0 {
		return
	}
	emit(title, len(items))
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}

func printCopies(verb, root string, copies []model.CopyResult) {
	for _, c := range copies {
		switch c.Outcome.Status {
		case model.StatusSuccess:
			Success("%s %s -> %s", verb, rel(root, c.Src), rel(root, c.Dest))
		case model.StatusSkipped:
			Error("%s, please check!", c.Outcome.Reason)
		default:
			Error("%s %s failed (exit %d): %s", verb, rel(root, c.Src), c.Outcome.ExitCode, c.Outcome.Stderr)
		}
	}
}

func failureText(r model.RepoResult) string {
	for _, o := range append(append([]model.Outcome{}, r.Clean...), r.Patch) {
		if !o.Failed() {
			continue
		}
		msg := o.Command
		if o.Reason != "" {
			msg = o.Reason
		}
		if o.Stderr != "" {
			msg += ": " + firstLine(o.Stderr)
		}
		return fmt.Sprintf("%s (exit %d)", msg, o.ExitCode)
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func rel(root, p string) string {
	if root == "" {
		return p
	}
	r, err := filepath.Rel(root, p)
	if err != nil || strings.HasPrefix(r, "..") {
		return p
	}
	return r
}

// --- Progress Bar ---

type ProgressBar struct {
	total   int
	prefix  string
	current int
}

func NewProgressBar(total int, prefix string) *ProgressBar {
	return &ProgressBar{total: total, prefix: prefix}
}

func (p *ProgressBar) Start() {
	p.draw()
}

// Set moves the bar to current, which may not go backwards.
func (p *ProgressBar) Set(current int) {
	if current > p.current {
		p.current = current
	}
	p.draw()
}

func (p *ProgressBar) Increment() {
	p.current++
	p.draw()
}

func (p *ProgressBar) Finish() {
	fmt.Fprintln(out)
}

func (p *ProgressBar) draw() {
	if p.total == 0 {
		return
	}
	const barLength = 40
	percent := float64(p.current) / float64(p.total)
	filledLength := int(percent * barLength)
	bar := strings.Repeat("█", filledLength) + strings.Repeat("-", barLength-filledLength)

	percentStr := fmt.Sprintf("%.1f%%", percent*100)
	countStr := fmt.Sprintf("[%d/%d]", p.current, p.total)

	fmt.Fprintf(out, "\r%s |%s| %s %s", p.prefix, bar, countStr, percentStr)
}

// --- History ---

// PrintHistory lists recorded runs, oldest first.
func PrintHistory(root string, entries []state.HistoryEntry) {
	Header("--- History of %s ---", root)
	if len(entries) == 0 {
		Info("No runs recorded.")
		return
	}
	for _, e := range entries {
		counts := make(map[model.Status]int)
		for _, r := range e.Records {
			counts[r.Status]++
		}
		line := fmt.Sprintf("%s  %-5s  %d repo(s): %d success, %d skipped, %d failed",
			time.Unix(e.Timestamp, 0).Format("2006-01-02 15:04:05"), e.Platform, len(e.Records),
			counts[model.StatusSuccess], counts[model.StatusSkipped], counts[model.StatusFailed])
		if counts[model.StatusFailed] > 0 {
			ErrorColor.Fprintln(out, line)
		} else {
			fmt.Fprintln(out, line)
		}
		for _, r := range e.Records {
			if r.Status == model.StatusFailed {
				Path("- %s", rel(root, r.Repo))
			}
		}
	}
}
