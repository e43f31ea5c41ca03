package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/sokinpui/socpatch/model"
)

// Markdown renders a run summary as a Markdown document.
func Markdown(s model.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# socpatch %s\n\n", s.Platform)
	fmt.Fprintf(&b, "Project root: `%s`\n\n", s.Root)
	if s.Message != "" {
		fmt.Fprintf(&b, "%s\n\n", s.Message)
	}

	if len(s.Invalid) > 0 {
		b.WriteString("## Invalid repositories\n\n")
		b.WriteString("No repository was cleaned or patched because these have no `.git` directory:\n\n")
		for _, p := range s.Invalid {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
		b.WriteString("\n")
	}

	if len(s.Repos) > 0 {
		b.WriteString("## Repositories\n\n")
		b.WriteString("| Repository | Clean | Patch | Patches | Detail |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, r := range s.Repos {
			fmt.Fprintf(&b, "| `%s` | %s | %s | %d | %s |\n",
				r.Repo, cleanStatus(r), statusOf(r.Patch), len(r.Patches), cell(detail(r.Patch)))
		}
		b.WriteString("\n")

		for _, r := range s.Repos {
			if len(r.Patches) == 0 {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n", r.Repo)
			for _, p := range r.Patches {
				fmt.Fprintf(&b, "- `%s`: %d hunk(s)", filepath.Base(p.Path), p.Hunks)
				if len(p.Files) > 0 {
					fmt.Fprintf(&b, ", %s", strings.Join(quote(p.Files), ", "))
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	writeCopies(&b, "Pushed sources", s.Pushed)
	writeCopies(&b, "Copied files", s.Copied)
	return b.String()
}

func writeCopies(b *strings.Builder, title string, copies []model.CopyResult) {
	if len(copies) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	b.WriteString("| Source | Destination | Status | Detail |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, c := range copies {
		fmt.Fprintf(b, "| `%s` | `%s` | %s | %s |\n", c.Src, c.Dest, statusOf(c.Outcome), cell(detail(c.Outcome)))
	}
	b.WriteString("\n")
}

func cleanStatus(r model.RepoResult) string {
	for _, o := range r.Clean {
		if o.Failed() {
			return string(model.StatusFailed)
		}
	}
	if len(r.Clean) == 0 {
		return string(model.StatusSkipped)
	}
	return string(model.StatusSuccess)
}

func statusOf(o model.Outcome) string {
	if o.Status == "" {
		return string(model.StatusSkipped)
	}
	return string(o.Status)
}

func detail(o model.Outcome) string {
	switch {
	case o.Failed() && o.Stderr != "":
		return fmt.Sprintf("exit %d: %s", o.ExitCode, o.Stderr)
	case o.Failed():
		return fmt.Sprintf("exit %d %s", o.ExitCode, o.Reason)
	default:
		return o.Reason
	}
}

// cell keeps text on one table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func quote(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "`" + item + "`"
	}
	return out
}

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML converts the Markdown report to an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

// Write saves the report to path. A .html or .htm extension produces HTML,
// anything else Markdown.
func Write(path string, s model.Summary) error {
	content := Markdown(s)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		html, err := HTML(content)
		if err != nil {
			return err
		}
		content = html
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
