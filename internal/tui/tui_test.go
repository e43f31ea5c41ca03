package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/socpatch/model"
)

func TestRunAppProducesSummary(t *testing.T) {
	want := model.Summary{
		Platform: "R818",
		Root:     "/proj",
		Repos: []model.RepoResult{
			{Repo: "/proj/kernel", Patch: model.Outcome{Status: model.StatusSuccess}, Patches: make([]model.PatchInfo, 1)},
			{Repo: "/proj/vendor", Patch: model.Outcome{Status: model.StatusFailed}},
		},
		Copied: []model.CopyResult{
			{Src: "/proj/f/R818.json", Outcome: model.Outcome{Status: model.StatusSkipped, Reason: "not found /proj/x"}},
		},
	}
	m := New(context.Background(), func(ctx context.Context) (model.Summary, error) {
		return want, nil
	})

	msg := m.runApp()
	next, cmd := m.Update(msg)
	require.NotNil(t, cmd)

	final := next.(Model)
	summary, err := final.Result()
	require.NoError(t, err)
	assert.Equal(t, want, summary)

	view := final.View()
	assert.Contains(t, view, "socpatch R818")
	assert.Contains(t, view, "kernel (1)")
	assert.Contains(t, view, "Failed:")
	assert.Contains(t, view, "f/R818.json: not found /proj/x")
}

func TestFatalErrorView(t *testing.T) {
	m := New(context.Background(), nil)
	next, _ := m.Update(doneMsg{err: errors.New("H616 not supported")})
	final := next.(Model)

	_, err := final.Result()
	assert.EqualError(t, err, "H616 not supported")
	assert.Contains(t, final.View(), "Error: H616 not supported")
}

func TestProgressView(t *testing.T) {
	m := New(context.Background(), nil)
	assert.Contains(t, m.View(), "Processing...")

	next, _ := m.Update(ProgressMsg{Stage: "patch", Target: "/proj/kernel", Current: 2, Total: 5})
	assert.Contains(t, next.View(), "patch [2/5]")
}

func TestQuitCancelsRun(t *testing.T) {
	m := New(context.Background(), func(ctx context.Context) (model.Summary, error) {
		<-ctx.Done()
		return model.Summary{Platform: "R818", Message: "interrupted during clean"}, ctx.Err()
	})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Error(t, m.ctx.Err())

	next, _ := m.Update(m.runApp())
	summary, err := next.(Model).Result()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "interrupted during clean", summary.Message)
}
