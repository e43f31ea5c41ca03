package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/socpatch/model"
)

func TestWriteAndLoad(t *testing.T) {
	m := New(t.TempDir())

	entries, err := m.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoDirExists(t, m.StateDir)

	first := HistoryEntry{Timestamp: 100, Platform: "R818", Records: []Record{
		{Status: model.StatusSuccess, Repo: "/proj/kernel", Patches: 2},
		{Status: model.StatusSkipped, Repo: "/proj/vendor", Patches: 0},
	}}
	second := HistoryEntry{Timestamp: 200, Platform: "T507"}
	require.NoError(t, m.Write(first))
	require.NoError(t, m.Write(second))

	entries, err = m.Load()
	require.NoError(t, err)
	assert.Equal(t, []HistoryEntry{first, second}, entries)
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	m := New(t.TempDir())
	require.NoError(t, os.MkdirAll(m.StateDir, 0755))

	require.NoError(t, os.WriteFile(m.Path(), []byte("abc\nR818\n"), 0644))
	_, err := m.Load()
	assert.ErrorContains(t, err, "timestamp")

	require.NoError(t, os.WriteFile(m.Path(), []byte("1\nR818\nsuccess\n/proj/kernel\n"), 0644))
	_, err = m.Load()
	assert.ErrorContains(t, err, "incomplete repository record")
}

func TestEntryFromSummary(t *testing.T) {
	summary := model.Summary{
		Platform: "R818",
		Invalid:  []string{"/proj/missing"},
		Repos: []model.RepoResult{
			{Repo: "/proj/a", Patch: model.Outcome{Status: model.StatusSuccess}, Patches: make([]model.PatchInfo, 3)},
			{Repo: "/proj/b", Clean: []model.Outcome{{Status: model.StatusFailed}}, Patch: model.Outcome{Status: model.StatusSuccess}},
			{Repo: "/proj/c"},
		},
	}
	now := time.Unix(1700000000, 0)

	entry := EntryFromSummary(summary, now)
	assert.Equal(t, int64(1700000000), entry.Timestamp)
	assert.Equal(t, "R818", entry.Platform)
	assert.Equal(t, []Record{
		{Status: model.StatusFailed, Repo: "/proj/missing"},
		{Status: model.StatusSuccess, Repo: "/proj/a", Patches: 3},
		{Status: model.StatusFailed, Repo: "/proj/b"},
		{Status: model.StatusSkipped, Repo: "/proj/c"},
	}, entry.Records)
}

func TestStateDirLocation(t *testing.T) {
	root := t.TempDir()
	m := New(root)
	assert.Equal(t, filepath.Join(root, ".socpatch", "history"), m.Path())
}
