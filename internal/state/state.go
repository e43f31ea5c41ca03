package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sokinpui/socpatch/model"
)

const (
	stateDirName  = ".socpatch"
	stateFileName = "history"
)

// Record is the outcome of one repository in one run.
type Record struct {
	Status  model.Status
	Repo    string
	Patches int
}

// HistoryEntry represents one complete run of the tool.
type HistoryEntry struct {
	Timestamp int64
	Platform  string
	Records   []Record
}

// Manager reads and appends the run history of a project tree.
type Manager struct {
	statePath string
	StateDir  string
}

// New returns a manager for the history kept under root. Nothing is
// created until the first Write.
func New(root string) *Manager {
	stateDir := filepath.Join(root, stateDirName)
	return &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		StateDir:  stateDir,
	}
}

// Path is the history file location.
func (m *Manager) Path() string {
	return m.statePath
}

// Load parses the history file. A missing file is an empty history.
func (m *Manager) Load() ([]HistoryEntry, error) {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	var entries []HistoryEntry
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			return nil, fmt.Errorf("invalid history file: incomplete entry header")
		}

		ts, err := strconv.ParseInt(lines[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid history file: could not parse timestamp from '%s': %w", lines[0], err)
		}
		entry := HistoryEntry{Timestamp: ts, Platform: lines[1]}

		recLines := lines[2:]
		for i := 0; i < len(recLines); i += 3 {
			if i+3 > len(recLines) {
				return nil, fmt.Errorf("invalid history file: incomplete repository record")
			}
			patches, err := strconv.Atoi(recLines[i+2])
			if err != nil {
				return nil, fmt.Errorf("invalid history file: bad patch count '%s': %w", recLines[i+2], err)
			}
			entry.Records = append(entry.Records, Record{
				Status:  model.Status(recLines[i]),
				Repo:    recLines[i+1],
				Patches: patches,
			})
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Write appends one entry to the history file.
func (m *Manager) Write(entry HistoryEntry) error {
	if err := os.MkdirAll(m.StateDir, 0755); err != nil {
		return fmt.Errorf("could not create state directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d\n%s", entry.Timestamp, entry.Platform)
	for _, r := range entry.Records {
		fmt.Fprintf(&b, "\n%s\n%s\n%d", r.Status, r.Repo, r.Patches)
	}
	b.WriteString("\n\n")

	f, err := os.OpenFile(m.statePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open history file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("could not write history file: %w", err)
	}
	return nil
}

// EntryFromSummary turns a run summary into a history entry. A repository
// is recorded as failed when any of its commands failed, as skipped when
// validation blocked it, and otherwise with its patch status.
func EntryFromSummary(summary model.Summary, now time.Time) HistoryEntry {
	entry := HistoryEntry{
		Timestamp: now.UTC().Unix(),
		Platform:  summary.Platform,
	}
	for _, repo := range summary.Invalid {
		entry.Records = append(entry.Records, Record{Status: model.StatusFailed, Repo: repo})
	}
	for _, r := range summary.Repos {
		status := r.Patch.Status
		switch {
		case r.Failed():
			status = model.StatusFailed
		case status == "":
			status = model.StatusSkipped
		}
		entry.Records = append(entry.Records, Record{Status: status, Repo: r.Repo, Patches: len(r.Patches)})
	}
	return entry
}
