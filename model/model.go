package model

import "sort"

// RepoSet maps a target repository path to the patch (or source) folder
// whose name it was derived from.
type RepoSet map[string]string

// Targets returns the repository paths in lexical order.
func (s RepoSet) Targets() []string {
	targets := make([]string, 0, len(s))
	for target := range s {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}

// Status is the result class of a single step.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome records what happened to one external command or file step.
type Outcome struct {
	Status   Status
	Command  string
	ExitCode int
	Stderr   string
	// Reason explains a skip or a failure that never reached a command.
	Reason string
}

// Failed reports whether the step ran and did not succeed.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// PatchInfo describes one patch file found in a patch folder.
type PatchInfo struct {
	Path  string
	Files []string
	Hunks int
}

// RepoResult aggregates every outcome for one target repository.
type RepoResult struct {
	Repo    string
	Folder  string
	Clean   []Outcome
	Patch   Outcome
	Patches []PatchInfo
}

// Failed reports whether any command for the repository failed.
func (r RepoResult) Failed() bool {
	for _, o := range r.Clean {
		if o.Failed() {
			return true
		}
	}
	return r.Patch.Failed()
}

// CopyResult is the outcome of one file or directory copy.
type CopyResult struct {
	Src     string
	Dest    string
	Outcome Outcome
}

// Summary holds the results of a run for display.
type Summary struct {
	Platform string
	Root     string
	Invalid  []string
	Repos    []RepoResult
	Pushed   []CopyResult
	Copied   []CopyResult
	Message  string
}

// Failed reports whether validation or any recorded step failed.
func (s Summary) Failed() bool {
	if len(s.Invalid) > 0 {
		return true
	}
	return s.CommandFailed()
}

// CommandFailed reports whether any external command or copy failed.
func (s Summary) CommandFailed() bool {
	for _, r := range s.Repos {
		if r.Failed() {
			return true
		}
	}
	for _, c := range append(append([]CopyResult{}, s.Pushed...), s.Copied...) {
		if c.Outcome.Failed() {
			return true
		}
	}
	return false
}
