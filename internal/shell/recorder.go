package shell

import (
	"context"
	"sync"

	"github.com/sokinpui/socpatch/model"
)

// Recorder is a Runner that records commands instead of running them.
// Fail decides the outcome of a command; nil means every command succeeds.
type Recorder struct {
	Fail func(Command) (exitCode int, stderr string, failed bool)

	mu       sync.Mutex
	Commands []Command
}

func (r *Recorder) Run(_ context.Context, c Command) model.Outcome {
	r.mu.Lock()
	r.Commands = append(r.Commands, c)
	r.mu.Unlock()

	out := model.Outcome{Status: model.StatusSuccess, Command: c.String()}
	if r.Fail != nil {
		if code, stderr, failed := r.Fail(c); failed {
			out.Status = model.StatusFailed
			out.ExitCode = code
			out.Stderr = stderr
		}
	}
	return out
}

// Strings returns the recorded commands as "dir: cmd" lines.
func (r *Recorder) Strings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		lines[i] = c.Dir + ": " + c.String()
	}
	return lines
}
