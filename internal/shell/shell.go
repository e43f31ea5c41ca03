package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sokinpui/socpatch/model"
)

// Command is one external program invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner runs a command to completion and reports what happened.
type Runner interface {
	Run(ctx context.Context, cmd Command) model.Outcome
}

// ExecRunner runs commands with os/exec. Commands never go through a shell.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c Command) model.Outcome {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	outcome := model.Outcome{
		Status:  model.StatusSuccess,
		Command: c.String(),
		Stderr:  strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		outcome.Status = model.StatusFailed
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			outcome.ExitCode = exitErr.ExitCode()
		default:
			// Never started, or killed by the context.
			outcome.ExitCode = -1
			if outcome.Stderr == "" {
				outcome.Stderr = err.Error()
			}
		}
	}

	log.Debug().
		Str("cmd", outcome.Command).
		Str("dir", c.Dir).
		Int("exit", outcome.ExitCode).
		Str("status", string(outcome.Status)).
		Msg("command finished")
	return outcome
}
