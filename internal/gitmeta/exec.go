package gitmeta

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Result captures the outcome of a bounded subprocess call.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Err      error
}

// OK reports whether the process ran to completion with exit status 0.
func (r Result) OK() bool {
	return r.Err == nil && !r.TimedOut && r.ExitCode == 0
}

// Runner executes a command in dir and returns its captured output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) Result
}

// ExecRunner runs real processes, killing them once Timeout elapses.
type ExecRunner struct {
	Timeout time.Duration
}

// Run executes name with args in dir. Spawn failures are reported in
// Result.Err with ExitCode -1.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) Result {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1, Err: err}
	}
	waitErr := cmd.Wait()

	res := Result{
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
	}
	if res.TimedOut {
		res.ExitCode = 124
		res.Err = ctx.Err()
		return res
	}
	if waitErr != nil {
		var ee *exec.ExitError
		if errors.As(waitErr, &ee) {
			res.ExitCode = ee.ExitCode()
		} else {
			res.ExitCode = 1
			res.Err = waitErr
		}
	}
	return res
}
