// Package executor runs one shell command line in a child process and
// reports its captured output.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Command is a fully formed shell command line. Any quoting of paths must
// already be applied, see Quote.
type Command struct {
	Line string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Stdin, if non-nil, is fed to the process standard input.
	Stdin io.Reader
	// Timeout bounds the wait for exit. Zero means wait until ctx is done.
	Timeout time.Duration
}

// Result is the outcome of a single command invocation.
type Result struct {
	// Stdout is the trimmed standard output, empty on failure.
	Stdout string
	// Succeeded is true when the process exited with status 0.
	Succeeded bool
	// ErrorDetail holds the captured standard error on failure.
	ErrorDetail string
	ExitCode    int
	Duration    time.Duration
	TimedOut    bool
}

// Executor runs a command and waits for it. Failures are reported in the
// Result, never as a Go error.
type Executor interface {
	Execute(ctx context.Context, c Command) Result
}

// Shell executes commands through the platform shell (sh -c, cmd /C).
type Shell struct {
	// Env, when set, replaces the inherited environment.
	Env    []string
	Logger *slog.Logger
}

func NewShell() *Shell {
	return &Shell{Logger: slog.Default()}
}

func (s *Shell) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Execute runs c.Line and blocks until the process exits, c.Timeout elapses
// or ctx is cancelled. On timeout or cancellation the whole process group is
// killed.
func (s *Shell) Execute(ctx context.Context, c Command) Result {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := shellCommand(c.Line)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	if len(s.Env) > 0 {
		cmd.Env = s.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second
	setProcessGroup(cmd)

	s.logger().Debug("exec", "cmd", c.Line, "dir", c.Dir)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{
			ExitCode:    -1,
			ErrorDetail: fmt.Sprintf("failed to start command: %v", err),
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
		if kerr := killProcessGroup(cmd); kerr != nil {
			s.logger().Warn("kill process group failed", "pid", cmd.Process.Pid, "err", kerr)
		}
		<-done
		res := Result{
			ExitCode: -1,
			Duration: time.Since(start),
			TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
		}
		reason := "execution cancelled"
		if res.TimedOut {
			reason = fmt.Sprintf("time limit exceeded after %s", res.Duration.Round(time.Millisecond))
		}
		res.ErrorDetail = joinDetail(stderr.String(), reason)
		return res
	case err = <-done:
	}

	res := Result{Duration: time.Since(start)}
	if err != nil {
		res.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		res.ErrorDetail = strings.TrimSpace(stderr.String())
		if res.ErrorDetail == "" {
			res.ErrorDetail = err.Error()
		}
		s.logger().Debug("exec failed", "cmd", c.Line, "exit", res.ExitCode)
		return res
	}

	res.Succeeded = true
	res.Stdout = strings.TrimSpace(stdout.String())
	return res
}

func joinDetail(stderr, reason string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return reason
	}
	return stderr + "\n" + reason
}
