// Package process runs external programs for the pipeline stages.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance at compile time.
var _ driven.CommandRunner = (*Runner)(nil)

// Runner implements driven.CommandRunner with os/exec.
type Runner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewRunner returns a runner attached to the process's standard streams.
func NewRunner() *Runner {
	return &Runner{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

// NewRunnerWithIO returns a runner whose attached commands use the given
// streams.
func NewRunnerWithIO(stdin io.Reader, stdout, stderr io.Writer) *Runner {
	return &Runner{stdin: stdin, stdout: stdout, stderr: stderr}
}

// Run executes cmd and captures its output. A non-zero exit returns the
// result together with an error.
func (r *Runner) Run(ctx context.Context, cmd driven.Command) (driven.CommandResult, error) {
	c := r.command(ctx, cmd)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := driven.CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(c, err),
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return res, nil
}

// RunAttached executes cmd connected to the runner's streams.
func (r *Runner) RunAttached(ctx context.Context, cmd driven.Command) error {
	c := r.command(ctx, cmd)
	c.Stdin = r.stdin
	c.Stdout = r.stdout
	c.Stderr = r.stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}

func (r *Runner) command(ctx context.Context, cmd driven.Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	return c
}

func exitCode(c *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return -1
	}
	if c.ProcessState != nil {
		return c.ProcessState.ExitCode()
	}
	return 0
}
