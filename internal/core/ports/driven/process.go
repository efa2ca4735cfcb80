package driven

import "context"

// Command is an external program invocation.
type Command struct {
	// Name is the program to run.
	Name string

	// Args are passed after Name.
	Args []string

	// Dir is the working directory; "" uses the current one.
	Dir string

	// Env is appended to the inherited environment.
	Env []string
}

// CommandResult captures a finished command.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner executes external programs.
type CommandRunner interface {
	// Run executes the command with captured output. A non-zero exit
	// returns the result together with an error.
	Run(ctx context.Context, cmd Command) (CommandResult, error)

	// RunAttached executes the command connected to the terminal.
	RunAttached(ctx context.Context, cmd Command) error
}

// RunLocker guards a resource against concurrent pipeline runs.
type RunLocker interface {
	// TryLock acquires the lock at path without blocking. It returns
	// domain.ErrPipelineLocked when another process holds it.
	TryLock(path string) (unlock func() error, err error)
}
