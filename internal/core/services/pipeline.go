package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/shlex"
	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// OpenAIKeyEnv must be set before the pipeline runs.
const OpenAIKeyEnv = "OPENAI_API_KEY"

// RunIDEnv is passed to every stage so its logs can be correlated.
const RunIDEnv = "DOCCHAT_RUN_ID"

// lockFile is created inside the vector store directory.
const lockFile = ".pipeline.lock"

// StageError reports a failed pipeline stage.
type StageError struct {
	Stage  domain.PipelineStage
	Stderr string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// stageInfo describes the console messages of a stage.
type stageInfo struct {
	stage   domain.PipelineStage
	skip    bool
	running string
	skipped string
	failed  string
}

// PipelineService runs the ingestion scripts as external commands.
type PipelineService struct {
	runner driven.CommandRunner
	locker driven.RunLocker
	out    io.Writer
	getenv func(string) string

	info    *color.Color
	success *color.Color
	failure *color.Color
}

// PipelineOption configures a PipelineService.
type PipelineOption func(*PipelineService)

// WithGetenv overrides environment lookup.
func WithGetenv(fn func(string) string) PipelineOption {
	return func(s *PipelineService) { s.getenv = fn }
}

// WithColor enables or disables coloured status lines.
func WithColor(enabled bool) PipelineOption {
	return func(s *PipelineService) {
		for _, c := range []*color.Color{s.info, s.success, s.failure} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// NewPipelineService creates a pipeline service. locker may be nil,
// which disables the run lock.
func NewPipelineService(
	runner driven.CommandRunner,
	locker driven.RunLocker,
	out io.Writer,
	opts ...PipelineOption,
) *PipelineService {
	if out == nil {
		out = io.Discard
	}
	s := &PipelineService{
		runner:  runner,
		locker:  locker,
		out:     out,
		getenv:  os.Getenv,
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run checks prerequisites and runs the enabled stages in order.
func (s *PipelineService) Run(ctx context.Context, opts domain.PipelineOptions) (err error) {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := s.checkPrerequisites(); err != nil {
		return err
	}

	for _, dir := range opts.OutputDirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if s.locker != nil {
		unlock, err := s.locker.TryLock(filepath.Join(opts.DBPath, lockFile))
		if err != nil {
			return err
		}
		defer func() {
			if uerr := unlock(); uerr != nil && err == nil {
				err = fmt.Errorf("release pipeline lock: %w", uerr)
			}
		}()
	}

	runID := uuid.NewString()
	stages := []stageInfo{
		{
			stage:   domain.StageConvert,
			skip:    opts.SkipPDF,
			running: fmt.Sprintf("Converting PDFs from %s to markdown", opts.InputDir),
			skipped: "Skipping PDF conversion",
			failed:  "PDF conversion failed",
		},
		{
			stage:   domain.StageChunk,
			skip:    opts.SkipChunk,
			running: fmt.Sprintf("Chunking markdown files from %s", opts.MarkdownDir),
			skipped: "Skipping chunking",
			failed:  "Chunking failed",
		},
		{
			stage:   domain.StageEmbed,
			skip:    opts.SkipEmbed,
			running: "Generating embeddings and storing in ChromaDB",
			skipped: "Skipping embedding generation",
			failed:  "Embedding generation failed",
		},
	}

	for _, st := range stages {
		if st.skip {
			fmt.Fprintf(s.out, "⏭️  %s\n", st.skipped)
			continue
		}
		if err := s.runStage(ctx, st, opts, runID); err != nil {
			return err
		}
	}

	s.success.Fprintln(s.out, "\n🎉 Pipeline completed successfully!")
	fmt.Fprintf(s.out, "📊 Documents are now available in ChromaDB at: %s\n", opts.DBPath)
	fmt.Fprintln(s.out, "🤖 You can now query your documents using:")
	fmt.Fprintf(s.out, "   %s %s --query 'your question' --db-path %s\n",
		opts.Python, filepath.Join(opts.ScriptsDir, "query_embeddings.py"), opts.DBPath)
	fmt.Fprintf(s.out, "   %s %s --db-path %s\n",
		opts.Python, filepath.Join(opts.ScriptsDir, domain.StageChat.Script()), opts.DBPath)

	if !opts.StartChat {
		return nil
	}

	s.info.Fprintln(s.out, "\n🚀 Starting interactive chat...")
	cmd, err := StageCommand(domain.StageChat, opts)
	if err != nil {
		return err
	}
	cmd.Env = append(cmd.Env, RunIDEnv+"="+runID)
	if err := s.runner.RunAttached(ctx, cmd); err != nil {
		return &StageError{Stage: domain.StageChat, Err: err}
	}
	return nil
}

func (s *PipelineService) checkPrerequisites() error {
	fmt.Fprintln(s.out, "🔍 Checking prerequisites...")
	if s.getenv(OpenAIKeyEnv) == "" {
		s.failure.Fprintf(s.out, "❌ %s environment variable not set\n", OpenAIKeyEnv)
		return fmt.Errorf("%w: %s", domain.ErrMissingCredential, OpenAIKeyEnv)
	}
	s.success.Fprintln(s.out, "✓ OpenAI API key found")
	return nil
}

func (s *PipelineService) runStage(ctx context.Context, st stageInfo, opts domain.PipelineOptions, runID string) error {
	cmd, err := StageCommand(st.stage, opts)
	if err != nil {
		return err
	}
	cmd.Env = append(cmd.Env, RunIDEnv+"="+runID)

	s.info.Fprintf(s.out, "\n🔄 %s...\n", st.running)
	fmt.Fprintf(s.out, "Command: %s\n", strings.Join(append([]string{cmd.Name}, cmd.Args...), " "))

	res, err := s.runner.Run(ctx, cmd)
	if err != nil {
		s.failure.Fprintf(s.out, "❌ Error: %v\n", err)
		if res.Stderr != "" {
			fmt.Fprintf(s.out, "Error output: %s\n", res.Stderr)
		}
		s.failure.Fprintf(s.out, "❌ %s\n", st.failed)
		return &StageError{Stage: st.stage, Stderr: res.Stderr, Err: err}
	}
	if res.Stdout != "" {
		fmt.Fprintln(s.out, res.Stdout)
	}
	return nil
}

// StageCommand builds the command line of a stage. The interpreter is
// opts.Python split shell-style, so "uv run python" works.
func StageCommand(stage domain.PipelineStage, opts domain.PipelineOptions) (driven.Command, error) {
	argv, err := shlex.Split(opts.Python)
	if err != nil {
		return driven.Command{}, fmt.Errorf("%w: python command %q: %v", domain.ErrInvalidInput, opts.Python, err)
	}
	if len(argv) == 0 {
		return driven.Command{}, fmt.Errorf("%w: python command is empty", domain.ErrInvalidInput)
	}

	script := stage.Script()
	if script == "" {
		return driven.Command{}, fmt.Errorf("%w: unknown stage %q", domain.ErrInvalidInput, stage)
	}

	args := append(argv[1:], filepath.Join(opts.ScriptsDir, script))
	switch stage {
	case domain.StageConvert:
		args = append(args, "--input", opts.InputDir, "--output", opts.MarkdownDir)
	case domain.StageChunk:
		args = append(args,
			"--input", opts.MarkdownDir,
			"--output", opts.ChunksDir,
			"--chunk-size", strconv.Itoa(opts.ChunkSize),
			"--overlap", strconv.Itoa(opts.ChunkOverlap),
			"--chunk-method", domain.ChunkMethodRecursive,
		)
	case domain.StageEmbed:
		args = append(args,
			"--input", opts.ChunksDir,
			"--db-path", opts.DBPath,
			"--collection-name", opts.CollectionName,
			"--model", opts.EmbeddingModel,
		)
	case domain.StageChat:
		args = append(args,
			"--db-path", opts.DBPath,
			"--collection-name", opts.CollectionName,
			"--model", opts.ChatModel,
		)
	}
	return driven.Command{Name: argv[0], Args: args}, nil
}
