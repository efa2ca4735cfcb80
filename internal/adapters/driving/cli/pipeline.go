package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the document ingestion pipeline",
	Long: `Convert PDFs to markdown, chunk them, and store their embeddings in
ChromaDB by running the stage scripts in order. OPENAI_API_KEY must be set,
either in the environment or in the env file.

Stages:
  convert - pdf_to_markdown.py      (skip with --skip-pdf)
  chunk   - chunk_documents.py      (skip with --skip-chunk)
  embed   - generate_embeddings.py  (skip with --skip-embed)
  chat    - chat_with_docs.py       (run with --start-chat)`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

var (
	pipelineOpts    = domain.DefaultPipelineOptions()
	pipelineEnvFile string
)

func init() {
	f := pipelineCmd.Flags()
	f.StringVar(&pipelineOpts.InputDir, "input-dir", pipelineOpts.InputDir, "Directory containing PDF files")
	f.StringVar(&pipelineOpts.MarkdownDir, "markdown-dir", pipelineOpts.MarkdownDir, "Directory for markdown files")
	f.StringVar(&pipelineOpts.ChunksDir, "chunks-dir", pipelineOpts.ChunksDir, "Directory for chunk files")
	f.StringVar(&pipelineOpts.DBPath, "db-path", pipelineOpts.DBPath, "ChromaDB database path")
	f.StringVar(&pipelineOpts.CollectionName, "collection-name", pipelineOpts.CollectionName, "ChromaDB collection name")
	f.IntVar(&pipelineOpts.ChunkSize, "chunk-size", pipelineOpts.ChunkSize, "Chunk size in characters")
	f.IntVar(&pipelineOpts.ChunkOverlap, "chunk-overlap", pipelineOpts.ChunkOverlap, "Overlap between chunks")
	f.StringVar(&pipelineOpts.EmbeddingModel, "embedding-model", pipelineOpts.EmbeddingModel, "OpenAI embedding model")
	f.StringVar(&pipelineOpts.ChatModel, "chat-model", pipelineOpts.ChatModel, "OpenAI chat model")
	f.BoolVar(&pipelineOpts.SkipPDF, "skip-pdf", false, "Skip PDF to markdown conversion")
	f.BoolVar(&pipelineOpts.SkipChunk, "skip-chunk", false, "Skip document chunking")
	f.BoolVar(&pipelineOpts.SkipEmbed, "skip-embed", false, "Skip embedding generation")
	f.BoolVar(&pipelineOpts.StartChat, "start-chat", false, "Start interactive chat after processing")
	f.StringVar(&pipelineOpts.ScriptsDir, "scripts-dir", pipelineOpts.ScriptsDir, "Directory containing the stage scripts")
	f.StringVar(&pipelineOpts.Python, "python", pipelineOpts.Python, `Interpreter command line, e.g. "uv run python"`)
	f.StringVar(&pipelineEnvFile, "env-file", ".env", "Dotenv file loaded before the prerequisites check")

	rootCmd.AddCommand(pipelineCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	if s.NewPipeline == nil {
		return errors.New("pipeline service not configured")
	}

	if err := loadEnv(pipelineEnvFile); err != nil {
		return err
	}

	cmd.Println("📚 Document Processing Pipeline")
	cmd.Println("===============================")
	return s.NewPipeline(cmd.OutOrStdout()).Run(cmd.Context(), pipelineOpts)
}

// loadEnv loads a dotenv file without overriding the environment. A
// missing file is ignored.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
