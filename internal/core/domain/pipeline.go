package domain

import "fmt"

// PipelineStage names one step of the ingestion pipeline.
type PipelineStage string

// Pipeline stages in execution order.
const (
	StageConvert PipelineStage = "convert"
	StageChunk   PipelineStage = "chunk"
	StageEmbed   PipelineStage = "embed"
	StageChat    PipelineStage = "chat"
)

// Script returns the script file run by the stage.
func (s PipelineStage) Script() string {
	switch s {
	case StageConvert:
		return "pdf_to_markdown.py"
	case StageChunk:
		return "chunk_documents.py"
	case StageEmbed:
		return "generate_embeddings.py"
	case StageChat:
		return "chat_with_docs.py"
	default:
		return ""
	}
}

// ChunkMethodRecursive is the chunking strategy passed to the chunk stage.
const ChunkMethodRecursive = "recursive"

// PipelineOptions configures one pipeline run.
type PipelineOptions struct {
	InputDir       string
	MarkdownDir    string
	ChunksDir      string
	DBPath         string
	CollectionName string
	ChunkSize      int
	ChunkOverlap   int
	EmbeddingModel string
	ChatModel      string

	SkipPDF   bool
	SkipChunk bool
	SkipEmbed bool
	StartChat bool

	// ScriptsDir holds the stage scripts.
	ScriptsDir string

	// Python is the interpreter command line, split shell-style.
	Python string
}

// DefaultPipelineOptions returns the documented flag defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		InputDir:       "docs",
		MarkdownDir:    "docs_md",
		ChunksDir:      "chunks",
		DBPath:         "chroma_db",
		CollectionName: "documents",
		ChunkSize:      1000,
		ChunkOverlap:   200,
		EmbeddingModel: "text-embedding-ada-002",
		ChatModel:      "gpt-4",
		ScriptsDir:     "scripts",
		Python:         "python",
	}
}

// Validate checks the numeric options.
func (o PipelineOptions) Validate() error {
	if o.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidInput, o.ChunkSize)
	}
	if o.ChunkOverlap < 0 || o.ChunkOverlap >= o.ChunkSize {
		return fmt.Errorf("%w: chunk overlap must be in [0, %d), got %d",
			ErrInvalidInput, o.ChunkSize, o.ChunkOverlap)
	}
	if o.Python == "" {
		return fmt.Errorf("%w: python command is empty", ErrInvalidInput)
	}
	return nil
}

// OutputDirs returns the directories created before the stages run.
func (o PipelineOptions) OutputDirs() []string {
	return []string{o.MarkdownDir, o.ChunksDir, o.DBPath}
}
