package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPipelineOptions(t *testing.T) {
	o := DefaultPipelineOptions()

	assert.Equal(t, "docs", o.InputDir)
	assert.Equal(t, "docs_md", o.MarkdownDir)
	assert.Equal(t, "chunks", o.ChunksDir)
	assert.Equal(t, "chroma_db", o.DBPath)
	assert.Equal(t, "documents", o.CollectionName)
	assert.Equal(t, 1000, o.ChunkSize)
	assert.Equal(t, 200, o.ChunkOverlap)
	assert.Equal(t, "text-embedding-ada-002", o.EmbeddingModel)
	assert.Equal(t, "gpt-4", o.ChatModel)
	assert.False(t, o.SkipPDF || o.SkipChunk || o.SkipEmbed || o.StartChat)
	require.NoError(t, o.Validate())
}

func TestPipelineOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PipelineOptions)
	}{
		{"zero chunk size", func(o *PipelineOptions) { o.ChunkSize = 0 }},
		{"negative overlap", func(o *PipelineOptions) { o.ChunkOverlap = -1 }},
		{"overlap equals size", func(o *PipelineOptions) { o.ChunkOverlap = o.ChunkSize }},
		{"empty python", func(o *PipelineOptions) { o.Python = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultPipelineOptions()
			tt.mutate(&o)
			assert.ErrorIs(t, o.Validate(), ErrInvalidInput)
		})
	}
}

func TestPipelineOptions_OutputDirs(t *testing.T) {
	o := DefaultPipelineOptions()

	assert.Equal(t, []string{"docs_md", "chunks", "chroma_db"}, o.OutputDirs())
}

func TestPipelineStage_Script(t *testing.T) {
	assert.Equal(t, "pdf_to_markdown.py", StageConvert.Script())
	assert.Equal(t, "chunk_documents.py", StageChunk.Script())
	assert.Equal(t, "generate_embeddings.py", StageEmbed.Script())
	assert.Equal(t, "chat_with_docs.py", StageChat.Script())
	assert.Equal(t, "", PipelineStage("other").Script())
}
