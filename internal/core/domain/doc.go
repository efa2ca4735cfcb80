// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - AppSettings: embedding, LLM and vector store configuration
//   - AppConfig: TUI host configuration
//   - ChatMessage: one turn of a conversation
//   - DocumentFile, Field, OCRRegion: document processing results
//   - PipelineOptions: the document ingestion pipeline parameters
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
