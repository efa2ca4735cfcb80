// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - ConfigStore: user settings persistence (TOML)
//   - PromptStore: editable LLM prompt templates
//   - LLMService: chat completion (Ollama, OpenAI)
//   - EmbeddingService: embedding connectivity checks (Ollama, OpenAI)
//   - ChatHistoryStore: chat transcript persistence (SQLite, memory)
//   - OCREngine: text region recognition (Tesseract)
//   - OCRVisualizer: draws recognised regions onto an image
//   - PageCounter: PDF page counts
//   - CommandRunner: external pipeline stage execution
//   - RunLocker: exclusive pipeline run lock
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
