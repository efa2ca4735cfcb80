package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// docchat uses it to check the configured embedding provider before a
// pipeline run; the pipeline's embed stage does the bulk work.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
