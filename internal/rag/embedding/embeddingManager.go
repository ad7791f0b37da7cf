package embedding

import "context"

// Embedder turns text into fixed-length vectors. EmbedTexts is
// order-preserving: one vector per input text, in input order.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
