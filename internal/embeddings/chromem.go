package embeddings

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// ToChromemFunc adapts e to the single-text function a chromem collection
// calls when it has to embed a document or query itself. Vectors whose
// length differs from e.Dimensions() are rejected so a misconfigured model
// cannot silently mix embedding spaces in one collection.
func ToChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vec, err := EmbedOne(ctx, e, text)
		if err != nil {
			return nil, err
		}
		if want := e.Dimensions(); want > 0 && len(vec) != want {
			return nil, fmt.Errorf("%s returned %d dimensions, want %d", e.Name(), len(vec), want)
		}
		return vec, nil
	}
}
