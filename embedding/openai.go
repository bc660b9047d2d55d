package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/recallmesh/core"
)

// OpenAIOptions configure the OpenAI embedder. Fields mirror a subset of the
// embeddings API parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type OpenAIOptions struct {
	Model string
}

// OpenAIEmbedder wraps the OpenAI embeddings API behind the core.Embedder
// interface.
type OpenAIEmbedder struct {
	client *openai.Client
	opts   OpenAIOptions
}

// NewOpenAIEmbedder creates an embedder using the official client configured
// from the environment.
func NewOpenAIEmbedder(optFns ...func(o *OpenAIOptions)) *OpenAIEmbedder {
	client := openai.NewClient()
	return NewOpenAIEmbedderFromClient(&client, optFns...)
}

// NewOpenAIEmbedderFromClient creates an embedder from an existing client.
func NewOpenAIEmbedderFromClient(client *openai.Client, optFns ...func(o *OpenAIOptions)) *OpenAIEmbedder {
	opts := OpenAIOptions{
		Model: openai.EmbeddingModelTextEmbedding3Small,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &OpenAIEmbedder{client: client, opts: opts}
}

// Embed implements core.Embedder.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: e.opts.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embeddings: empty response")
	}
	return resp.Data[0].Embedding, nil
}

var _ core.Embedder = (*OpenAIEmbedder)(nil)
