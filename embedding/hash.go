package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/hupe1980/recallmesh/core"
)

const defaultHashDim = 256

// HashEmbedder is a deterministic, dependency-free embedding stub keeping the
// system local-first by default: the same text always maps to the same unit
// vector. It carries no semantic signal, so nearest-neighbor results are only
// meaningful for exact or near-exact text reuse. Swap in a real embedding
// service for production retrieval.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a hash embedder producing vectors of the given
// dimension (default 256 when non-positive).
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = defaultHashDim
	}
	return &HashEmbedder{dim: dim}
}

// Embed hashes the text into a pseudo-random but deterministic unit vector.
func (h *HashEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if text == "" {
		text = "empty"
	}
	hash := sha256.Sum256([]byte(text))
	vec := make([]float64, h.dim)
	for i := 0; i < h.dim; i++ {
		// spread hash bits across dimensions
		chunk := binary.LittleEndian.Uint16(hash[(i % 16):])
		vec[i] = float64((chunk+uint16(i))%1000) / 1000.0
	}
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec, nil
}

var _ core.Embedder = (*HashEmbedder)(nil)
