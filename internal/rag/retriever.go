package rag

import (
	"context"
)

// Document represents a retrieved knowledge section.
type Document struct {
	Title   string
	Content string
	Score   float64
}

// Retriever abstracts semantic retrieval of documents relevant to a query.
// Deterministic for a fixed index and query.
type Retriever interface {
	TopK(ctx context.Context, query string, k int) ([]Document, error)
}

// Embedder is the embedding capability the indexes are built on.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// NoopRetriever returns no documents. Used when no embedder is configured.
type NoopRetriever struct{}

func NewNoopRetriever() *NoopRetriever { return &NoopRetriever{} }

func (n *NoopRetriever) TopK(ctx context.Context, query string, k int) ([]Document, error) {
	return []Document{}, nil
}
