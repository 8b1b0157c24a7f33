package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motoria/dealer-agent/internal/types"
)

// keywordEmbedder maps text onto a fixed vocabulary axis per keyword, so
// cosine similarity reduces to keyword overlap and stays predictable.
type keywordEmbedder struct {
	vocab []string
	err   error
}

func (e *keywordEmbedder) EmbedText(_ context.Context, text string) ([]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	vec := make([]float64, len(e.vocab))
	lower := strings.ToLower(text)
	for i, word := range e.vocab {
		if strings.Contains(lower, word) {
			vec[i] = 1
		}
	}
	return vec, nil
}

func (e *keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func indexRecords() []types.VehicleRecord {
	return []types.VehicleRecord{
		{StockID: "1", Make: "Honda", Model: "Civic", Year: 2020, Price: 280000, KM: 35000},
		{StockID: "2", Make: "Volkswagen", Model: "Jetta", Year: 2019, Price: 250000, KM: 60000},
		{StockID: "3", Make: "Toyota", Model: "Corolla", Year: 2021, Price: 310000, KM: 15000},
	}
}

func TestCatalogIndex_TopK(t *testing.T) {
	emb := &keywordEmbedder{vocab: []string{"honda", "civic", "jetta", "toyota", "corolla"}}
	idx, err := NewCatalogIndex(context.Background(), indexRecords(), emb)
	require.NoError(t, err)

	scored, err := idx.TopK(context.Background(), "a honda civic please", 2)
	require.NoError(t, err)
	require.Len(t, scored, 2)
	require.Equal(t, "1", scored[0].Vehicle.StockID)
	require.Greater(t, scored[0].Score, scored[1].Score)
}

func TestCatalogIndex_EmptyCatalog(t *testing.T) {
	emb := &keywordEmbedder{vocab: []string{"honda"}}
	_, err := NewCatalogIndex(context.Background(), nil, emb)
	require.Error(t, err)
}

func TestCatalogIndex_QueryEmbeddingFailure(t *testing.T) {
	emb := &keywordEmbedder{vocab: []string{"honda"}}
	idx, err := NewCatalogIndex(context.Background(), indexRecords(), emb)
	require.NoError(t, err)

	emb.err = errors.New("quota exhausted")
	_, err = idx.TopK(context.Background(), "honda", 2)
	require.Error(t, err)
}

func TestNoopRetriever(t *testing.T) {
	docs, err := NewNoopRetriever().TopK(context.Background(), "anything", 3)
	require.NoError(t, err)
	require.Empty(t, docs)
}
