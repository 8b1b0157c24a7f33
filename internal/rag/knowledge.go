package rag

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/markdown"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/utils"
)

type indexedSection struct {
	title   string
	content string
	vector  []float64
}

// KnowledgeIndex is an in-memory embedding index over the sections of the
// company knowledge file. Built once at startup, read-only afterwards.
type KnowledgeIndex struct {
	embedder Embedder
	sections []indexedSection
}

// NewKnowledgeIndex splits the markdown knowledge file into "##" sections
// and embeds each one.
func NewKnowledgeIndex(ctx context.Context, path string, embedder Embedder) (*KnowledgeIndex, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}

	splitter, err := markdown.NewHeaderSplitter(ctx, &markdown.HeaderConfig{
		Headers: map[string]string{"##": "title"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown splitter: %w", err)
	}

	docs, err := splitter.Transform(ctx, []*schema.Document{{Content: string(raw)}})
	if err != nil {
		return nil, fmt.Errorf("failed to split knowledge file: %w", err)
	}

	sections := make([]indexedSection, 0, len(docs))
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		content := strings.TrimSpace(doc.Content)
		if content == "" {
			continue
		}
		title := ""
		if t, ok := doc.MetaData["title"].(string); ok {
			title = strings.TrimSpace(t)
		}
		sections = append(sections, indexedSection{title: title, content: content})
		texts = append(texts, title+"\n"+content)
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("knowledge file %s has no sections", path)
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed knowledge sections: %w", err)
	}
	for i := range sections {
		sections[i].vector = vectors[i]
	}

	utils.Zlog.Info("Knowledge index built",
		zap.String("path", path),
		zap.Int("sections", len(sections)))

	return &KnowledgeIndex{embedder: embedder, sections: sections}, nil
}

// TopK returns the k sections most similar to the query by embedding cosine
// similarity.
func (idx *KnowledgeIndex) TopK(ctx context.Context, query string, k int) ([]Document, error) {
	queryVec, err := idx.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored := make([]Document, 0, len(idx.sections))
	for _, sec := range idx.sections {
		sim, err := utils.CosineSimilarity(queryVec, sec.vector)
		if err != nil {
			utils.Zlog.Warn("Skipping section with incompatible embedding",
				zap.String("title", sec.title), zap.Error(err))
			continue
		}
		scored = append(scored, Document{Title: sec.title, Content: sec.content, Score: sim})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}
