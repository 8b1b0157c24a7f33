package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/llm"
	"github.com/motoria/dealer-agent/internal/rag"
	"github.com/motoria/dealer-agent/internal/utils"
)

// GeneralHandler answers dealership questions grounded in the top-K relevant
// knowledge sections.
type GeneralHandler struct {
	provider  llm.Provider
	retriever rag.Retriever
	topK      int
}

func NewGeneralHandler(provider llm.Provider, retriever rag.Retriever, topK int) *GeneralHandler {
	if topK <= 0 {
		topK = 3
	}
	return &GeneralHandler{provider: provider, retriever: retriever, topK: topK}
}

func (h *GeneralHandler) Handle(ctx context.Context, query, history string) *Result {
	knowledge := h.retrieveContext(ctx, query)

	response, err := h.provider.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(generalSystemPrompt, knowledge)},
		userMessage(query, history),
	})
	if err != nil {
		utils.Zlog.Warn("General handler generation failed", zap.Error(err))
		return &Result{Text: generalFallbackResponse}
	}

	return &Result{Text: response}
}

// retrieveContext fetches the top-K knowledge sections. Retrieval failure
// degrades to an empty context block; the generation step still runs.
func (h *GeneralHandler) retrieveContext(ctx context.Context, query string) string {
	docs, err := h.retriever.TopK(ctx, query, h.topK)
	if err != nil {
		utils.Zlog.Warn("Knowledge retrieval failed, answering without context", zap.Error(err))
		return "(no company information available)"
	}
	if len(docs) == 0 {
		return "(no company information available)"
	}

	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if doc.Title != "" {
			b.WriteString(doc.Title + "\n")
		}
		b.WriteString(doc.Content)
	}
	return b.String()
}
