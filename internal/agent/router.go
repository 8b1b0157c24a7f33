package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/llm"
	"github.com/motoria/dealer-agent/internal/types"
	"github.com/motoria/dealer-agent/internal/utils"
)

// Router classifies a query into one of the three intents by delegating to
// the generation capability with a closed instruction set.
//
// Policy: any label outside the valid set, any error from the generation
// call, and any empty response all resolve to GENERAL. Classification
// ambiguity is not an error and never surfaces to the caller.
type Router struct {
	provider llm.Provider
}

func NewRouter(provider llm.Provider) *Router {
	return &Router{provider: provider}
}

func (r *Router) Classify(ctx context.Context, query, history string) types.Intent {
	content := fmt.Sprintf(classifierPrompt, query)
	if history != "" {
		content = "Conversation so far:\n" + history + "\n\n" + content
	}

	out, err := r.provider.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: classifierSystemPrompt},
		{Role: llm.RoleUser, Content: content},
	})
	if err != nil {
		utils.Zlog.Warn("Intent classification failed, defaulting to GENERAL", zap.Error(err))
		return types.IntentGeneral
	}

	intent := types.ParseIntent(out)
	utils.Zlog.Debug("Intent classified",
		zap.String("intent", string(intent)),
		zap.String("raw_label", out))
	return intent
}
