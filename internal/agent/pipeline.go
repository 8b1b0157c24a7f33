package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/conversation"
	"github.com/motoria/dealer-agent/internal/llm"
	"github.com/motoria/dealer-agent/internal/types"
	"github.com/motoria/dealer-agent/internal/utils"
)

// ProcessResult is the packaged output of one pipeline invocation.
type ProcessResult struct {
	Text          string
	Intent        types.Intent
	Cars          []types.VehicleRecord
	FinancingPlan *types.FinancingPlan
}

// Pipeline wires Router -> Handler -> output packaging for one message.
// Each request walks START -> CLASSIFIED -> DISPATCHED -> FORMATTED -> DONE
// with no backward transitions and no state kept between requests; the only
// shared mutation is the final turn append on the conversation store.
type Pipeline struct {
	router        *Router
	handlers      map[types.Intent]Handler
	conversations conversation.Store
	historyTurns  int
}

func NewPipeline(provider llm.Provider, handlers map[types.Intent]Handler, conversations conversation.Store, historyTurns int) *Pipeline {
	if historyTurns <= 0 {
		historyTurns = 4
	}
	return &Pipeline{
		router:        NewRouter(provider),
		handlers:      handlers,
		conversations: conversations,
		historyTurns:  historyTurns,
	}
}

// Process runs one synchronous pipeline invocation for a user message.
func (p *Pipeline) Process(ctx context.Context, userID, message string) (*ProcessResult, error) {
	history := p.loadHistory(ctx, userID)

	intent := p.router.Classify(ctx, message, history)

	handler, ok := p.handlers[intent]
	if !ok {
		// The dispatch table should be total over the enum; recover if
		// the handler map was wired partially.
		utils.Zlog.Warn("No handler for intent, dispatching to GENERAL",
			zap.String("intent", string(intent)))
		handler = p.handlers[types.IntentGeneral]
	}

	result := handler.Handle(ctx, message, history)

	if err := p.conversations.AppendTurn(ctx, userID, types.ConversationTurn{
		User:      message,
		Assistant: result.Text,
	}); err != nil {
		utils.Zlog.Warn("Failed to append conversation turn",
			zap.String("user_id", userID), zap.Error(err))
	}

	utils.Zlog.Info("Message processed",
		zap.String("user_id", userID),
		zap.String("intent", string(intent)),
		zap.Int("cars", len(result.Cars)))

	return &ProcessResult{
		Text:          result.Text,
		Intent:        intent,
		Cars:          result.Cars,
		FinancingPlan: result.FinancingPlan,
	}, nil
}

func (p *Pipeline) loadHistory(ctx context.Context, userID string) string {
	conv, err := p.conversations.History(ctx, userID)
	if err != nil {
		utils.Zlog.Warn("Failed to load conversation history, proceeding without it",
			zap.String("user_id", userID), zap.Error(err))
		return ""
	}
	return conv.HistoryText(p.historyTurns)
}
