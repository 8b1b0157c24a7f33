package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motoria/dealer-agent/internal/conversation"
	"github.com/motoria/dealer-agent/internal/types"
)

type recordingHandler struct {
	result    *Result
	queries   []string
	histories []string
}

func (h *recordingHandler) Handle(_ context.Context, query, history string) *Result {
	h.queries = append(h.queries, query)
	h.histories = append(h.histories, history)
	if h.result != nil {
		return h.result
	}
	return &Result{Text: "handled"}
}

func TestPipeline_DispatchesOnIntent(t *testing.T) {
	general := &recordingHandler{}
	catalogH := &recordingHandler{result: &Result{Text: "here are some cars"}}

	provider := &fakeProvider{replies: []string{"CATALOG_SEARCH"}}
	p := NewPipeline(provider, map[types.Intent]Handler{
		types.IntentGeneral: general,
		types.IntentCatalog: catalogH,
	}, conversation.NewMemoryStore(), 4)

	result, err := p.Process(context.Background(), "u1", "do you have a civic?")
	require.NoError(t, err)
	require.Equal(t, types.IntentCatalog, result.Intent)
	require.Equal(t, "here are some cars", result.Text)
	require.Len(t, catalogH.queries, 1)
	require.Empty(t, general.queries)
}

func TestPipeline_UnknownIntentFallsBackToGeneral(t *testing.T) {
	general := &recordingHandler{}

	provider := &fakeProvider{replies: []string{"FINANCE_CALCULATION"}}
	p := NewPipeline(provider, map[types.Intent]Handler{
		types.IntentGeneral: general,
	}, conversation.NewMemoryStore(), 4)

	result, err := p.Process(context.Background(), "u1", "how much per month?")
	require.NoError(t, err)
	require.Equal(t, types.IntentFinance, result.Intent)
	require.Len(t, general.queries, 1)
}

func TestPipeline_AppendsTurnAndThreadsHistory(t *testing.T) {
	general := &recordingHandler{result: &Result{Text: "we open at 9"}}
	store := conversation.NewMemoryStore()

	provider := &fakeProvider{replies: []string{"GENERAL", "GENERAL"}}
	p := NewPipeline(provider, map[types.Intent]Handler{
		types.IntentGeneral: general,
	}, store, 4)

	_, err := p.Process(context.Background(), "u1", "what time do you open?")
	require.NoError(t, err)
	require.Equal(t, "", general.histories[0])

	_, err = p.Process(context.Background(), "u1", "and on sundays?")
	require.NoError(t, err)
	require.Contains(t, general.histories[1], "U: what time do you open?")
	require.Contains(t, general.histories[1], "A: we open at 9")

	conv, err := store.History(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, conv.Turns, 2)
}

func TestPipeline_HistoryIsPerUser(t *testing.T) {
	general := &recordingHandler{}
	store := conversation.NewMemoryStore()

	provider := &fakeProvider{replies: []string{"GENERAL", "GENERAL"}}
	p := NewPipeline(provider, map[types.Intent]Handler{
		types.IntentGeneral: general,
	}, store, 4)

	_, err := p.Process(context.Background(), "u1", "hello")
	require.NoError(t, err)

	_, err = p.Process(context.Background(), "u2", "hi there")
	require.NoError(t, err)
	require.Equal(t, "", general.histories[1])
}

func TestPipeline_CarriesStructuredData(t *testing.T) {
	plan := &types.FinancingPlan{MonthlyPayment: 6087.02, TermMonths: 48}
	financeH := &recordingHandler{result: &Result{Text: "plan", FinancingPlan: plan}}

	provider := &fakeProvider{replies: []string{"FINANCE_CALCULATION"}}
	p := NewPipeline(provider, map[types.Intent]Handler{
		types.IntentGeneral: &recordingHandler{},
		types.IntentFinance: financeH,
	}, conversation.NewMemoryStore(), 4)

	result, err := p.Process(context.Background(), "u1", "financing please")
	require.NoError(t, err)
	require.Equal(t, plan, result.FinancingPlan)
}
