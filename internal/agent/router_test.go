package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motoria/dealer-agent/internal/llm"
	"github.com/motoria/dealer-agent/internal/types"
)

// fakeProvider replays scripted completions in order. A nil error with an
// empty script returns an error so a test never hangs on missing setup.
type fakeProvider struct {
	replies []string
	errs    []error
	calls   [][]llm.Message
}

func (f *fakeProvider) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.calls = append(f.calls, messages)
	i := len(f.calls) - 1

	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", errors.New("fakeProvider: no reply scripted")
}

func TestRouter_Classify(t *testing.T) {
	cases := []struct {
		reply string
		want  types.Intent
	}{
		{"CATALOG_SEARCH", types.IntentCatalog},
		{"FINANCE_CALCULATION", types.IntentFinance},
		{"GENERAL", types.IntentGeneral},
		{" catalog_search ", types.IntentCatalog},
		{"MAYBE", types.IntentGeneral},
		{"", types.IntentGeneral},
	}

	for _, tc := range cases {
		router := NewRouter(&fakeProvider{replies: []string{tc.reply}})
		require.Equal(t, tc.want, router.Classify(context.Background(), "do you have a civic?", ""), "reply=%q", tc.reply)
	}
}

func TestRouter_ClassifyErrorDefaultsToGeneral(t *testing.T) {
	router := NewRouter(&fakeProvider{errs: []error{errors.New("backend down")}})
	require.Equal(t, types.IntentGeneral, router.Classify(context.Background(), "anything", ""))
}

func TestRouter_SendsQueryToProvider(t *testing.T) {
	provider := &fakeProvider{replies: []string{"GENERAL"}}
	router := NewRouter(provider)
	router.Classify(context.Background(), "what are your hours?", "")

	require.Len(t, provider.calls, 1)
	require.Len(t, provider.calls[0], 2)
	require.Equal(t, llm.RoleSystem, provider.calls[0][0].Role)
	require.Contains(t, provider.calls[0][1].Content, "what are your hours?")
}

func TestRouter_IncludesHistoryInPrompt(t *testing.T) {
	provider := &fakeProvider{replies: []string{"FINANCE_CALCULATION"}}
	router := NewRouter(provider)
	router.Classify(context.Background(), "and over 5 years?", "U: how much is the jetta?\nA: $265,000 MXN")

	require.Contains(t, provider.calls[0][1].Content, "Conversation so far:")
	require.Contains(t, provider.calls[0][1].Content, "how much is the jetta?")
}
