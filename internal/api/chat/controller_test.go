package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/motoria/dealer-agent/internal/agent"
	"github.com/motoria/dealer-agent/internal/conversation"
	"github.com/motoria/dealer-agent/internal/llm"
	"github.com/motoria/dealer-agent/internal/types"
)

type stubProvider struct {
	reply string
}

func (s *stubProvider) Complete(_ context.Context, _ []llm.Message) (string, error) {
	return s.reply, nil
}

type stubHandler struct {
	result *agent.Result
}

func (h *stubHandler) Handle(_ context.Context, _, _ string) *agent.Result {
	return h.result
}

func testRouter(t *testing.T, result *agent.Result) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pipeline := agent.NewPipeline(&stubProvider{reply: "GENERAL"}, map[types.Intent]agent.Handler{
		types.IntentGeneral: &stubHandler{result: result},
	}, conversation.NewMemoryStore(), 4)

	router := gin.New()
	RegisterRoutes(router, pipeline)
	return router
}

func TestChat_Success(t *testing.T) {
	router := testRouter(t, &agent.Result{Text: "We open at 9am."})

	body, _ := json.Marshal(Request{UserID: "u1", Message: "what time do you open?"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "We open at 9am.", resp.Response)
	require.Equal(t, types.IntentGeneral, resp.Intent)
	require.NotEmpty(t, resp.MessageID)
}

func TestChat_CarriesFinancingPlan(t *testing.T) {
	plan := &types.FinancingPlan{MonthlyPayment: 6087.02, TermMonths: 48}
	router := testRouter(t, &agent.Result{Text: "plan", FinancingPlan: plan})

	body, _ := json.Marshal(Request{UserID: "u1", Message: "monthly payments?"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.FinancingPlan)
	require.Equal(t, 48, resp.FinancingPlan.TermMonths)
}

func TestChat_RejectsMissingFields(t *testing.T) {
	router := testRouter(t, &agent.Result{Text: "ignored"})

	for _, payload := range []string{
		`{}`,
		`{"user_id": "u1"}`,
		`{"message": "hello"}`,
		`not json`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code, "payload=%s", payload)
	}
}
