package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/household-finance/internal/assistant"
	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
)

type memAIStore struct {
	messages []models.AIMessage
	cleared  []string
}

func (s *memAIStore) DeleteSession(_ context.Context, _ string, sessionID string) error {
	s.cleared = append(s.cleared, sessionID)
	s.messages = nil
	return nil
}

func (s *memAIStore) SaveMessage(_ context.Context, _ string, _ string, msg models.AIMessage) error {
	s.messages = append(s.messages, msg)
	return nil
}

func (s *memAIStore) ListMessages(_ context.Context, _ string, _ string, limit int) ([]models.AIMessage, error) {
	if len(s.messages) > limit {
		return s.messages[len(s.messages)-limit:], nil
	}
	return s.messages, nil
}

type fakeVertex struct {
	responses []dto.VertexGenerateResponse
	err       error
	requests  []dto.VertexGenerateRequest
}

func (f *fakeVertex) GenerateContent(_ context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return dto.VertexGenerateResponse{}, f.err
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func newTestAssistant(t *testing.T, vertex vertexClient) (*assistantService, *memAIStore) {
	t.Helper()
	intents, err := assistant.LoadEmbedded()
	require.NoError(t, err)

	txs := householdRecords()
	insights := newTestInsightService(txs)
	budgets := NewBudgetService(newMemBudgetStore(), txs)
	budgets.clockNow = marchClock
	goals, _ := newTestGoalService()

	store := &memAIStore{}
	svc := NewAssistantService(intents, vertex, insights, budgets, goals, store, time.Hour, "USD")
	svc.clockNow = marchClock
	return svc, store
}

func TestAssistantAnswersFromRules(t *testing.T) {
	svc, store := newTestAssistant(t, nil)

	resp, err := svc.Query(helpers.TestCtx(), "uid", "", "What's our balance?")
	require.NoError(t, err)
	assert.Equal(t, sourceRules, resp.Source)
	assert.Equal(t, "balance", resp.Intent)
	assert.Contains(t, resp.Answer, "$3000.00")
	assert.Contains(t, resp.Answer, "$1020.00")

	require.Len(t, store.messages, 2)
	assert.Equal(t, "user", store.messages[0].Role)
	assert.Equal(t, "assistant", store.messages[1].Role)
	assert.Equal(t, "balance", store.messages[1].Intent)
	assert.Equal(t, marchClock().Add(time.Hour), store.messages[1].ExpiresAt)
}

func TestAssistantFallsBackWithoutModel(t *testing.T) {
	svc, store := newTestAssistant(t, nil)

	resp, err := svc.Query(helpers.TestCtx(), "uid", "s1", "Tell me a joke")
	require.NoError(t, err)
	assert.Equal(t, sourceFallback, resp.Source)
	assert.Equal(t, fallbackAnswer, resp.Answer)
	assert.Len(t, store.messages, 2)

	_, err = svc.Query(helpers.TestCtx(), "uid", "s1", "   ")
	var invalid *errs.ValidationError
	assert.ErrorAs(t, err, &invalid)
}

func TestAssistantClearSession(t *testing.T) {
	svc, store := newTestAssistant(t, nil)

	_, err := svc.Query(helpers.TestCtx(), "uid", "s1", "What's our balance?")
	require.NoError(t, err)
	require.NotEmpty(t, store.messages)

	require.NoError(t, svc.ClearSession(helpers.TestCtx(), "uid", "s1"))
	require.NoError(t, svc.ClearSession(helpers.TestCtx(), "uid", " "))
	assert.Equal(t, []string{"s1", defaultSessionID}, store.cleared)
	assert.Empty(t, store.messages)
}

func TestAssistantVertexToolCall(t *testing.T) {
	vertex := &fakeVertex{responses: []dto.VertexGenerateResponse{
		{ToolCalls: []dto.VertexToolCall{{Name: "get_insight_report", Args: map[string]any{"periodType": "monthly", "member": "Alice"}}}},
		{Text: "Alice spent $120.00 this month."},
	}}
	svc, store := newTestAssistant(t, vertex)

	resp, err := svc.Query(helpers.TestCtx(), "uid", "s1", "Tell me about Alice")
	require.NoError(t, err)
	assert.Equal(t, sourceVertex, resp.Source)
	assert.Equal(t, "Alice spent $120.00 this month.", resp.Answer)
	require.NotNil(t, resp.Debug)
	assert.Equal(t, "get_insight_report", resp.Debug.Tool)

	require.Len(t, vertex.requests, 2)
	assert.Equal(t, dto.FunctionCallingModeAuto, vertex.requests[0].ToolConfig.Mode)
	assert.Equal(t, dto.FunctionCallingModeNone, vertex.requests[1].ToolConfig.Mode)
	last := vertex.requests[1].Contents[len(vertex.requests[1].Contents)-1]
	require.NotNil(t, last.Parts[0].FunctionResponse)
	result := last.Parts[0].FunctionResponse.Response
	assert.Equal(t, "120", result["expense"])
	assert.Nil(t, result["chart"])

	roles := []string{}
	for _, m := range store.messages {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []string{"user", "tool", "assistant"}, roles)
}

func TestAssistantVertexErrors(t *testing.T) {
	svc, _ := newTestAssistant(t, &fakeVertex{err: errors.New("quota")})
	_, err := svc.Query(helpers.TestCtx(), "uid", "s1", "Tell me a joke")
	var ext *errs.ExternalServiceError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, "vertex", ext.Service)

	svc, _ = newTestAssistant(t, &fakeVertex{responses: []dto.VertexGenerateResponse{
		{ToolCalls: []dto.VertexToolCall{{Name: "delete_everything"}}},
	}})
	_, err = svc.Query(helpers.TestCtx(), "uid", "s1", "Tell me a joke")
	var invalid *errs.ValidationError
	assert.ErrorAs(t, err, &invalid)
}

func TestConvertMessagesToContents(t *testing.T) {
	history := []models.AIMessage{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: ""},
		{Role: "tool", ToolName: "get_goals", ToolArgs: map[string]any{}, ToolResult: map[string]any{"goals": []any{}}},
		{Role: "assistant", Content: "You have no goals."},
	}
	contents := convertMessagesToContents(history, "thanks")
	require.Len(t, contents, 5)
	assert.Equal(t, "model", contents[1].Role)
	assert.NotNil(t, contents[1].Parts[0].FunctionCall)
	assert.NotNil(t, contents[2].Parts[0].FunctionResponse)
	assert.Equal(t, "thanks", *contents[4].Parts[0].Text)
}

func TestDecodeArgs(t *testing.T) {
	args, err := decodeArgs[insightReportArgs](map[string]any{"periodType": "weekly", "member": "Bob"})
	require.NoError(t, err)
	assert.Equal(t, insightReportArgs{PeriodType: "weekly", Member: "Bob"}, args)

	_, err = decodeArgs[insightReportArgs](map[string]any{"periodType": 7})
	var invalid *errs.ValidationError
	assert.ErrorAs(t, err, &invalid)
}
