package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GregMSThompson/household-finance/internal/assistant"
	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/insight"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

const (
	historyLimit     = 8
	defaultSessionID = "default"

	sourceRules    = "rules"
	sourceVertex   = "vertex"
	sourceFallback = "fallback"

	fallbackAnswer = "I can answer questions about your balance, spending, savings goals, budgets and " +
		"who in the family is spending the most. Try asking \"How much have we spent this month?\""
)

type vertexClient interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type intentEngine interface {
	Answer(question string, facts assistant.Facts) (answer, intent string, ok bool, err error)
}

type insightReporter interface {
	Report(ctx context.Context, uid string, req dto.InsightRequest) (insight.Report, error)
}

type budgetStatuser interface {
	Status(ctx context.Context, uid, month string) (dto.BudgetStatusReport, error)
}

type goalLister interface {
	List(ctx context.Context, uid string) ([]*models.SavingsGoal, error)
}

type aiStore interface {
	SaveMessage(ctx context.Context, uid, sessionID string, msg models.AIMessage) error
	ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.AIMessage, error)
	DeleteSession(ctx context.Context, uid, sessionID string) error
}

type assistantService struct {
	intents  intentEngine
	vertex   vertexClient // nil when no model is configured
	insights insightReporter
	budgets  budgetStatuser
	goals    goalLister
	store    aiStore
	ttl      time.Duration
	currency string
	clockNow func() time.Time
}

func NewAssistantService(intents intentEngine, vertex vertexClient, insights insightReporter, budgets budgetStatuser, goals goalLister, store aiStore, ttl time.Duration, currency string) *assistantService {
	return &assistantService{
		intents:  intents,
		vertex:   vertex,
		insights: insights,
		budgets:  budgets,
		goals:    goals,
		store:    store,
		ttl:      ttl,
		currency: currency,
		clockNow: time.Now,
	}
}

// Query answers from the intent table when a rule matches, otherwise from
// Vertex AI with tool access to the household figures, otherwise with a
// fixed help message.
func (s *assistantService) Query(ctx context.Context, uid, sessionID, message string) (dto.AIQueryResponse, error) {
	log := logger.FromContext(ctx)

	message = strings.TrimSpace(message)
	if message == "" {
		return dto.AIQueryResponse{}, errs.NewValidationError("message is required")
	}
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	facts, err := s.facts(ctx, uid)
	if err != nil {
		return dto.AIQueryResponse{}, err
	}
	answer, intent, ok, err := s.intents.Answer(message, facts)
	if err != nil {
		return dto.AIQueryResponse{}, err
	}
	if ok {
		if err := s.saveExchange(ctx, uid, sessionID, message, answer, intent, sourceRules); err != nil {
			return dto.AIQueryResponse{}, err
		}
		log.Info("assistant query answered", "session_id", sessionID, "intent", intent)
		return dto.AIQueryResponse{Answer: answer, Intent: intent, Source: sourceRules}, nil
	}

	if s.vertex == nil {
		if err := s.saveExchange(ctx, uid, sessionID, message, fallbackAnswer, "", sourceFallback); err != nil {
			return dto.AIQueryResponse{}, err
		}
		return dto.AIQueryResponse{Answer: fallbackAnswer, Source: sourceFallback}, nil
	}
	return s.queryVertex(ctx, uid, sessionID, message)
}

// ClearSession forgets the conversation history of a session.
func (s *assistantService) ClearSession(ctx context.Context, uid, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = defaultSessionID
	}
	if err := s.store.DeleteSession(ctx, uid, sessionID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("assistant session cleared", "session_id", sessionID)
	return nil
}

func (s *assistantService) facts(ctx context.Context, uid string) (assistant.Facts, error) {
	report, err := s.insights.Report(ctx, uid, dto.InsightRequest{PeriodType: string(insight.Monthly)})
	if err != nil {
		return assistant.Facts{}, err
	}
	goals, err := s.goals.List(ctx, uid)
	if err != nil {
		return assistant.Facts{}, err
	}
	budgets, err := s.budgets.Status(ctx, uid, "")
	if err != nil {
		return assistant.Facts{}, err
	}

	values := make([]models.SavingsGoal, 0, len(goals))
	for _, g := range goals {
		values = append(values, *g)
	}
	return assistant.BuildFacts(s.currency, report, values, budgets), nil
}

func (s *assistantService) saveExchange(ctx context.Context, uid, sessionID, question, answer, intent, source string) error {
	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{Role: "user", Content: question}); err != nil {
		return err
	}
	return s.saveMessage(ctx, uid, sessionID, models.AIMessage{
		Role:    "assistant",
		Content: answer,
		Intent:  intent,
		Source:  source,
	})
}

func (s *assistantService) queryVertex(ctx context.Context, uid, sessionID, message string) (dto.AIQueryResponse, error) {
	log := logger.FromContext(ctx)

	history, err := s.store.ListMessages(ctx, uid, sessionID, historyLimit)
	if err != nil {
		return dto.AIQueryResponse{}, err
	}

	contents := convertMessagesToContents(history, message)
	req := dto.VertexGenerateRequest{
		System:   systemPrompt(s.clockNow()),
		Contents: contents,
		Tools:    toolSchemas(),
		ToolConfig: &dto.VertexToolConfig{
			Mode: dto.FunctionCallingModeAuto,
		},
	}

	resp, err := s.vertex.GenerateContent(ctx, req)
	if err != nil {
		var malformed *errs.MalformedFunctionCallError
		if errors.As(err, &malformed) {
			strictReq := req
			strictReq.System = strictSystemPrompt(s.clockNow())
			resp, err = s.vertex.GenerateContent(ctx, strictReq)
		}
	}
	if err != nil {
		return dto.AIQueryResponse{}, errs.NewExternalServiceError("vertex", "content generation failed", true, err)
	}

	if len(resp.ToolCalls) == 0 {
		if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{
			Role:    "user",
			Content: message,
		}); err != nil {
			return dto.AIQueryResponse{}, err
		}
		// Only save non-empty assistant responses
		if resp.Text != "" {
			if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{
				Role:    "assistant",
				Content: resp.Text,
				Source:  sourceVertex,
			}); err != nil {
				return dto.AIQueryResponse{}, err
			}
		}
		log.Info("ai query completed", "session_id", sessionID)
		return dto.AIQueryResponse{Answer: resp.Text, Source: sourceVertex}, nil
	}

	if len(resp.ToolCalls) > 1 {
		log.Warn("received multiple tool calls, only processing the first", "count", len(resp.ToolCalls))
	}

	toolCall := resp.ToolCalls[0]
	if !isValidToolName(toolCall.Name) {
		return dto.AIQueryResponse{}, errs.NewValidationError(fmt.Sprintf("model requested unknown tool: %s", toolCall.Name))
	}

	log.Info("executing tool", "tool", toolCall.Name)

	toolResult, err := s.executeTool(ctx, uid, toolCall)
	if err != nil {
		return dto.AIQueryResponse{}, fmt.Errorf("failed to execute tool %s: %w", toolCall.Name, err)
	}

	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{
		Role:    "user",
		Content: message,
	}); err != nil {
		return dto.AIQueryResponse{}, err
	}
	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{
		Role:       "tool",
		ToolName:   toolCall.Name,
		ToolArgs:   toolCall.Args,
		ToolResult: toolResult.Response,
	}); err != nil {
		return dto.AIQueryResponse{}, err
	}

	contentsWithToolResult := append(contents, dto.VertexContent{
		Role:  "model",
		Parts: []dto.VertexPart{{FunctionCall: &toolCall}},
	}, dto.VertexContent{
		Role:  "user",
		Parts: []dto.VertexPart{{FunctionResponse: &toolResult}},
	})

	finalResp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		System:   systemPrompt(s.clockNow()),
		Contents: contentsWithToolResult,
		Tools:    toolSchemas(),
		ToolConfig: &dto.VertexToolConfig{
			Mode: dto.FunctionCallingModeNone,
		},
	})
	if err != nil {
		return dto.AIQueryResponse{}, errs.NewExternalServiceError("vertex", "content generation failed", true, err)
	}

	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{
		Role:    "assistant",
		Content: finalResp.Text,
		Source:  sourceVertex,
	}); err != nil {
		return dto.AIQueryResponse{}, err
	}

	log.Info("ai query completed", "session_id", sessionID, "tool", toolCall.Name)
	return dto.AIQueryResponse{
		Answer: finalResp.Text,
		Source: sourceVertex,
		Debug: &dto.AIToolCall{
			Tool: toolCall.Name,
			Args: toolCall.Args,
		},
	}, nil
}

func convertMessagesToContents(history []models.AIMessage, currentMessage string) []dto.VertexContent {
	contents := make([]dto.VertexContent, 0, len(history)+1)

	for _, msg := range history {
		content := msg.Content
		switch msg.Role {
		case "user":
			contents = append(contents, dto.VertexContent{
				Role:  "user",
				Parts: []dto.VertexPart{{Text: &content}},
			})

		case "assistant":
			if content != "" {
				contents = append(contents, dto.VertexContent{
					Role:  "model",
					Parts: []dto.VertexPart{{Text: &content}},
				})
			}

		case "tool":
			// Tool calls and results need explicit function call/response parts.
			if msg.ToolName != "" && msg.ToolArgs != nil {
				contents = append(contents, dto.VertexContent{
					Role: "model",
					Parts: []dto.VertexPart{
						{FunctionCall: &dto.VertexToolCall{Name: msg.ToolName, Args: msg.ToolArgs}},
					},
				})
			}
			if msg.ToolName != "" && msg.ToolResult != nil {
				contents = append(contents, dto.VertexContent{
					Role: "user",
					Parts: []dto.VertexPart{
						{FunctionResponse: &dto.VertexToolResult{Name: msg.ToolName, Response: msg.ToolResult}},
					},
				})
			}
		}
	}

	contents = append(contents, dto.VertexContent{
		Role:  "user",
		Parts: []dto.VertexPart{{Text: &currentMessage}},
	})

	return contents
}

func (s *assistantService) saveMessage(ctx context.Context, uid, sessionID string, msg models.AIMessage) error {
	now := s.clockNow()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	if s.ttl > 0 {
		msg.ExpiresAt = now.Add(s.ttl)
	}
	return s.store.SaveMessage(ctx, uid, sessionID, msg)
}

type insightReportArgs struct {
	PeriodType string `json:"periodType"`
	Date       string `json:"date"`
	Member     string `json:"member"`
}

type budgetStatusArgs struct {
	Month string `json:"month"`
}

func (s *assistantService) executeTool(ctx context.Context, uid string, call dto.VertexToolCall) (dto.VertexToolResult, error) {
	var result any
	switch call.Name {
	case "get_insight_report":
		args, err := decodeArgs[insightReportArgs](call.Args)
		if err != nil {
			return dto.VertexToolResult{}, err
		}
		if args.PeriodType == "" {
			args.PeriodType = string(insight.Monthly)
		}
		report, err := s.insights.Report(ctx, uid, dto.InsightRequest{PeriodType: args.PeriodType, Date: args.Date, Actor: args.Member})
		if err != nil {
			return dto.VertexToolResult{}, err
		}
		// Chart geometry means nothing to the model.
		report.Chart, report.Series, report.XAxisLabels = nil, insight.Series{}, nil
		result = report
	case "get_budget_status":
		args, err := decodeArgs[budgetStatusArgs](call.Args)
		if err != nil {
			return dto.VertexToolResult{}, err
		}
		status, err := s.budgets.Status(ctx, uid, args.Month)
		if err != nil {
			return dto.VertexToolResult{}, err
		}
		result = status
	case "get_goals":
		goals, err := s.goals.List(ctx, uid)
		if err != nil {
			return dto.VertexToolResult{}, err
		}
		views := make([]dto.GoalView, 0, len(goals))
		for _, g := range goals {
			views = append(views, dto.NewGoalView(*g))
		}
		result = map[string]any{"goals": views}
	default:
		return dto.VertexToolResult{}, errs.NewValidationError(fmt.Sprintf("unsupported tool: %s", call.Name))
	}

	payload, err := toMap(result)
	if err != nil {
		return dto.VertexToolResult{}, err
	}
	return dto.VertexToolResult{Name: call.Name, Response: payload}, nil
}

func toolSchemas() []dto.VertexTool {
	return []dto.VertexTool{
		{
			Name: "get_insight_report",
			Description: "Income, expenses, category and family member breakdowns for one period, " +
				"compared with the period before it.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"periodType": {Type: "string", Enum: []string{"weekly", "monthly", "yearly"}, Description: "Defaults to monthly."},
					"date":       {Type: "string", Description: "YYYY-MM-DD inside the period; defaults to today."},
					"member":     {Type: "string", Description: "Restrict to one family member by name."},
				},
			},
		},
		{
			Name:        "get_budget_status",
			Description: "Each budget for a month with the amount spent, remaining and whether it is over the limit.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"month": {Type: "string", Description: "YYYY-MM; defaults to the current month."},
				},
			},
		},
		{
			Name:        "get_goals",
			Description: "The household's savings goals with progress.",
			Parameters:  &dto.VertexSchema{Type: "object"},
		},
	}
}

func systemPrompt(now time.Time) string {
	today := now.Format("2006-01-02")
	weekday := now.Weekday().String()
	return "You are a friendly family finance assistant. Use tools for any household figures. " +
		"Make only one tool call per request. For multi-part questions, address the primary question first. " +
		"All financial data (transactions, amounts, categories) must come from tool results - never fabricate these. " +
		"If a query is ambiguous, ask for clarification. Keep answers short and encouraging. " +
		"Today is " + today + " (" + weekday + ")."
}

func strictSystemPrompt(now time.Time) string {
	return systemPrompt(now) + " You must respond with a valid tool call that matches the schema. " +
		"If required information is missing, ask a clarification question instead of calling a tool."
}

func decodeArgs[T any](args map[string]any) (T, error) {
	var out T
	if len(args) == 0 {
		return out, nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errs.NewValidationError("invalid tool arguments")
	}
	return out, nil
}

func toMap(value any) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func isValidToolName(name string) bool {
	validTools := map[string]bool{
		"get_insight_report": true,
		"get_budget_status":  true,
		"get_goals":          true,
	}
	return validTools[name]
}
