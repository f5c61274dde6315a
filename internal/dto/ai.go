package dto

type AIQueryRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// AIQueryResponse is one assistant answer. Debug is set when the model
// looked up household figures to answer.
type AIQueryResponse struct {
	Answer string      `json:"answer"`
	Intent string      `json:"intent,omitempty"`
	Source string      `json:"source"` // rules, vertex, fallback
	Debug  *AIToolCall `json:"debug,omitempty"`
}

type AIToolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}
