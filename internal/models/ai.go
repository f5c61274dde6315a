package models

import "time"

// AIMessage is one entry of an assistant session history.
type AIMessage struct {
	Role       string         `firestore:"role" json:"role"` // user, assistant, tool
	Content    string         `firestore:"content,omitempty" json:"content,omitempty"`
	Intent     string         `firestore:"intent,omitempty" json:"intent,omitempty"`
	Source     string         `firestore:"source,omitempty" json:"source,omitempty"` // rules, vertex, fallback
	ToolName   string         `firestore:"toolName,omitempty" json:"toolName,omitempty"`
	ToolArgs   map[string]any `firestore:"toolArgs,omitempty" json:"toolArgs,omitempty"`
	ToolResult map[string]any `firestore:"toolResult,omitempty" json:"toolResult,omitempty"`
	CreatedAt  time.Time      `firestore:"createdAt" json:"createdAt"`
	ExpiresAt  time.Time      `firestore:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}
