package dtos

import (
	"querydesk/internal/constants"
	"querydesk/internal/renderer"
	"querydesk/pkg/queryservice"
)

type SessionResponse struct {
	ID          string                    `json:"id"`
	View        constants.ViewMode        `json:"view"`
	CreatedAt   string                    `json:"created_at"`
	Messages    []renderer.MessageView    `json:"messages"`
	Suggestions []queryservice.Suggestion `json:"suggestions,omitempty"`
}

type AskRequest struct {
	Content   string `json:"content" binding:"required"`
	ChartType string `json:"chart_type" binding:"omitempty,oneof=auto bar line scatter pie heatmap"`
}

type AskResponse struct {
	UserMessage      renderer.MessageView `json:"user_message"`
	AssistantMessage renderer.MessageView `json:"assistant_message"`
}

type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required,oneof=positive negative"`
	Comment  string `json:"comment"`
}

type VisibilityRequest struct {
	Flag    string `json:"flag" binding:"required,oneof=generated_query result_table chart similar_questions follow_ups"`
	Visible *bool  `json:"visible" binding:"required"`
}

type ExportRequest struct {
	Format string `json:"format" binding:"required,oneof=csv json excel"`
}

// ExportResult is what the handler streams back as a file download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

type RegenerateChartRequest struct {
	ChartType string `json:"chart_type" binding:"required,oneof=auto bar line scatter pie heatmap"`
}

type SelectViewRequest struct {
	View string `json:"view" binding:"required,oneof=conversation history training schema"`
	// Search narrows the history view (substring over question and SQL).
	Search string `json:"search"`
	// Filter narrows the training view by record type.
	Filter string `json:"filter" binding:"omitempty,oneof=all question ddl documentation"`
}

type ViewDataResponse struct {
	View     constants.ViewMode          `json:"view"`
	Messages []renderer.MessageView      `json:"messages,omitempty"`
	History  []queryservice.HistoryEntry `json:"history,omitempty"`
	Training []queryservice.TrainingItem `json:"training,omitempty"`
	Schema   []queryservice.SchemaTable  `json:"schema,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions []queryservice.Suggestion `json:"suggestions"`
	// Fallback marks the fixed local list served when the remote fetch failed.
	Fallback bool `json:"fallback"`
}
