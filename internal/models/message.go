package models

import (
	"encoding/json"

	"querydesk/internal/constants"
)

// SimilarQuestion pairs a previously asked question with the SQL the service
// already knows for it.
type SimilarQuestion struct {
	Question string `json:"question"`
	SQL      string `json:"sql,omitempty"`
}

// Message is one turn of a transcript. The id is unique within the session
// and CreatedAt is immutable; Feedback and Chart are the only fields mutated
// after creation, and only through the owning Session.
type Message struct {
	Type           constants.MessageType  `json:"type"`
	Content        string                 `json:"content"`
	UserMessageID  *string                `json:"user_message_id,omitempty"` // Only for assistant messages, the user message that triggered this answer
	GeneratedQuery string                 `json:"generated_query,omitempty"`
	Rows           []map[string]any       `json:"rows,omitempty"`
	Columns        []string               `json:"columns,omitempty"`
	Chart          json.RawMessage        `json:"chart,omitempty"` // opaque, passed through to the charting collaborator
	Summary        string                 `json:"summary,omitempty"`
	Explanation    string                 `json:"explanation,omitempty"`
	Confidence     *float64               `json:"confidence,omitempty"`
	FollowUps      []string               `json:"follow_ups,omitempty"`
	Similar        []SimilarQuestion      `json:"similar_questions,omitempty"`
	Feedback       constants.FeedbackType `json:"feedback,omitempty"`
	ErrorDetail    string                 `json:"error_detail,omitempty"`
	ExecutionTime  *float64               `json:"execution_time,omitempty"`
	AutoFixed      bool                   `json:"auto_fixed,omitempty"`
	Base
}

func NewUserMessage(content string) *Message {
	return &Message{
		Type:    constants.MessageTypeUser,
		Content: content,
		Base:    NewBase(),
	}
}

func NewAssistantMessage(content string, userMessageID *string) *Message {
	return &Message{
		Type:          constants.MessageTypeAssistant,
		Content:       content,
		UserMessageID: userMessageID,
		Base:          NewBase(),
	}
}

// AcceptsFeedback reports whether a thumbs up/down may be recorded: only
// assistant messages that actually carry a generated query are eligible.
func (m *Message) AcceptsFeedback() bool {
	return m.Type == constants.MessageTypeAssistant && m.GeneratedQuery != ""
}
