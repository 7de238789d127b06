// Package renderer projects session state into view models. It performs no
// network calls and never mutates a message: everything here is a pure
// function of (message, visibility flags).
package renderer

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"querydesk/internal/constants"
	"querydesk/internal/models"
)

// MessageView is the visual block for one transcript turn. Sections that are
// toggled off carry only their Has* marker so the client can render the
// toggle button without the payload.
type MessageView struct {
	ID            string                 `json:"id"`
	Type          constants.MessageType  `json:"type"`
	Content       string                 `json:"content"`
	Timestamp     string                 `json:"timestamp"`
	Explanation   string                 `json:"explanation,omitempty"`
	ErrorDetail   string                 `json:"error_detail,omitempty"`
	ConfidencePct *int                   `json:"confidence_pct,omitempty"`
	ExecutionTime *float64               `json:"execution_time,omitempty"`
	AutoFixed     bool                   `json:"auto_fixed,omitempty"`
	Feedback      constants.FeedbackType `json:"feedback,omitempty"`

	HasGeneratedQuery   bool `json:"has_generated_query"`
	HasResultTable      bool `json:"has_result_table"`
	HasChart            bool `json:"has_chart"`
	HasSimilarQuestions bool `json:"has_similar_questions"`
	HasFollowUps        bool `json:"has_follow_ups"`
	CanExport           bool `json:"can_export"`

	Visibility models.Visibility `json:"visibility"`

	GeneratedQuery string                   `json:"generated_query,omitempty"`
	Table          *TableView               `json:"table,omitempty"`
	Chart          json.RawMessage          `json:"chart,omitempty"`
	FollowUps      []string                 `json:"follow_ups,omitempty"`
	Similar        []models.SimilarQuestion `json:"similar_questions,omitempty"`
}

// TableView is a display-only slice of the result rows. The underlying
// message rows are never mutated; truncation happens here and only here.
type TableView struct {
	Columns   []string         `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	TotalRows int              `json:"total_rows"`
	Truncated bool             `json:"truncated"`
	Footer    string           `json:"footer,omitempty"`
}

// Transcript projects every message of the session in append order.
func Transcript(session *models.Session) []MessageView {
	messages := session.Messages()
	views := make([]MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, Project(msg, session.Visibility(msg.ID)))
	}
	return views
}

// Project builds the view for a single message under the given flags.
func Project(msg *models.Message, flags models.Visibility) MessageView {
	view := MessageView{
		ID:            msg.ID,
		Type:          msg.Type,
		Content:       msg.Content,
		Timestamp:     msg.CreatedAt.Format(time.RFC3339),
		Explanation:   msg.Explanation,
		ErrorDetail:   msg.ErrorDetail,
		ExecutionTime: msg.ExecutionTime,
		AutoFixed:     msg.AutoFixed,
		Feedback:      msg.Feedback,
		Visibility:    flags,

		HasGeneratedQuery:   msg.GeneratedQuery != "",
		HasResultTable:      len(msg.Rows) > 0,
		HasChart:            len(msg.Chart) > 0,
		HasSimilarQuestions: len(msg.Similar) > 0,
		HasFollowUps:        len(msg.FollowUps) > 0,
		CanExport:           len(msg.Rows) > 0,
	}

	if msg.Confidence != nil {
		pct := int(math.Round(*msg.Confidence * 100))
		view.ConfidencePct = &pct
	}

	if flags.GeneratedQuery && view.HasGeneratedQuery {
		view.GeneratedQuery = msg.GeneratedQuery
	}
	if flags.ResultTable && view.HasResultTable {
		view.Table = projectTable(msg)
	}
	if flags.Chart && view.HasChart {
		view.Chart = msg.Chart
	}
	if flags.FollowUps && view.HasFollowUps {
		view.FollowUps = msg.FollowUps
	}
	if flags.SimilarQuestions && view.HasSimilarQuestions {
		similar := msg.Similar
		if len(similar) > constants.SimilarQuestionDisplayLimit {
			similar = similar[:constants.SimilarQuestionDisplayLimit]
		}
		view.Similar = similar
	}

	return view
}

func projectTable(msg *models.Message) *TableView {
	table := &TableView{
		Columns:   msg.Columns,
		Rows:      msg.Rows,
		TotalRows: len(msg.Rows),
	}
	if len(table.Columns) == 0 {
		table.Columns = deriveColumns(msg.Rows)
	}
	if len(table.Rows) > constants.TableDisplayRowLimit {
		table.Rows = table.Rows[:constants.TableDisplayRowLimit]
		table.Truncated = true
		table.Footer = fmt.Sprintf("Showing %d of %d rows", constants.TableDisplayRowLimit, table.TotalRows)
	}
	return table
}

// deriveColumns recovers a stable column order from the first row when the
// service did not send one.
func deriveColumns(rows []map[string]any) []string {
	if len(rows) == 0 {
		return nil
	}
	columns := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns
}
