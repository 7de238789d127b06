// Package queryservice is the HTTP client for the external
// natural-language-to-SQL service. It owns the wire format, the failure
// taxonomy, and the client-side result exports; nothing else in the repo
// talks to the service directly.
package queryservice

import "encoding/json"

// AskOptions tune a single ask call. Zero values are sent as-is; the
// service applies its own defaults for anything it does not recognize.
type AskOptions struct {
	AutoTrain         bool
	GenerateFollowUps bool
	GenerateChart     bool
	AllowAutoFix      bool
	ChartType         string
}

// AskResult is the decoded answer for one natural-language question.
type AskResult struct {
	GeneratedQuery    string
	Rows              []map[string]any
	Columns           []string
	RowCount          int
	Chart             json.RawMessage
	Summary           string
	Explanation       string
	Confidence        *float64
	FollowUpQuestions []string
	SimilarQuestions  []Suggestion
	ExecutionTime     *float64
	AutoFixed         bool
}

// Suggestion is a candidate question, optionally paired with the SQL the
// service already knows for it.
type Suggestion struct {
	Question string `json:"question"`
	SQL      string `json:"sql,omitempty"`
}

// HistoryEntry is one previously executed turn, as reported by the service.
type HistoryEntry struct {
	Question      string   `json:"question"`
	SQL           string   `json:"sql,omitempty"`
	Timestamp     string   `json:"timestamp"`
	Success       bool     `json:"success"`
	ExecutionTime *float64 `json:"execution_time,omitempty"`
}

// TrainingExample is a user-submitted correction or addition. At least one
// field must be populated before submitting.
type TrainingExample struct {
	Question      string `json:"question,omitempty"`
	SQL           string `json:"sql,omitempty"`
	DDL           string `json:"ddl,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

// IsEmpty reports whether every field of the example is blank.
func (e TrainingExample) IsEmpty() bool {
	return e.Question == "" && e.SQL == "" && e.DDL == "" && e.Documentation == ""
}

// TrainingItem is a stored training record as listed by the service.
type TrainingItem struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question,omitempty"`
	Content  string `json:"content"`
	Type     string `json:"type"`
}

// SchemaColumn describes one column of a table.
type SchemaColumn struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primary_key"`
	Nullable   bool   `json:"nullable"`
}

// SchemaTable describes one table of the connected database.
type SchemaTable struct {
	Name     string         `json:"name"`
	RowCount int64          `json:"row_count"`
	Columns  []SchemaColumn `json:"columns"`
}

// Wire shapes. Field names follow the service's JSON exactly.

type askRequest struct {
	Question          string `json:"question"`
	AutoTrain         bool   `json:"auto_train"`
	GenerateFollowups bool   `json:"generate_followups"`
	GenerateCharts    bool   `json:"generate_charts"`
	AllowAutoFix      bool   `json:"allow_auto_fix"`
	ChartType         string `json:"chart_type"`
}

type askResults struct {
	Rows     []map[string]any `json:"rows"`
	Columns  []string         `json:"columns"`
	RowCount int              `json:"row_count"`
}

type askResponse struct {
	Success           bool            `json:"success"`
	Error             string          `json:"error,omitempty"`
	SQL               string          `json:"sql,omitempty"`
	Results           *askResults     `json:"results,omitempty"`
	Chart             json.RawMessage `json:"chart,omitempty"`
	Summary           string          `json:"summary,omitempty"`
	Explanation       string          `json:"explanation,omitempty"`
	Confidence        *float64        `json:"confidence,omitempty"`
	FollowupQuestions []string        `json:"followup_questions,omitempty"`
	SimilarQuestions  []Suggestion    `json:"similar_questions,omitempty"`
	ExecutionTime     *float64        `json:"execution_time,omitempty"`
	AutoFixed         bool            `json:"auto_fixed,omitempty"`
}

type suggestionsRequest struct {
	NResults int `json:"n_results"`
}

type suggestionsResponse struct {
	Success     bool         `json:"success"`
	Error       string       `json:"error,omitempty"`
	Suggestions []Suggestion `json:"suggestions"`
}

type historyResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	History []HistoryEntry `json:"history"`
}

type trainingDataResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Data    []TrainingItem `json:"data"`
}

type trainResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type bulkTrainResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}

type feedbackRequest struct {
	Question     string  `json:"question"`
	SQL          string  `json:"sql"`
	FeedbackType string  `json:"feedback_type"`
	Comment      *string `json:"comment"`
}

type feedbackResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type generateChartRequest struct {
	Results   []map[string]any `json:"results"`
	Question  string           `json:"question"`
	ChartType string           `json:"chart_type"`
}

type generateChartResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Chart   json.RawMessage `json:"chart,omitempty"`
}

type exportRequest struct {
	Results []map[string]any `json:"results"`
}

type schemaTableWire struct {
	RowCount int64          `json:"row_count"`
	Columns  []SchemaColumn `json:"columns"`
}

type schemaResponse struct {
	Success bool                       `json:"success"`
	Error   string                     `json:"error,omitempty"`
	Schema  map[string]schemaTableWire `json:"schema"`
}
