package queryservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config carries everything the client needs; it is injected at construction
// time rather than read from globals so tests and alternate deployments can
// point it anywhere.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// APIKey, when set, is sent as a bearer Authorization header on every
	// request. The observed service runs without auth on localhost.
	APIKey string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Ask submits a natural-language question and decodes the full answer.
func (c *Client) Ask(ctx context.Context, question string, opts AskOptions) (*AskResult, error) {
	body := askRequest{
		Question:          question,
		AutoTrain:         opts.AutoTrain,
		GenerateFollowups: opts.GenerateFollowUps,
		GenerateCharts:    opts.GenerateChart,
		AllowAutoFix:      opts.AllowAutoFix,
		ChartType:         opts.ChartType,
	}

	var resp askResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/ask", body, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &ServiceError{StatusCode: http.StatusOK, Message: resp.Error}
	}

	result := &AskResult{
		GeneratedQuery:    resp.SQL,
		Chart:             resp.Chart,
		Summary:           resp.Summary,
		Explanation:       resp.Explanation,
		Confidence:        resp.Confidence,
		FollowUpQuestions: resp.FollowupQuestions,
		SimilarQuestions:  resp.SimilarQuestions,
		ExecutionTime:     resp.ExecutionTime,
		AutoFixed:         resp.AutoFixed,
	}
	if resp.Results != nil {
		result.Rows = resp.Results.Rows
		result.Columns = resp.Results.Columns
		result.RowCount = resp.Results.RowCount
		if result.RowCount == 0 {
			result.RowCount = len(resp.Results.Rows)
		}
	}
	return result, nil
}

// Suggestions fetches up to count starter questions.
func (c *Client) Suggestions(ctx context.Context, count int) ([]Suggestion, error) {
	var resp suggestionsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/suggestions", suggestionsRequest{NResults: count}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" || !resp.Success {
		return nil, &ServiceError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	return resp.Suggestions, nil
}

// History fetches the past query log.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	var resp historyResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/history", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" || !resp.Success {
		return nil, &ServiceError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	return resp.History, nil
}

// TrainingData lists the stored training records.
func (c *Client) TrainingData(ctx context.Context) ([]TrainingItem, error) {
	var resp trainingDataResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/training_data", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" || !resp.Success {
		return nil, &ServiceError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	return resp.Data, nil
}

// DeleteTrainingData removes one training record by id.
func (c *Client) DeleteTrainingData(ctx context.Context, id string) error {
	var resp trainResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/api/training_data/"+url.PathEscape(id), nil, &resp); err != nil {
		return err
	}
	if resp.Error != "" || !resp.Success {
		return &ServiceError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	return nil
}

// Train submits one training example. The caller is responsible for the
// at-least-one-field precondition.
func (c *Client) Train(ctx context.Context, example TrainingExample) error {
	var resp trainResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/train", example, &resp); err != nil {
		return err
	}
	if resp.Error != "" || !resp.Success {
		return &ServiceError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	return nil
}

// BulkTrain uploads a training file as multipart form data and returns how
// many items were imported.
func (c *Client) BulkTrain(ctx context.Context, filename string, contents []byte) (int, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return 0, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(contents); err != nil {
		return 0, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/bulk_train", &buf)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setAuth(req)

	raw, err := c.send(req)
	if err != nil {
		return 0, err
	}

	var resp bulkTrainResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, fmt.Errorf("parse bulk train response: %w", err)
	}
	if !resp.Success {
		return 0, &ServiceError{StatusCode: http.StatusOK, Message: resp.Message}
	}
	return resp.Count, nil
}

// Feedback relays a positive/negative verdict on a generated query.
func (c *Client) Feedback(ctx context.Context, question, sql, verdict string, comment *string) error {
	body := feedbackRequest{
		Question:     question,
		SQL:          sql,
		FeedbackType: verdict,
		Comment:      comment,
	}

	var resp feedbackResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/feedback", body, &resp); err != nil {
		return err
	}
	if resp.Error != "" || !resp.Success {
		return &ServiceError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	return nil
}

// GenerateChart asks the service for a fresh chart spec over existing rows.
func (c *Client) GenerateChart(ctx context.Context, rows []map[string]any, question, chartType string) (json.RawMessage, error) {
	body := generateChartRequest{
		Results:   rows,
		Question:  question,
		ChartType: chartType,
	}

	var resp generateChartResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/generate_chart", body, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" || !resp.Success || len(resp.Chart) == 0 {
		return nil, &ServiceError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	return resp.Chart, nil
}

// ExportExcel delegates spreadsheet encoding to the service and returns the
// binary workbook. CSV and JSON are encoded locally, see export.go.
func (c *Client) ExportExcel(ctx context.Context, rows []map[string]any) ([]byte, error) {
	payload, err := json.Marshal(exportRequest{Results: rows})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/export/excel", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	return c.send(req)
}

// DatabaseSchema fetches table and column metadata, sorted by table name for
// stable display.
func (c *Client) DatabaseSchema(ctx context.Context) ([]SchemaTable, error) {
	var resp schemaResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/database_schema", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" || !resp.Success {
		return nil, &ServiceError{StatusCode: http.StatusOK, Message: resp.Error}
	}

	tables := make([]SchemaTable, 0, len(resp.Schema))
	for name, info := range resp.Schema {
		tables = append(tables, SchemaTable{
			Name:     name,
			RowCount: info.RowCount,
			Columns:  info.Columns,
		})
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)

	raw, err := c.send(req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// send executes the request and classifies failures: transport errors become
// ConnectionError, non-2xx statuses become ServiceError carrying whatever
// message the body offers.
func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Message:    errorMessageFromBody(raw, resp.StatusCode),
		}
	}
	return raw, nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
}

func errorMessageFromBody(raw []byte, status int) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("server error: %d", status)
}
