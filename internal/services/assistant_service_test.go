package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"querydesk/config"
	"querydesk/internal/apis/dtos"
	"querydesk/internal/constants"
	"querydesk/internal/models"
	"querydesk/internal/repositories"
	"querydesk/internal/utils"
	"querydesk/pkg/queryservice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedbackCall struct {
	Question string
	SQL      string
	Verdict  string
	Comment  *string
}

// stubGateway scripts the remote query service for service-level tests.
type stubGateway struct {
	askResult      *queryservice.AskResult
	askErr         error
	suggestions    []queryservice.Suggestion
	suggestionsErr error
	history        []queryservice.HistoryEntry
	historyErr     error
	historyCalls   int
	training       []queryservice.TrainingItem
	trainingErr    error
	trainErr       error
	trained        []queryservice.TrainingExample
	bulkCount      int
	bulkErr        error
	deleteErr      error
	deletedIDs     []string
	chart          json.RawMessage
	chartErr       error
	excel          []byte
	excelErr       error
	schema         []queryservice.SchemaTable
	schemaErr      error
	feedbackCh     chan feedbackCall
}

func (g *stubGateway) Ask(ctx context.Context, question string, opts queryservice.AskOptions) (*queryservice.AskResult, error) {
	return g.askResult, g.askErr
}

func (g *stubGateway) Suggestions(ctx context.Context, count int) ([]queryservice.Suggestion, error) {
	return g.suggestions, g.suggestionsErr
}

func (g *stubGateway) History(ctx context.Context) ([]queryservice.HistoryEntry, error) {
	g.historyCalls++
	return g.history, g.historyErr
}

func (g *stubGateway) TrainingData(ctx context.Context) ([]queryservice.TrainingItem, error) {
	return g.training, g.trainingErr
}

func (g *stubGateway) DeleteTrainingData(ctx context.Context, id string) error {
	g.deletedIDs = append(g.deletedIDs, id)
	return g.deleteErr
}

func (g *stubGateway) Train(ctx context.Context, example queryservice.TrainingExample) error {
	g.trained = append(g.trained, example)
	return g.trainErr
}

func (g *stubGateway) BulkTrain(ctx context.Context, filename string, contents []byte) (int, error) {
	return g.bulkCount, g.bulkErr
}

func (g *stubGateway) Feedback(ctx context.Context, question, sql, verdict string, comment *string) error {
	if g.feedbackCh != nil {
		g.feedbackCh <- feedbackCall{Question: question, SQL: sql, Verdict: verdict, Comment: comment}
	}
	return nil
}

func (g *stubGateway) GenerateChart(ctx context.Context, rows []map[string]any, question, chartType string) (json.RawMessage, error) {
	return g.chart, g.chartErr
}

func (g *stubGateway) ExportExcel(ctx context.Context, rows []map[string]any) ([]byte, error) {
	return g.excel, g.excelErr
}

func (g *stubGateway) DatabaseSchema(ctx context.Context) ([]queryservice.SchemaTable, error) {
	return g.schema, g.schemaErr
}

func setTestConfig(t *testing.T) {
	t.Helper()
	config.Env = config.Environment{
		Environment:           "DEVELOPMENT",
		QueryServiceTimeoutMs: 1000,
		SuggestionCount:       8,
		DemoFallbackEnabled:   true,
		SessionTTLMinutes:     60,
		MaxSessionsPerUser:    5,
		AutoTrainOnSuccess:    true,
		GenerateFollowUps:     true,
		GenerateCharts:        true,
		AllowAutoFix:          true,
		DefaultChartType:      constants.ChartTypeAuto,
	}
}

func newTestService(t *testing.T, gateway *stubGateway) (AssistantService, repositories.SessionRepository) {
	t.Helper()
	setTestConfig(t)
	repo := repositories.NewSessionRepository(time.Hour)
	return NewAssistantService(repo, gateway), repo
}

func newTestSession(repo repositories.SessionRepository, userID string) *models.Session {
	session := models.NewSession(userID)
	repo.Put(session)
	return session
}

func TestAskAppendsBothTurns(t *testing.T) {
	confidence := 0.9
	gateway := &stubGateway{
		askResult: &queryservice.AskResult{
			GeneratedQuery:    "SELECT SUM(revenue) FROM sales",
			Rows:              []map[string]any{{"total": float64(42)}},
			Columns:           []string{"total"},
			RowCount:          1,
			Chart:             json.RawMessage(`{"type": "bar"}`),
			Summary:           "Total revenue is 42",
			Confidence:        &confidence,
			FollowUpQuestions: []string{"Break down by month"},
		},
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, statusCode, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "What is the total revenue?"})
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), statusCode)

	assert.Equal(t, constants.MessageTypeUser, resp.UserMessage.Type)
	assert.Equal(t, "What is the total revenue?", resp.UserMessage.Content)
	assert.Equal(t, constants.MessageTypeAssistant, resp.AssistantMessage.Type)
	assert.Equal(t, "Total revenue is 42", resp.AssistantMessage.Content)
	assert.Equal(t, 2, session.Len())

	// Auto-expand: table, chart and follow-ups open, query and similar hidden.
	flags := resp.AssistantMessage.Visibility
	assert.True(t, flags.ResultTable)
	assert.True(t, flags.Chart)
	assert.True(t, flags.FollowUps)
	assert.False(t, flags.GeneratedQuery)
	assert.False(t, flags.SimilarQuestions)

	require.NotNil(t, resp.AssistantMessage.ConfidencePct)
	assert.Equal(t, 90, *resp.AssistantMessage.ConfidencePct)
}

func TestAskContentWithoutSummary(t *testing.T) {
	gateway := &stubGateway{
		askResult: &queryservice.AskResult{
			GeneratedQuery: "SELECT 1",
			Rows:           []map[string]any{{"a": 1}, {"a": 2}, {"a": 3}},
			RowCount:       3,
		},
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, _, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.NoError(t, err)
	assert.Equal(t, "Found 3 results", resp.AssistantMessage.Content)

	gateway.askResult = &queryservice.AskResult{GeneratedQuery: "SELECT 1"}
	resp, _, err = service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q2"})
	require.NoError(t, err)
	assert.Equal(t, "No results found", resp.AssistantMessage.Content)
}

func TestAskConnectionErrorWithDemoFallback(t *testing.T) {
	gateway := &stubGateway{
		askErr: &queryservice.ConnectionError{Err: context.DeadlineExceeded},
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, statusCode, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.NoError(t, err, "an unreachable service is a degraded answer, not a request failure")
	assert.Equal(t, uint(http.StatusOK), statusCode)

	view := resp.AssistantMessage
	assert.Contains(t, view.Content, constants.ConnectionFailureMessage)
	assert.Contains(t, view.Content, constants.DemoFallbackNotice)
	assert.NotEmpty(t, view.ErrorDetail)

	// Demo payload is wired in: table visible, query present but hidden.
	assert.True(t, view.HasResultTable)
	assert.True(t, view.Visibility.ResultTable)
	assert.True(t, view.HasGeneratedQuery)
	assert.False(t, view.Visibility.GeneratedQuery)

	msg := session.MessageByID(view.ID)
	require.NotNil(t, msg)
	assert.Equal(t, constants.DemoGeneratedQuery, msg.GeneratedQuery)
	assert.Equal(t, constants.DemoResultColumns, msg.Columns)
	require.NotNil(t, msg.Confidence)
	assert.Equal(t, constants.DemoConfidence, *msg.Confidence)
}

func TestAskConnectionErrorFallbackDisabled(t *testing.T) {
	gateway := &stubGateway{
		askErr: &queryservice.ConnectionError{Err: context.DeadlineExceeded},
	}
	service, repo := newTestService(t, gateway)
	config.Env.DemoFallbackEnabled = false
	session := newTestSession(repo, "admin")

	resp, _, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.NoError(t, err)

	view := resp.AssistantMessage
	assert.Equal(t, constants.ConnectionFailureMessage, view.Content)
	assert.NotEmpty(t, view.ErrorDetail)
	assert.False(t, view.HasResultTable)
	assert.False(t, view.HasGeneratedQuery)
}

func TestAskServiceErrorKeepsVerbatimDetail(t *testing.T) {
	gateway := &stubGateway{
		askErr: &queryservice.ServiceError{StatusCode: http.StatusOK, Message: "no tables match the question"},
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, _, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.NoError(t, err)

	view := resp.AssistantMessage
	assert.Equal(t, constants.ServiceFailureMessage, view.Content)
	assert.Equal(t, "no tables match the question", view.ErrorDetail)
	assert.False(t, view.HasResultTable, "service failures never get demo data")
}

func TestAskConflictWhileInFlight(t *testing.T) {
	gateway := &stubGateway{askResult: &queryservice.AskResult{}}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	require.True(t, session.BeginAsk())
	defer session.EndAsk()

	_, statusCode, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.Error(t, err)
	assert.Equal(t, uint(http.StatusConflict), statusCode)
	assert.Equal(t, 0, session.Len(), "a rejected ask must not touch the transcript")
}

func TestAskUnknownSession(t *testing.T) {
	service, _ := newTestService(t, &stubGateway{})

	_, statusCode, err := service.Ask(context.Background(), "admin", "missing", &dtos.AskRequest{Content: "q"})
	require.Error(t, err)
	assert.Equal(t, uint(http.StatusNotFound), statusCode)
}

func TestCreateSessionEnforcesLimit(t *testing.T) {
	gateway := &stubGateway{suggestions: []queryservice.Suggestion{{Question: "q"}}}
	service, _ := newTestService(t, gateway)
	config.Env.MaxSessionsPerUser = 1

	_, statusCode, err := service.CreateSession(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusCreated), statusCode)

	_, statusCode, err = service.CreateSession(context.Background(), "admin")
	require.Error(t, err)
	assert.Equal(t, uint(http.StatusTooManyRequests), statusCode)

	// Another user is unaffected.
	_, statusCode, err = service.CreateSession(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusCreated), statusCode)
}

func TestCreateSessionFallbackSuggestions(t *testing.T) {
	gateway := &stubGateway{
		suggestionsErr: &queryservice.ConnectionError{Err: context.DeadlineExceeded},
	}
	service, _ := newTestService(t, gateway)

	resp, statusCode, err := service.CreateSession(context.Background(), "admin")
	require.NoError(t, err, "a dead suggestion endpoint must not block session creation")
	assert.Equal(t, uint(http.StatusCreated), statusCode)
	assert.Len(t, resp.Suggestions, len(constants.FallbackSuggestions))
	assert.Equal(t, constants.FallbackSuggestions[0], resp.Suggestions[0].Question)
}

func TestSessionOwnershipReadsAsNotFound(t *testing.T) {
	service, repo := newTestService(t, &stubGateway{})
	session := newTestSession(repo, "admin")

	_, statusCode, err := service.GetSession("someone-else", session.ID)
	require.Error(t, err)
	assert.Equal(t, uint(http.StatusNotFound), statusCode)
}

func TestSetVisibilityFlipsOneFlag(t *testing.T) {
	gateway := &stubGateway{
		askResult: &queryservice.AskResult{
			GeneratedQuery: "SELECT 1",
			Rows:           []map[string]any{{"a": 1}},
			RowCount:       1,
		},
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, _, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.NoError(t, err)
	messageID := resp.AssistantMessage.ID

	view, statusCode, err := service.SetVisibility("admin", session.ID, messageID, &dtos.VisibilityRequest{
		Flag:    string(constants.FlagGeneratedQuery),
		Visible: utils.ToBoolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), statusCode)

	assert.True(t, view.Visibility.GeneratedQuery)
	assert.Equal(t, "SELECT 1", view.GeneratedQuery)
	assert.True(t, view.Visibility.ResultTable, "other flags stay as they were")
}

func TestFeedbackStoredAndRelayed(t *testing.T) {
	gateway := &stubGateway{
		askResult:  &queryservice.AskResult{GeneratedQuery: "SELECT 1"},
		feedbackCh: make(chan feedbackCall, 1),
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, _, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "original question"})
	require.NoError(t, err)
	messageID := resp.AssistantMessage.ID

	view, statusCode, err := service.Feedback("admin", session.ID, messageID, &dtos.FeedbackRequest{Feedback: "negative"})
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), statusCode)
	assert.Equal(t, constants.FeedbackNegative, view.Feedback)

	select {
	case call := <-gateway.feedbackCh:
		assert.Equal(t, "original question", call.Question)
		assert.Equal(t, "SELECT 1", call.SQL)
		assert.Equal(t, "negative", call.Verdict)
		require.NotNil(t, call.Comment)
		assert.Equal(t, "User marked as incorrect", *call.Comment)
	case <-time.After(2 * time.Second):
		t.Fatal("feedback was never relayed")
	}
}

func TestFeedbackRejectedForIneligibleMessage(t *testing.T) {
	gateway := &stubGateway{
		askErr: &queryservice.ServiceError{Message: "failed"},
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, _, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.NoError(t, err)

	// The failure reply carries no generated query, so no feedback.
	_, statusCode, err := service.Feedback("admin", session.ID, resp.AssistantMessage.ID, &dtos.FeedbackRequest{Feedback: "positive"})
	require.Error(t, err)
	assert.Equal(t, uint(http.StatusBadRequest), statusCode)
}

func TestExportCSV(t *testing.T) {
	gateway := &stubGateway{
		askResult: &queryservice.AskResult{
			GeneratedQuery: "SELECT 1",
			Rows:           []map[string]any{{"name": "A,B", "value": float64(10)}},
			Columns:        []string{"name", "value"},
			RowCount:       1,
		},
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, _, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.NoError(t, err)

	result, statusCode, err := service.Export(context.Background(), "admin", session.ID, resp.AssistantMessage.ID, constants.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), statusCode)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Contains(t, result.Filename, ".csv")
	assert.Contains(t, string(result.Payload), `"A,B",10`)
}

func TestExportExcelProxied(t *testing.T) {
	gateway := &stubGateway{
		askResult: &queryservice.AskResult{
			GeneratedQuery: "SELECT 1",
			Rows:           []map[string]any{{"a": 1}},
			RowCount:       1,
		},
		excel: []byte("binary-workbook"),
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, _, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.NoError(t, err)

	result, _, err := service.Export(context.Background(), "admin", session.ID, resp.AssistantMessage.ID, constants.ExportFormatExcel)
	require.NoError(t, err)
	assert.Equal(t, []byte("binary-workbook"), result.Payload)
	assert.Contains(t, result.Filename, ".xlsx")
}

func TestExportWithoutRows(t *testing.T) {
	gateway := &stubGateway{askResult: &queryservice.AskResult{GeneratedQuery: "SELECT 1"}}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, _, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.NoError(t, err)

	_, statusCode, err := service.Export(context.Background(), "admin", session.ID, resp.AssistantMessage.ID, constants.ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, uint(http.StatusBadRequest), statusCode)
}

func TestRegenerateChartKeepsPriorChartOnFailure(t *testing.T) {
	gateway := &stubGateway{
		askResult: &queryservice.AskResult{
			GeneratedQuery: "SELECT 1",
			Rows:           []map[string]any{{"a": 1}},
			RowCount:       1,
			Chart:          json.RawMessage(`{"type": "bar"}`),
		},
		chartErr: &queryservice.ServiceError{Message: "chart generation failed"},
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, _, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.NoError(t, err)
	messageID := resp.AssistantMessage.ID

	_, statusCode, err := service.RegenerateChart(context.Background(), "admin", session.ID, messageID, constants.ChartTypePie)
	require.Error(t, err)
	assert.Equal(t, uint(http.StatusBadGateway), statusCode)
	assert.JSONEq(t, `{"type": "bar"}`, string(session.MessageByID(messageID).Chart))
}

func TestRegenerateChartReplacesSpec(t *testing.T) {
	gateway := &stubGateway{
		askResult: &queryservice.AskResult{
			GeneratedQuery: "SELECT 1",
			Rows:           []map[string]any{{"a": 1}},
			RowCount:       1,
		},
		chart: json.RawMessage(`{"type": "pie"}`),
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, _, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.NoError(t, err)
	messageID := resp.AssistantMessage.ID

	view, statusCode, err := service.RegenerateChart(context.Background(), "admin", session.ID, messageID, constants.ChartTypePie)
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), statusCode)
	assert.True(t, view.Visibility.Chart)
	assert.JSONEq(t, `{"type": "pie"}`, string(session.MessageByID(messageID).Chart))
}

func TestSelectViewHistoryRefetchesAndFilters(t *testing.T) {
	gateway := &stubGateway{
		history: []queryservice.HistoryEntry{
			{Question: "What is the total revenue?", SQL: "SELECT SUM(revenue) FROM sales"},
			{Question: "List customers", SQL: "SELECT * FROM customers"},
		},
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, _, err := service.SelectView(context.Background(), "admin", session.ID, &dtos.SelectViewRequest{View: "history", Search: "revenue"})
	require.NoError(t, err)
	assert.Equal(t, constants.ViewHistory, resp.View)
	require.Len(t, resp.History, 1)
	assert.Equal(t, "What is the total revenue?", resp.History[0].Question)
	assert.Equal(t, constants.ViewHistory, session.View())

	// Every switch hits the service again; nothing is cached.
	_, _, err = service.SelectView(context.Background(), "admin", session.ID, &dtos.SelectViewRequest{View: "history"})
	require.NoError(t, err)
	assert.Equal(t, 2, gateway.historyCalls)
}

func TestSelectViewDegradesOnRemoteFailure(t *testing.T) {
	gateway := &stubGateway{
		historyErr: &queryservice.ConnectionError{Err: context.DeadlineExceeded},
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, statusCode, err := service.SelectView(context.Background(), "admin", session.ID, &dtos.SelectViewRequest{View: "history"})
	require.NoError(t, err, "a dead listing endpoint degrades to an empty view")
	assert.Equal(t, uint(http.StatusOK), statusCode)
	assert.Empty(t, resp.History)
	assert.Equal(t, constants.ViewHistory, session.View())
}

func TestSelectViewTrainingFilter(t *testing.T) {
	gateway := &stubGateway{
		training: []queryservice.TrainingItem{
			{ID: "1", Type: "question", Content: "SELECT 1"},
			{ID: "2", Type: "ddl", Content: "CREATE TABLE t ()"},
			{ID: "3", Type: "documentation", Content: "notes"},
		},
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, _, err := service.SelectView(context.Background(), "admin", session.ID, &dtos.SelectViewRequest{View: "training", Filter: "ddl"})
	require.NoError(t, err)
	require.Len(t, resp.Training, 1)
	assert.Equal(t, "2", resp.Training[0].ID)

	resp, _, err = service.SelectView(context.Background(), "admin", session.ID, &dtos.SelectViewRequest{View: "training", Filter: "all"})
	require.NoError(t, err)
	assert.Len(t, resp.Training, 3)
}

func TestSelectViewConversationUsesLocalState(t *testing.T) {
	gateway := &stubGateway{askResult: &queryservice.AskResult{GeneratedQuery: "SELECT 1"}}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	_, _, err := service.Ask(context.Background(), "admin", session.ID, &dtos.AskRequest{Content: "q"})
	require.NoError(t, err)

	resp, _, err := service.SelectView(context.Background(), "admin", session.ID, &dtos.SelectViewRequest{View: "conversation"})
	require.NoError(t, err)
	assert.Len(t, resp.Messages, 2)
}

func TestTrainRequiresAtLeastOneField(t *testing.T) {
	gateway := &stubGateway{}
	service, _ := newTestService(t, gateway)

	statusCode, err := service.Train(context.Background(), &dtos.TrainRequest{})
	require.Error(t, err)
	assert.Equal(t, uint(http.StatusBadRequest), statusCode)
	assert.Empty(t, gateway.trained, "an empty example never reaches the service")

	statusCode, err = service.Train(context.Background(), &dtos.TrainRequest{DDL: "CREATE TABLE t ()"})
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusCreated), statusCode)
	require.Len(t, gateway.trained, 1)
	assert.Equal(t, "CREATE TABLE t ()", gateway.trained[0].DDL)
}

func TestDeleteTrainingExample(t *testing.T) {
	gateway := &stubGateway{}
	service, _ := newTestService(t, gateway)

	statusCode, err := service.DeleteTrainingExample(context.Background(), "item-1")
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), statusCode)
	assert.Equal(t, []string{"item-1"}, gateway.deletedIDs)
}

func TestSuggestionsFallbackFlag(t *testing.T) {
	gateway := &stubGateway{
		suggestionsErr: &queryservice.ConnectionError{Err: context.DeadlineExceeded},
	}
	service, repo := newTestService(t, gateway)
	session := newTestSession(repo, "admin")

	resp, statusCode, err := service.Suggestions(context.Background(), "admin", session.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), statusCode)
	assert.True(t, resp.Fallback)
	assert.Len(t, resp.Suggestions, len(constants.FallbackSuggestions))
}
