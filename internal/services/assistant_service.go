package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"querydesk/config"
	"querydesk/internal/apis/dtos"
	"querydesk/internal/constants"
	"querydesk/internal/models"
	"querydesk/internal/renderer"
	"querydesk/internal/repositories"
	"querydesk/pkg/queryservice"
)

// QueryGateway is the slice of the query service client the assistant needs.
// *queryservice.Client satisfies it; tests substitute a stub.
type QueryGateway interface {
	Ask(ctx context.Context, question string, opts queryservice.AskOptions) (*queryservice.AskResult, error)
	Suggestions(ctx context.Context, count int) ([]queryservice.Suggestion, error)
	History(ctx context.Context) ([]queryservice.HistoryEntry, error)
	TrainingData(ctx context.Context) ([]queryservice.TrainingItem, error)
	DeleteTrainingData(ctx context.Context, id string) error
	Train(ctx context.Context, example queryservice.TrainingExample) error
	BulkTrain(ctx context.Context, filename string, contents []byte) (int, error)
	Feedback(ctx context.Context, question, sql, verdict string, comment *string) error
	GenerateChart(ctx context.Context, rows []map[string]any, question, chartType string) (json.RawMessage, error)
	ExportExcel(ctx context.Context, rows []map[string]any) ([]byte, error)
	DatabaseSchema(ctx context.Context) ([]queryservice.SchemaTable, error)
}

type AssistantService interface {
	CreateSession(ctx context.Context, userID string) (*dtos.SessionResponse, uint, error)
	GetSession(userID string, sessionID string) (*dtos.SessionResponse, uint, error)
	DeleteSession(userID string, sessionID string) (uint, error)
	Ask(ctx context.Context, userID string, sessionID string, req *dtos.AskRequest) (*dtos.AskResponse, uint, error)
	Feedback(userID string, sessionID string, messageID string, req *dtos.FeedbackRequest) (*renderer.MessageView, uint, error)
	SetVisibility(userID string, sessionID string, messageID string, req *dtos.VisibilityRequest) (*renderer.MessageView, uint, error)
	Export(ctx context.Context, userID string, sessionID string, messageID string, format string) (*dtos.ExportResult, uint, error)
	RegenerateChart(ctx context.Context, userID string, sessionID string, messageID string, chartType string) (*renderer.MessageView, uint, error)
	SelectView(ctx context.Context, userID string, sessionID string, req *dtos.SelectViewRequest) (*dtos.ViewDataResponse, uint, error)
	Suggestions(ctx context.Context, userID string, sessionID string) (*dtos.SuggestionsResponse, uint, error)
	Train(ctx context.Context, req *dtos.TrainRequest) (uint, error)
	BulkTrain(ctx context.Context, filename string, contents []byte) (*dtos.BulkTrainResponse, uint, error)
	DeleteTrainingExample(ctx context.Context, id string) (uint, error)
}

type assistantService struct {
	sessionRepo repositories.SessionRepository
	gateway     QueryGateway
}

func NewAssistantService(sessionRepo repositories.SessionRepository, gateway QueryGateway) AssistantService {
	return &assistantService{
		sessionRepo: sessionRepo,
		gateway:     gateway,
	}
}

// session resolves a session id for a user. A session owned by someone else
// reads as not found rather than forbidden. Successful lookups refresh the
// idle expiry.
func (s *assistantService) session(userID string, sessionID string) (*models.Session, uint, error) {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok || session.UserID != userID {
		return nil, http.StatusNotFound, errors.New("session not found")
	}
	s.sessionRepo.Touch(sessionID)
	return session, http.StatusOK, nil
}

func (s *assistantService) CreateSession(ctx context.Context, userID string) (*dtos.SessionResponse, uint, error) {
	if s.sessionRepo.CountByUser(userID) >= config.Env.MaxSessionsPerUser {
		return nil, http.StatusTooManyRequests, errors.New("session limit reached")
	}

	session := models.NewSession(userID)
	s.sessionRepo.Put(session)
	log.Printf("Session %s created for user %s", session.ID, userID)

	// Starter questions are best-effort; a fresh session is usable without
	// them.
	var suggestions []queryservice.Suggestion
	if fetched, err := s.gateway.Suggestions(ctx, config.Env.SuggestionCount); err != nil {
		log.Printf("Failed to fetch suggestions: %v", err)
		suggestions = fallbackSuggestions()
	} else {
		suggestions = fetched
	}

	return &dtos.SessionResponse{
		ID:          session.ID,
		View:        session.View(),
		CreatedAt:   session.CreatedAt.Format(time.RFC3339),
		Messages:    []renderer.MessageView{},
		Suggestions: suggestions,
	}, http.StatusCreated, nil
}

func (s *assistantService) GetSession(userID string, sessionID string) (*dtos.SessionResponse, uint, error) {
	session, statusCode, err := s.session(userID, sessionID)
	if err != nil {
		return nil, statusCode, err
	}

	return &dtos.SessionResponse{
		ID:        session.ID,
		View:      session.View(),
		CreatedAt: session.CreatedAt.Format(time.RFC3339),
		Messages:  renderer.Transcript(session),
	}, http.StatusOK, nil
}

func (s *assistantService) DeleteSession(userID string, sessionID string) (uint, error) {
	_, statusCode, err := s.session(userID, sessionID)
	if err != nil {
		return statusCode, err
	}
	s.sessionRepo.Delete(sessionID)
	return http.StatusOK, nil
}

func (s *assistantService) Ask(ctx context.Context, userID string, sessionID string, req *dtos.AskRequest) (*dtos.AskResponse, uint, error) {
	session, statusCode, err := s.session(userID, sessionID)
	if err != nil {
		return nil, statusCode, err
	}

	if !session.BeginAsk() {
		return nil, http.StatusConflict, errors.New("a question is already being processed for this session")
	}
	defer session.EndAsk()

	userMsg := models.NewUserMessage(req.Content)
	if err := session.AppendMessage(userMsg); err != nil {
		return nil, http.StatusInternalServerError, err
	}

	opts := queryservice.AskOptions{
		AutoTrain:         config.Env.AutoTrainOnSuccess,
		GenerateFollowUps: config.Env.GenerateFollowUps,
		GenerateChart:     config.Env.GenerateCharts,
		AllowAutoFix:      config.Env.AllowAutoFix,
		ChartType:         config.Env.DefaultChartType,
	}
	if req.ChartType != "" {
		opts.ChartType = req.ChartType
	}

	result, askErr := s.gateway.Ask(ctx, req.Content, opts)

	var assistantMsg *models.Message
	switch {
	case askErr == nil:
		assistantMsg = buildAnswerMessage(result, userMsg.ID)
	case queryservice.IsConnectionError(askErr):
		assistantMsg = buildConnectionFailureMessage(askErr, userMsg.ID)
	default:
		assistantMsg = models.NewAssistantMessage(constants.ServiceFailureMessage, &userMsg.ID)
		assistantMsg.ErrorDetail = askErr.Error()
	}

	if err := session.AppendMessage(assistantMsg); err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return &dtos.AskResponse{
		UserMessage:      renderer.Project(session.MessageByID(userMsg.ID), session.Visibility(userMsg.ID)),
		AssistantMessage: renderer.Project(session.MessageByID(assistantMsg.ID), session.Visibility(assistantMsg.ID)),
	}, http.StatusOK, nil
}

// buildAnswerMessage folds a successful ask result into a transcript message.
func buildAnswerMessage(result *queryservice.AskResult, userMessageID string) *models.Message {
	content := result.Summary
	if content == "" {
		if result.RowCount > 0 {
			content = fmt.Sprintf("Found %d results", result.RowCount)
		} else {
			content = "No results found"
		}
	}

	msg := models.NewAssistantMessage(content, &userMessageID)
	msg.GeneratedQuery = result.GeneratedQuery
	msg.Rows = result.Rows
	msg.Columns = result.Columns
	msg.Chart = result.Chart
	msg.Summary = result.Summary
	msg.Explanation = result.Explanation
	msg.Confidence = result.Confidence
	msg.FollowUps = result.FollowUpQuestions
	msg.ExecutionTime = result.ExecutionTime
	msg.AutoFixed = result.AutoFixed
	for _, similar := range result.SimilarQuestions {
		msg.Similar = append(msg.Similar, models.SimilarQuestion{
			Question: similar.Question,
			SQL:      similar.SQL,
		})
	}
	return msg
}

// buildConnectionFailureMessage reports an unreachable query service. When the
// demo fallback is enabled the message additionally carries fabricated example
// data so the conversation stays demonstrable.
func buildConnectionFailureMessage(askErr error, userMessageID string) *models.Message {
	content := constants.ConnectionFailureMessage
	if config.Env.DemoFallbackEnabled {
		content = content + "\n\n" + constants.DemoFallbackNotice
	}

	msg := models.NewAssistantMessage(content, &userMessageID)
	msg.ErrorDetail = askErr.Error()

	if config.Env.DemoFallbackEnabled {
		confidence := constants.DemoConfidence
		msg.GeneratedQuery = constants.DemoGeneratedQuery
		msg.Rows = constants.DemoResultRows
		msg.Columns = constants.DemoResultColumns
		msg.FollowUps = constants.DemoFollowUpQuestions
		msg.Confidence = &confidence
	}
	return msg
}

func (s *assistantService) Feedback(userID string, sessionID string, messageID string, req *dtos.FeedbackRequest) (*renderer.MessageView, uint, error) {
	session, statusCode, err := s.session(userID, sessionID)
	if err != nil {
		return nil, statusCode, err
	}

	msg := session.MessageByID(messageID)
	if msg == nil {
		return nil, http.StatusNotFound, errors.New("message not found")
	}
	if !msg.AcceptsFeedback() {
		return nil, http.StatusBadRequest, errors.New("message does not accept feedback")
	}

	verdict := constants.FeedbackType(req.Feedback)
	session.SetFeedback(messageID, verdict)

	// Relay to the query service so it can learn from the verdict. Failure
	// never undoes the locally stored feedback.
	question := ""
	if msg.UserMessageID != nil {
		if userMsg := session.MessageByID(*msg.UserMessageID); userMsg != nil {
			question = userMsg.Content
		}
	}
	comment := feedbackComment(verdict, req.Comment)
	go func(question, sql, verdict string, comment *string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.Env.QueryServiceTimeoutMs)*time.Millisecond)
		defer cancel()
		if err := s.gateway.Feedback(ctx, question, sql, verdict, comment); err != nil {
			log.Printf("Failed to relay feedback for message %s: %v", messageID, err)
		}
	}(question, msg.GeneratedQuery, req.Feedback, comment)

	// Re-read so the view reflects the stored verdict; msg is a pre-write
	// snapshot.
	view := renderer.Project(session.MessageByID(messageID), session.Visibility(messageID))
	return &view, http.StatusOK, nil
}

func feedbackComment(verdict constants.FeedbackType, comment string) *string {
	if comment != "" {
		return &comment
	}
	if verdict == constants.FeedbackNegative {
		fallback := "User marked as incorrect"
		return &fallback
	}
	return nil
}

func (s *assistantService) SetVisibility(userID string, sessionID string, messageID string, req *dtos.VisibilityRequest) (*renderer.MessageView, uint, error) {
	session, statusCode, err := s.session(userID, sessionID)
	if err != nil {
		return nil, statusCode, err
	}

	msg := session.MessageByID(messageID)
	if msg == nil {
		return nil, http.StatusNotFound, errors.New("message not found")
	}

	session.SetVisibility(messageID, constants.VisibilityFlag(req.Flag), *req.Visible)

	view := renderer.Project(msg, session.Visibility(messageID))
	return &view, http.StatusOK, nil
}

func (s *assistantService) Export(ctx context.Context, userID string, sessionID string, messageID string, format string) (*dtos.ExportResult, uint, error) {
	session, statusCode, err := s.session(userID, sessionID)
	if err != nil {
		return nil, statusCode, err
	}

	msg := session.MessageByID(messageID)
	if msg == nil {
		return nil, http.StatusNotFound, errors.New("message not found")
	}
	if len(msg.Rows) == 0 {
		return nil, http.StatusBadRequest, errors.New("message has no result rows to export")
	}

	result := &dtos.ExportResult{Filename: queryservice.ExportFilename(format)}

	switch format {
	case constants.ExportFormatCSV:
		payload, err := queryservice.EncodeCSV(msg.Rows, exportColumns(msg))
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		result.Payload = payload
		result.ContentType = "text/csv"
	case constants.ExportFormatJSON:
		payload, err := queryservice.EncodeJSON(msg.Rows)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		result.Payload = payload
		result.ContentType = "application/json"
	case constants.ExportFormatExcel:
		payload, err := s.gateway.ExportExcel(ctx, msg.Rows)
		if err != nil {
			return nil, http.StatusBadGateway, err
		}
		result.Payload = payload
		result.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return nil, http.StatusBadRequest, fmt.Errorf("unsupported export format: %s", format)
	}

	return result, http.StatusOK, nil
}

// exportColumns preserves the message column order, falling back to sorted
// first-row keys so every export has a stable header.
func exportColumns(msg *models.Message) []string {
	if len(msg.Columns) > 0 {
		return msg.Columns
	}
	if len(msg.Rows) == 0 {
		return nil
	}
	columns := make([]string, 0, len(msg.Rows[0]))
	for name := range msg.Rows[0] {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns
}

func (s *assistantService) RegenerateChart(ctx context.Context, userID string, sessionID string, messageID string, chartType string) (*renderer.MessageView, uint, error) {
	session, statusCode, err := s.session(userID, sessionID)
	if err != nil {
		return nil, statusCode, err
	}

	msg := session.MessageByID(messageID)
	if msg == nil {
		return nil, http.StatusNotFound, errors.New("message not found")
	}
	if len(msg.Rows) == 0 {
		return nil, http.StatusBadRequest, errors.New("message has no result rows to chart")
	}

	question := ""
	if msg.UserMessageID != nil {
		if userMsg := session.MessageByID(*msg.UserMessageID); userMsg != nil {
			question = userMsg.Content
		}
	}

	chart, err := s.gateway.GenerateChart(ctx, msg.Rows, question, chartType)
	if err != nil {
		// The previous chart stays untouched on failure.
		return nil, http.StatusBadGateway, err
	}

	session.SetChart(messageID, chart)
	session.SetVisibility(messageID, constants.FlagChart, true)

	view := renderer.Project(session.MessageByID(messageID), session.Visibility(messageID))
	return &view, http.StatusOK, nil
}

// SelectView switches the active view and fetches its data. Remote views are
// re-fetched on every switch; a fetch failure degrades to an empty listing
// instead of failing the switch.
func (s *assistantService) SelectView(ctx context.Context, userID string, sessionID string, req *dtos.SelectViewRequest) (*dtos.ViewDataResponse, uint, error) {
	session, statusCode, err := s.session(userID, sessionID)
	if err != nil {
		return nil, statusCode, err
	}

	view := constants.ViewMode(req.View)
	session.SetView(view)

	resp := &dtos.ViewDataResponse{View: view}
	switch view {
	case constants.ViewConversation:
		resp.Messages = renderer.Transcript(session)
	case constants.ViewHistory:
		entries, err := s.gateway.History(ctx)
		if err != nil {
			log.Printf("Failed to fetch history: %v", err)
			entries = nil
		}
		resp.History = filterHistory(entries, req.Search)
	case constants.ViewTraining:
		items, err := s.gateway.TrainingData(ctx)
		if err != nil {
			log.Printf("Failed to fetch training data: %v", err)
			items = nil
		}
		resp.Training = filterTraining(items, req.Filter)
	case constants.ViewSchema:
		tables, err := s.gateway.DatabaseSchema(ctx)
		if err != nil {
			log.Printf("Failed to fetch database schema: %v", err)
			tables = nil
		}
		resp.Schema = tables
	}

	return resp, http.StatusOK, nil
}

// filterHistory keeps entries whose question or SQL contains the search term,
// case-insensitively. An empty term keeps everything.
func filterHistory(entries []queryservice.HistoryEntry, search string) []queryservice.HistoryEntry {
	if search == "" {
		return entries
	}
	term := strings.ToLower(search)
	filtered := make([]queryservice.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Question), term) ||
			strings.Contains(strings.ToLower(entry.SQL), term) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// filterTraining keeps items of the requested record type.
func filterTraining(items []queryservice.TrainingItem, filter string) []queryservice.TrainingItem {
	if filter == "" || filter == "all" {
		return items
	}
	filtered := make([]queryservice.TrainingItem, 0, len(items))
	for _, item := range items {
		if item.Type == filter {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (s *assistantService) Suggestions(ctx context.Context, userID string, sessionID string) (*dtos.SuggestionsResponse, uint, error) {
	if _, statusCode, err := s.session(userID, sessionID); err != nil {
		return nil, statusCode, err
	}

	suggestions, err := s.gateway.Suggestions(ctx, config.Env.SuggestionCount)
	if err != nil {
		log.Printf("Failed to fetch suggestions: %v", err)
		return &dtos.SuggestionsResponse{
			Suggestions: fallbackSuggestions(),
			Fallback:    true,
		}, http.StatusOK, nil
	}

	return &dtos.SuggestionsResponse{Suggestions: suggestions}, http.StatusOK, nil
}

func fallbackSuggestions() []queryservice.Suggestion {
	suggestions := make([]queryservice.Suggestion, 0, len(constants.FallbackSuggestions))
	for _, question := range constants.FallbackSuggestions {
		suggestions = append(suggestions, queryservice.Suggestion{Question: question})
	}
	return suggestions
}

func (s *assistantService) Train(ctx context.Context, req *dtos.TrainRequest) (uint, error) {
	example := queryservice.TrainingExample{
		Question:      req.Question,
		SQL:           req.SQL,
		DDL:           req.DDL,
		Documentation: req.Documentation,
	}
	if example.IsEmpty() {
		return http.StatusBadRequest, errors.New("at least one training field is required")
	}

	if err := s.gateway.Train(ctx, example); err != nil {
		return http.StatusBadGateway, err
	}
	return http.StatusCreated, nil
}

func (s *assistantService) BulkTrain(ctx context.Context, filename string, contents []byte) (*dtos.BulkTrainResponse, uint, error) {
	count, err := s.gateway.BulkTrain(ctx, filename, contents)
	if err != nil {
		return nil, http.StatusBadGateway, err
	}
	return &dtos.BulkTrainResponse{Count: count}, http.StatusOK, nil
}

func (s *assistantService) DeleteTrainingExample(ctx context.Context, id string) (uint, error) {
	if err := s.gateway.DeleteTrainingData(ctx, id); err != nil {
		return http.StatusBadGateway, err
	}
	return http.StatusOK, nil
}

var _ QueryGateway = (*queryservice.Client)(nil)
