package handlers

import (
	"fmt"
	"io"
	"net/http"

	"querydesk/internal/apis/dtos"
	"querydesk/internal/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	assistantService services.AssistantService
}

func NewSessionHandler(assistantService services.AssistantService) *SessionHandler {
	return &SessionHandler{
		assistantService: assistantService,
	}
}

// @Summary Create a new session
// @Description Create a new conversation session with starter suggestions
// @Accept json
// @Produce json
// @Success 201 {object} dtos.Response
func (h *SessionHandler) Create(c *gin.Context) {
	userID := c.GetString("userID")

	response, statusCode, err := h.assistantService.CreateSession(c.Request.Context(), userID)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Get session by ID
// @Description Get the rendered transcript and active view of a session
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dtos.Response
func (h *SessionHandler) GetByID(c *gin.Context) {
	userID := c.GetString("userID")
	sessionID := c.Param("id")

	response, statusCode, err := h.assistantService.GetSession(userID, sessionID)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Delete a session
// @Description Delete a session and its transcript
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dtos.Response
func (h *SessionHandler) Delete(c *gin.Context) {
	userID := c.GetString("userID")
	sessionID := c.Param("id")

	statusCode, err := h.assistantService.DeleteSession(userID, sessionID)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    "Session deleted",
	})
}

// @Summary Ask a question
// @Description Submit a natural-language question and get both rendered turns back
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param askRequest body dtos.AskRequest true "Ask request"
// @Success 200 {object} dtos.Response
func (h *SessionHandler) Ask(c *gin.Context) {
	var req dtos.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	userID := c.GetString("userID")
	sessionID := c.Param("id")

	response, statusCode, err := h.assistantService.Ask(c.Request.Context(), userID, sessionID, &req)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Record feedback
// @Description Record a thumbs up/down on a generated query
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param messageId path string true "Message ID"
// @Param feedbackRequest body dtos.FeedbackRequest true "Feedback request"
// @Success 200 {object} dtos.Response
func (h *SessionHandler) Feedback(c *gin.Context) {
	var req dtos.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	userID := c.GetString("userID")
	sessionID := c.Param("id")
	messageID := c.Param("messageId")

	response, statusCode, err := h.assistantService.Feedback(userID, sessionID, messageID, &req)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Toggle message section visibility
// @Description Show or hide one section of a message
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param messageId path string true "Message ID"
// @Param visibilityRequest body dtos.VisibilityRequest true "Visibility request"
// @Success 200 {object} dtos.Response
func (h *SessionHandler) SetVisibility(c *gin.Context) {
	var req dtos.VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	userID := c.GetString("userID")
	sessionID := c.Param("id")
	messageID := c.Param("messageId")

	response, statusCode, err := h.assistantService.SetVisibility(userID, sessionID, messageID, &req)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Export result rows
// @Description Download the result rows of a message as csv, json or excel
// @Accept json
// @Produce octet-stream
// @Param id path string true "Session ID"
// @Param messageId path string true "Message ID"
// @Param exportRequest body dtos.ExportRequest true "Export request"
// @Success 200 {file} binary
func (h *SessionHandler) Export(c *gin.Context) {
	var req dtos.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	userID := c.GetString("userID")
	sessionID := c.Param("id")
	messageID := c.Param("messageId")

	result, statusCode, err := h.assistantService.Export(c.Request.Context(), userID, sessionID, messageID, req.Format)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

// @Summary Regenerate chart
// @Description Request a fresh chart for a message's result rows
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param messageId path string true "Message ID"
// @Param regenerateChartRequest body dtos.RegenerateChartRequest true "Regenerate chart request"
// @Success 200 {object} dtos.Response
func (h *SessionHandler) RegenerateChart(c *gin.Context) {
	var req dtos.RegenerateChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	userID := c.GetString("userID")
	sessionID := c.Param("id")
	messageID := c.Param("messageId")

	response, statusCode, err := h.assistantService.RegenerateChart(c.Request.Context(), userID, sessionID, messageID, req.ChartType)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Select view
// @Description Switch the session's active view and fetch its data
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param selectViewRequest body dtos.SelectViewRequest true "Select view request"
// @Success 200 {object} dtos.Response
func (h *SessionHandler) SelectView(c *gin.Context) {
	var req dtos.SelectViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	userID := c.GetString("userID")
	sessionID := c.Param("id")

	response, statusCode, err := h.assistantService.SelectView(c.Request.Context(), userID, sessionID, &req)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Get starter suggestions
// @Description Fetch starter questions, falling back to a fixed list on failure
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dtos.Response
func (h *SessionHandler) Suggestions(c *gin.Context) {
	userID := c.GetString("userID")
	sessionID := c.Param("id")

	response, statusCode, err := h.assistantService.Suggestions(c.Request.Context(), userID, sessionID)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Add a training example
// @Description Submit one training example to the query service
// @Accept json
// @Produce json
// @Param trainRequest body dtos.TrainRequest true "Train request"
// @Success 201 {object} dtos.Response
func (h *SessionHandler) Train(c *gin.Context) {
	var req dtos.TrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	statusCode, err := h.assistantService.Train(c.Request.Context(), &req)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    "Training example added",
	})
}

// @Summary Bulk import training data
// @Description Upload a training file and relay it to the query service
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Training file"
// @Success 200 {object} dtos.Response
func (h *SessionHandler) BulkTrain(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		errorMsg := "file is required"
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	response, statusCode, err := h.assistantService.BulkTrain(c.Request.Context(), fileHeader.Filename, contents)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Delete a training example
// @Description Remove one stored training record by ID
// @Accept json
// @Produce json
// @Param itemId path string true "Training item ID"
// @Success 200 {object} dtos.Response
func (h *SessionHandler) DeleteTraining(c *gin.Context) {
	itemID := c.Param("itemId")

	statusCode, err := h.assistantService.DeleteTrainingExample(c.Request.Context(), itemID)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    "Training example deleted",
	})
}
