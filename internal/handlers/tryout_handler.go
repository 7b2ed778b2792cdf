package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/repositories"
	"github.com/Ramandaygy/tutor-app/internal/services"
	"github.com/Ramandaygy/tutor-app/internal/utils"
)

type TryoutHandler struct {
	BaseHandler
	tryoutService services.TryoutService
	uploadDir     string
}

func NewTryoutHandler(tryoutService services.TryoutService, uploadDir string, logger utils.Logger) *TryoutHandler {
	return &TryoutHandler{
		BaseHandler:   NewBaseHandler(logger),
		tryoutService: tryoutService,
		uploadDir:     uploadDir,
	}
}

// CreateQuestion creates a new question in the bank
func (h *TryoutHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.tryoutService.CreateQuestion(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// GetQuestion retrieves a question by ID
func (h *TryoutHandler) GetQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	question, err := h.tryoutService.GetQuestion(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// ListQuestions lists questions with optional filters
func (h *TryoutHandler) ListQuestions(c *gin.Context) {
	filters := repositories.QuestionFilters{
		Limit:     ParseQueryInt(c, "limit", 20),
		Offset:    ParseQueryInt(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if v := c.Query("type"); v != "" {
		t := models.QuestionType(v)
		filters.Type = &t
	}
	if v := c.Query("category"); v != "" {
		filters.Category = &v
	}
	if v := c.Query("theme"); v != "" {
		filters.Theme = &v
	}
	if v := c.Query("source"); v != "" {
		s := models.QuestionSource(v)
		filters.Source = &s
	}

	result, err := h.tryoutService.ListQuestions(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateQuestion updates a question
func (h *TryoutHandler) UpdateQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.tryoutService.UpdateQuestion(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion removes a question from the bank
func (h *TryoutHandler) DeleteQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.tryoutService.DeleteQuestion(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Question deleted"})
}

// UploadDocument stores an uploaded tryout PDF on disk and registers it
func (h *TryoutHandler) UploadDocument(c *gin.Context) {
	h.LogRequest(c, "Uploading tryout document")

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file",
			Details: err.Error(),
		})
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Only PDF files are accepted",
		})
		return
	}

	dest := filepath.Join(h.uploadDir, uuid.NewString()+".pdf")
	if err := c.SaveUploadedFile(file, dest); err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to store file", err)
		return
	}

	doc, err := h.tryoutService.UploadDocument(c.Request.Context(), &services.UploadDocumentRequest{
		Filename: file.Filename,
		FileURL:  dest,
		Category: c.PostForm("category"),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// GetDocument retrieves a document by ID
func (h *TryoutHandler) GetDocument(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	doc, err := h.tryoutService.GetDocument(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// ListDocuments lists uploaded documents
func (h *TryoutHandler) ListDocuments(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 20)
	offset := ParseQueryInt(c, "offset", 0)

	docs, total, err := h.tryoutService.ListDocuments(c.Request.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// ProcessDocument parses the document into stored questions
func (h *TryoutHandler) ProcessDocument(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Processing tryout document", "document_id", id)

	result, err := h.tryoutService.ProcessDocument(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
