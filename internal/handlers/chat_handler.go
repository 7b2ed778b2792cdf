package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ramandaygy/tutor-app/internal/services"
	"github.com/Ramandaygy/tutor-app/internal/utils"
)

type ChatHandler struct {
	BaseHandler
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService, logger utils.Logger) *ChatHandler {
	return &ChatHandler{
		BaseHandler: NewBaseHandler(logger),
		chatService: chatService,
	}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type feedbackRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Message string `json:"message"`
	Theme   string `json:"theme"`
}

// Chat answers a free-form tutoring message
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	reply, err := h.chatService.Chat(c.Request.Context(), userID, req.Message)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// NextQuestion hands the user a practice question for a theme
func (h *ChatHandler) NextQuestion(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	theme := c.Query("theme")
	question, err := h.chatService.NextQuestion(c.Request.Context(), userID, theme)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// GenerateQuestion asks the model for a fresh question
func (h *ChatHandler) GenerateQuestion(c *gin.Context) {
	var req services.GenerateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Generating question", "theme", req.Theme)

	question, err := h.chatService.GenerateQuestion(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// SubmitAnswer grades one answer and refreshes the caller's progress
func (h *ChatHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.UserID = userID

	result, err := h.chatService.SubmitAnswer(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitFeedback records a chatbot rating
func (h *ChatHandler) SubmitFeedback(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	progress, err := h.chatService.SubmitFeedback(c.Request.Context(), userID, req.Rating, req.Message, req.Theme)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// History returns the caller's recent answer log
func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	entries, err := h.chatService.History(c.Request.Context(), userID, c.Query("theme"), ParseQueryInt(c, "limit", 10))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}
