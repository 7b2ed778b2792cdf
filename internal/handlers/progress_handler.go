package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ramandaygy/tutor-app/internal/services"
	"github.com/Ramandaygy/tutor-app/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
	exportService   services.ExportService
}

func NewProgressHandler(progressService services.ProgressService, exportService services.ExportService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
		exportService:   exportService,
	}
}

// GetProgress returns the caller's progress record
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	progress, err := h.progressService.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetUserProgress returns a specific user's progress record
func (h *ProgressHandler) GetUserProgress(c *gin.Context) {
	userID := ParseStringIDParam(c, "user_id")
	if userID == "" {
		return
	}

	progress, err := h.progressService.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// Recalculate rebuilds a user's theme scores from the activity log
func (h *ProgressHandler) Recalculate(c *gin.Context) {
	userID := ParseStringIDParam(c, "user_id")
	if userID == "" {
		return
	}

	h.LogRequest(c, "Recalculating progress", "target_user_id", userID)

	progress, err := h.progressService.Recalculate(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// ListProgress returns every user's progress record
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	records, err := h.progressService.GetAll(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"progress": records,
		"total":    len(records),
	})
}

// UpdateProgress applies an admin edit to allow-listed fields
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	userID := ParseStringIDParam(c, "user_id")
	if userID == "" {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Admin progress update", "target_user_id", userID)

	progress, err := h.progressService.AdminUpdate(c.Request.Context(), userID, fields)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetStats returns platform-wide progress averages
func (h *ProgressHandler) GetStats(c *gin.Context) {
	stats, err := h.progressService.Stats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportProgress downloads the progress overview as an Excel workbook
func (h *ProgressHandler) ExportProgress(c *gin.Context) {
	data, err := h.exportService.ExportProgressToExcel(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="progress.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
