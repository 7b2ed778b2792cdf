package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/repositories"
	"github.com/Ramandaygy/tutor-app/internal/services"
	"github.com/Ramandaygy/tutor-app/internal/utils"
)

type ExportHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

func exportFilters(c *gin.Context) repositories.QuestionFilters {
	var filters repositories.QuestionFilters
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
	return filters
}

// ExportQuestionsCSV downloads the question bank as CSV
func (h *ExportHandler) ExportQuestionsCSV(c *gin.Context) {
	h.LogRequest(c, "Exporting questions to CSV")

	data, err := h.exportService.ExportQuestionsToCSV(c.Request.Context(), exportFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="questions.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportQuestionsExcel downloads the question bank as an Excel workbook
func (h *ExportHandler) ExportQuestionsExcel(c *gin.Context) {
	h.LogRequest(c, "Exporting questions to Excel")

	data, err := h.exportService.ExportQuestionsToExcel(c.Request.Context(), exportFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="questions.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
