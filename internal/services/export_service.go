package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/repositories"
)

// ExportService renders the question bank and progress overview as CSV or
// Excel downloads for admins.
type ExportService interface {
	ExportQuestionsToCSV(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)
	ExportQuestionsToExcel(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)
	ExportProgressToExcel(ctx context.Context) ([]byte, error)
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

var questionExportHeaders = []string{
	"ID", "Type", "Question", "Option A", "Option B", "Option C", "Option D",
	"Answer", "Answer Description", "Keywords", "Category", "Theme", "Source",
}

func (s *exportService) ExportQuestionsToCSV(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	questions, err := s.questionsForExport(ctx, filters)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(questionExportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, question := range questions {
		if err := writer.Write(questionExportRow(question)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return []byte(buf.String()), nil
}

func (s *exportService) ExportQuestionsToExcel(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	questions, err := s.questionsForExport(ctx, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Questions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range questionExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	for rowIndex, question := range questions {
		for colIndex, value := range questionExportRow(question) {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *exportService) ExportProgressToExcel(ctx context.Context) ([]byte, error) {
	records, err := s.repo.Progress().GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress records: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Progress"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"User ID", "Literasi", "Numerik", "Sains", "Total Lessons",
		"Streak Days", "Rating", "Rating Count", "Last Activity",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, record := range records {
		lastActivity := ""
		if record.LastActivityDate != nil {
			lastActivity = record.LastActivityDate.Format("2006-01-02")
		}
		row := []interface{}{
			record.UserID, record.Literasi, record.Numerik, record.Sains,
			record.TotalLessons, record.StreakDays, record.Rating,
			record.RatingCount, lastActivity,
		}
		for colIndex, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	if err := s.writeActivitySheet(ctx, f); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

// writeActivitySheet appends the recent answer log so an admin can audit how
// the progress numbers came about.
func (s *exportService) writeActivitySheet(ctx context.Context, f *excelize.File) error {
	logs, err := s.repo.Activity().GetAll(ctx, nil, 1000)
	if err != nil {
		return fmt.Errorf("failed to load activity log: %w", err)
	}

	sheetName := "Activity"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headers := []string{"User ID", "Question ID", "Theme", "Correct", "Score", "Answered At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, entry := range logs {
		row := []interface{}{
			entry.UserID, entry.QuestionID, entry.Theme,
			entry.IsCorrect, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIndex, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	return nil
}

func (s *exportService) questionsForExport(ctx context.Context, filters repositories.QuestionFilters) ([]*models.TryoutQuestion, error) {
	if filters.Limit <= 0 {
		filters.Limit = 1000
	}
	questions, _, err := s.repo.Question().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for export: %w", err)
	}
	return questions, nil
}

func questionExportRow(q *models.TryoutQuestion) []string {
	options := q.OptionList()
	optionCells := make([]string, 4)
	for i := 0; i < 4 && i < len(options); i++ {
		optionCells[i] = options[i]
	}

	answer := ""
	if q.Answer != nil {
		answer = *q.Answer
	}
	description := ""
	if q.AnswerDescription != nil {
		description = *q.AnswerDescription
	}
	theme := ""
	if q.Theme != nil {
		theme = *q.Theme
	}

	return []string{
		q.ID, string(q.Type), q.Question,
		optionCells[0], optionCells[1], optionCells[2], optionCells[3],
		answer, description, strings.Join(q.KeywordList(), "; "),
		q.Category, theme, string(q.Source),
	}
}
