package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Ramandaygy/tutor-app/internal/events"
	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/parser"
	"github.com/Ramandaygy/tutor-app/internal/repositories"
	"github.com/Ramandaygy/tutor-app/internal/validator"
)

// TryoutService manages the practice-exam question bank: manual question
// entry, uploaded PDF documents, and the parse pipeline turning a document
// into stored questions.
type TryoutService interface {
	CreateQuestion(ctx context.Context, req *CreateQuestionRequest) (*models.TryoutQuestion, error)
	GetQuestion(ctx context.Context, id string) (*models.TryoutQuestion, error)
	ListQuestions(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error)
	UpdateQuestion(ctx context.Context, id string, req *UpdateQuestionRequest) (*models.TryoutQuestion, error)
	DeleteQuestion(ctx context.Context, id string) error

	UploadDocument(ctx context.Context, req *UploadDocumentRequest) (*models.TryoutDocument, error)
	GetDocument(ctx context.Context, id string) (*models.TryoutDocument, error)
	ListDocuments(ctx context.Context, limit, offset int) ([]*models.TryoutDocument, int64, error)

	// ProcessDocument extracts and parses the document's questions and stores
	// them in document order. Processing is idempotent: a document already
	// processed is skipped and the prior question count is returned.
	ProcessDocument(ctx context.Context, id string) (*ProcessResult, error)
}

// ===== REQUEST / RESPONSE TYPES =====

type CreateQuestionRequest struct {
	Type              models.QuestionType `json:"type" validate:"required,question_type"`
	Question          string              `json:"question" validate:"required"`
	Options           []string            `json:"options" validate:"omitempty,len=4,dive,required"`
	Answer            *string             `json:"answer"`
	AnswerDescription *string             `json:"answer_description"`
	Keywords          []string            `json:"keywords"`
	Category          string              `json:"category"`
	Grade             *string             `json:"grade"`
	ImageURL          *string             `json:"image_url" validate:"omitempty,url"`
}

type UpdateQuestionRequest struct {
	Question          *string  `json:"question"`
	Options           []string `json:"options" validate:"omitempty,len=4,dive,required"`
	Answer            *string  `json:"answer"`
	AnswerDescription *string  `json:"answer_description"`
	Keywords          []string `json:"keywords"`
	Category          *string  `json:"category"`
	Grade             *string  `json:"grade"`
	ImageURL          *string  `json:"image_url" validate:"omitempty,url"`
}

type UploadDocumentRequest struct {
	Filename string `json:"filename" validate:"required"`
	FileURL  string `json:"file_url" validate:"required"`
	Category string `json:"category"`
}

type QuestionListResponse struct {
	Questions []*models.TryoutQuestion `json:"questions"`
	Total     int64                    `json:"total"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
}

type ProcessResult struct {
	DocumentID       string `json:"document_id"`
	TotalQuestions   int    `json:"total_questions"`
	AlreadyProcessed bool   `json:"already_processed"`
}

type tryoutService struct {
	repo      repositories.Repository
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger

	// injectable so tests can feed raw text without a PDF fixture
	extract func(path string) (string, error)
}

func NewTryoutService(repo repositories.Repository, v *validator.Validator, publisher events.EventPublisher, logger *slog.Logger) TryoutService {
	return &tryoutService{
		repo:      repo,
		validator: v,
		publisher: publisher,
		logger:    logger,
		extract:   parser.ExtractFile,
	}
}

// ===== QUESTION BANK =====

func (s *tryoutService) CreateQuestion(ctx context.Context, req *CreateQuestionRequest) (*models.TryoutQuestion, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question := &models.TryoutQuestion{
		ID:                uuid.NewString(),
		Type:              req.Type,
		Question:          req.Question,
		Answer:            req.Answer,
		AnswerDescription: req.AnswerDescription,
		Category:          req.Category,
		Grade:             req.Grade,
		ImageURL:          req.ImageURL,
		Source:            models.SourceManual,
	}
	if question.Category == "" {
		question.Category = "Umum"
	}
	if len(req.Options) > 0 {
		options, err := marshalJSONColumn(req.Options)
		if err != nil {
			return nil, err
		}
		question.Options = options
	}
	if len(req.Keywords) > 0 {
		keywords, err := marshalJSONColumn(req.Keywords)
		if err != nil {
			return nil, err
		}
		question.Keywords = keywords
	}

	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuestionInvalid, err)
	}

	if err := s.repo.Question().Create(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created", "question_id", question.ID, "type", question.Type, "source", question.Source)
	return question, nil
}

func (s *tryoutService) GetQuestion(ctx context.Context, id string) (*models.TryoutQuestion, error) {
	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *tryoutService) ListQuestions(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	questions, total, err := s.repo.Question().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	return &QuestionListResponse{
		Questions: questions,
		Total:     total,
		Limit:     filters.Limit,
		Offset:    filters.Offset,
	}, nil
}

func (s *tryoutService) UpdateQuestion(ctx context.Context, id string, req *UpdateQuestionRequest) (*models.TryoutQuestion, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Question != nil {
		question.Question = *req.Question
	}
	if req.Options != nil {
		options, err := marshalJSONColumn(req.Options)
		if err != nil {
			return nil, err
		}
		question.Options = options
	}
	if req.Answer != nil {
		question.Answer = req.Answer
	}
	if req.AnswerDescription != nil {
		question.AnswerDescription = req.AnswerDescription
	}
	if req.Keywords != nil {
		keywords, err := marshalJSONColumn(req.Keywords)
		if err != nil {
			return nil, err
		}
		question.Keywords = keywords
	}
	if req.Category != nil {
		question.Category = *req.Category
	}
	if req.Grade != nil {
		question.Grade = req.Grade
	}
	if req.ImageURL != nil {
		question.ImageURL = req.ImageURL
	}

	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuestionInvalid, err)
	}

	if err := s.repo.Question().Update(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

func (s *tryoutService) DeleteQuestion(ctx context.Context, id string) error {
	if _, err := s.GetQuestion(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Question().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	s.logger.Info("Question deleted", "question_id", id)
	return nil
}

// ===== DOCUMENTS =====

func (s *tryoutService) UploadDocument(ctx context.Context, req *UploadDocumentRequest) (*models.TryoutDocument, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	doc := &models.TryoutDocument{
		ID:       uuid.NewString(),
		Filename: req.Filename,
		FileURL:  req.FileURL,
		Category: req.Category,
	}
	if doc.Category == "" {
		doc.Category = "Umum"
	}

	if err := s.repo.Document().Create(ctx, nil, doc); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	if err := s.publisher.PublishActivityEvent(ctx, events.NewDocumentUploadedEvent(doc.ID, doc.Filename, doc.Category, doc.CreatedAt)); err != nil {
		s.logger.Warn("Failed to publish document uploaded event", "document_id", doc.ID, "error", err)
	}

	s.logger.Info("Document uploaded", "document_id", doc.ID, "filename", doc.Filename)
	return doc, nil
}

func (s *tryoutService) GetDocument(ctx context.Context, id string) (*models.TryoutDocument, error) {
	doc, err := s.repo.Document().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

func (s *tryoutService) ListDocuments(ctx context.Context, limit, offset int) ([]*models.TryoutDocument, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.Document().List(ctx, nil, limit, offset)
}

func (s *tryoutService) ProcessDocument(ctx context.Context, id string) (*ProcessResult, error) {
	var result *ProcessResult
	var processedDoc *models.TryoutDocument

	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		doc, err := s.repo.Document().GetForProcessing(ctx, tx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrDocumentNotFound
			}
			return fmt.Errorf("failed to lock document: %w", err)
		}

		if doc.Processed {
			result = &ProcessResult{
				DocumentID:       doc.ID,
				TotalQuestions:   doc.TotalQuestions,
				AlreadyProcessed: true,
			}
			return nil
		}

		text, err := s.extract(doc.FileURL)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
		}

		parsed := parser.ParseText(text)
		for _, p := range parsed {
			question, err := s.questionFromParsed(p, doc)
			if err != nil {
				return err
			}
			if err := s.repo.Question().Create(ctx, tx, question); err != nil {
				return fmt.Errorf("failed to store parsed question: %w", err)
			}
		}

		processedAt := time.Now()
		if err := s.repo.Document().MarkProcessed(ctx, tx, doc.ID, processedAt, len(parsed)); err != nil {
			return fmt.Errorf("failed to mark document processed: %w", err)
		}

		doc.Processed = true
		doc.ProcessedAt = &processedAt
		doc.TotalQuestions = len(parsed)
		processedDoc = doc

		result = &ProcessResult{
			DocumentID:     doc.ID,
			TotalQuestions: len(parsed),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if processedDoc != nil {
		if err := s.publisher.PublishActivityEvent(ctx, events.NewDocumentProcessedEvent(
			processedDoc.ID, processedDoc.Filename, processedDoc.TotalQuestions, *processedDoc.ProcessedAt)); err != nil {
			s.logger.Warn("Failed to publish document processed event", "document_id", processedDoc.ID, "error", err)
		}
		s.logger.Info("Document processed", "document_id", processedDoc.ID, "total_questions", processedDoc.TotalQuestions)
	}

	return result, nil
}

// questionFromParsed maps one parsed block to a bank entry. Answers are never
// recoverable from a PDF, so parsed questions are stored without one.
func (s *tryoutService) questionFromParsed(p parser.ParsedQuestion, doc *models.TryoutDocument) (*models.TryoutQuestion, error) {
	question := &models.TryoutQuestion{
		ID:       uuid.NewString(),
		Type:     p.Type,
		Question: p.Question,
		Category: doc.Category,
		Source:   models.SourcePDF,
	}
	if len(p.Options) > 0 {
		options, err := marshalJSONColumn(p.Options)
		if err != nil {
			return nil, err
		}
		question.Options = options
	}
	return question, nil
}

func marshalJSONColumn(values []string) (datatypes.JSON, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return datatypes.JSON(data), nil
}
