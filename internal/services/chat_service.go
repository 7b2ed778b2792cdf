package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ramandaygy/tutor-app/internal/events"
	"github.com/Ramandaygy/tutor-app/internal/llm"
	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/repositories"
)

const chatSystemPrompt = "Kamu adalah tutor belajar untuk siswa sekolah dasar dan menengah. " +
	"Jawab dengan bahasa Indonesia yang sederhana dan ramah, dan dorong siswa untuk terus belajar."

const generateSystemPrompt = "Kamu adalah pembuat soal latihan. Balas HANYA dengan satu objek JSON, tanpa teks lain."

// ChatService is the tutoring surface: free-form chat, practice question
// delivery and answer grading, all feeding the user's progress record.
type ChatService interface {
	// Chat answers a free-form message and counts the interaction toward the
	// user's daily streak.
	Chat(ctx context.Context, userID, message string) (string, error)

	// NextQuestion returns a question of the theme the user has not answered
	// yet, generating a fresh one when the bank is exhausted.
	NextQuestion(ctx context.Context, userID, theme string) (*models.TryoutQuestion, error)

	// GenerateQuestion asks the model for a brand-new question and stores it.
	GenerateQuestion(ctx context.Context, req *GenerateQuestionRequest) (*models.TryoutQuestion, error)

	// SubmitAnswer grades one answer, appends it to the activity log exactly
	// once per (user, question) pair, and refreshes progress and streak.
	SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest) (*AnswerResult, error)

	SubmitFeedback(ctx context.Context, userID string, rating int, message, theme string) (*models.Progress, error)
	History(ctx context.Context, userID, theme string, limit int) ([]*models.ActivityLog, error)
}

// ===== REQUEST / RESPONSE TYPES =====

type GenerateQuestionRequest struct {
	Theme string              `json:"theme" validate:"required,theme"`
	Type  models.QuestionType `json:"type" validate:"omitempty,question_type"`
	Grade *string             `json:"grade"`
}

type SubmitAnswerRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	QuestionID string `json:"question_id" validate:"required"`
	Theme      string `json:"theme"`
	Answer     string `json:"answer" validate:"required"`
}

type AnswerResult struct {
	QuestionID    string           `json:"question_id"`
	IsCorrect     bool             `json:"is_correct"`
	CorrectAnswer string           `json:"correct_answer"`
	Explanation   string           `json:"explanation"`
	Progress      *models.Progress `json:"progress"`
}

// generatedQuestion is the JSON shape the model is asked to produce.
type generatedQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

type chatService struct {
	repo      repositories.Repository
	llm       llm.Client
	progress  ProgressService
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewChatService(repo repositories.Repository, llmClient llm.Client, progress ProgressService, publisher events.EventPublisher, logger *slog.Logger) ChatService {
	return &chatService{
		repo:      repo,
		llm:       llmClient,
		progress:  progress,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *chatService) Chat(ctx context.Context, userID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", NewValidationError("message", "message is required", nil)
	}

	reply, err := s.llm.Complete(ctx, chatSystemPrompt, message)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if _, err := s.progress.TouchStreak(ctx, userID); err != nil {
		s.logger.Warn("Failed to touch streak after chat", "user_id", userID, "error", err)
	}

	return reply, nil
}

func (s *chatService) NextQuestion(ctx context.Context, userID, theme string) (*models.TryoutQuestion, error) {
	if !models.IsRecognizedTheme(theme) {
		return nil, ErrInvalidTheme
	}

	answered, err := s.repo.Activity().AnsweredQuestionIDs(ctx, nil, userID, theme)
	if err != nil {
		return nil, fmt.Errorf("failed to load answered questions: %w", err)
	}
	answeredSet := make(map[string]struct{}, len(answered))
	for _, id := range answered {
		answeredSet[id] = struct{}{}
	}

	questions, _, err := s.repo.Question().List(ctx, nil, repositories.QuestionFilters{
		Theme: &theme,
		Limit: 100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	for _, q := range questions {
		if _, done := answeredSet[q.ID]; !done {
			return q, nil
		}
	}

	// bank exhausted for this theme
	return s.GenerateQuestion(ctx, &GenerateQuestionRequest{Theme: theme})
}

func (s *chatService) GenerateQuestion(ctx context.Context, req *GenerateQuestionRequest) (*models.TryoutQuestion, error) {
	if !models.IsRecognizedTheme(req.Theme) {
		return nil, ErrInvalidTheme
	}
	questionType := req.Type
	if questionType == "" {
		questionType = models.MultipleChoice
	}

	prompt := buildGeneratePrompt(req.Theme, questionType, req.Grade)
	completion, err := s.llm.Complete(ctx, generateSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	raw, err := llm.ExtractJSON(completion)
	if err != nil {
		return nil, fmt.Errorf("model returned no question JSON: %w", err)
	}
	var gen generatedQuestion
	if err := json.Unmarshal([]byte(raw), &gen); err != nil {
		return nil, fmt.Errorf("model returned malformed question JSON: %w", err)
	}
	if strings.TrimSpace(gen.Question) == "" {
		return nil, fmt.Errorf("%w: generated question has no text", ErrQuestionInvalid)
	}

	theme := req.Theme
	question := &models.TryoutQuestion{
		ID:       uuid.NewString(),
		Type:     questionType,
		Question: gen.Question,
		Theme:    &theme,
		Category: "Umum",
		Grade:    req.Grade,
		Source:   models.SourceGenerated,
	}
	if gen.Answer != "" {
		answer := gen.Answer
		question.Answer = &answer
	}
	if gen.Explanation != "" {
		explanation := gen.Explanation
		question.AnswerDescription = &explanation
	}
	if questionType == models.MultipleChoice {
		if len(gen.Options) != 4 {
			return nil, fmt.Errorf("%w: generated question has %d options", ErrQuestionInvalid, len(gen.Options))
		}
		options, err := marshalJSONColumn(gen.Options)
		if err != nil {
			return nil, err
		}
		question.Options = options
	}

	if err := s.repo.Question().Create(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to store generated question: %w", err)
	}

	if err := s.publisher.PublishActivityEvent(ctx, events.NewQuestionGeneratedEvent(
		question.ID, req.Theme, string(questionType), time.Now())); err != nil {
		s.logger.Warn("Failed to publish question generated event", "question_id", question.ID, "error", err)
	}

	s.logger.Info("Question generated", "question_id", question.ID, "theme", req.Theme)
	return question, nil
}

func (s *chatService) SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest) (*AnswerResult, error) {
	if req.UserID == "" || req.QuestionID == "" || strings.TrimSpace(req.Answer) == "" {
		return nil, NewValidationError("answer", "user_id, question_id and answer are required", nil)
	}

	question, err := s.repo.Question().GetByID(ctx, nil, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	done, err := s.repo.Activity().HasAnswered(ctx, nil, req.UserID, req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check answer history: %w", err)
	}
	if done {
		return nil, ErrAlreadyAnswered
	}

	isCorrect, correctAnswer, err := gradeAnswer(question, req.Answer)
	if err != nil {
		return nil, err
	}

	theme := req.Theme
	if question.Theme != nil && *question.Theme != "" {
		theme = *question.Theme
	}
	if theme == "" {
		theme = "umum"
	}

	score := 0
	if isCorrect {
		score = 1
	}
	explanation := ""
	if question.AnswerDescription != nil {
		explanation = *question.AnswerDescription
	}

	entry := &models.ActivityLog{
		UserID:        req.UserID,
		Theme:         theme,
		QuestionID:    req.QuestionID,
		QuestionText:  question.Question,
		Explanation:   explanation,
		UserAnswer:    req.Answer,
		CorrectAnswer: correctAnswer,
		IsCorrect:     isCorrect,
		Score:         score,
	}
	if err := s.repo.Activity().Create(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("failed to log answer: %w", err)
	}

	progress, err := s.progress.Recalculate(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to recalculate progress: %w", err)
	}
	if updated, err := s.progress.TouchStreak(ctx, req.UserID); err != nil {
		s.logger.Warn("Failed to touch streak after answer", "user_id", req.UserID, "error", err)
	} else {
		progress = updated
	}

	if err := s.publisher.PublishActivityEvent(ctx, events.NewQuestionAnsweredEvent(
		req.UserID, req.QuestionID, theme, isCorrect, entry.CreatedAt)); err != nil {
		s.logger.Warn("Failed to publish question answered event", "user_id", req.UserID, "error", err)
	}

	return &AnswerResult{
		QuestionID:    req.QuestionID,
		IsCorrect:     isCorrect,
		CorrectAnswer: correctAnswer,
		Explanation:   explanation,
		Progress:      progress,
	}, nil
}

func (s *chatService) SubmitFeedback(ctx context.Context, userID string, rating int, message, theme string) (*models.Progress, error) {
	return s.progress.RecordFeedback(ctx, userID, rating, message, theme)
}

func (s *chatService) History(ctx context.Context, userID, theme string, limit int) ([]*models.ActivityLog, error) {
	return s.repo.Activity().GetRecent(ctx, nil, userID, theme, limit)
}

// ===== GRADING =====

var optionLabels = []string{"A", "B", "C", "D"}

// gradeAnswer compares a submitted answer against the stored one. Multiple
// choice submissions may be the option text, the option label (A-D) or the
// 1-based option number.
func gradeAnswer(question *models.TryoutQuestion, submitted string) (bool, string, error) {
	switch question.Type {
	case models.MultipleChoice:
		if question.Answer == nil || strings.TrimSpace(*question.Answer) == "" {
			return false, "", ErrAnswerUnavailable
		}
		correct := strings.TrimSpace(*question.Answer)
		resolved := resolveOption(question.OptionList(), submitted)
		return strings.EqualFold(resolved, correct), correct, nil

	case models.Essay:
		keywords := question.KeywordList()
		if len(keywords) > 0 {
			lower := strings.ToLower(submitted)
			for _, kw := range keywords {
				if strings.Contains(lower, strings.ToLower(strings.TrimSpace(kw))) {
					return true, keywordAnswer(question), nil
				}
			}
			return false, keywordAnswer(question), nil
		}
		if question.AnswerDescription == nil || strings.TrimSpace(*question.AnswerDescription) == "" {
			return false, "", ErrAnswerUnavailable
		}
		correct := strings.TrimSpace(*question.AnswerDescription)
		return strings.EqualFold(strings.TrimSpace(submitted), correct), correct, nil
	}
	return false, "", fmt.Errorf("unsupported question type: %s", question.Type)
}

// resolveOption maps a label or 1-based index submission to the option text;
// anything else is returned trimmed as-is. An exact option text match wins
// over index interpretation so numeric options grade correctly.
func resolveOption(options []string, submitted string) string {
	trimmed := strings.TrimSpace(submitted)
	if len(options) == 0 {
		return trimmed
	}

	for _, option := range options {
		if strings.EqualFold(strings.TrimSpace(option), trimmed) {
			return strings.TrimSpace(option)
		}
	}
	upper := strings.ToUpper(trimmed)
	for i, label := range optionLabels {
		if upper == label && i < len(options) {
			return strings.TrimSpace(options[i])
		}
	}
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 && n <= len(options) {
		return strings.TrimSpace(options[n-1])
	}
	return trimmed
}

func keywordAnswer(question *models.TryoutQuestion) string {
	if question.AnswerDescription != nil && strings.TrimSpace(*question.AnswerDescription) != "" {
		return strings.TrimSpace(*question.AnswerDescription)
	}
	return strings.Join(question.KeywordList(), ", ")
}

func buildGeneratePrompt(theme string, questionType models.QuestionType, grade *string) string {
	var b strings.Builder
	b.WriteString("Buat satu soal latihan tema ")
	b.WriteString(theme)
	if grade != nil && *grade != "" {
		b.WriteString(" untuk kelas ")
		b.WriteString(*grade)
	}
	b.WriteString(".\n")
	if questionType == models.MultipleChoice {
		b.WriteString(`Format JSON: {"question": "...", "options": ["...", "...", "...", "..."], "answer": "...", "explanation": "..."}` + "\n")
		b.WriteString("Field answer harus sama persis dengan salah satu isi options.")
	} else {
		b.WriteString(`Format JSON: {"question": "...", "answer": "...", "explanation": "..."}`)
	}
	return b.String()
}
