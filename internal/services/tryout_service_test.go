package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/Ramandaygy/tutor-app/internal/events"
	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/validator"
)

func newTryoutService(repo *MockRepository, publisher events.EventPublisher) *tryoutService {
	if publisher == nil {
		publisher = events.NewNoopEventPublisher()
	}
	return NewTryoutService(repo, validator.New(), publisher, testLogger()).(*tryoutService)
}

func strPtr(s string) *string { return &s }

func TestTryoutService_CreateQuestion(t *testing.T) {
	tests := []struct {
		name        string
		request     *CreateQuestionRequest
		expectError bool
	}{
		{
			name: "valid multiple choice",
			request: &CreateQuestionRequest{
				Type:     models.MultipleChoice,
				Question: "Berapa hasil 2+2?",
				Options:  []string{"3", "4", "5", "6"},
				Answer:   strPtr("4"),
			},
			expectError: false,
		},
		{
			name: "multiple choice without answer",
			request: &CreateQuestionRequest{
				Type:     models.MultipleChoice,
				Question: "Berapa hasil 2+2?",
				Options:  []string{"3", "4", "5", "6"},
			},
			expectError: true,
		},
		{
			name: "multiple choice answer not among options",
			request: &CreateQuestionRequest{
				Type:     models.MultipleChoice,
				Question: "Berapa hasil 2+2?",
				Options:  []string{"3", "4", "5", "6"},
				Answer:   strPtr("7"),
			},
			expectError: true,
		},
		{
			name: "valid essay",
			request: &CreateQuestionRequest{
				Type:              models.Essay,
				Question:          "Jelaskan proses fotosintesis.",
				AnswerDescription: strPtr("Tumbuhan mengubah cahaya menjadi energi."),
				Keywords:          []string{"cahaya", "energi"},
			},
			expectError: false,
		},
		{
			name: "essay without answer description",
			request: &CreateQuestionRequest{
				Type:     models.Essay,
				Question: "Jelaskan proses fotosintesis.",
			},
			expectError: true,
		},
		{
			name: "missing question text",
			request: &CreateQuestionRequest{
				Type: models.Essay,
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			svc := newTryoutService(repo, nil)

			repo.questionRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

			question, err := svc.CreateQuestion(context.Background(), tt.request)

			if tt.expectError {
				assert.Error(t, err)
				repo.questionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, question.ID)
			assert.Equal(t, models.SourceManual, question.Source)
			assert.Equal(t, "Umum", question.Category)
			repo.questionRepo.AssertExpectations(t)
		})
	}
}

func TestTryoutService_ProcessDocument(t *testing.T) {
	const sampleText = "1. Berapa hasil 2+2?\n" +
		"A. 3\nB. 4\nC. 5\nD. 6\n" +
		"2. Jelaskan proses fotosintesis."

	t.Run("parses and stores questions in document order", func(t *testing.T) {
		repo := newMockRepository()
		publisher := events.NewMockEventPublisher()
		svc := newTryoutService(repo, publisher)
		svc.extract = func(path string) (string, error) {
			assert.Equal(t, "/uploads/tryout.pdf", path)
			return sampleText, nil
		}

		doc := &models.TryoutDocument{
			ID:       "doc-1",
			Filename: "tryout.pdf",
			FileURL:  "/uploads/tryout.pdf",
			Category: "SD",
		}

		var created []*models.TryoutQuestion
		repo.documentRepo.On("GetForProcessing", mock.Anything, mock.Anything, "doc-1").Return(doc, nil)
		repo.questionRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			created = append(created, args.Get(2).(*models.TryoutQuestion))
		}).Return(nil)
		repo.documentRepo.On("MarkProcessed", mock.Anything, mock.Anything, "doc-1", mock.Anything, 2).Return(nil)

		result, err := svc.ProcessDocument(context.Background(), "doc-1")

		assert.NoError(t, err)
		assert.False(t, result.AlreadyProcessed)
		assert.Equal(t, 2, result.TotalQuestions)

		if assert.Len(t, created, 2) {
			assert.Equal(t, models.MultipleChoice, created[0].Type)
			assert.Equal(t, "Berapa hasil 2+2?", created[0].Question)
			assert.Equal(t, []string{"3", "4", "5", "6"}, created[0].OptionList())
			assert.Nil(t, created[0].Answer)
			assert.Equal(t, "SD", created[0].Category)
			assert.Equal(t, models.SourcePDF, created[0].Source)

			assert.Equal(t, models.Essay, created[1].Type)
			assert.Equal(t, "Jelaskan proses fotosintesis.", created[1].Question)
			assert.Empty(t, created[1].OptionList())
		}

		if assert.Len(t, publisher.Events, 1) {
			assert.Equal(t, events.EventDocumentProcessed, publisher.Events[0].Type)
		}
		repo.documentRepo.AssertExpectations(t)
	})

	t.Run("already processed document is skipped", func(t *testing.T) {
		repo := newMockRepository()
		publisher := events.NewMockEventPublisher()
		svc := newTryoutService(repo, publisher)
		svc.extract = func(path string) (string, error) {
			t.Fatal("extract must not run for a processed document")
			return "", nil
		}

		doc := &models.TryoutDocument{
			ID:             "doc-1",
			Processed:      true,
			TotalQuestions: 12,
		}
		repo.documentRepo.On("GetForProcessing", mock.Anything, mock.Anything, "doc-1").Return(doc, nil)

		result, err := svc.ProcessDocument(context.Background(), "doc-1")

		assert.NoError(t, err)
		assert.True(t, result.AlreadyProcessed)
		assert.Equal(t, 12, result.TotalQuestions)
		assert.Empty(t, publisher.Events)
		repo.questionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		repo.documentRepo.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown document", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTryoutService(repo, nil)

		repo.documentRepo.On("GetForProcessing", mock.Anything, mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.ProcessDocument(context.Background(), "missing")

		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("unreadable document", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTryoutService(repo, nil)
		svc.extract = func(path string) (string, error) {
			return "", errors.New("not a pdf")
		}

		doc := &models.TryoutDocument{ID: "doc-1", FileURL: "/uploads/broken.pdf"}
		repo.documentRepo.On("GetForProcessing", mock.Anything, mock.Anything, "doc-1").Return(doc, nil)

		_, err := svc.ProcessDocument(context.Background(), "doc-1")

		assert.ErrorIs(t, err, ErrDocumentUnreadable)
		repo.documentRepo.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTryoutService_UploadDocument(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher()
	svc := newTryoutService(repo, publisher)

	repo.documentRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(d *models.TryoutDocument) bool {
		return d.Filename == "paket-1.pdf" && d.Category == "Umum" && d.ID != ""
	})).Return(nil)

	doc, err := svc.UploadDocument(context.Background(), &UploadDocumentRequest{
		Filename: "paket-1.pdf",
		FileURL:  "/uploads/paket-1.pdf",
	})

	assert.NoError(t, err)
	assert.False(t, doc.Processed)
	if assert.Len(t, publisher.Events, 1) {
		assert.Equal(t, events.EventDocumentUploaded, publisher.Events[0].Type)
	}
	repo.documentRepo.AssertExpectations(t)
}
