package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ramandaygy/tutor-app/internal/events"
	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/repositories"
)

func newProgressService(repo *MockRepository, publisher events.EventPublisher) *progressService {
	if publisher == nil {
		publisher = events.NewNoopEventPublisher()
	}
	return NewProgressService(repo, nil, publisher, testLogger()).(*progressService)
}

func activityEntry(theme string, score int) *models.ActivityLog {
	return &models.ActivityLog{
		UserID: "user-1",
		Theme:  theme,
		Score:  score,
	}
}

func TestProgressService_Recalculate(t *testing.T) {
	tests := []struct {
		name         string
		logs         []*models.ActivityLog
		wantLiterasi int
		wantNumerik  int
		wantSains    int
		wantTotal    int
	}{
		{
			name: "sums per recognized theme",
			logs: []*models.ActivityLog{
				activityEntry("literasi", 1),
				activityEntry("numerik", 1),
				activityEntry("sains", 0),
			},
			wantLiterasi: 1,
			wantNumerik:  1,
			wantSains:    0,
			wantTotal:    3,
		},
		{
			name: "unrecognized theme still counts as a lesson",
			logs: []*models.ActivityLog{
				activityEntry("bahasa", 1),
				activityEntry("literasi", 1),
			},
			wantLiterasi: 1,
			wantNumerik:  0,
			wantSains:    0,
			wantTotal:    2,
		},
		{
			name: "wrong answers keep total growing",
			logs: []*models.ActivityLog{
				activityEntry("numerik", 0),
				activityEntry("numerik", 0),
				activityEntry("numerik", 1),
			},
			wantLiterasi: 0,
			wantNumerik:  1,
			wantSains:    0,
			wantTotal:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			svc := newProgressService(repo, nil)

			repo.activityRepo.On("GetByUser", mock.Anything, mock.Anything, "user-1").Return(tt.logs, nil)
			repo.progressRepo.On("UpsertScores", mock.Anything, mock.Anything, mock.MatchedBy(func(p *models.Progress) bool {
				return p.UserID == "user-1" &&
					p.Literasi == tt.wantLiterasi &&
					p.Numerik == tt.wantNumerik &&
					p.Sains == tt.wantSains &&
					p.TotalLessons == tt.wantTotal
			})).Return(nil)
			repo.progressRepo.On("GetByUserID", mock.Anything, mock.Anything, "user-1").Return(&models.Progress{
				UserID:       "user-1",
				Literasi:     tt.wantLiterasi,
				Numerik:      tt.wantNumerik,
				Sains:        tt.wantSains,
				TotalLessons: tt.wantTotal,
			}, nil)

			progress, err := svc.Recalculate(context.Background(), "user-1")

			assert.NoError(t, err)
			assert.Equal(t, tt.wantLiterasi, progress.Literasi)
			assert.Equal(t, tt.wantNumerik, progress.Numerik)
			assert.Equal(t, tt.wantSains, progress.Sains)
			assert.Equal(t, tt.wantTotal, progress.TotalLessons)
			repo.progressRepo.AssertExpectations(t)
		})
	}
}

func TestProgressService_Recalculate_EmptyHistory(t *testing.T) {
	repo := newMockRepository()
	svc := newProgressService(repo, nil)

	repo.activityRepo.On("GetByUser", mock.Anything, mock.Anything, "user-1").Return([]*models.ActivityLog{}, nil)
	repo.progressRepo.On("UpsertScores", mock.Anything, mock.Anything, mock.MatchedBy(func(p *models.Progress) bool {
		return p.UserID == "user-1" &&
			p.Literasi == 0 && p.Numerik == 0 && p.Sains == 0 &&
			p.TotalLessons == 0
	})).Return(nil)
	// The partial merge leaves rating and streak columns alone, so the reload
	// still carries them.
	repo.progressRepo.On("GetByUserID", mock.Anything, mock.Anything, "user-1").Return(&models.Progress{
		UserID:     "user-1",
		Rating:     4.5,
		StreakDays: 2,
	}, nil)

	progress, err := svc.Recalculate(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, 0, progress.Literasi)
	assert.Equal(t, 0, progress.TotalLessons)
	assert.Equal(t, 4.5, progress.Rating)
	assert.Equal(t, 2, progress.StreakDays)
	repo.progressRepo.AssertExpectations(t)
}

func TestProgressService_TouchStreak(t *testing.T) {
	now := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	dayBefore := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	sameDay := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	longAgo := time.Date(2025, time.March, 6, 0, 0, 0, 0, time.UTC)
	dayAfter := time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		lastActivity *time.Time
		streakDays   int
		wantStreak   int
	}{
		{
			name:         "first activity starts the streak",
			lastActivity: nil,
			streakDays:   0,
			wantStreak:   1,
		},
		{
			name:         "same day keeps the streak",
			lastActivity: &sameDay,
			streakDays:   4,
			wantStreak:   4,
		},
		{
			name:         "consecutive day extends the streak",
			lastActivity: &dayBefore,
			streakDays:   4,
			wantStreak:   5,
		},
		{
			name:         "gap resets the streak",
			lastActivity: &longAgo,
			streakDays:   9,
			wantStreak:   1,
		},
		{
			name:         "future date keeps the streak",
			lastActivity: &dayAfter,
			streakDays:   4,
			wantStreak:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			svc := newProgressService(repo, nil)
			svc.now = func() time.Time { return now }

			repo.progressRepo.On("GetByUserID", mock.Anything, mock.Anything, "user-1").Return(&models.Progress{
				UserID:           "user-1",
				StreakDays:       tt.streakDays,
				LastActivityDate: tt.lastActivity,
			}, nil)
			repo.progressRepo.On("UpdateStreak", mock.Anything, mock.Anything, "user-1", tt.wantStreak, sameDay).Return(nil)

			progress, err := svc.TouchStreak(context.Background(), "user-1")

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStreak, progress.StreakDays)
			assert.Equal(t, sameDay, *progress.LastActivityDate)
			repo.progressRepo.AssertExpectations(t)
		})
	}
}

func TestProgressService_RecordFeedback(t *testing.T) {
	t.Run("rejects out of range ratings", func(t *testing.T) {
		repo := newMockRepository()
		svc := newProgressService(repo, nil)

		for _, rating := range []int{0, -1, 6} {
			_, err := svc.RecordFeedback(context.Background(), "user-1", rating, "", "")
			assert.ErrorIs(t, err, ErrInvalidRating)
		}
		repo.activityRepo.AssertNotCalled(t, "CreateFeedback", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stores entry and folds rating into the average", func(t *testing.T) {
		repo := newMockRepository()
		publisher := events.NewMockEventPublisher()
		svc := newProgressService(repo, publisher)

		repo.activityRepo.On("CreateFeedback", mock.Anything, mock.Anything, mock.MatchedBy(func(e *models.FeedbackEntry) bool {
			return e.UserID == "user-1" && e.Rating == 3 && e.Theme == "umum"
		})).Return(nil)
		repo.progressRepo.On("AddFeedbackScore", mock.Anything, mock.Anything, "user-1", 3.0).Return(&models.Progress{
			UserID:      "user-1",
			Rating:      4.0,
			RatingCount: 2,
		}, nil)

		progress, err := svc.RecordFeedback(context.Background(), "user-1", 3, "mantap", "")

		assert.NoError(t, err)
		assert.Equal(t, 4.0, progress.Rating)
		assert.Equal(t, 2, progress.RatingCount)
		if assert.Len(t, publisher.Events, 1) {
			assert.Equal(t, events.EventFeedbackRecorded, publisher.Events[0].Type)
		}
		repo.activityRepo.AssertExpectations(t)
		repo.progressRepo.AssertExpectations(t)
	})
}

func TestProgressService_Stats(t *testing.T) {
	repo := newMockRepository()
	svc := newProgressService(repo, nil)

	repo.progressRepo.On("GlobalStats", mock.Anything, mock.Anything).Return(&repositories.ProgressStats{
		AvgLiterasi: 2.5,
		AvgNumerik:  1.0,
		AvgSains:    0.5,
		TotalUsers:  4,
	}, nil)
	repo.questionRepo.On("CountBySource", mock.Anything, mock.Anything, models.SourceManual).Return(int64(10), nil)
	repo.questionRepo.On("CountBySource", mock.Anything, mock.Anything, models.SourcePDF).Return(int64(25), nil)
	repo.questionRepo.On("CountBySource", mock.Anything, mock.Anything, models.SourceGenerated).Return(int64(3), nil)

	stats, err := svc.Stats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2.5, stats.AvgLiterasi)
	assert.Equal(t, int64(4), stats.TotalUsers)
	assert.Equal(t, int64(25), stats.QuestionsBySource["pdf"])
	assert.Equal(t, int64(3), stats.QuestionsBySource["generated"])
}

func TestProgressService_AdminUpdate(t *testing.T) {
	t.Run("rejects fields outside the allow-list", func(t *testing.T) {
		repo := newMockRepository()
		svc := newProgressService(repo, nil)

		_, err := svc.AdminUpdate(context.Background(), "user-1", map[string]interface{}{
			"rating_count": 99,
		})

		assert.Error(t, err)
		repo.progressRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("applies allowed fields", func(t *testing.T) {
		repo := newMockRepository()
		svc := newProgressService(repo, nil)

		fields := map[string]interface{}{"literasi": 7, "streak_days": 3}
		repo.progressRepo.On("GetByUserID", mock.Anything, mock.Anything, "user-1").Return(&models.Progress{UserID: "user-1"}, nil)
		repo.progressRepo.On("UpdateFields", mock.Anything, mock.Anything, "user-1", fields).Return(nil)

		_, err := svc.AdminUpdate(context.Background(), "user-1", fields)

		assert.NoError(t, err)
		repo.progressRepo.AssertExpectations(t)
	})
}
