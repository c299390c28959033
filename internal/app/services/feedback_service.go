package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/app/repositories"
	"github.com/yigit/syllabus/internal/db"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
)

// FeedbackService records ratings and feedback messages
type FeedbackService struct {
	db           *db.Database
	feedbackRepo *repositories.FeedbackRepository
	logger       zerolog.Logger
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(database *db.Database, feedbackRepo *repositories.FeedbackRepository, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{
		db:           database,
		feedbackRepo: feedbackRepo,
		logger:       logger,
	}
}

// RateOutcome stores the owner's rating of an outcome text
func (s *FeedbackService) RateOutcome(ctx context.Context, ownerID int64, text string, rating int) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.feedbackRepo.AddOutcomeRating(ctx, tx, &models.OutcomeRating{
			UserID: ownerID,
			Text:   text,
			Rating: rating,
		})
	})
}

// RateAssessment stores the owner's rating of an assessment
func (s *FeedbackService) RateAssessment(ctx context.Context, ownerID int64, text string, weight, rating int) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.feedbackRepo.AddAssessmentRating(ctx, tx, &models.AssessmentRating{
			UserID: ownerID,
			Text:   text,
			Weight: weight,
			Rating: rating,
		})
	})
}

// SubmitMessage stores a feedback message. A nil ownerID records it anonymously.
func (s *FeedbackService) SubmitMessage(ctx context.Context, ownerID *int64, message string) error {
	if message == "" {
		return apperrors.NewBadRequestError("Feedback message must not be empty")
	}

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.feedbackRepo.AddMessage(ctx, tx, &models.FeedbackMessage{UserID: ownerID, Message: message})
	})
	if err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}
	s.logger.Info().Bool("anonymous", ownerID == nil).Msg("Feedback submitted")
	return nil
}
