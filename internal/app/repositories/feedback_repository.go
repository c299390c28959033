package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/db"
)

// FeedbackRepository stores ratings and free text feedback. Rows are append only.
type FeedbackRepository struct {
	db *db.Database
	sb squirrel.StatementBuilderType
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(database *db.Database) *FeedbackRepository {
	return &FeedbackRepository{
		db: database,
		sb: database.Builder(),
	}
}

// AddOutcomeRating stores a rating of an outcome text
func (r *FeedbackRepository) AddOutcomeRating(ctx context.Context, q db.Querier, rating *models.OutcomeRating) error {
	return r.insert(ctx, q, r.sb.Insert("outcome_ratings").
		Columns("user_id", "text", "rating").
		Values(rating.UserID, rating.Text, rating.Rating))
}

// AddAssessmentRating stores a rating of an assessment
func (r *FeedbackRepository) AddAssessmentRating(ctx context.Context, q db.Querier, rating *models.AssessmentRating) error {
	return r.insert(ctx, q, r.sb.Insert("assessment_ratings").
		Columns("user_id", "text", "weight", "rating").
		Values(rating.UserID, rating.Text, rating.Weight, rating.Rating))
}

// AddMessage stores a feedback message
func (r *FeedbackRepository) AddMessage(ctx context.Context, q db.Querier, msg *models.FeedbackMessage) error {
	return r.insert(ctx, q, r.sb.Insert("feedback").
		Columns("user_id", "message").
		Values(msg.UserID, msg.Message))
}

// CountOutcomeRatings returns how many outcome ratings the user has given
func (r *FeedbackRepository) CountOutcomeRatings(ctx context.Context, q db.Querier, userID int64) (int, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("outcome_ratings").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count ratings query: %w", err)
	}

	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting outcome ratings: %w", err)
	}
	return count, nil
}

// ListMessages returns every stored feedback message, oldest first
func (r *FeedbackRepository) ListMessages(ctx context.Context, q db.Querier) ([]models.FeedbackMessage, error) {
	query, args, err := r.sb.Select("user_id", "message", "created_at").
		From("feedback").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list feedback query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying feedback: %w", err)
	}
	defer rows.Close()

	messages := []models.FeedbackMessage{}
	for rows.Next() {
		var m models.FeedbackMessage
		if err := rows.Scan(&m.UserID, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning feedback row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}
	return messages, nil
}

func (r *FeedbackRepository) insert(ctx context.Context, q db.Querier, b squirrel.InsertBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert feedback query: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error inserting feedback: %w", err)
	}
	return nil
}
