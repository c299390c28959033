package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/db"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
	"github.com/yigit/syllabus/internal/pkg/logger"
)

const (
	coursesTable     = "courses"
	outcomesTable    = "outcomes"
	assessmentsTable = "assessments"
)

var courseColumns = []string{"id", "title", "discipline", "code", "faculty", "description"}

// CourseRepository keeps stored course versions in step with course aggregates.
//
// A version is one COURSES row plus its OUTCOMES and ASSESSMENTS rows, all scoped
// by (user_id, course_id). Child rows have no identity beyond their content, so
// updates replace a version's children wholesale instead of diffing them.
// Every method takes the Querier to run on, which lets a service compose several
// calls inside one transaction.
type CourseRepository struct {
	db *db.Database
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(database *db.Database) *CourseRepository {
	return &CourseRepository{
		db: database,
		sb: database.Builder(),
	}
}

// InsertNewVersion stores course as a brand new version for the owner and
// returns the new version id.
func (r *CourseRepository) InsertNewVersion(ctx context.Context, q db.Querier, ownerID int64, course *models.Course) (int64, error) {
	query, args, err := r.sb.Insert(coursesTable).
		Columns("user_id", "title", "discipline", "code", "faculty", "description").
		Values(ownerID, course.Title, course.Discipline, course.Code, course.Faculty, course.Description).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert course query: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		logger.Error().Err(err).Int64("ownerID", ownerID).Msg("Error inserting course row")
		return 0, fmt.Errorf("error inserting course: %w", err)
	}

	// The newest row for the owner is the one just inserted.
	versionID, ok, err := r.CurrentVersionID(ctx, q, ownerID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("inserted course for owner %d could not be read back", ownerID)
	}

	if err := r.insertChildren(ctx, q, ownerID, versionID, course); err != nil {
		return 0, err
	}
	return versionID, nil
}

// ReplaceVersion overwrites the scalar columns of an existing version and
// replaces all of its child rows with the course's current collections.
func (r *CourseRepository) ReplaceVersion(ctx context.Context, q db.Querier, ownerID, versionID int64, course *models.Course) error {
	query, args, err := r.sb.Update(coursesTable).
		SetMap(map[string]interface{}{
			"title":       course.Title,
			"discipline":  course.Discipline,
			"code":        course.Code,
			"faculty":     course.Faculty,
			"description": course.Description,
		}).
		Where(squirrel.Eq{"id": versionID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("ownerID", ownerID).Int64("versionID", versionID).Msg("Error updating course row")
		return fmt.Errorf("error updating course: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("version %d: %w", versionID, apperrors.ErrVersionNotFound)
	}

	if err := r.deleteAllChildren(ctx, q, outcomesTable, ownerID, versionID); err != nil {
		return err
	}
	if err := r.deleteAllChildren(ctx, q, assessmentsTable, ownerID, versionID); err != nil {
		return err
	}
	return r.insertChildren(ctx, q, ownerID, versionID, course)
}

// AddOutcome stores one outcome row for the version.
func (r *CourseRepository) AddOutcome(ctx context.Context, q db.Querier, ownerID, versionID int64, outcome models.LearningOutcome) error {
	query, args, err := r.sb.Insert(outcomesTable).
		Columns("user_id", "course_id", "text").
		Values(ownerID, versionID, outcome.Text).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert outcome query: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error inserting outcome: %w", err)
	}
	return nil
}

// AddAssessment stores one assessment row for the version.
func (r *CourseRepository) AddAssessment(ctx context.Context, q db.Querier, ownerID, versionID int64, assessment models.AssessmentItem) error {
	query, args, err := r.sb.Insert(assessmentsTable).
		Columns("user_id", "course_id", "text", "weight").
		Values(ownerID, versionID, assessment.Text, assessment.Weight).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert assessment query: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error inserting assessment: %w", err)
	}
	return nil
}

// DeleteOneOutcome removes at most one stored outcome whose text matches.
// Duplicates beyond the first are left in place.
func (r *CourseRepository) DeleteOneOutcome(ctx context.Context, q db.Querier, ownerID, versionID int64, outcome models.LearningOutcome) (bool, error) {
	first := squirrel.Select("id").
		From(outcomesTable).
		Where(squirrel.Eq{"user_id": ownerID, "course_id": versionID, "text": outcome.Text}).
		OrderBy("id ASC").
		Limit(1)
	return r.deleteOne(ctx, q, outcomesTable, first)
}

// DeleteOneAssessment removes at most one stored assessment whose (text, weight) matches.
func (r *CourseRepository) DeleteOneAssessment(ctx context.Context, q db.Querier, ownerID, versionID int64, assessment models.AssessmentItem) (bool, error) {
	first := squirrel.Select("id").
		From(assessmentsTable).
		Where(squirrel.Eq{
			"user_id":   ownerID,
			"course_id": versionID,
			"text":      assessment.Text,
			"weight":    assessment.Weight,
		}).
		OrderBy("id ASC").
		Limit(1)
	return r.deleteOne(ctx, q, assessmentsTable, first)
}

func (r *CourseRepository) deleteOne(ctx context.Context, q db.Querier, table string, first squirrel.SelectBuilder) (bool, error) {
	query, args, err := r.sb.Delete(table).
		Where(squirrel.Expr("id IN (?)", first)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build delete %s query: %w", table, err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("error deleting from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading deleted %s count: %w", table, err)
	}
	return n > 0, nil
}

// CurrentVersionID returns the id of the owner's most recently inserted version.
// ok is false when the owner has never saved a course.
func (r *CourseRepository) CurrentVersionID(ctx context.Context, q db.Querier, ownerID int64) (int64, bool, error) {
	query, args, err := r.sb.Select("id").
		From(coursesTable).
		Where(squirrel.Eq{"user_id": ownerID}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("failed to build current version query: %w", err)
	}

	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("error getting current version: %w", err)
	}
	return id, true, nil
}

// HydrateLatest loads the owner's newest version into the owner's course,
// overwriting its metadata and both collections. It returns false, leaving the
// course untouched, when no version exists.
func (r *CourseRepository) HydrateLatest(ctx context.Context, q db.Querier, owner *models.Owner) (bool, error) {
	query, args, err := r.sb.Select(courseColumns...).
		From(coursesTable).
		Where(squirrel.Eq{"user_id": owner.ID()}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build latest course query: %w", err)
	}

	versionID, stored, err := scanCourse(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error loading latest course: %w", err)
	}

	if err := r.loadChildren(ctx, q, owner.ID(), versionID, stored); err != nil {
		return false, err
	}

	course := owner.Course()
	course.Title = stored.Title
	course.Discipline = stored.Discipline
	course.Code = stored.Code
	course.Faculty = stored.Faculty
	course.Description = stored.Description
	course.ReplaceOutcomes(stored.Outcomes)
	course.ReplaceAssessments(stored.Assessments)
	return true, nil
}

// LoadVersion loads the index-th version (0-based, oldest first) for the owner.
// ok is false when the index is out of range.
func (r *CourseRepository) LoadVersion(ctx context.Context, q db.Querier, ownerID int64, index int) (*models.Course, bool, error) {
	if index < 0 {
		return nil, false, nil
	}

	query, args, err := r.sb.Select(courseColumns...).
		From(coursesTable).
		Where(squirrel.Eq{"user_id": ownerID}).
		OrderBy("id ASC").
		Limit(1).
		Offset(uint64(index)).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build load version query: %w", err)
	}

	return r.loadOne(ctx, q, ownerID, query, args)
}

// LoadVersionByID loads a version by its stored id.
func (r *CourseRepository) LoadVersionByID(ctx context.Context, q db.Querier, ownerID, versionID int64) (*models.Course, bool, error) {
	query, args, err := r.sb.Select(courseColumns...).
		From(coursesTable).
		Where(squirrel.Eq{"id": versionID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build load version by id query: %w", err)
	}

	return r.loadOne(ctx, q, ownerID, query, args)
}

func (r *CourseRepository) loadOne(ctx context.Context, q db.Querier, ownerID int64, query string, args []interface{}) (*models.Course, bool, error) {
	versionID, course, err := scanCourse(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error loading course version: %w", err)
	}

	if err := r.loadChildren(ctx, q, ownerID, versionID, course); err != nil {
		return nil, false, err
	}
	return course, true, nil
}

// ListVersions loads every version for the owner, fully hydrated, oldest first.
func (r *CourseRepository) ListVersions(ctx context.Context, q db.Querier, ownerID int64) ([]models.Version, error) {
	query, args, err := r.sb.Select(courseColumns...).
		From(coursesTable).
		Where(squirrel.Eq{"user_id": ownerID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list versions query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("ownerID", ownerID).Msg("Error querying course versions")
		return nil, fmt.Errorf("error querying course versions: %w", err)
	}

	// Collect parents first: the connection must be free before child queries run.
	versions := []models.Version{}
	for rows.Next() {
		id, course, err := scanCourse(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning course version: %w", err)
		}
		versions = append(versions, models.Version{ID: id, Course: course})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating course versions: %w", err)
	}
	rows.Close()

	for _, v := range versions {
		if err := r.loadChildren(ctx, q, ownerID, v.ID, v.Course); err != nil {
			return nil, err
		}
	}
	return versions, nil
}

// CountVersions returns how many versions the owner has saved.
func (r *CourseRepository) CountVersions(ctx context.Context, q db.Querier, ownerID int64) (int, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From(coursesTable).
		Where(squirrel.Eq{"user_id": ownerID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count versions query: %w", err)
	}

	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting course versions: %w", err)
	}
	return count, nil
}

func (r *CourseRepository) insertChildren(ctx context.Context, q db.Querier, ownerID, versionID int64, course *models.Course) error {
	for _, o := range course.Outcomes {
		if err := r.AddOutcome(ctx, q, ownerID, versionID, o); err != nil {
			return err
		}
	}
	for _, a := range course.Assessments {
		if err := r.AddAssessment(ctx, q, ownerID, versionID, a); err != nil {
			return err
		}
	}
	return nil
}

func (r *CourseRepository) deleteAllChildren(ctx context.Context, q db.Querier, table string, ownerID, versionID int64) error {
	query, args, err := r.sb.Delete(table).
		Where(squirrel.Eq{"user_id": ownerID, "course_id": versionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete all %s query: %w", table, err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error deleting %s: %w", table, err)
	}
	return nil
}

// loadChildren overwrites course's collections with the stored rows of a version.
func (r *CourseRepository) loadChildren(ctx context.Context, q db.Querier, ownerID, versionID int64, course *models.Course) error {
	outcomes, err := r.loadOutcomes(ctx, q, ownerID, versionID)
	if err != nil {
		return err
	}
	assessments, err := r.loadAssessments(ctx, q, ownerID, versionID)
	if err != nil {
		return err
	}
	course.ReplaceOutcomes(outcomes)
	course.ReplaceAssessments(assessments)
	return nil
}

func (r *CourseRepository) loadOutcomes(ctx context.Context, q db.Querier, ownerID, versionID int64) ([]models.LearningOutcome, error) {
	query, args, err := r.sb.Select("text").
		From(outcomesTable).
		Where(squirrel.Eq{"user_id": ownerID, "course_id": versionID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build load outcomes query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []models.LearningOutcome{}
	for rows.Next() {
		var o models.LearningOutcome
		if err := rows.Scan(&o.Text); err != nil {
			return nil, fmt.Errorf("error scanning outcome row: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outcome rows: %w", err)
	}
	return outcomes, nil
}

func (r *CourseRepository) loadAssessments(ctx context.Context, q db.Querier, ownerID, versionID int64) ([]models.AssessmentItem, error) {
	query, args, err := r.sb.Select("text", "weight").
		From(assessmentsTable).
		Where(squirrel.Eq{"user_id": ownerID, "course_id": versionID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build load assessments query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying assessments: %w", err)
	}
	defer rows.Close()

	assessments := []models.AssessmentItem{}
	for rows.Next() {
		var a models.AssessmentItem
		if err := rows.Scan(&a.Text, &a.Weight); err != nil {
			return nil, fmt.Errorf("error scanning assessment row: %w", err)
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessment rows: %w", err)
	}
	return assessments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (int64, *models.Course, error) {
	var id int64
	c := models.NewCourse()
	if err := row.Scan(&id, &c.Title, &c.Discipline, &c.Code, &c.Faculty, &c.Description); err != nil {
		return 0, nil, err
	}
	return id, c, nil
}
