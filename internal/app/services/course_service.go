package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/app/models/dto"
	"github.com/yigit/syllabus/internal/app/repositories"
	"github.com/yigit/syllabus/internal/db"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
	"github.com/yigit/syllabus/internal/pkg/cache"
	"github.com/yigit/syllabus/internal/pkg/metrics"
)

// CourseMetadata is the editable course header
type CourseMetadata struct {
	Title      string
	Discipline string
	Code       string
	Faculty    string
}

// CourseService defines the operations on an owner's course.
//
// Writes that edit the whole aggregate (metadata, description, upload,
// positional removal) upsert the current version: replace it when one exists,
// insert a new one otherwise. Item writes by content require an existing
// version and touch only the matching child rows. Every write runs in one
// transaction and mirrors its effect in the owner's in-memory course.
type CourseService interface {
	Current(ctx context.Context, owner *models.Owner) models.CourseRecord
	Search(ctx context.Context, owner *models.Owner, text string) models.CourseRecord
	SaveCurrent(ctx context.Context, owner *models.Owner) (int64, error)
	ModifyMetadata(ctx context.Context, owner *models.Owner, meta CourseMetadata) error
	SetDescription(ctx context.Context, owner *models.Owner, description string) error
	Upload(ctx context.Context, owner *models.Owner, raw []byte) error
	StartNewVersion(ctx context.Context, owner *models.Owner) (int64, error)
	AddOutcome(ctx context.Context, owner *models.Owner, outcome models.LearningOutcome) error
	RemoveOutcome(ctx context.Context, owner *models.Owner, outcome models.LearningOutcome) (bool, error)
	AddAssessment(ctx context.Context, owner *models.Owner, assessment models.AssessmentItem) error
	RemoveAssessment(ctx context.Context, owner *models.Owner, assessment models.AssessmentItem) (bool, error)
	RemoveOutcomeAt(ctx context.Context, owner *models.Owner, pos int) (models.LearningOutcome, error)
	RemoveAssessmentAt(ctx context.Context, owner *models.Owner, pos int) (models.AssessmentItem, error)
	ListVersions(ctx context.Context, owner *models.Owner) ([]dto.CourseVersionResponse, error)
	LoadVersion(ctx context.Context, owner *models.Owner, index int) (*models.Course, error)
	LoadVersionByID(ctx context.Context, owner *models.Owner, versionID int64) (*models.Course, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	db         *db.Database
	courseRepo *repositories.CourseRepository
	cache      cache.Store
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(
	database *db.Database,
	courseRepo *repositories.CourseRepository,
	store cache.Store,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) CourseService {
	if store == nil {
		store = cache.Nop{}
	}
	return &courseServiceImpl{
		db:         database,
		courseRepo: courseRepo,
		cache:      store,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

func versionsKey(ownerID int64) string {
	return fmt.Sprintf("owner:%d:versions", ownerID)
}

func ownerPrefix(ownerID int64) string {
	return fmt.Sprintf("owner:%d:", ownerID)
}

// Current publishes the owner's course
func (s *courseServiceImpl) Current(_ context.Context, owner *models.Owner) models.CourseRecord {
	return owner.Course().Record()
}

// Search publishes the course metadata with only the children matching text
func (s *courseServiceImpl) Search(_ context.Context, owner *models.Owner, text string) models.CourseRecord {
	course := owner.Course()
	return course.Serialize(course.FindOutcomes(text), course.FindAssessments(text))
}

// write runs fn in a transaction, records the outcome and drops cached version lists
func (s *courseServiceImpl) write(ctx context.Context, operation string, owner *models.Owner, fn db.TransactionFn) error {
	err := s.db.WithTransaction(ctx, fn)
	metrics.ObserveCourseWrite(operation, err)
	if err != nil {
		s.logger.Error().Err(err).Str("operation", operation).Int64("ownerId", owner.ID()).Msg("Course write failed")
		return err
	}

	if err := s.cache.Invalidate(ctx, ownerPrefix(owner.ID())); err != nil {
		s.logger.Warn().Err(err).Int64("ownerId", owner.ID()).Msg("Failed to invalidate version cache")
	}
	return nil
}

// upsert stores course as the owner's current version, inserting the first one if needed
func (s *courseServiceImpl) upsert(ctx context.Context, q db.Querier, ownerID int64, course *models.Course) (int64, error) {
	versionID, ok, err := s.courseRepo.CurrentVersionID(ctx, q, ownerID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return s.courseRepo.InsertNewVersion(ctx, q, ownerID, course)
	}
	return versionID, s.courseRepo.ReplaceVersion(ctx, q, ownerID, versionID, course)
}

// requireVersion returns the current version id or ErrNoCourseVersion
func (s *courseServiceImpl) requireVersion(ctx context.Context, q db.Querier, ownerID int64, action string) (int64, error) {
	versionID, ok, err := s.courseRepo.CurrentVersionID(ctx, q, ownerID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apperrors.NewCustomError(apperrors.ErrNoCourseVersion,
			fmt.Sprintf("Error: Could not %s as course could not be found", action))
	}
	return versionID, nil
}

// SaveCurrent upserts the owner's in-memory course
func (s *courseServiceImpl) SaveCurrent(ctx context.Context, owner *models.Owner) (int64, error) {
	var versionID int64
	err := s.write(ctx, "save", owner, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		versionID, err = s.upsert(ctx, tx, owner.ID(), owner.Course())
		return err
	})
	return versionID, err
}

// ModifyMetadata sets the four header fields and saves the course
func (s *courseServiceImpl) ModifyMetadata(ctx context.Context, owner *models.Owner, meta CourseMetadata) error {
	course := owner.Course().Clone()
	course.SetTitle(meta.Title)
	course.SetDiscipline(meta.Discipline)
	course.SetCode(meta.Code)
	course.SetFaculty(meta.Faculty)

	return s.replaceCourse(ctx, "modify", owner, course)
}

// SetDescription sets the free text description and saves the course
func (s *courseServiceImpl) SetDescription(ctx context.Context, owner *models.Owner, description string) error {
	course := owner.Course().Clone()
	course.SetDescription(description)

	return s.replaceCourse(ctx, "describe", owner, course)
}

// Upload replaces the owner's current course with a decoded course document
func (s *courseServiceImpl) Upload(ctx context.Context, owner *models.Owner, raw []byte) error {
	rec, err := models.ParseCourseRecord(raw)
	if err != nil {
		return apperrors.NewCustomError(err, "Course upload failed. Got malformed JSON file")
	}

	return s.replaceCourse(ctx, "upload", owner, models.NewCourseFromRecord(rec))
}

// replaceCourse saves course as the current version and adopts it in memory once committed
func (s *courseServiceImpl) replaceCourse(ctx context.Context, operation string, owner *models.Owner, course *models.Course) error {
	err := s.write(ctx, operation, owner, func(ctx context.Context, tx *sql.Tx) error {
		_, err := s.upsert(ctx, tx, owner.ID(), course)
		return err
	})
	if err != nil {
		return err
	}
	owner.SetCourse(course)
	return nil
}

// StartNewVersion stores an empty course as a new version and resets the owner's course
func (s *courseServiceImpl) StartNewVersion(ctx context.Context, owner *models.Owner) (int64, error) {
	var versionID int64
	err := s.write(ctx, "new_version", owner, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		versionID, err = s.courseRepo.InsertNewVersion(ctx, tx, owner.ID(), models.NewCourse())
		return err
	})
	if err != nil {
		return 0, err
	}
	owner.Course().Reset()
	return versionID, nil
}

// AddOutcome appends an outcome to the current version
func (s *courseServiceImpl) AddOutcome(ctx context.Context, owner *models.Owner, outcome models.LearningOutcome) error {
	if !outcome.Validate() {
		return apperrors.NewCustomError(apperrors.ErrItemRejected, "Outcome text must not be empty")
	}

	err := s.write(ctx, "add_outcome", owner, func(ctx context.Context, tx *sql.Tx) error {
		versionID, err := s.requireVersion(ctx, tx, owner.ID(), "add clo")
		if err != nil {
			return err
		}
		return s.courseRepo.AddOutcome(ctx, tx, owner.ID(), versionID, outcome)
	})
	if err != nil {
		return err
	}
	owner.Course().AddOutcome(outcome)
	return nil
}

// RemoveOutcome deletes one outcome with matching text from the current version
func (s *courseServiceImpl) RemoveOutcome(ctx context.Context, owner *models.Owner, outcome models.LearningOutcome) (bool, error) {
	var removed bool
	err := s.write(ctx, "remove_outcome", owner, func(ctx context.Context, tx *sql.Tx) error {
		versionID, err := s.requireVersion(ctx, tx, owner.ID(), "remove clo")
		if err != nil {
			return err
		}
		removed, err = s.courseRepo.DeleteOneOutcome(ctx, tx, owner.ID(), versionID, outcome)
		return err
	})
	if err != nil {
		return false, err
	}

	if removed {
		course := owner.Course()
		if pos := course.FindOutcome(outcome.Text); pos != models.NotFound {
			_, _ = course.RemoveOutcome(pos)
		}
	}
	return removed, nil
}

// AddAssessment appends an assessment to the current version
func (s *courseServiceImpl) AddAssessment(ctx context.Context, owner *models.Owner, assessment models.AssessmentItem) error {
	err := s.write(ctx, "add_assessment", owner, func(ctx context.Context, tx *sql.Tx) error {
		versionID, err := s.requireVersion(ctx, tx, owner.ID(), "add assessment")
		if err != nil {
			return err
		}
		return s.courseRepo.AddAssessment(ctx, tx, owner.ID(), versionID, assessment)
	})
	if err != nil {
		return err
	}
	owner.Course().AddAssessment(assessment)
	return nil
}

// RemoveAssessment deletes one assessment with matching (text, weight) from the current version
func (s *courseServiceImpl) RemoveAssessment(ctx context.Context, owner *models.Owner, assessment models.AssessmentItem) (bool, error) {
	var removed bool
	err := s.write(ctx, "remove_assessment", owner, func(ctx context.Context, tx *sql.Tx) error {
		versionID, err := s.requireVersion(ctx, tx, owner.ID(), "remove assessment")
		if err != nil {
			return err
		}
		removed, err = s.courseRepo.DeleteOneAssessment(ctx, tx, owner.ID(), versionID, assessment)
		return err
	})
	if err != nil {
		return false, err
	}

	if removed {
		course := owner.Course()
		if pos := course.FindAssessment(assessment.Text, assessment.Weight); pos != models.NotFound {
			_, _ = course.RemoveAssessment(pos)
		}
	}
	return removed, nil
}

// RemoveOutcomeAt removes the outcome at pos and saves the course
func (s *courseServiceImpl) RemoveOutcomeAt(ctx context.Context, owner *models.Owner, pos int) (models.LearningOutcome, error) {
	course := owner.Course().Clone()
	removed, err := course.RemoveOutcome(pos)
	if err != nil {
		return models.LearningOutcome{}, err
	}
	if err := s.replaceCourse(ctx, "remove_outcome_at", owner, course); err != nil {
		return models.LearningOutcome{}, err
	}
	return removed, nil
}

// RemoveAssessmentAt removes the assessment at pos and saves the course
func (s *courseServiceImpl) RemoveAssessmentAt(ctx context.Context, owner *models.Owner, pos int) (models.AssessmentItem, error) {
	course := owner.Course().Clone()
	removed, err := course.RemoveAssessment(pos)
	if err != nil {
		return models.AssessmentItem{}, err
	}
	if err := s.replaceCourse(ctx, "remove_assessment_at", owner, course); err != nil {
		return models.AssessmentItem{}, err
	}
	return removed, nil
}

// ListVersions returns every stored version, served from cache when possible
func (s *courseServiceImpl) ListVersions(ctx context.Context, owner *models.Owner) ([]dto.CourseVersionResponse, error) {
	key := versionsKey(owner.ID())
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Version cache lookup failed")
	} else if ok {
		var versions []dto.CourseVersionResponse
		if err := json.Unmarshal(cached, &versions); err == nil {
			metrics.ObserveCacheLookup(true)
			return versions, nil
		}
		s.logger.Warn().Str("key", key).Msg("Discarding undecodable version cache entry")
	}
	metrics.ObserveCacheLookup(false)

	stored, err := s.courseRepo.ListVersions(ctx, s.db.DB, owner.ID())
	if err != nil {
		return nil, err
	}

	versions := make([]dto.CourseVersionResponse, 0, len(stored))
	for i, v := range stored {
		versions = append(versions, dto.CourseVersionResponse{
			Index:  i,
			ID:     v.ID,
			Course: v.Course.Record(),
		})
	}

	if encoded, err := json.Marshal(versions); err == nil {
		if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache version list")
		}
	}
	return versions, nil
}

// LoadVersion loads the index-th stored version, oldest first
func (s *courseServiceImpl) LoadVersion(ctx context.Context, owner *models.Owner, index int) (*models.Course, error) {
	course, ok, err := s.courseRepo.LoadVersion(ctx, s.db.DB, owner.ID(), index)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrVersionNotFound,
			fmt.Sprintf("Course version %d could not be found", index))
	}
	return course, nil
}

// LoadVersionByID loads a stored version by its id
func (s *courseServiceImpl) LoadVersionByID(ctx context.Context, owner *models.Owner, versionID int64) (*models.Course, error) {
	course, ok, err := s.courseRepo.LoadVersionByID(ctx, s.db.DB, owner.ID(), versionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrVersionNotFound,
			fmt.Sprintf("Course version with id %d could not be found", versionID))
	}
	return course, nil
}
