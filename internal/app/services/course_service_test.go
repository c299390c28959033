package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
	"github.com/yigit/syllabus/internal/pkg/cache"
)

// countingStore wraps the memory cache and records invalidations
type countingStore struct {
	*cache.Memory
	mu            sync.Mutex
	invalidations []string
}

func (s *countingStore) Invalidate(ctx context.Context, prefix string) error {
	s.mu.Lock()
	s.invalidations = append(s.invalidations, prefix)
	s.mu.Unlock()
	return s.Memory.Invalidate(ctx, prefix)
}

func newCourseService(env *testEnv, store cache.Store) CourseService {
	return NewCourseService(env.db, env.repos.CourseRepository, store, time.Minute, zerolog.Nop())
}

func TestModifyMetadataInsertsThenReplaces(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newCourseService(env, nil)
	owner := env.newOwner(t, "alice")

	meta := CourseMetadata{Title: "CS101", Discipline: "CS", Code: "C1", Faculty: "Eng"}
	if err := svc.ModifyMetadata(ctx, owner, meta); err != nil {
		t.Fatalf("ModifyMetadata: %v", err)
	}
	meta.Title = "CS101 (revised)"
	if err := svc.ModifyMetadata(ctx, owner, meta); err != nil {
		t.Fatalf("ModifyMetadata: %v", err)
	}

	count, err := env.repos.CourseRepository.CountVersions(ctx, env.db.DB, owner.ID())
	if err != nil {
		t.Fatalf("CountVersions: %v", err)
	}
	if count != 1 {
		t.Fatalf("CountVersions = %d, want 1 (second write replaces)", count)
	}

	fresh := env.reload(t, owner)
	if fresh.Course().Title != "CS101 (revised)" {
		t.Errorf("stored title = %q", fresh.Course().Title)
	}
	if owner.Course().Title != "CS101 (revised)" {
		t.Errorf("in-memory title = %q", owner.Course().Title)
	}
}

func TestItemWritesRequireVersion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newCourseService(env, nil)
	owner := env.newOwner(t, "alice")

	err := svc.AddOutcome(ctx, owner, models.LearningOutcome{Text: "Explain recursion"})
	if !errors.Is(err, apperrors.ErrNoCourseVersion) {
		t.Fatalf("AddOutcome error = %v, want ErrNoCourseVersion", err)
	}
	if got := apperrors.Message(err, ""); got != "Error: Could not add clo as course could not be found" {
		t.Errorf("message = %q", got)
	}

	_, err = svc.RemoveAssessment(ctx, owner, models.AssessmentItem{Text: "Quiz", Weight: 10})
	if !errors.Is(err, apperrors.ErrNoCourseVersion) {
		t.Fatalf("RemoveAssessment error = %v, want ErrNoCourseVersion", err)
	}
	if len(owner.Course().Outcomes) != 0 {
		t.Errorf("in-memory course changed after a rejected write")
	}
}

func TestAddAndRemoveItemsByContent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newCourseService(env, nil)
	owner := env.newOwner(t, "alice")

	if _, err := svc.SaveCurrent(ctx, owner); err != nil {
		t.Fatalf("SaveCurrent: %v", err)
	}

	quiz := models.AssessmentItem{Text: "Quiz", Weight: 10}
	for i := 0; i < 2; i++ {
		if err := svc.AddAssessment(ctx, owner, quiz); err != nil {
			t.Fatalf("AddAssessment: %v", err)
		}
	}
	if err := svc.AddOutcome(ctx, owner, models.LearningOutcome{Text: "Explain recursion"}); err != nil {
		t.Fatalf("AddOutcome: %v", err)
	}

	removed, err := svc.RemoveAssessment(ctx, owner, quiz)
	if err != nil || !removed {
		t.Fatalf("RemoveAssessment = %v, %v", removed, err)
	}

	fresh := env.reload(t, owner)
	if len(fresh.Course().Assessments) != 1 {
		t.Errorf("stored assessments = %+v, want one Quiz left", fresh.Course().Assessments)
	}
	if len(owner.Course().Assessments) != 1 || len(owner.Course().Outcomes) != 1 {
		t.Errorf("in-memory course = %s, want mirror of storage", owner.Course())
	}

	removed, err = svc.RemoveOutcome(ctx, owner, models.LearningOutcome{Text: "missing"})
	if err != nil || removed {
		t.Errorf("RemoveOutcome(missing) = %v, %v", removed, err)
	}
}

func TestAddRejectsInvalidItems(t *testing.T) {
	env := newTestEnv(t)
	svc := newCourseService(env, nil)
	owner := env.newOwner(t, "alice")

	err := svc.AddOutcome(context.Background(), owner, models.LearningOutcome{})
	if !errors.Is(err, apperrors.ErrItemRejected) {
		t.Fatalf("AddOutcome error = %v, want ErrItemRejected", err)
	}
}

func TestUpload(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newCourseService(env, nil)
	owner := env.newOwner(t, "alice")

	raw := []byte(`{"title":"CS101","discipline":"CS","code":"C1","faculty":"Eng","description":"Intro",
		"outcomes":[{"text":"Explain recursion"}],"assessments":[{"text":"Final","weight":60}]}`)
	if err := svc.Upload(ctx, owner, raw); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	fresh := env.reload(t, owner)
	if fresh.Course().Description != "Intro" || len(fresh.Course().Assessments) != 1 {
		t.Errorf("stored course = %s", fresh.Course())
	}

	err := svc.Upload(ctx, owner, []byte(`{"title": 5}`))
	if !errors.Is(err, apperrors.ErrMalformedCourse) {
		t.Fatalf("Upload malformed error = %v, want ErrMalformedCourse", err)
	}
	if got := apperrors.Message(err, ""); got != "Course upload failed. Got malformed JSON file" {
		t.Errorf("message = %q", got)
	}
	if owner.Course().Title != "CS101" {
		t.Errorf("malformed upload changed the course: %s", owner.Course())
	}
}

func TestEmptyTextAssessmentSurvivesStorage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newCourseService(env, nil)
	owner := env.newOwner(t, "alice")

	raw := []byte(`{"title":"CS101","outcomes":[],"assessments":[{"text":"Final","weight":60},{"text":"","weight":20}]}`)
	if err := svc.Upload(ctx, owner, raw); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := svc.AddAssessment(ctx, owner, models.AssessmentItem{Weight: 5}); err != nil {
		t.Fatalf("AddAssessment(empty text): %v", err)
	}

	fresh := env.reload(t, owner)
	want := []models.AssessmentItem{{Text: "Final", Weight: 60}, {Weight: 20}, {Weight: 5}}
	got := fresh.Course().Assessments
	if len(got) != len(want) {
		t.Fatalf("stored assessments = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("assessment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStartNewVersionAndLoad(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newCourseService(env, nil)
	owner := env.newOwner(t, "alice")

	if err := svc.SetDescription(ctx, owner, "first"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	id, err := svc.StartNewVersion(ctx, owner)
	if err != nil {
		t.Fatalf("StartNewVersion: %v", err)
	}
	if owner.Course().Description != "" {
		t.Errorf("in-memory course not reset: %s", owner.Course())
	}

	first, err := svc.LoadVersion(ctx, owner, 0)
	if err != nil {
		t.Fatalf("LoadVersion(0): %v", err)
	}
	if first.Description != "first" {
		t.Errorf("version 0 description = %q", first.Description)
	}

	second, err := svc.LoadVersionByID(ctx, owner, id)
	if err != nil {
		t.Fatalf("LoadVersionByID: %v", err)
	}
	if second.Description != "" {
		t.Errorf("new version description = %q, want empty", second.Description)
	}

	if _, err := svc.LoadVersion(ctx, owner, 2); !errors.Is(err, apperrors.ErrVersionNotFound) {
		t.Errorf("LoadVersion(2) error = %v, want ErrVersionNotFound", err)
	}
}

func TestRemoveAtPositionPersistsWholeCourse(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newCourseService(env, nil)
	owner := env.newOwner(t, "alice")

	owner.Course().AddOutcome(models.LearningOutcome{Text: "a"})
	owner.Course().AddOutcome(models.LearningOutcome{Text: "b"})
	if _, err := svc.SaveCurrent(ctx, owner); err != nil {
		t.Fatalf("SaveCurrent: %v", err)
	}

	removed, err := svc.RemoveOutcomeAt(ctx, owner, 0)
	if err != nil {
		t.Fatalf("RemoveOutcomeAt: %v", err)
	}
	if removed.Text != "a" {
		t.Errorf("removed = %+v", removed)
	}
	fresh := env.reload(t, owner)
	if len(fresh.Course().Outcomes) != 1 || fresh.Course().Outcomes[0].Text != "b" {
		t.Errorf("stored outcomes = %+v", fresh.Course().Outcomes)
	}

	if _, err := svc.RemoveAssessmentAt(ctx, owner, 0); !errors.Is(err, apperrors.ErrPositionOutOfRange) {
		t.Errorf("RemoveAssessmentAt on empty list error = %v", err)
	}
}

func TestSearchPublishesMatchingSubset(t *testing.T) {
	env := newTestEnv(t)
	svc := newCourseService(env, nil)
	owner := env.newOwner(t, "alice")

	c := owner.Course()
	c.Title = "CS101"
	c.AddOutcome(models.LearningOutcome{Text: "Quiz"})
	c.AddOutcome(models.LearningOutcome{Text: "Other"})
	c.AddAssessment(models.AssessmentItem{Text: "Quiz", Weight: 10})
	c.AddAssessment(models.AssessmentItem{Text: "Quiz", Weight: 20})

	rec := svc.Search(context.Background(), owner, "Quiz")
	if rec.Title != "CS101" || len(rec.Outcomes) != 1 || len(rec.Assessments) != 2 {
		t.Errorf("Search = %+v", rec)
	}
	if full := svc.Current(context.Background(), owner); len(full.Outcomes) != 2 {
		t.Errorf("Current outcomes = %d, want 2", len(full.Outcomes))
	}
}

func TestListVersionsCachedAndInvalidated(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	store := &countingStore{Memory: cache.NewMemory()}
	svc := newCourseService(env, store)
	owner := env.newOwner(t, "alice")

	if _, err := svc.SaveCurrent(ctx, owner); err != nil {
		t.Fatalf("SaveCurrent: %v", err)
	}
	versions, err := svc.ListVersions(ctx, owner)
	if err != nil || len(versions) != 1 {
		t.Fatalf("ListVersions = %d, %v", len(versions), err)
	}
	if _, ok, _ := store.Get(ctx, versionsKey(owner.ID())); !ok {
		t.Fatal("version list was not cached")
	}

	if _, err := svc.StartNewVersion(ctx, owner); err != nil {
		t.Fatalf("StartNewVersion: %v", err)
	}
	if _, ok, _ := store.Get(ctx, versionsKey(owner.ID())); ok {
		t.Fatal("write did not invalidate the cached list")
	}

	versions, err = svc.ListVersions(ctx, owner)
	if err != nil || len(versions) != 2 {
		t.Fatalf("ListVersions after write = %d, %v", len(versions), err)
	}
	if versions[1].Index != 1 || versions[0].ID >= versions[1].ID {
		t.Errorf("versions = %+v", versions)
	}
	if len(store.invalidations) != 2 {
		t.Errorf("invalidations = %v, want one per write", store.invalidations)
	}
}
