package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/syllabus/internal/app/models"
	appRepos "github.com/yigit/syllabus/internal/app/repositories"
	"github.com/yigit/syllabus/internal/db"
	"github.com/yigit/syllabus/internal/pkg/auth"
)

// DemoCourse is the course stored for a freshly seeded demo account
func DemoCourse() *appModels.Course {
	course := appModels.NewCourse()
	course.SetTitle("Introduction to Programming")
	course.SetFaculty("Engineering Faculty")
	course.SetDiscipline("Computer Science")
	course.SetCode("COMP 1010")
	course.SetDescription("Fundamentals of structured programming")
	course.AddOutcome(appModels.LearningOutcome{Text: "Write programs that use loops and conditionals"})
	course.AddOutcome(appModels.LearningOutcome{Text: "Explain how recursion solves a problem"})
	course.AddAssessment(appModels.AssessmentItem{Text: "Weekly labs", Weight: 30})
	course.AddAssessment(appModels.AssessmentItem{Text: "Midterm exam", Weight: 30})
	course.AddAssessment(appModels.AssessmentItem{Text: "Final exam", Weight: 40})
	return course
}

// CreateDefaultData creates the demo account with one stored course version.
// It does nothing when no demo username is configured or the user already exists.
func CreateDefaultData(ctx context.Context, database *db.Database, repos *appRepos.Repositories, username, password string, lgr zerolog.Logger) error {
	if username == "" {
		return nil
	}

	exists, err := repos.UserRepository.UsernameExists(ctx, database.DB, username)
	if err != nil {
		return fmt.Errorf("failed to check demo user: %w", err)
	}
	if exists {
		lgr.Debug().Str("username", username).Msg("Demo user already exists")
		return nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	lgr.Info().Str("username", username).Msg("Creating demo user and course...")
	return database.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		userID, err := repos.UserRepository.Create(ctx, tx, &appModels.User{Username: username, Password: hashed})
		if err != nil {
			return err
		}
		_, err = repos.CourseRepository.InsertNewVersion(ctx, tx, userID, DemoCourse())
		return err
	})
}
