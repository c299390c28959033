package repositories

import (
	"github.com/yigit/syllabus/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository     *UserRepository
	CourseRepository   *CourseRepository
	FeedbackRepository *FeedbackRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.Database) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(database),
		CourseRepository:   NewCourseRepository(database),
		FeedbackRepository: NewFeedbackRepository(database),
	}
}
