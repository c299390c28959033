package models

import "time"

// OutcomeRating is a user rating of a generated learning outcome text.
type OutcomeRating struct {
	UserID    int64     `json:"userId" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// AssessmentRating is a user rating of an assessment suggestion.
type AssessmentRating struct {
	UserID    int64     `json:"userId" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	Weight    int       `json:"weight" db:"weight"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// FeedbackMessage is free text feedback about the application. UserID is nil
// for anonymous submissions.
type FeedbackMessage struct {
	UserID    *int64    `json:"userId,omitempty" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
