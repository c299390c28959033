package dto

import "github.com/yigit/syllabus/internal/app/models"

// CourseVersionResponse is one stored course version. Index is the 0-based
// position among the owner's versions, oldest first; ID is the stable row id.
type CourseVersionResponse struct {
	Index  int                 `json:"index" example:"0"`
	ID     int64               `json:"id" example:"12"`
	Course models.CourseRecord `json:"course"`
}

// CourseVersionsResponse lists every stored version of the owner's course
type CourseVersionsResponse struct {
	Courses []CourseVersionResponse `json:"courses"`
}

// ModifyCourseRequest updates the course metadata
type ModifyCourseRequest struct {
	Title      string `json:"title"`
	Discipline string `json:"discipline"`
	Code       string `json:"code"`
	Faculty    string `json:"faculty"`
}

// TextRequest carries a single text field (description, outcome, feedback, evaluation input)
type TextRequest struct {
	Text string `json:"text" binding:"required"`
}

// OutcomeRequest identifies a learning outcome by its text
type OutcomeRequest struct {
	Text string `json:"text" binding:"required"`
}

// AssessmentRequest identifies an assessment by its (text, weight) pair. The
// text may be empty.
type AssessmentRequest struct {
	Text   string `json:"text"`
	Weight *int   `json:"weight" binding:"required"`
}

// UploadCourseRequest carries a course document as a JSON encoded string
type UploadCourseRequest struct {
	File string `json:"file" binding:"required"`
}

// EvaluateRequest asks for feedback on a candidate outcome text
type EvaluateRequest struct {
	Inputs string `json:"inputs" binding:"required"`
}

// QuestionAnswer is one answer from the course description questionnaire
type QuestionAnswer struct {
	Desc string `json:"desc" binding:"required"`
	Qual string `json:"qual"`
}

// QuestionRequest carries every questionnaire answer
type QuestionRequest struct {
	Answers []QuestionAnswer `json:"answers" binding:"dive"`
}

// OutcomeRatingRequest rates an outcome text
type OutcomeRatingRequest struct {
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"min=0,max=5"`
}

// AssessmentRatingRequest rates an assessment
type AssessmentRatingRequest struct {
	Text   string `json:"text" binding:"required"`
	Weight int    `json:"weight"`
	Rating int    `json:"rating" binding:"min=0,max=5"`
}
