package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yigit/syllabus/internal/pkg/apperrors"
)

// OutcomeRecord is the published form of a learning outcome.
type OutcomeRecord struct {
	Text string `json:"text" example:"Understand recursion"`
}

// AssessmentRecord is the published form of an assessment.
type AssessmentRecord struct {
	Text   string `json:"text" example:"Midterm"`
	Weight int    `json:"weight" example:"30"`
}

// CourseRecord is the plain structured form of a course aggregate.
type CourseRecord struct {
	Title       string             `json:"title" example:"CS101"`
	Discipline  string             `json:"discipline" example:"Computer Science"`
	Code        string             `json:"code" example:"COMP1010"`
	Faculty     string             `json:"faculty" example:"Engineering"`
	Description string             `json:"description"`
	Outcomes    []OutcomeRecord    `json:"outcomes"`
	Assessments []AssessmentRecord `json:"assessments"`
}

// Serialize builds a record from the course metadata and the given collections.
// A nil collection falls back to the aggregate's own, so a filtered subset
// (e.g. search results) is published through the same encoder as a full course.
func (c *Course) Serialize(outcomes []LearningOutcome, assessments []AssessmentItem) CourseRecord {
	if outcomes == nil {
		outcomes = c.Outcomes
	}
	if assessments == nil {
		assessments = c.Assessments
	}

	rec := CourseRecord{
		Title:       c.Title,
		Discipline:  c.Discipline,
		Code:        c.Code,
		Faculty:     c.Faculty,
		Description: c.Description,
		Outcomes:    make([]OutcomeRecord, 0, len(outcomes)),
		Assessments: make([]AssessmentRecord, 0, len(assessments)),
	}
	for _, o := range outcomes {
		rec.Outcomes = append(rec.Outcomes, OutcomeRecord{Text: o.Text})
	}
	for _, a := range assessments {
		rec.Assessments = append(rec.Assessments, AssessmentRecord{Text: a.Text, Weight: a.Weight})
	}
	return rec
}

// Record publishes the whole course.
func (c *Course) Record() CourseRecord {
	return c.Serialize(nil, nil)
}

// EmptyRecord is the record of a freshly constructed course.
func EmptyRecord() CourseRecord {
	return NewCourse().Record()
}

// NewCourseFromRecord rebuilds an aggregate from a record. Children that fail
// validation are dropped the same way Add* drops them.
func NewCourseFromRecord(rec CourseRecord) *Course {
	c := NewCourse()
	c.Title = rec.Title
	c.Discipline = rec.Discipline
	c.Code = rec.Code
	c.Faculty = rec.Faculty
	c.Description = rec.Description
	for _, o := range rec.Outcomes {
		c.AddOutcome(LearningOutcome{Text: o.Text})
	}
	for _, a := range rec.Assessments {
		c.AddAssessment(AssessmentItem{Text: a.Text, Weight: a.Weight})
	}
	return c
}

// ParseCourseRecord strictly decodes a JSON course payload.
// Unknown fields and non-integer weights are rejected.
func ParseCourseRecord(data []byte) (CourseRecord, error) {
	var rec CourseRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return CourseRecord{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedCourse, err)
	}
	if dec.More() {
		return CourseRecord{}, fmt.Errorf("%w: trailing data after course object", apperrors.ErrMalformedCourse)
	}
	return rec, nil
}
