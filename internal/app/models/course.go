package models

import (
	"fmt"

	"github.com/yigit/syllabus/internal/pkg/apperrors"
)

// NotFound is the position returned by the Find* lookups when nothing matches.
const NotFound = -1

// LearningOutcome is a single course learning outcome statement.
// Two outcomes are the same outcome iff their text is equal.
type LearningOutcome struct {
	Text string `json:"text" example:"Understand recursion"`
}

// Validate reports whether the outcome can be added to a course.
func (o LearningOutcome) Validate() bool {
	return o.Text != ""
}

// Matches compares the outcome against a candidate text.
func (o LearningOutcome) Matches(text string) bool {
	return o.Text == text
}

// AssessmentItem is a weighted assessment. Identity is the (text, weight) pair.
// No bound is enforced on the weight.
type AssessmentItem struct {
	Text   string `json:"text" example:"Midterm"`
	Weight int    `json:"weight" example:"30"`
}

// Validate reports whether the assessment can be added to a course. The field
// types already carry the whole shape rule, so any value is accepted,
// including empty text.
func (AssessmentItem) Validate() bool {
	return true
}

// Matches compares the assessment against a candidate (text, weight) pair.
func (a AssessmentItem) Matches(text string, weight int) bool {
	return a.Text == text && a.Weight == weight
}

// MatchesText compares only the text of the assessment.
func (a AssessmentItem) MatchesText(text string) bool {
	return a.Text == text
}

// Course is the course aggregate: scalar metadata plus two ordered child collections.
// Duplicate children are allowed; Add* only validates shape.
type Course struct {
	Title       string
	Discipline  string
	Code        string
	Faculty     string
	Description string

	Outcomes    []LearningOutcome
	Assessments []AssessmentItem
}

// NewCourse returns an empty course aggregate.
func NewCourse() *Course {
	return &Course{
		Outcomes:    []LearningOutcome{},
		Assessments: []AssessmentItem{},
	}
}

func (c *Course) String() string {
	return fmt.Sprintf("<Course title=%q discipline=%q code=%q faculty=%q outcomes=%d assessments=%d>",
		c.Title, c.Discipline, c.Code, c.Faculty, len(c.Outcomes), len(c.Assessments))
}

// SetTitle sets the course title.
func (c *Course) SetTitle(title string) { c.Title = title }

// GetTitle returns the course title.
func (c *Course) GetTitle() string { return c.Title }

// SetDiscipline sets the course discipline.
func (c *Course) SetDiscipline(discipline string) { c.Discipline = discipline }

// GetDiscipline returns the course discipline.
func (c *Course) GetDiscipline() string { return c.Discipline }

// SetCode sets the course code.
func (c *Course) SetCode(code string) { c.Code = code }

// GetCode returns the course code.
func (c *Course) GetCode() string { return c.Code }

// SetFaculty sets the faculty the course belongs to.
func (c *Course) SetFaculty(faculty string) { c.Faculty = faculty }

// GetFaculty returns the faculty the course belongs to.
func (c *Course) GetFaculty() string { return c.Faculty }

// SetDescription sets the free text course description.
func (c *Course) SetDescription(description string) { c.Description = description }

// GetDescription returns the free text course description.
func (c *Course) GetDescription() string { return c.Description }

// AddOutcome appends the outcome if it validates and reports whether it was added.
func (c *Course) AddOutcome(o LearningOutcome) bool {
	if !o.Validate() {
		return false
	}
	c.Outcomes = append(c.Outcomes, o)
	return true
}

// OutcomeAt returns the outcome at the given list position.
func (c *Course) OutcomeAt(pos int) (LearningOutcome, error) {
	if pos < 0 || pos >= len(c.Outcomes) {
		return LearningOutcome{}, fmt.Errorf("outcome %d: %w", pos, apperrors.ErrPositionOutOfRange)
	}
	return c.Outcomes[pos], nil
}

// RemoveOutcome removes the outcome at the given list position and returns it.
func (c *Course) RemoveOutcome(pos int) (LearningOutcome, error) {
	o, err := c.OutcomeAt(pos)
	if err != nil {
		return LearningOutcome{}, err
	}
	c.Outcomes = append(c.Outcomes[:pos], c.Outcomes[pos+1:]...)
	return o, nil
}

// FindOutcome returns the position of the first outcome matching text, or NotFound.
func (c *Course) FindOutcome(text string) int {
	for i, o := range c.Outcomes {
		if o.Matches(text) {
			return i
		}
	}
	return NotFound
}

// FindOutcomes returns every outcome matching text.
func (c *Course) FindOutcomes(text string) []LearningOutcome {
	matching := []LearningOutcome{}
	for _, o := range c.Outcomes {
		if o.Matches(text) {
			matching = append(matching, o)
		}
	}
	return matching
}

// AddAssessment appends the assessment if it validates and reports whether it was added.
func (c *Course) AddAssessment(a AssessmentItem) bool {
	if !a.Validate() {
		return false
	}
	c.Assessments = append(c.Assessments, a)
	return true
}

// AssessmentAt returns the assessment at the given list position.
func (c *Course) AssessmentAt(pos int) (AssessmentItem, error) {
	if pos < 0 || pos >= len(c.Assessments) {
		return AssessmentItem{}, fmt.Errorf("assessment %d: %w", pos, apperrors.ErrPositionOutOfRange)
	}
	return c.Assessments[pos], nil
}

// RemoveAssessment removes the assessment at the given list position and returns it.
func (c *Course) RemoveAssessment(pos int) (AssessmentItem, error) {
	a, err := c.AssessmentAt(pos)
	if err != nil {
		return AssessmentItem{}, err
	}
	c.Assessments = append(c.Assessments[:pos], c.Assessments[pos+1:]...)
	return a, nil
}

// FindAssessment returns the position of the first assessment matching (text, weight), or NotFound.
func (c *Course) FindAssessment(text string, weight int) int {
	for i, a := range c.Assessments {
		if a.Matches(text, weight) {
			return i
		}
	}
	return NotFound
}

// FindAssessments returns every assessment whose text matches, regardless of weight.
func (c *Course) FindAssessments(text string) []AssessmentItem {
	matching := []AssessmentItem{}
	for _, a := range c.Assessments {
		if a.MatchesText(text) {
			matching = append(matching, a)
		}
	}
	return matching
}

// ReplaceOutcomes overwrites the outcome collection, keeping only valid items.
func (c *Course) ReplaceOutcomes(outcomes []LearningOutcome) {
	c.Outcomes = []LearningOutcome{}
	for _, o := range outcomes {
		c.AddOutcome(o)
	}
}

// ReplaceAssessments overwrites the assessment collection, keeping only valid items.
func (c *Course) ReplaceAssessments(assessments []AssessmentItem) {
	c.Assessments = []AssessmentItem{}
	for _, a := range assessments {
		c.AddAssessment(a)
	}
}

// Reset clears the metadata and both collections.
func (c *Course) Reset() {
	*c = *NewCourse()
}

// Clone returns a deep copy of the aggregate.
func (c *Course) Clone() *Course {
	cp := *c
	cp.Outcomes = append([]LearningOutcome{}, c.Outcomes...)
	cp.Assessments = append([]AssessmentItem{}, c.Assessments...)
	return &cp
}

// Version is one stored snapshot of a course for an owner.
type Version struct {
	ID     int64   `json:"id"`
	Course *Course `json:"-"`
}
