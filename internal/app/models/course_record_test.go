package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/yigit/syllabus/internal/pkg/apperrors"
)

func TestRecordRoundTripKeepsOrder(t *testing.T) {
	c := sampleCourse()
	c.SetFaculty("Engineering")

	rebuilt := NewCourseFromRecord(c.Record())
	if rebuilt.GetFaculty() != "Engineering" || rebuilt.GetCode() != "COMP 1010" {
		t.Errorf("metadata lost: %v", rebuilt)
	}
	if len(rebuilt.Outcomes) != 3 || rebuilt.Assessments[2] != (AssessmentItem{Text: "Midterm", Weight: 20}) {
		t.Errorf("children lost or reordered: %v %v", rebuilt.Outcomes, rebuilt.Assessments)
	}
}

func TestSerializeSubset(t *testing.T) {
	c := sampleCourse()
	rec := c.Serialize([]LearningOutcome{}, c.FindAssessments("Final"))

	if len(rec.Outcomes) != 0 {
		t.Errorf("expected no outcomes, got %v", rec.Outcomes)
	}
	if len(rec.Assessments) != 1 || rec.Assessments[0].Weight != 50 {
		t.Errorf("unexpected assessments %v", rec.Assessments)
	}
	if rec.Title != "CS101" {
		t.Errorf("metadata must come from the aggregate, got %q", rec.Title)
	}
}

func TestEmptyRecordEncodesEmptyLists(t *testing.T) {
	data, err := json.Marshal(EmptyRecord())
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"outcomes":[]`) || !strings.Contains(s, `"assessments":[]`) {
		t.Errorf("empty collections should encode as [] but got %s", s)
	}
}

func TestParseCourseRecord(t *testing.T) {
	rec, err := ParseCourseRecord([]byte(`{"title":"CS101","outcomes":[{"text":"A"},{"text":""}],"assessments":[{"text":"Final","weight":60},{"text":"","weight":20}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := NewCourseFromRecord(rec)
	if len(c.Outcomes) != 1 {
		t.Errorf("invalid outcome should be dropped, got %v", c.Outcomes)
	}
	if len(c.Assessments) != 2 || c.Assessments[0].Weight != 60 {
		t.Fatalf("assessments = %v", c.Assessments)
	}
	if c.Assessments[1] != (AssessmentItem{Weight: 20}) {
		t.Errorf("empty-text assessment = %v", c.Assessments[1])
	}
}

func TestParseCourseRecordRejectsMalformed(t *testing.T) {
	inputs := map[string]string{
		"not json":      `course`,
		"unknown field": `{"title":"x","credits":3}`,
		"float weight":  `{"assessments":[{"text":"Final","weight":1.5}]}`,
		"string weight": `{"assessments":[{"text":"Final","weight":"50"}]}`,
		"trailing data": `{"title":"x"} {"title":"y"}`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseCourseRecord([]byte(in)); !errors.Is(err, apperrors.ErrMalformedCourse) {
				t.Errorf("err = %v, want ErrMalformedCourse", err)
			}
		})
	}
}
