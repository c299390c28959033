package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
	"github.com/yigit/syllabus/internal/pkg/evaluator"
)

// fakeEvaluator records its inputs
type fakeEvaluator struct {
	text, description string
	err               error
}

func (f *fakeEvaluator) Name() string { return "fake" }

func (f *fakeEvaluator) Evaluate(_ context.Context, text, description string) (string, error) {
	f.text, f.description = text, description
	if f.err != nil {
		return "", f.err
	}
	return "feedback", nil
}

func TestEvaluatePassesDescriptionUnchanged(t *testing.T) {
	fake := &fakeEvaluator{}
	svc := NewEvaluationService(fake, zerolog.Nop())
	owner := models.NewOwner(1, "alice", "")
	owner.Course().SetDescription("  A course, verbatim.  ")

	got, err := svc.Evaluate(context.Background(), owner, "Explain recursion")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "feedback" {
		t.Errorf("result = %q", got)
	}
	if fake.text != "Explain recursion" || fake.description != "  A course, verbatim.  " {
		t.Errorf("evaluator got (%q, %q)", fake.text, fake.description)
	}
}

func TestEvaluateUnavailable(t *testing.T) {
	svc := NewEvaluationService(&fakeEvaluator{err: evaluator.ErrUnavailable}, zerolog.Nop())
	_, err := svc.Evaluate(context.Background(), models.NewOwner(1, "alice", ""), "x")
	if !errors.Is(err, apperrors.ErrEvaluatorUnavailable) {
		t.Fatalf("error = %v, want ErrEvaluatorUnavailable", err)
	}
}

func TestQualification(t *testing.T) {
	tests := map[string]string{
		"Evaluate":   "Judge it.",
		"Synthesise": "integrate it.",
		"Analyse":    "investigate it.",
		"Apply":      "practice it",
		"Comprehend": "fathom it.",
		"":           "evoke it.",
		"Remember":   "evoke it.",
	}
	for level, want := range tests {
		if got := Qualification(level); got != want {
			t.Errorf("Qualification(%q) = %q, want %q", level, got, want)
		}
	}
}

func TestDescribeFromAnswers(t *testing.T) {
	svc := NewEvaluationService(evaluator.Rules{}, zerolog.Nop())
	owner := models.NewOwner(1, "alice", "")
	c := owner.Course()
	c.SetTitle("CS101")
	c.SetFaculty("Eng")
	c.SetDiscipline("CS")
	c.SetDescription("Basics")

	got := svc.DescribeFromAnswers(owner, []Answer{
		{Desc: "recursion", Qual: "Apply"},
		{Desc: "graphs"},
	})
	want := "The course CS101 belonging to the Eng faculty intends to teach in CS field. Basics.Upon students will learn:\n" +
		"recursion to practice it\n" +
		"graphs to evoke it.\n"
	if got != want {
		t.Errorf("DescribeFromAnswers =\n%q\nwant\n%q", got, want)
	}
}
