package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
	"github.com/yigit/syllabus/internal/pkg/evaluator"
	"github.com/yigit/syllabus/internal/pkg/metrics"
)

// Answer is one questionnaire answer: what students learn and at which level
type Answer struct {
	Desc string
	Qual string
}

// qualifications maps a questionnaire level to the phrase closing its sentence
var qualifications = map[string]string{
	"Evaluate":   "Judge it.",
	"Synthesise": "integrate it.",
	"Analyse":    "investigate it.",
	"Apply":      "practice it",
	"Comprehend": "fathom it.",
}

// Qualification returns the closing phrase for a questionnaire level
func Qualification(level string) string {
	if q, ok := qualifications[level]; ok {
		return q
	}
	return "evoke it."
}

// EvaluationService gives feedback on outcome texts and drafts course descriptions
type EvaluationService struct {
	evaluator evaluator.Evaluator
	logger    zerolog.Logger
}

// NewEvaluationService creates a new EvaluationService
func NewEvaluationService(e evaluator.Evaluator, logger zerolog.Logger) *EvaluationService {
	return &EvaluationService{
		evaluator: e,
		logger:    logger,
	}
}

// Evaluate passes text and the owner's course description to the evaluator
func (s *EvaluationService) Evaluate(ctx context.Context, owner *models.Owner, text string) (string, error) {
	start := time.Now()
	result, err := s.evaluator.Evaluate(ctx, text, owner.Course().GetDescription())
	metrics.ObserveEvaluation(s.evaluator.Name(), err, time.Since(start))
	if err != nil {
		s.logger.Error().Err(err).Str("evaluator", s.evaluator.Name()).Msg("Evaluation failed")
		if errors.Is(err, evaluator.ErrUnavailable) {
			return "", apperrors.NewCustomError(apperrors.ErrEvaluatorUnavailable, "Evaluation service is unavailable, please try again later")
		}
		return "", err
	}
	return result, nil
}

// DescribeFromAnswers drafts a course description from the course header and the answers
func (s *EvaluationService) DescribeFromAnswers(owner *models.Owner, answers []Answer) string {
	course := owner.Course()

	var b strings.Builder
	fmt.Fprintf(&b, "The course %s belonging to the ", course.GetTitle())
	fmt.Fprintf(&b, "%s faculty intends to teach in ", course.GetFaculty())
	fmt.Fprintf(&b, "%s field. %s.Upon", course.GetDiscipline(), course.GetDescription())
	b.WriteString(" students will learn:\n")
	for _, a := range answers {
		fmt.Fprintf(&b, "%s to %s\n", a.Desc, Qualification(a.Qual))
	}
	return b.String()
}
