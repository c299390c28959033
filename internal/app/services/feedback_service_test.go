package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
)

func TestFeedbackService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewFeedbackService(env.db, env.repos.FeedbackRepository, zerolog.Nop())
	owner := env.newOwner(t, "alice")

	if err := svc.RateOutcome(ctx, owner.ID(), "Explain recursion", 5); err != nil {
		t.Fatalf("RateOutcome: %v", err)
	}
	if err := svc.RateAssessment(ctx, owner.ID(), "Quiz", 10, 3); err != nil {
		t.Fatalf("RateAssessment: %v", err)
	}
	id := owner.ID()
	if err := svc.SubmitMessage(ctx, &id, "great"); err != nil {
		t.Fatalf("SubmitMessage: %v", err)
	}
	if err := svc.SubmitMessage(ctx, nil, "anonymous"); err != nil {
		t.Fatalf("SubmitMessage anonymous: %v", err)
	}
	if err := svc.SubmitMessage(ctx, nil, ""); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("empty message error = %v", err)
	}

	messages, err := env.repos.FeedbackRepository.ListMessages(ctx, env.db.DB)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("stored %d messages, want 2", len(messages))
	}
}
