package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models/dto"
	"github.com/yigit/syllabus/internal/app/services"
	"github.com/yigit/syllabus/internal/middleware"
)

// FeedbackController records ratings and free-form feedback
type FeedbackController struct {
	feedbackService *services.FeedbackService
	logger          zerolog.Logger
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService *services.FeedbackService, logger zerolog.Logger) *FeedbackController {
	return &FeedbackController{
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// RateOutcome stores a rating for an outcome text
// @Summary Rate an outcome
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body dto.OutcomeRatingRequest true "Rating"
// @Success 200 {object} dto.APIResponse
// @Router /ratings/outcomes [post]
func (c *FeedbackController) RateOutcome(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	var req dto.OutcomeRatingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.feedbackService.RateOutcome(ctx.Request.Context(), owner.ID(), req.Text, req.Rating); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, nil))
}

// RateAssessment stores a rating for an assessment
// @Summary Rate an assessment
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body dto.AssessmentRatingRequest true "Rating"
// @Success 200 {object} dto.APIResponse
// @Router /ratings/assessments [post]
func (c *FeedbackController) RateAssessment(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	var req dto.AssessmentRatingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.feedbackService.RateAssessment(ctx.Request.Context(), owner.ID(), req.Text, req.Weight, req.Rating); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, nil))
}

// SendMessage stores a feedback message, attributed to the owner when logged in
// @Summary Send feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body dto.TextRequest true "Message"
// @Success 200 {object} dto.APIResponse
// @Router /feedback [post]
func (c *FeedbackController) SendMessage(ctx *gin.Context) {
	var req dto.TextRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	var ownerID *int64
	if owner, ok := middleware.OwnerFrom(ctx); ok {
		id := owner.ID()
		ownerID = &id
	}
	if err := c.feedbackService.SubmitMessage(ctx.Request.Context(), ownerID, req.Text); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, nil))
}
