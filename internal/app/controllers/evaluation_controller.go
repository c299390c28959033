package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models/dto"
	"github.com/yigit/syllabus/internal/app/services"
	"github.com/yigit/syllabus/internal/middleware"
)

// EvaluationController gives feedback on outcomes and drafts course descriptions
type EvaluationController struct {
	evaluationService *services.EvaluationService
	logger            zerolog.Logger
}

// NewEvaluationController creates a new EvaluationController
func NewEvaluationController(evaluationService *services.EvaluationService, logger zerolog.Logger) *EvaluationController {
	return &EvaluationController{
		evaluationService: evaluationService,
		logger:            logger,
	}
}

// Evaluate asks the evaluator for feedback on a candidate outcome
// @Summary Evaluate an outcome text
// @Tags evaluation
// @Accept json
// @Produce json
// @Param request body dto.EvaluateRequest true "Outcome text"
// @Success 200 {object} dto.APIResponse
// @Failure 503 {object} dto.ErrorResponse "Evaluator unavailable"
// @Router /evaluate [post]
func (c *EvaluationController) Evaluate(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	var req dto.EvaluateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.evaluationService.Evaluate(ctx.Request.Context(), owner, req.Inputs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, result))
}

// Question drafts a course description from the questionnaire answers
// @Summary Draft a description from questionnaire answers
// @Tags evaluation
// @Accept json
// @Produce json
// @Param request body dto.QuestionRequest true "Answers"
// @Success 200 {object} dto.APIResponse
// @Router /question [post]
func (c *EvaluationController) Question(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	var req dto.QuestionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	answers := make([]services.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, services.Answer{Desc: a.Desc, Qual: a.Qual})
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, c.evaluationService.DescribeFromAnswers(owner, answers)))
}
