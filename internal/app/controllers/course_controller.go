package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/app/models/dto"
	"github.com/yigit/syllabus/internal/app/services"
	"github.com/yigit/syllabus/internal/middleware"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
)

// CourseController handles the owner's course and its stored versions
type CourseController struct {
	courseService services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// intParam parses a path parameter, writing a 400 when it is not an integer
func intParam(ctx *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(name+" must be an integer"))
		return 0, false
	}
	return value, true
}

// Current returns the course being edited
// @Summary Current course
// @Tags course
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=models.CourseRecord}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /course [get]
func (c *CourseController) Current(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	record := c.courseService.Current(ctx.Request.Context(), owner)
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(record, "Course retrieved successfully"))
}

// Search returns the course with only the outcomes and assessments matching text
// @Summary Search the current course
// @Tags course
// @Produce json
// @Param text query string false "Exact outcome or assessment text"
// @Success 200 {object} dto.StructuredResponse{data=models.CourseRecord}
// @Router /course/search [get]
func (c *CourseController) Search(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	record := c.courseService.Search(ctx.Request.Context(), owner, ctx.Query("text"))
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(record, "Search completed"))
}

// Modify updates the course metadata
// @Summary Modify course metadata
// @Tags course
// @Accept json
// @Produce json
// @Param request body dto.ModifyCourseRequest true "Course header"
// @Success 200 {object} dto.APIResponse
// @Router /course/modify [post]
func (c *CourseController) Modify(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	var req dto.ModifyCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	meta := services.CourseMetadata{
		Title:      req.Title,
		Discipline: req.Discipline,
		Code:       req.Code,
		Faculty:    req.Faculty,
	}
	if err := c.courseService.ModifyMetadata(ctx.Request.Context(), owner, meta); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, c.courseService.Current(ctx.Request.Context(), owner)))
}

// SetDescription replaces the course description
// @Summary Set course description
// @Tags course
// @Accept json
// @Produce json
// @Param request body dto.TextRequest true "Description"
// @Success 200 {object} dto.APIResponse
// @Router /course/description [post]
func (c *CourseController) SetDescription(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	var req dto.TextRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.courseService.SetDescription(ctx.Request.Context(), owner, req.Text); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, req.Text))
}

// Upload replaces the course with an uploaded course document
// @Summary Upload a course document
// @Tags course
// @Accept json
// @Produce json
// @Param request body dto.UploadCourseRequest true "JSON encoded course document"
// @Success 200 {object} dto.APIResponse{result=models.CourseRecord}
// @Failure 400 {object} dto.ErrorResponse "Malformed course document"
// @Router /course/upload [post]
func (c *CourseController) Upload(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	var req dto.UploadCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.courseService.Upload(ctx.Request.Context(), owner, []byte(req.File)); err != nil {
		c.logger.Info().Err(err).Str("username", owner.Username()).Msg("Course upload rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, c.courseService.Current(ctx.Request.Context(), owner)))
}

// StartNewVersion stores an empty course as the owner's newest version
// @Summary Start a new course version
// @Tags course
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /course/save [get]
func (c *CourseController) StartNewVersion(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	id, err := c.courseService.StartNewVersion(ctx.Request.Context(), owner)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, gin.H{"id": id}))
}

// ListVersions returns every stored version, oldest first
// @Summary List course versions
// @Tags course
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=dto.CourseVersionsResponse}
// @Router /course/versions [get]
func (c *CourseController) ListVersions(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	versions, err := c.courseService.ListVersions(ctx.Request.Context(), owner)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.CourseVersionsResponse{Courses: versions}, "Course versions retrieved successfully"))
}

// GetVersion returns one stored version by its position among the owner's versions
// @Summary Get a course version by index
// @Tags course
// @Produce json
// @Param index path int true "0-based version index, oldest first"
// @Success 200 {object} dto.StructuredResponse{data=models.CourseRecord}
// @Failure 404 {object} dto.ErrorResponse "Version not found"
// @Router /course/versions/{index} [get]
func (c *CourseController) GetVersion(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	index, ok := intParam(ctx, "index")
	if !ok {
		return
	}
	course, err := c.courseService.LoadVersion(ctx.Request.Context(), owner, index)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(course.Record(), "Course version retrieved successfully"))
}

// GetVersionByID returns one stored version by its stable id
// @Summary Get a course version by id
// @Tags course
// @Produce json
// @Param id path int true "Version id"
// @Success 200 {object} dto.StructuredResponse{data=models.CourseRecord}
// @Failure 404 {object} dto.ErrorResponse "Version not found"
// @Router /course/versions/id/{id} [get]
func (c *CourseController) GetVersionByID(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	id, ok := intParam(ctx, "id")
	if !ok {
		return
	}
	course, err := c.courseService.LoadVersionByID(ctx.Request.Context(), owner, int64(id))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(course.Record(), "Course version retrieved successfully"))
}

// AddOutcome appends a learning outcome to the current version
// @Summary Add a learning outcome
// @Tags course
// @Accept json
// @Produce json
// @Param request body dto.OutcomeRequest true "Outcome"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "No course version"
// @Router /course/outcomes [post]
func (c *CourseController) AddOutcome(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	var req dto.OutcomeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	outcome := models.LearningOutcome{Text: req.Text}
	if err := c.courseService.AddOutcome(ctx.Request.Context(), owner, outcome); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, outcome))
}

// RemoveOutcome deletes one learning outcome matching the text
// @Summary Remove a learning outcome by content
// @Tags course
// @Accept json
// @Produce json
// @Param request body dto.OutcomeRequest true "Outcome"
// @Success 200 {object} dto.APIResponse "success is false when nothing matched"
// @Router /course/outcomes [delete]
func (c *CourseController) RemoveOutcome(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	var req dto.OutcomeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	outcome := models.LearningOutcome{Text: req.Text}
	removed, err := c.courseService.RemoveOutcome(ctx.Request.Context(), owner, outcome)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(removed, outcome))
}

// RemoveOutcomeAt deletes the learning outcome at a position
// @Summary Remove a learning outcome by position
// @Tags course
// @Produce json
// @Param position path int true "0-based position"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Position out of range"
// @Router /course/outcomes/{position} [delete]
func (c *CourseController) RemoveOutcomeAt(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	pos, ok := intParam(ctx, "position")
	if !ok {
		return
	}
	outcome, err := c.courseService.RemoveOutcomeAt(ctx.Request.Context(), owner, pos)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, outcome))
}

// AddAssessment appends an assessment to the current version
// @Summary Add an assessment
// @Tags course
// @Accept json
// @Produce json
// @Param request body dto.AssessmentRequest true "Assessment"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "No course version"
// @Router /course/assessments [post]
func (c *CourseController) AddAssessment(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	var req dto.AssessmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	assessment := models.AssessmentItem{Text: req.Text, Weight: *req.Weight}
	if err := c.courseService.AddAssessment(ctx.Request.Context(), owner, assessment); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, assessment))
}

// RemoveAssessment deletes one assessment matching text and weight
// @Summary Remove an assessment by content
// @Tags course
// @Accept json
// @Produce json
// @Param request body dto.AssessmentRequest true "Assessment"
// @Success 200 {object} dto.APIResponse "success is false when nothing matched"
// @Router /course/assessments [delete]
func (c *CourseController) RemoveAssessment(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	var req dto.AssessmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	assessment := models.AssessmentItem{Text: req.Text, Weight: *req.Weight}
	removed, err := c.courseService.RemoveAssessment(ctx.Request.Context(), owner, assessment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(removed, assessment))
}

// RemoveAssessmentAt deletes the assessment at a position
// @Summary Remove an assessment by position
// @Tags course
// @Produce json
// @Param position path int true "0-based position"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Position out of range"
// @Router /course/assessments/{position} [delete]
func (c *CourseController) RemoveAssessmentAt(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}
	pos, ok := intParam(ctx, "position")
	if !ok {
		return
	}
	assessment, err := c.courseService.RemoveAssessmentAt(ctx.Request.Context(), owner, pos)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, assessment))
}
