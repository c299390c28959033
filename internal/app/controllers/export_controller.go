package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/services"
	"github.com/yigit/syllabus/internal/middleware"
)

// ExportController serves course documents
type ExportController struct {
	exportService *services.ExportService
	logger        zerolog.Logger
}

// NewExportController creates a new ExportController
func NewExportController(exportService *services.ExportService, logger zerolog.Logger) *ExportController {
	return &ExportController{
		exportService: exportService,
		logger:        logger,
	}
}

// Download renders the current course, or a stored version when an index is given
// @Summary Download the course
// @Tags export
// @Produce application/pdf
// @Produce json
// @Param filetype path string true "pdf or json"
// @Param index path int false "0-based version index"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse "Unsupported format"
// @Failure 404 {object} dto.ErrorResponse "Version not found"
// @Router /download/{filetype} [get]
// @Router /download/{filetype}/{index} [get]
func (c *ExportController) Download(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}

	var index *int
	if ctx.Param("index") != "" {
		value, ok := intParam(ctx, "index")
		if !ok {
			return
		}
		index = &value
	}

	doc, err := c.exportService.Export(ctx.Request.Context(), owner, ctx.Param("filetype"), index)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	ctx.Data(http.StatusOK, doc.ContentType, doc.Content)
}
