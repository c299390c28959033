package services

import (
	"bytes"
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
	"github.com/yigit/syllabus/internal/pkg/export"
	"github.com/yigit/syllabus/internal/pkg/metrics"
)

// Document is a rendered course file
type Document struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the current course or a stored version as a document
type ExportService struct {
	courses CourseService
	logger  zerolog.Logger
}

// NewExportService creates a new ExportService
func NewExportService(courses CourseService, logger zerolog.Logger) *ExportService {
	return &ExportService{
		courses: courses,
		logger:  logger,
	}
}

// Export renders the owner's course in format. A nil index selects the
// in-memory course, otherwise the index-th stored version.
func (s *ExportService) Export(ctx context.Context, owner *models.Owner, format string, index *int) (*Document, error) {
	writer, err := export.ForFormat(format)
	if err != nil {
		metrics.ObserveExport(format, err)
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return nil, apperrors.NewCustomError(apperrors.ErrUnsupportedFormat, err.Error())
		}
		return nil, err
	}

	course := owner.Course()
	if index != nil {
		course, err = s.courses.LoadVersion(ctx, owner, *index)
		if err != nil {
			metrics.ObserveExport(format, err)
			return nil, err
		}
	}

	var buf bytes.Buffer
	err = writer.Write(&buf, course)
	metrics.ObserveExport(format, err)
	if err != nil {
		s.logger.Error().Err(err).Str("format", format).Int64("ownerId", owner.ID()).Msg("Failed to render course")
		return nil, err
	}

	return &Document{
		Content:     buf.Bytes(),
		ContentType: writer.ContentType(),
		Filename:    filename(course) + "." + writer.Extension(),
	}, nil
}

func filename(course *models.Course) string {
	name := course.GetCode()
	if name == "" {
		name = course.GetTitle()
	}
	if name == "" {
		return "course"
	}
	clean := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			clean = append(clean, r)
		case r == ' ':
			clean = append(clean, '_')
		}
	}
	if len(clean) == 0 {
		return "course"
	}
	return string(clean)
}
