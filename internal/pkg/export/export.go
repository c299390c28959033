package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/yigit/syllabus/internal/app/models"
)

// ErrUnsupportedFormat is returned for a format with no registered writer
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Writer renders a finished course as a document
type Writer interface {
	Write(w io.Writer, course *models.Course) error
	ContentType() string
	Extension() string
}

// ForFormat returns the writer for "pdf" or "json"
func ForFormat(format string) (Writer, error) {
	switch format {
	case "pdf":
		return NewPDFWriter(), nil
	case "json":
		return JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q, please give one of [pdf json]", ErrUnsupportedFormat, format)
	}
}
