package export

import (
	"encoding/json"
	"io"

	"github.com/yigit/syllabus/internal/app/models"
)

// JSONWriter renders a course as the same record the API publishes, which
// Upload accepts back
type JSONWriter struct{}

// ContentType of the rendered document
func (JSONWriter) ContentType() string { return "application/json" }

// Extension of the rendered document
func (JSONWriter) Extension() string { return "json" }

func (JSONWriter) Write(w io.Writer, course *models.Course) error {
	return json.NewEncoder(w).Encode(course.Record())
}
