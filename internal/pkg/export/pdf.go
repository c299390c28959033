package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/yigit/syllabus/internal/app/models"
)

// Placeholders rendered in place of empty course fields
const (
	PlaceholderTitle            = "PLACEHOLDER TITLE"
	PlaceholderFaculty          = "PLACEHOLDER FACULTY"
	PlaceholderDiscipline       = "PLACEHOLDER DISCIPLINE"
	PlaceholderCode             = "PLACEHOLDER CODE"
	PlaceholderDescription      = "PLACEHOLDER DESCRIPTION"
	PlaceholderOutcomeText      = "PLACEHOLDER CLO TEXT"
	PlaceholderAssessmentText   = "PLACEHOLDER ASSESSMENT TEXT"
	PlaceholderAssessmentWeight = "PLACEHOLDER ASSESSMENT WEIGHT"
)

const (
	fontFamily   = "Helvetica"
	pageMargin   = 20.0
	lineHeight   = 6.0
	contentWidth = 210.0 - 2*pageMargin
	typeColWidth = 110.0
)

// PDFWriter renders a course as a one column A4 document
type PDFWriter struct {
	compress bool
}

// NewPDFWriter creates a PDF writer with compressed content streams
func NewPDFWriter() *PDFWriter {
	return &PDFWriter{compress: true}
}

// ContentType of the rendered document
func (*PDFWriter) ContentType() string { return "application/pdf" }

// Extension of the rendered document
func (*PDFWriter) Extension() string { return "pdf" }

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

func (p *PDFWriter) Write(w io.Writer, course *models.Course) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(p.compress)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(orPlaceholder(course.GetTitle(), PlaceholderTitle), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontFamily, "B", 22)
	pdf.MultiCell(0, 10, tr(orPlaceholder(course.GetTitle(), PlaceholderTitle)), "", "C", false)
	pdf.Ln(2)

	heading := tr(fmt.Sprintf("%s: %s %s",
		orPlaceholder(course.GetFaculty(), PlaceholderFaculty),
		orPlaceholder(course.GetDiscipline(), PlaceholderDiscipline),
		orPlaceholder(course.GetCode(), PlaceholderCode)))
	// Shrink the heading until it fits on one line.
	pdf.SetFont(fontFamily, "B", 16)
	for size := 16.0; size > 8 && pdf.GetStringWidth(heading) > contentWidth-2; size-- {
		pdf.SetFontSize(size - 1)
	}
	pdf.MultiCell(0, 8, heading, "", "L", false)
	pdf.Ln(3)

	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(0, lineHeight, tr(orPlaceholder(course.GetDescription(), PlaceholderDescription)), "", "L", false)
	pdf.Ln(3)

	pdf.SetFont(fontFamily, "B", 14)
	pdf.MultiCell(0, 8, "Course Learning Outcomes", "", "L", false)
	pdf.SetFont(fontFamily, "", 11)
	for _, o := range course.Outcomes {
		pdf.MultiCell(0, lineHeight, tr("* "+orPlaceholder(o.Text, PlaceholderOutcomeText)), "", "L", false)
	}
	pdf.Ln(3)

	pdf.SetFont(fontFamily, "B", 14)
	pdf.MultiCell(0, 8, "Assessments", "", "L", false)

	weightColWidth := contentWidth - typeColWidth
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(typeColWidth, 7, "Assessment Type", "1", 0, "L", false, 0, "")
	pdf.CellFormat(weightColWidth, 7, "Assessment Weights", "1", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	for _, a := range course.Assessments {
		weight := PlaceholderAssessmentWeight
		if a.Weight != 0 {
			weight = strconv.Itoa(a.Weight)
		}
		pdf.CellFormat(typeColWidth, 7, tr(orPlaceholder(a.Text, PlaceholderAssessmentText)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(weightColWidth, 7, weight, "1", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
