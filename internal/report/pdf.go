// Package report renders the per-student PDF the trainer can export from the
// admin views.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"monipersonal/server/internal/model"
	"monipersonal/server/internal/stats"
)

// StudentReport renders a student's assessment history as a PDF document.
// Assessments are expected most recent first, as the repository returns them.
func StudentReport(student model.Student, assessments []model.Assessment, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Progress report - "+student.Name, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Progress Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Student: %s <%s>", student.Name, student.Email))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Assessments: %d", len(assessments)))
	pdf.Ln(10)

	if len(assessments) >= 2 {
		latest := assessments[0]
		first := assessments[len(assessments)-1]
		progress := stats.Compare(&first, &latest, len(assessments))
		if progress.WeightDelta != nil {
			pdf.SetFont("Helvetica", "I", 11)
			pdf.Cell(0, 6, fmt.Sprintf("Weight change %.2f kg since %s",
				*progress.WeightDelta, first.RecordedAt.Format("2006-01-02")))
			pdf.Ln(10)
		}
	}

	headers := []string{"Date", "Weight (kg)", "Height (cm)", "BMI", "Class", "Body fat %", "Waist (cm)"}
	widths := []float64{26, 26, 26, 18, 30, 26, 26}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, a := range assessments {
		cells := []string{
			a.RecordedAt.Format("2006-01-02"),
			fmt.Sprintf("%.1f", a.WeightKg),
			fmt.Sprintf("%.1f", a.HeightCm),
			fmt.Sprintf("%.2f", a.BMI),
			stats.ClassifyBMI(a.BMI),
			optional(a.BodyFatPct),
			optional(a.WaistCm),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
