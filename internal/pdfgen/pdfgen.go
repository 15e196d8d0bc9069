// Package pdfgen renders the downloadable certificate artifact from its
// field contract.
package pdfgen

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/elizeurcandido/sistema-provas/internal/model"
)

// Render draws a certificate PDF and returns its bytes.
func Render(c model.Certificate) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 30)
	pdf.CellFormat(0, 30, "Certificate of Completion", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 16)
	pdf.CellFormat(0, 12, "This certifies that", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 24)
	pdf.CellFormat(0, 16, c.StudentName, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 16)
	pdf.CellFormat(0, 12, "completed the exam", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 14, c.ExamTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 16)
	pdf.CellFormat(0, 12, fmt.Sprintf("with a score of %s / 10", c.Score), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 12, "Date: "+c.CompletionDate, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 18, "Serial: "+c.Serial, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
