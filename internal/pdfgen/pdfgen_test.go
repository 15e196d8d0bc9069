package pdfgen

import (
	"bytes"
	"testing"

	"github.com/elizeurcandido/sistema-provas/internal/model"
)

func TestRender(t *testing.T) {
	out, err := Render(model.Certificate{
		Serial:         "abc-123",
		StudentName:    "Maria Silva",
		ExamTitle:      "Historia do Brasil",
		Score:          "8.5",
		CompletionDate: "2026-05-17",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header: %q", out[:min(len(out), 8)])
	}
	if len(out) < 500 {
		t.Errorf("suspiciously small certificate: %d bytes", len(out))
	}
}
