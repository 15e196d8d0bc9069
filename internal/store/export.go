package store

import (
	"fmt"
	"time"

	"github.com/elizeurcandido/sistema-provas/internal/model"
)

// ExportResults builds an export-ready snapshot of one exam's results.
func (s *Store) ExportResults(examID int64) (*model.ResultsExport, error) {
	ex, err := s.GetExam(examID)
	if err != nil {
		return nil, fmt.Errorf("load exam %d: %w", examID, err)
	}

	results, err := s.ListResults(examID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	export := &model.ResultsExport{
		ExamID:      ex.ID,
		Title:       ex.Title,
		Status:      ex.Status,
		GeneratedAt: time.Now(),
	}

	for _, r := range results {
		name := fmt.Sprintf("student %d", r.StudentID)
		user, err := s.GetUserByID(r.StudentID)
		if err != nil {
			return nil, fmt.Errorf("load user %d: %w", r.StudentID, err)
		}
		if user != nil {
			name = user.DisplayName
		}
		export.Results = append(export.Results, model.ResultExport{
			StudentID:   r.StudentID,
			StudentName: name,
			Score:       r.Score,
			Correct:     r.Correct,
			Total:       r.Total,
			SubmittedAt: r.SubmittedAt,
		})
	}
	return export, nil
}
