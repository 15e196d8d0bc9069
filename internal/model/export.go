package model

import "time"

// ResultsExport is the top-level JSON structure for exam result export.
type ResultsExport struct {
	ExamID      int64          `json:"exam_id"`
	Title       string         `json:"title"`
	Status      ExamStatus     `json:"status"`
	GeneratedAt time.Time      `json:"generated_at"`
	Results     []ResultExport `json:"results"`
}

// ResultExport holds one student's result for export.
type ResultExport struct {
	StudentID   int64     `json:"student_id"`
	StudentName string    `json:"student_name"`
	Score       float64   `json:"score"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}
