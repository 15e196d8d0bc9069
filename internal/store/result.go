package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/elizeurcandido/sistema-provas/internal/exam"
	"github.com/elizeurcandido/sistema-provas/internal/model"
)

// CreateResult inserts a result row. The UNIQUE(student_id, exam_id)
// constraint is the single-attempt guarantee; a violation is reported as
// exam.ErrDuplicateResult so the caller can treat it as a repeat attempt.
func (s *Store) CreateResult(r model.Result) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO results (student_id, exam_id, score, correct, total, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.StudentID, r.ExamID, r.Score, r.Correct, r.Total, r.SubmittedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, fmt.Errorf("insert result for student %d on exam %d: %w",
				r.StudentID, r.ExamID, exam.ErrDuplicateResult)
		}
		return 0, err
	}
	return res.LastInsertId()
}

// GetResult returns the result for a (student, exam) pair, or nil when
// the student has not attempted the exam.
func (s *Store) GetResult(studentID, examID int64) (*model.Result, error) {
	var r model.Result
	err := s.db.QueryRow(
		`SELECT id, student_id, exam_id, score, correct, total, submitted_at
		 FROM results WHERE student_id = ? AND exam_id = ?`, studentID, examID,
	).Scan(&r.ID, &r.StudentID, &r.ExamID, &r.Score, &r.Correct, &r.Total, &r.SubmittedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListResults returns all results for an exam, newest first.
func (s *Store) ListResults(examID int64) ([]model.Result, error) {
	rows, err := s.db.Query(
		`SELECT id, student_id, exam_id, score, correct, total, submitted_at
		 FROM results WHERE exam_id = ? ORDER BY submitted_at DESC, id DESC`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []model.Result
	for rows.Next() {
		var r model.Result
		if err := rows.Scan(&r.ID, &r.StudentID, &r.ExamID, &r.Score, &r.Correct, &r.Total, &r.SubmittedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
