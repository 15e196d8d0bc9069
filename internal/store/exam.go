package store

import (
	"fmt"
	"time"

	"github.com/elizeurcandido/sistema-provas/internal/model"
)

// CreateExam inserts a new exam and returns its ID.
func (s *Store) CreateExam(e model.Exam) (int64, error) {
	if e.Status == "" {
		e.Status = model.ExamActive
	}
	res, err := s.db.Exec(
		`INSERT INTO exams (title, owner_id, status, created_at) VALUES (?, ?, ?, ?)`,
		e.Title, e.OwnerID, e.Status, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetExam returns an exam by ID. A missing exam yields sql.ErrNoRows.
func (s *Store) GetExam(id int64) (model.Exam, error) {
	var e model.Exam
	err := s.db.QueryRow(
		`SELECT id, title, owner_id, status, created_at FROM exams WHERE id = ?`, id,
	).Scan(&e.ID, &e.Title, &e.OwnerID, &e.Status, &e.CreatedAt)
	return e, err
}

// ListExamsByOwner returns all exams created by the given teacher.
func (s *Store) ListExamsByOwner(ownerID int64) ([]model.Exam, error) {
	return s.listExams(`SELECT id, title, owner_id, status, created_at FROM exams WHERE owner_id = ? ORDER BY id`, ownerID)
}

// ListActiveExams returns all exams currently accepting submissions.
func (s *Store) ListActiveExams() ([]model.Exam, error) {
	return s.listExams(`SELECT id, title, owner_id, status, created_at FROM exams WHERE status = ? ORDER BY id`, model.ExamActive)
}

func (s *Store) listExams(query string, args ...any) ([]model.Exam, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Title, &e.OwnerID, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// ToggleExamStatus flips an exam between active and closed.
func (s *Store) ToggleExamStatus(id int64) error {
	_, err := s.db.Exec(
		`UPDATE exams SET status = CASE status WHEN ? THEN ? ELSE ? END WHERE id = ?`,
		model.ExamActive, model.ExamClosed, model.ExamActive, id,
	)
	return err
}

// DuplicateExam copies an exam and its questions under new identities.
// The copy defaults to closed and keeps the same owner; the original and
// its results are untouched.
func (s *Store) DuplicateExam(id int64) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var title string
	var ownerID int64
	if err := tx.QueryRow(`SELECT title, owner_id FROM exams WHERE id = ?`, id).Scan(&title, &ownerID); err != nil {
		return 0, err
	}

	res, err := tx.Exec(
		`INSERT INTO exams (title, owner_id, status, created_at) VALUES (?, ?, ?, ?)`,
		title+" (copy)", ownerID, model.ExamClosed, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(
		`INSERT INTO questions (exam_id, prompt, option_a, option_b, option_c, option_d, correct)
		 SELECT ?, prompt, option_a, option_b, option_c, option_d, correct
		 FROM questions WHERE exam_id = ? ORDER BY id`,
		newID, id,
	); err != nil {
		return 0, fmt.Errorf("copy questions: %w", err)
	}

	return newID, tx.Commit()
}

// DeleteExam removes an exam and cascades to its questions and results.
func (s *Store) DeleteExam(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM results WHERE exam_id = ?`, id); err != nil {
		return fmt.Errorf("delete results: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM questions WHERE exam_id = ?`, id); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM exams WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return tx.Commit()
}
