package store

import (
	"github.com/elizeurcandido/sistema-provas/internal/model"
)

// AddQuestion inserts a single question and returns its ID.
func (s *Store) AddQuestion(q model.Question) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO questions (exam_id, prompt, option_a, option_b, option_c, option_d, correct)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ExamID, q.Prompt, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.Correct,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AddQuestions inserts a batch of questions for one exam in a single
// transaction. Either every question is persisted or none are.
func (s *Store) AddQuestions(examID int64, questions []model.Question) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO questions (exam_id, prompt, option_a, option_b, option_c, option_d, correct)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, q := range questions {
		if _, err := stmt.Exec(examID, q.Prompt, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.Correct); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetQuestion returns a question by ID.
func (s *Store) GetQuestion(id int64) (model.Question, error) {
	var q model.Question
	err := s.db.QueryRow(
		`SELECT id, exam_id, prompt, option_a, option_b, option_c, option_d, correct
		 FROM questions WHERE id = ?`, id,
	).Scan(&q.ID, &q.ExamID, &q.Prompt, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.Correct)
	return q, err
}

// GetQuestions returns all questions belonging to an exam.
func (s *Store) GetQuestions(examID int64) ([]model.Question, error) {
	rows, err := s.db.Query(
		`SELECT id, exam_id, prompt, option_a, option_b, option_c, option_d, correct
		 FROM questions WHERE exam_id = ? ORDER BY id`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ExamID, &q.Prompt, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.Correct); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// DeleteQuestion removes a single question.
func (s *Store) DeleteQuestion(id int64) error {
	_, err := s.db.Exec(`DELETE FROM questions WHERE id = ?`, id)
	return err
}

// QuestionCount returns the number of questions in an exam.
func (s *Store) QuestionCount(examID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM questions WHERE exam_id = ?`, examID).Scan(&count)
	return count, err
}
