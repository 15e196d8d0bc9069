package exam

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/elizeurcandido/sistema-provas/internal/model"
)

// Guard enforces the single-attempt and exam-active invariants. A passing
// check can go stale between presentation and submission, so Submit runs
// it again and relies on the storage constraint for the final word.
type Guard struct {
	store Store
}

// NewGuard creates a new Guard.
func NewGuard(s Store) *Guard {
	return &Guard{store: s}
}

// CheckEligibility returns nil when the student may attempt the exam, or
// one of ErrExamNotFound, ErrExamInactive, ErrAlreadyAttempted.
func (g *Guard) CheckEligibility(studentID, examID int64) error {
	ex, err := g.store.GetExam(examID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrExamNotFound
	}
	if err != nil {
		return fmt.Errorf("load exam %d: %w", examID, err)
	}
	if ex.Status != model.ExamActive {
		return ErrExamInactive
	}

	res, err := g.store.GetResult(studentID, examID)
	if err != nil {
		return fmt.Errorf("load result for student %d on exam %d: %w", studentID, examID, err)
	}
	if res != nil {
		return ErrAlreadyAttempted
	}
	return nil
}
