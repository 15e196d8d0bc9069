package exam

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/elizeurcandido/sistema-provas/internal/model"
)

// Session orchestrates exam presentation and submission.
type Session struct {
	store Store
	guard *Guard
}

// NewSession creates a new Session over the given store.
func NewSession(s Store) *Session {
	return &Session{store: s, guard: NewGuard(s)}
}

// Present returns the exam's questions in a fresh uniformly random order
// with the correct option letters stripped. The order is deliberately not
// persisted: reloading the exam reshuffles it, so a shared photo of
// someone else's question order is worthless.
func (s *Session) Present(examID int64) ([]model.PresentedQuestion, error) {
	ex, err := s.store.GetExam(examID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load exam %d: %w", examID, err)
	}
	if ex.Status != model.ExamActive {
		return nil, ErrExamInactive
	}

	questions, err := s.store.GetQuestions(examID)
	if err != nil {
		return nil, fmt.Errorf("load questions for exam %d: %w", examID, err)
	}

	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	presented := make([]model.PresentedQuestion, 0, len(questions))
	for _, q := range questions {
		presented = append(presented, model.PresentedQuestion{
			ID:      q.ID,
			Prompt:  q.Prompt,
			OptionA: q.OptionA,
			OptionB: q.OptionB,
			OptionC: q.OptionC,
			OptionD: q.OptionD,
		})
	}
	return presented, nil
}

// Submit re-validates eligibility, grades the answers, and persists the
// result. Two concurrent submissions can both pass the eligibility check;
// the uniqueness constraint on (student, exam) then lets exactly one
// commit through and the other returns ErrAlreadyAttempted.
func (s *Session) Submit(studentID, examID int64, answers Answers) (*model.Result, []QuestionDetail, error) {
	if err := s.guard.CheckEligibility(studentID, examID); err != nil {
		return nil, nil, err
	}

	questions, err := s.store.GetQuestions(examID)
	if err != nil {
		return nil, nil, fmt.Errorf("load questions for exam %d: %w", examID, err)
	}

	sum := Grade(questions, answers)
	res := model.Result{
		StudentID:   studentID,
		ExamID:      examID,
		Score:       sum.Score,
		Correct:     sum.Correct,
		Total:       sum.Total,
		SubmittedAt: time.Now(),
	}

	id, err := s.store.CreateResult(res)
	if errors.Is(err, ErrDuplicateResult) {
		return nil, nil, ErrAlreadyAttempted
	}
	if err != nil {
		return nil, nil, fmt.Errorf("persist result: %w", err)
	}
	res.ID = id
	return &res, sum.Details, nil
}
