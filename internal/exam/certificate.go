package exam

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/elizeurcandido/sistema-provas/internal/model"
)

// PassingScore is the minimum score required for a certificate.
const PassingScore = 7.0

// Gate authorizes certificate issuance from a stored result.
type Gate struct {
	store Store
}

// NewGate creates a new Gate.
func NewGate(s Store) *Gate {
	return &Gate{store: s}
}

// Authorize checks that the requester owns the result and that the score
// meets PassingScore, then assembles the certificate fields. The
// ownership check comes first; neither failure has side effects.
func (g *Gate) Authorize(result model.Result, requesterID int64) (*model.Certificate, error) {
	if result.StudentID != requesterID {
		return nil, ErrNotOwner
	}
	if result.Score < PassingScore {
		return nil, ErrScoreBelowThreshold
	}

	ex, err := g.store.GetExam(result.ExamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load exam %d: %w", result.ExamID, err)
	}

	name := fmt.Sprintf("student %d", result.StudentID)
	user, err := g.store.GetUserByID(result.StudentID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", result.StudentID, err)
	}
	if user != nil {
		name = user.DisplayName
	}

	return &model.Certificate{
		Serial:         uuid.NewString(),
		StudentName:    name,
		ExamTitle:      ex.Title,
		Score:          strconv.FormatFloat(result.Score, 'f', 1, 64),
		CompletionDate: result.SubmittedAt.Format("2006-01-02"),
	}, nil
}
