package exam

import (
	"strings"

	"github.com/elizeurcandido/sistema-provas/internal/model"
)

// Answers maps a question ID to the submitted option letter.
type Answers map[int64]string

// QuestionDetail records the outcome for a single question. It exists for
// review and explanations, never for re-grading.
type QuestionDetail struct {
	QuestionID int64  `json:"question_id"`
	Submitted  string `json:"submitted"`
	Correct    string `json:"correct"`
	IsCorrect  bool   `json:"is_correct"`
}

// Summary is the outcome of grading one submission.
type Summary struct {
	Score   float64
	Correct int
	Total   int
	Details []QuestionDetail
}

// Grade scores a submission against the exam's questions. Letter
// comparison is case-insensitive; a missing or blank answer counts as
// incorrect, never as an error. The score is correct/total scaled to 10,
// or exactly 0 for an empty exam. Grade is pure: no I/O, no side effects.
func Grade(questions []model.Question, answers Answers) Summary {
	sum := Summary{Total: len(questions)}
	for _, q := range questions {
		submitted := normalizeLetter(answers[q.ID])
		correct := normalizeLetter(q.Correct)
		hit := submitted != "" && submitted == correct
		if hit {
			sum.Correct++
		}
		sum.Details = append(sum.Details, QuestionDetail{
			QuestionID: q.ID,
			Submitted:  submitted,
			Correct:    correct,
			IsCorrect:  hit,
		})
	}
	if sum.Total > 0 {
		sum.Score = float64(sum.Correct) / float64(sum.Total) * 10
	}
	return sum
}

func normalizeLetter(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidLetter reports whether s normalizes to one of the four option letters.
func ValidLetter(s string) bool {
	switch normalizeLetter(s) {
	case "a", "b", "c", "d":
		return true
	}
	return false
}
