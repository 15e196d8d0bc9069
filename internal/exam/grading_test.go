package exam

import (
	"math"
	"testing"

	"github.com/elizeurcandido/sistema-provas/internal/model"
)

func fourQuestions() []model.Question {
	return []model.Question{
		{ID: 1, Correct: "a"},
		{ID: 2, Correct: "b"},
		{ID: 3, Correct: "c"},
		{ID: 4, Correct: "d"},
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name        string
		questions   []model.Question
		answers     Answers
		wantScore   float64
		wantCorrect int
	}{
		{"no questions empty answers", nil, Answers{}, 0, 0},
		{"no questions nil answers", nil, nil, 0, 0},
		{"all correct", fourQuestions(), Answers{1: "a", 2: "b", 3: "c", 4: "d"}, 10, 4},
		{"three of four", fourQuestions(), Answers{1: "a", 2: "b", 3: "c", 4: "a"}, 7.5, 3},
		{"all wrong", fourQuestions(), Answers{1: "b", 2: "c", 3: "d", 4: "a"}, 0, 0},
		{"uppercase answers", fourQuestions(), Answers{1: "A", 2: "B", 3: "C", 4: "D"}, 10, 4},
		{"padded answers", fourQuestions(), Answers{1: " a ", 2: "b", 3: "c", 4: "d"}, 10, 4},
		{"missing answers count wrong", fourQuestions(), Answers{1: "a"}, 2.5, 1},
		{"empty submission", fourQuestions(), Answers{}, 0, 0},
		{"unknown question ids ignored", fourQuestions(), Answers{99: "a"}, 0, 0},
		{"single question correct", []model.Question{{ID: 7, Correct: "b"}}, Answers{7: "b"}, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(tt.questions, tt.answers)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Correct != tt.wantCorrect {
				t.Errorf("Correct = %d, want %d", got.Correct, tt.wantCorrect)
			}
			if got.Total != len(tt.questions) {
				t.Errorf("Total = %d, want %d", got.Total, len(tt.questions))
			}
			if len(got.Details) != len(tt.questions) {
				t.Errorf("len(Details) = %d, want %d", len(got.Details), len(tt.questions))
			}
			if got.Score < 0 || got.Score > 10 || math.IsNaN(got.Score) {
				t.Errorf("Score %v outside [0, 10]", got.Score)
			}
		})
	}
}

func TestGradeDetails(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Correct: "a"},
		{ID: 2, Correct: "B"},
	}
	sum := Grade(questions, Answers{1: "C", 2: "b"})

	want := []QuestionDetail{
		{QuestionID: 1, Submitted: "c", Correct: "a", IsCorrect: false},
		{QuestionID: 2, Submitted: "b", Correct: "b", IsCorrect: true},
	}
	for i, d := range sum.Details {
		if d != want[i] {
			t.Errorf("Details[%d] = %+v, want %+v", i, d, want[i])
		}
	}
}

func TestValidLetter(t *testing.T) {
	for _, s := range []string{"a", "B", " c ", "d"} {
		if !ValidLetter(s) {
			t.Errorf("ValidLetter(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "e", "ab", "1", " "} {
		if ValidLetter(s) {
			t.Errorf("ValidLetter(%q) = true, want false", s)
		}
	}
}
