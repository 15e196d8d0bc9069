// Package explain produces plain-language explanations for wrong answers
// using the tutoring backend. Calls are best effort and independently
// retryable: a failure here never touches a stored result or score.
package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/elizeurcandido/sistema-provas/internal/llm"
)

// Completer is the slice of the LLM client this service needs.
type Completer interface {
	Complete(ctx context.Context, backend llm.Backend, prompt string) (string, error)
}

// Service drives the tutoring backend.
type Service struct {
	llm Completer
}

// New creates a new explanation service.
func New(completer Completer) *Service {
	return &Service{llm: completer}
}

// Explain asks the tutoring backend why the student's letter is wrong and
// the correct letter is right for the given question.
func (s *Service) Explain(ctx context.Context, promptText, studentOption, correctOption string) (string, error) {
	out, err := s.llm.Complete(ctx, llm.BackendTutoring, buildTutoringPrompt(promptText, studentOption, correctOption))
	if err != nil {
		return "", fmt.Errorf("tutoring completion: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func buildTutoringPrompt(question, studentOption, correctOption string) string {
	var sb strings.Builder
	sb.WriteString("You are a patient tutor. A student answered a multiple-choice question incorrectly.\n\n")
	sb.WriteString("QUESTION: " + question + "\n")
	sb.WriteString("STUDENT'S ANSWER: option " + strings.ToLower(strings.TrimSpace(studentOption)) + "\n")
	sb.WriteString("CORRECT ANSWER: option " + strings.ToLower(strings.TrimSpace(correctOption)) + "\n\n")
	sb.WriteString("In exactly two short paragraphs of plain language, explain why the ")
	sb.WriteString("student's choice is wrong and why the correct option is right. ")
	sb.WriteString("Address the student directly and do not use bullet points.\n")
	return sb.String()
}
