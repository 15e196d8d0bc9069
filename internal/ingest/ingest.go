package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/elizeurcandido/sistema-provas/internal/exam"
	"github.com/elizeurcandido/sistema-provas/internal/llm"
	"github.com/elizeurcandido/sistema-provas/internal/model"
)

// maxSourceChars caps how much extracted text goes into the authoring
// prompt. Truncation is silent.
const maxSourceChars = 30000

var (
	// ErrMalformedResponse is returned when the model output is not valid JSON.
	ErrMalformedResponse = errors.New("model response is not valid JSON")
	// ErrSchemaViolation is returned when any generated item fails
	// validation. The batch is all-or-nothing.
	ErrSchemaViolation = errors.New("model response failed schema validation")
)

var validate = validator.New()

// Completer is the slice of the LLM client the pipeline needs.
type Completer interface {
	Complete(ctx context.Context, backend llm.Backend, prompt string) (string, error)
}

// Store is the persistence slice the pipeline needs. AddQuestions must be
// atomic: either the whole batch lands or none of it does.
type Store interface {
	GetExam(id int64) (model.Exam, error)
	AddQuestions(examID int64, questions []model.Question) error
}

// Pipeline turns an uploaded document into validated, persisted exam
// questions via the authoring backend.
type Pipeline struct {
	extractor Extractor
	llm       Completer
	store     Store
	count     int
}

// NewPipeline creates a pipeline generating count questions per document.
func NewPipeline(extractor Extractor, completer Completer, store Store, count int) *Pipeline {
	if count <= 0 {
		count = 3
	}
	return &Pipeline{extractor: extractor, llm: completer, store: store, count: count}
}

// generatedQuestion mirrors the JSON item shape the authoring model is
// instructed to emit. The wire keys are the ones the rest of the system
// has always used.
type generatedQuestion struct {
	Prompt  string `json:"pergunta" validate:"required"`
	OptionA string `json:"opcao_a" validate:"required"`
	OptionB string `json:"opcao_b" validate:"required"`
	OptionC string `json:"opcao_c" validate:"required"`
	OptionD string `json:"opcao_d" validate:"required"`
	Correct string `json:"correta" validate:"required,oneof=a b c d"`
}

// Generate extracts text from the document, asks the authoring backend
// for a batch of questions, validates the batch, and persists it
// atomically against the exam. It returns the number of questions
// inserted. On any non-success return no question has been persisted.
func (p *Pipeline) Generate(ctx context.Context, examID int64, document []byte) (int, error) {
	if _, err := p.store.GetExam(examID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, exam.ErrExamNotFound
		}
		return 0, fmt.Errorf("load exam %d: %w", examID, err)
	}

	text := p.extractor.ExtractText(document)
	text = truncate(text, maxSourceChars)

	raw, err := p.llm.Complete(ctx, llm.BackendAuthoring, buildAuthoringPrompt(text, p.count))
	if err != nil {
		return 0, fmt.Errorf("authoring completion: %w", err)
	}

	items, err := parseQuestions(raw)
	if err != nil {
		return 0, err
	}

	questions, err := toQuestions(items, examID)
	if err != nil {
		return 0, err
	}

	if err := p.store.AddQuestions(examID, questions); err != nil {
		return 0, fmt.Errorf("persist questions: %w", err)
	}
	slog.Info("generated questions", "exam_id", examID, "count", len(questions))
	return len(questions), nil
}

func parseQuestions(raw string) ([]generatedQuestion, error) {
	cleaned := stripCodeFence(raw)
	var items []generatedQuestion
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return items, nil
}

func toQuestions(items []generatedQuestion, examID int64) ([]model.Question, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty question array", ErrSchemaViolation)
	}
	questions := make([]model.Question, 0, len(items))
	for i, item := range items {
		item.Correct = strings.ToLower(strings.TrimSpace(item.Correct))
		if err := validate.Struct(item); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrSchemaViolation, i, err)
		}
		questions = append(questions, model.Question{
			ExamID:  examID,
			Prompt:  item.Prompt,
			OptionA: item.OptionA,
			OptionB: item.OptionB,
			OptionC: item.OptionC,
			OptionD: item.OptionD,
			Correct: item.Correct,
		})
	}
	return questions, nil
}

func buildAuthoringPrompt(source string, count int) string {
	var sb strings.Builder
	sb.WriteString("You are an exam author. Based only on the source text below, ")
	sb.WriteString(fmt.Sprintf("write exactly %d multiple-choice questions.\n\n", count))
	sb.WriteString("Respond ONLY with a pure JSON array, no markdown fences and no commentary. ")
	sb.WriteString("Every item must have these fields:\n")
	sb.WriteString(`{"pergunta": "<question text>", "opcao_a": "<option>", "opcao_b": "<option>", "opcao_c": "<option>", "opcao_d": "<option>", "correta": "<a, b, c or d>"}`)
	sb.WriteString("\n\nSOURCE TEXT:\n")
	sb.WriteString(source)
	sb.WriteString("\n")
	return sb.String()
}

// stripCodeFence removes a markdown code-fence wrapper, with or without a
// language tag, from the raw model response.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		// Single-line fence like ```[...]```.
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
