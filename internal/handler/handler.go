package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/elizeurcandido/sistema-provas/internal/exam"
	"github.com/elizeurcandido/sistema-provas/internal/explain"
	"github.com/elizeurcandido/sistema-provas/internal/ingest"
	"github.com/elizeurcandido/sistema-provas/internal/model"
	"github.com/elizeurcandido/sistema-provas/internal/store"
)

// maxUploadBytes caps document uploads for question generation.
const maxUploadBytes = 10 << 20

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store   *store.Store
	session *exam.Session
	guard   *exam.Guard
	gate    *exam.Gate
	ingest  *ingest.Pipeline
	explain *explain.Service
}

// New creates a new Handler.
func New(s *store.Store, pipeline *ingest.Pipeline, explainer *explain.Service) *Handler {
	return &Handler{
		store:   s,
		session: exam.NewSession(s),
		guard:   exam.NewGuard(s),
		gate:    exam.NewGate(s),
		ingest:  pipeline,
		explain: explainer,
	}
}

// Routes registers all HTTP routes. Every route runs behind the identity
// middleware: authentication happens upstream, and the trusted caller ID
// arrives in the X-User-ID header.
func (h *Handler) Routes(r chi.Router) {
	r.Use(h.identify)

	r.Post("/exams", h.handleCreateExam)
	r.Get("/exams", h.handleListExams)
	r.Delete("/exams/{examID}", h.handleDeleteExam)
	r.Post("/exams/{examID}/duplicate", h.handleDuplicateExam)
	r.Post("/exams/{examID}/toggle", h.handleToggleStatus)
	r.Post("/exams/{examID}/questions", h.handleAddQuestion)
	r.Delete("/questions/{questionID}", h.handleDeleteQuestion)
	r.Post("/exams/{examID}/generate", h.handleGenerate)
	r.Get("/exams/{examID}/results", h.handleViewResults)

	r.Get("/exams/{examID}/take", h.handlePresentExam)
	r.Post("/exams/{examID}/submit", h.handleSubmitExam)
	r.Get("/exams/{examID}/certificate", h.handleIssueCertificate)
	r.Post("/explanations", h.handleExplain)
}

func (h *Handler) handleCreateExam(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeInvalid(w, r, "title is required")
		return
	}

	id, err := h.store.CreateExam(model.Exam{
		Title:   strings.TrimSpace(req.Title),
		OwnerID: user.ID,
		Status:  model.ExamActive,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	ex, err := h.store.GetExam(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (h *Handler) handleListExams(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	var (
		exams []model.Exam
		err   error
	)
	if user.Role == model.UserRoleTeacher {
		exams, err = h.store.ListExamsByOwner(user.ID)
	} else {
		exams, err = h.store.ListActiveExams()
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if exams == nil {
		exams = []model.Exam{}
	}
	writeJSON(w, http.StatusOK, exams)
}

func (h *Handler) handleDeleteExam(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "examID")
	if !ok {
		return
	}
	if _, err := h.requireOwner(r, examID); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.store.DeleteExam(examID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDuplicateExam(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "examID")
	if !ok {
		return
	}
	if _, err := h.requireOwner(r, examID); err != nil {
		writeError(w, r, err)
		return
	}

	newID, err := h.store.DuplicateExam(examID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ex, err := h.store.GetExam(newID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (h *Handler) handleToggleStatus(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "examID")
	if !ok {
		return
	}
	if _, err := h.requireOwner(r, examID); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.store.ToggleExamStatus(examID); err != nil {
		writeError(w, r, err)
		return
	}
	ex, err := h.store.GetExam(examID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (h *Handler) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "examID")
	if !ok {
		return
	}
	if _, err := h.requireOwner(r, examID); err != nil {
		writeError(w, r, err)
		return
	}

	var req struct {
		Prompt  string `json:"prompt"`
		OptionA string `json:"option_a"`
		OptionB string `json:"option_b"`
		OptionC string `json:"option_c"`
		OptionD string `json:"option_d"`
		Correct string `json:"correct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, r, "malformed request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" || !exam.ValidLetter(req.Correct) {
		writeInvalid(w, r, "prompt and a correct letter in a..d are required")
		return
	}

	id, err := h.store.AddQuestion(model.Question{
		ExamID:  examID,
		Prompt:  req.Prompt,
		OptionA: req.OptionA,
		OptionB: req.OptionB,
		OptionC: req.OptionC,
		OptionD: req.OptionD,
		Correct: strings.ToLower(strings.TrimSpace(req.Correct)),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, err := h.store.GetQuestion(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(w, r, "questionID")
	if !ok {
		return
	}

	q, err := h.store.GetQuestion(questionID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, r, exam.ErrQuestionNotFound)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.requireOwner(r, q.ExamID); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.store.DeleteQuestion(questionID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "examID")
	if !ok {
		return
	}
	if _, err := h.requireOwner(r, examID); err != nil {
		writeError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeInvalid(w, r, "expected a multipart upload")
		return
	}
	file, _, err := r.FormFile("document")
	if err != nil {
		writeInvalid(w, r, "document file is required")
		return
	}
	defer file.Close()

	document, err := readAll(file, maxUploadBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	count, err := h.ingest.Generate(r.Context(), examID, document)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"inserted": count})
}

func (h *Handler) handleViewResults(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "examID")
	if !ok {
		return
	}
	if _, err := h.requireOwner(r, examID); err != nil {
		writeError(w, r, err)
		return
	}

	export, err := h.store.ExportResults(examID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if export.Results == nil {
		export.Results = []model.ResultExport{}
	}
	writeJSON(w, http.StatusOK, export)
}

// requireOwner loads the exam and checks the caller owns it.
func (h *Handler) requireOwner(r *http.Request, examID int64) (model.Exam, error) {
	ex, err := h.store.GetExam(examID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Exam{}, exam.ErrExamNotFound
	}
	if err != nil {
		return model.Exam{}, err
	}
	user := model.UserFromContext(r.Context())
	if user == nil || ex.OwnerID != user.ID {
		return model.Exam{}, exam.ErrNotOwner
	}
	return ex, nil
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeInvalid(w, r, "invalid "+name)
		return 0, false
	}
	return id, true
}
