package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elizeurcandido/sistema-provas/internal/exam"
	"github.com/elizeurcandido/sistema-provas/internal/model"
	"github.com/elizeurcandido/sistema-provas/internal/pdfgen"
)

func (h *Handler) handlePresentExam(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "examID")
	if !ok {
		return
	}
	user := model.UserFromContext(r.Context())

	// Eligibility checked up front so the student is not shown an exam
	// they cannot submit; Submit re-checks it regardless.
	if err := h.guard.CheckEligibility(user.ID, examID); err != nil {
		writeError(w, r, err)
		return
	}

	questions, err := h.session.Present(examID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if questions == nil {
		questions = []model.PresentedQuestion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"exam_id":   examID,
		"questions": questions,
	})
}

func (h *Handler) handleSubmitExam(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "examID")
	if !ok {
		return
	}
	user := model.UserFromContext(r.Context())

	var req struct {
		Answers map[int64]string `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, r, "malformed request body")
		return
	}

	result, details, err := h.session.Submit(user.ID, examID, req.Answers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if details == nil {
		details = []exam.QuestionDetail{}
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"result":  result,
		"details": details,
	})
}

func (h *Handler) handleIssueCertificate(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "examID")
	if !ok {
		return
	}
	user := model.UserFromContext(r.Context())

	result, err := h.store.GetResult(user.ID, examID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if result == nil {
		writeError(w, r, exam.ErrResultNotFound)
		return
	}

	cert, err := h.gate.Authorize(*result, user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	document, err := pdfgen.Render(*cert)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "certificate-"+cert.Serial+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(document)
}

func (h *Handler) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question      string `json:"question"`
		StudentOption string `json:"student_option"`
		CorrectOption string `json:"correct_option"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, r, "malformed request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" ||
		!exam.ValidLetter(req.StudentOption) || !exam.ValidLetter(req.CorrectOption) {
		writeInvalid(w, r, "question and option letters in a..d are required")
		return
	}

	explanation, err := h.explain.Explain(r.Context(), req.Question, req.StudentOption, req.CorrectOption)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"explanation": explanation})
}
