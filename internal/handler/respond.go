package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/elizeurcandido/sistema-provas/internal/exam"
	appI18n "github.com/elizeurcandido/sistema-provas/internal/i18n"
	"github.com/elizeurcandido/sistema-provas/internal/ingest"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeInvalid(w http.ResponseWriter, r *http.Request, detail string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error":  appI18n.T(r.Context(), "InvalidRequest"),
		"detail": detail,
	})
}

// writeError maps domain errors to HTTP statuses and localized messages.
// Denials and validation failures are descriptive; data-layer faults are
// logged and surfaced as a generic failure without leaking internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		msgID  string
	)
	switch {
	case errors.Is(err, exam.ErrExamNotFound):
		status, msgID = http.StatusNotFound, "ExamNotFound"
	case errors.Is(err, exam.ErrQuestionNotFound):
		status, msgID = http.StatusNotFound, "QuestionNotFound"
	case errors.Is(err, exam.ErrResultNotFound):
		status, msgID = http.StatusNotFound, "ResultNotFound"
	case errors.Is(err, exam.ErrExamInactive):
		status, msgID = http.StatusConflict, "ExamInactive"
	case errors.Is(err, exam.ErrAlreadyAttempted):
		status, msgID = http.StatusConflict, "AlreadyAttempted"
	case errors.Is(err, exam.ErrNotOwner):
		status, msgID = http.StatusForbidden, "NotOwner"
	case errors.Is(err, exam.ErrScoreBelowThreshold):
		status, msgID = http.StatusForbidden, "ScoreBelowThreshold"
	case errors.Is(err, ingest.ErrMalformedResponse):
		status, msgID = http.StatusUnprocessableEntity, "MalformedResponse"
	case errors.Is(err, ingest.ErrSchemaViolation):
		status, msgID = http.StatusUnprocessableEntity, "SchemaViolation"
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": appI18n.T(r.Context(), "InternalError"),
		})
		return
	}

	body := map[string]string{"error": appI18n.T(r.Context(), msgID)}
	if status == http.StatusUnprocessableEntity {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}

// readAll reads at most limit bytes from rd.
func readAll(rd io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(rd, limit))
}
