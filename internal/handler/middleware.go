package handler

import (
	"net/http"
	"strconv"

	"github.com/elizeurcandido/sistema-provas/internal/model"
)

// identify resolves the already-authenticated caller. Authentication is
// handled upstream (reverse proxy or gateway); the trusted user ID
// arrives in the X-User-ID header and is resolved against the user table.
func (h *Handler) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "missing caller identity", http.StatusUnauthorized)
			return
		}

		user, err := h.store.GetUserByID(id)
		if err != nil {
			http.Error(w, "identity lookup failed", http.StatusInternalServerError)
			return
		}
		if user == nil || !user.Active {
			http.Error(w, "unknown caller", http.StatusUnauthorized)
			return
		}

		ctx := model.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
