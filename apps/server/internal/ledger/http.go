package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spinroom/apps/server/internal/auth"
)

type HTTPHandler struct {
	auth   auth.Service
	ledger Service
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(authService auth.Service, ledgerService Service) *HTTPHandler {
	return &HTTPHandler{auth: authService, ledger: ledgerService}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/history/recent", h.handleRecent)
	mux.HandleFunc("/api/history/interviews/", h.handleTape)
}

func (h *HTTPHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, ok := h.resolveUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid session token")
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"))
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := h.ledger.ListRecent(ctx, userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query history failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *HTTPHandler) handleTape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, ok := h.resolveUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid session token")
		return
	}

	interviewID := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/api/history/interviews/"))
	if interviewID == "" || strings.Contains(interviewID, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	tape, err := h.ledger.GetTape(ctx, userID, interviewID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "interview not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "query tape failed")
		return
	}

	data, err := tape.Encode()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode tape failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *HTTPHandler) resolveUserID(r *http.Request) (uint64, bool) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return 0, false
	}
	userID, _, ok := h.auth.ResolveSession(token)
	if !ok {
		return 0, false
	}
	return userID, true
}

func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 20
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 20
	}
	if n > 100 {
		return 100
	}
	return n
}

func bearerToken(raw string) string {
	if !strings.HasPrefix(raw, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
