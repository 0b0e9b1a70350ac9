package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quizwiz/internal/app"
	"quizwiz/internal/domain"
	"quizwiz/internal/i18n"
)

// API serves settings, history and categories as JSON.
type API struct {
	history    *app.HistoryService
	categories app.CategoryRepository
}

func NewAPI(history *app.HistoryService, categories app.CategoryRepository) *API {
	return &API{history: history, categories: categories}
}

// Routes registers the JSON endpoints under /api.
func (a *API) Routes(r chi.Router) {
	r.Get("/settings", a.handleGetSettings)
	r.Patch("/settings", a.handlePatchSettings)
	r.Get("/history", a.handleHistory)
	r.Get("/stats", a.handleStats)
	r.Get("/categories", a.handleCategories)
}

func (a *API) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.history.Settings())
}

func (a *API) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	update, err := domain.DecodeSettingsUpdate(r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	settings, err := a.history.UpdateSettings(r.Context(), update)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidParameter) {
			status = http.StatusBadRequest
		}
		writeError(w, r, status, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	by := app.ParseSortBy(r.URL.Query().Get("sort"))
	writeJSON(w, http.StatusOK, a.history.Leaderboard(by))
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.history.Stats())
}

func (a *API) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, app.Categories(r.Context(), a.categories))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "error", err)
	}
	code, msg := i18n.Error(r.Context(), err)
	writeJSON(w, status, errorPayload{Code: code, Message: msg})
}
