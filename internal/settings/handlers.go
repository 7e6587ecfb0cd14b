package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lifearrow/platform/internal/auth"
	"github.com/lifearrow/platform/internal/httputil"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Router(mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.With(mw.RequireStaff).Get("/", h.list)
	r.With(mw.RequireAdmin).Put("/", h.update)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.Map()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load settings")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, all)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	for key, value := range req {
		if err := h.repo.Set(key, value); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to save setting")
			return
		}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
