package offerings

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lifearrow/platform/internal/auth"
	"github.com/lifearrow/platform/internal/httputil"
)

type Handler struct {
	repo     *Repository
	validate *validator.Validate
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo, validate: validator.New()}
}

func (h *Handler) Router(mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.With(mw.RequireAdmin).Post("/", h.create)
	r.With(mw.RequireAdmin).Put("/{id}", h.update)
	r.With(mw.RequireAdmin).Delete("/{id}", h.delete)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	includeInactive := user != nil && user.Role.Staff() && r.URL.Query().Get("all") == "true"

	out, err := h.repo.List(includeInactive)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list offerings")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// writeOfferingError keeps a missing row distinct from a database failure.
func writeOfferingError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "offering not found")
		return
	}
	httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load offering")
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.repo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		writeOfferingError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	o := &Offering{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Active:          true,
	}
	if err := h.repo.Create(o); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to create offering")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	o, err := h.repo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "offering not found")
		return
	}

	var req UpdateRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.Name != nil {
		o.Name = *req.Name
	}
	if req.Description != nil {
		o.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			httputil.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "duration_minutes must be positive")
			return
		}
		o.DurationMinutes = *req.DurationMinutes
	}
	if req.PriceCents != nil {
		o.PriceCents = *req.PriceCents
	}
	if req.Active != nil {
		o.Active = *req.Active
	}

	if err := h.repo.Update(o); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "offering not found")
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "update failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "offering not found")
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "delete failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")})
}
