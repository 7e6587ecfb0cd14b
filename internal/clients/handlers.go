package clients

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
	r.With(mw.RequireStaff).Get("/", h.listMine)
	r.With(mw.RequireStaff).Post("/", h.create)
	r.Get("/{userID}", h.get)
	r.Put("/{userID}", h.update)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		UpdateRequest
	}
	if err := httputil.ReadJSON(r, &req); err != nil || req.UserID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "user_id is required")
		return
	}

	p := &Profile{UserID: req.UserID, Goals: []string{}, FocusAreas: []string{}}
	if req.Goals != nil {
		p.Goals = *req.Goals
	}
	if req.FocusAreas != nil {
		p.FocusAreas = *req.FocusAreas
	}
	p.PractitionerID = req.PractitionerID
	p.DateOfBirth = req.DateOfBirth

	if err := h.repo.Create(p); err != nil {
		httputil.WriteError(w, http.StatusConflict, "PROFILE_EXISTS", "client profile already exists")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	profiles, err := h.repo.ListByPractitioner(user.UserID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list clients")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profiles)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	user := auth.UserFromContext(r.Context())
	if !user.Role.Staff() && user.UserID != userID {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "cannot view another client's profile")
		return
	}

	p, err := h.repo.GetByUserID(userID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "client profile not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	user := auth.UserFromContext(r.Context())
	if !user.Role.Staff() && user.UserID != userID {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "cannot modify another client's profile")
		return
	}

	p, err := h.repo.GetByUserID(userID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "client profile not found")
		return
	}

	var req UpdateRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.Goals != nil {
		p.Goals = *req.Goals
	}
	if req.FocusAreas != nil {
		p.FocusAreas = *req.FocusAreas
	}
	if req.PractitionerID != nil {
		// Reassigning the practitioner is a staff operation.
		if !user.Role.Staff() {
			httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "only staff may reassign a practitioner")
			return
		}
		p.PractitionerID = req.PractitionerID
	}
	if req.DateOfBirth != nil {
		p.DateOfBirth = req.DateOfBirth
	}

	if err := h.repo.Update(p); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to update profile")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}
