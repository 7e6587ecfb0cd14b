package appointments

import (
	"errors"
	"net/http"
	"time"

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
	r.Post("/", h.book)
	r.Get("/client/{clientID}", h.listByClient)
	r.With(mw.RequireStaff).Get("/practitioner/{practitionerID}", h.listByPractitioner)
	r.Get("/{id}", h.get)
	r.With(mw.RequireStaff).Put("/{id}/status", h.updateStatus)
	r.Post("/{id}/cancel", h.cancel)
	return r
}

func (h *Handler) book(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req BookRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if !req.EndsAt.After(req.StartsAt) {
		httputil.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "ends_at must be after starts_at")
		return
	}
	// Clients may only book for themselves.
	if !user.Role.Staff() && req.ClientID != user.UserID {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "cannot book for another client")
		return
	}

	a := &Appointment{
		ClientID:       req.ClientID,
		PractitionerID: req.PractitionerID,
		OfferingID:     req.OfferingID,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Status:         StatusBooked,
		Notes:          req.Notes,
	}
	if err := h.repo.Create(a); err != nil {
		if errors.Is(err, ErrConflict) {
			httputil.WriteError(w, http.StatusConflict, "SLOT_TAKEN", "practitioner already booked for that slot")
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "booking failed")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) listByClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	user := auth.UserFromContext(r.Context())
	if !user.Role.Staff() && user.UserID != clientID {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "cannot view another client's appointments")
		return
	}

	from, to := rangeFromQuery(r)
	out, err := h.repo.ListByClient(clientID, from, to)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list appointments")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) listByPractitioner(w http.ResponseWriter, r *http.Request) {
	from, to := rangeFromQuery(r)
	out, err := h.repo.ListByPractitioner(chi.URLParam(r, "practitionerID"), from, to)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list appointments")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	a, err := h.repo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "appointment not found")
		return
	}
	user := auth.UserFromContext(r.Context())
	if !user.Role.Staff() && user.UserID != a.ClientID {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "cannot view another client's appointment")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status Status `json:"status"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil || !req.Status.Valid() {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_PARAM", "unknown status")
		return
	}
	if err := h.repo.UpdateStatus(chi.URLParam(r, "id"), req.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "appointment not found")
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "update failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.repo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "appointment not found")
		return
	}
	user := auth.UserFromContext(r.Context())
	if !user.Role.Staff() && user.UserID != a.ClientID {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "cannot cancel another client's appointment")
		return
	}
	if err := h.repo.UpdateStatus(id, StatusCancelled); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "cancel failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": string(StatusCancelled)})
}

func rangeFromQuery(r *http.Request) (time.Time, time.Time) {
	from := time.Now().AddDate(0, -1, 0)
	to := time.Now().AddDate(0, 3, 0)
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}
	return from, to
}
