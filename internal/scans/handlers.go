package scans

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lifearrow/platform/internal/auth"
	"github.com/lifearrow/platform/internal/eligibility"
	"github.com/lifearrow/platform/internal/httputil"
)

// GoalSource supplies a client's wellness goals for the recommendation flow.
type GoalSource interface {
	GoalsForUser(userID string) ([]string, error)
}

type Handler struct {
	repo        *Repository
	goals       GoalSource
	recommender *eligibility.Recommender
	validate    *validator.Validate
}

func NewHandler(repo *Repository, goals GoalSource, recommender *eligibility.Recommender) *Handler {
	return &Handler{
		repo:        repo,
		goals:       goals,
		recommender: recommender,
		validate:    validator.New(),
	}
}

func (h *Handler) Router(mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.With(mw.RequireStaff).Post("/", h.create)
	r.Get("/client/{clientID}", h.listByClient)
	r.Get("/{id}", h.getByID)
	r.Get("/{id}/recommendation", h.recommendation)
	r.With(mw.RequireStaff).Delete("/{id}", h.delete)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req CreateRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	s := &ScanResult{
		ClientID:       req.ClientID,
		PractitionerID: user.UserID,
		Metrics:        req.Metrics,
		Notes:          req.Notes,
		TakenAt:        time.Now().UTC(),
	}
	if req.TakenAt != nil {
		s.TakenAt = *req.TakenAt
	}
	if err := h.repo.Create(s); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to store scan")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, s)
}

func (h *Handler) listByClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	user := auth.UserFromContext(r.Context())
	if !user.Role.Staff() && user.UserID != clientID {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "cannot view another client's scans")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.repo.ListByClient(clientID, limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list scans")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, results)
}

// writeScanError keeps a missing row distinct from a database failure.
func writeScanError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "scan not found")
		return
	}
	httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load scan")
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		writeScanError(w, err)
		return
	}
	user := auth.UserFromContext(r.Context())
	if !user.Role.Staff() && user.UserID != s.ClientID {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "cannot view another client's scan")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s)
}

// recommendation resolves the conditional video for a stored scan: the
// scan's metrics plus the client's goals feed the evaluator, with an
// optional fallback slug from the query string.
func (h *Handler) recommendation(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		writeScanError(w, err)
		return
	}
	user := auth.UserFromContext(r.Context())
	if !user.Role.Staff() && user.UserID != s.ClientID {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "cannot view another client's scan")
		return
	}

	var attrs *eligibility.ClientAttributes
	if h.goals != nil {
		if goals, err := h.goals.GoalsForUser(s.ClientID); err == nil {
			attrs = &eligibility.ClientAttributes{Goals: goals}
		}
	}

	ec := eligibility.Context{
		Viewer: eligibility.Viewer{ID: user.UserID, Role: user.Role},
		Scan:   eligibility.ScanSnapshot(s.Metrics),
		Client: attrs,
	}
	v, err := h.recommender.Select(r.Context(), ec, r.URL.Query().Get("fallback"))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "recommendation failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"scan_id": s.ID,
		"video":   v,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(id); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete scan")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
