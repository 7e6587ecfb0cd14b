package eligibility

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lifearrow/platform/internal/auth"
	"github.com/lifearrow/platform/internal/httputil"
	"github.com/lifearrow/platform/internal/videos"
)

type Handler struct {
	recommender *Recommender
	catalog     *videos.Catalog
}

func NewHandler(recommender *Recommender, catalog *videos.Catalog) *Handler {
	return &Handler{recommender: recommender, catalog: catalog}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/recommendation", h.recommend)
	r.Post("/check/{videoID}", h.check)
	return r
}

type recommendRequest struct {
	Scan       ScanSnapshot      `json:"scan,omitempty"`
	Client     *ClientAttributes `json:"client,omitempty"`
	FallbackID string            `json:"fallback_id,omitempty"`
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req recommendRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	ec := Context{
		Viewer: Viewer{ID: user.UserID, Role: user.Role},
		Scan:   req.Scan,
		Client: req.Client,
	}
	v, err := h.recommender.Select(r.Context(), ec, req.FallbackID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "recommendation failed")
		return
	}
	// No match is a normal terminal outcome, not an error.
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"video": v})
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req recommendRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	v, err := h.catalog.GetByID(r.Context(), chi.URLParam(r, "videoID"))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "lookup failed")
		return
	}
	if v == nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "video not found")
		return
	}

	ec := Context{
		Viewer: Viewer{ID: user.UserID, Role: user.Role},
		Scan:   req.Scan,
		Client: req.Client,
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"video_id": v.ID,
		"eligible": IsEligible(ec, v),
	})
}
