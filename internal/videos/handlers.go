package videos

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lifearrow/platform/internal/auth"
	"github.com/lifearrow/platform/internal/httputil"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.search)
	r.Post("/", h.create)
	r.Get("/recent", h.recent)
	r.Get("/category/{category}", h.byCategory)
	r.Get("/slug/{uniqueID}", h.getBySlug)
	r.Get("/{id}", h.getByID)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil || !user.Role.Staff() {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "practitioner access required")
		return
	}

	var req UploadRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	req.UploadedBy = user.UserID

	v, err := h.catalog.Create(r.Context(), req)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filters{
		Title:    q.Get("title"),
		UniqueID: q.Get("unique_id"),
		Category: Category(q.Get("category")),
		Status:   Status(q.Get("status")),
		Sort:     SortOrder(q.Get("sort")),
	}
	if tags, ok := q["tag"]; ok {
		f.Tags = tags
	}
	if v := q.Get("is_public"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "INVALID_PARAM", "is_public must be a boolean")
			return
		}
		f.IsPublic = &b
	}
	if v := q.Get("uploaded_after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "INVALID_PARAM", "uploaded_after must be RFC3339")
			return
		}
		f.UploadedAfter = &t
	}
	if v := q.Get("uploaded_before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "INVALID_PARAM", "uploaded_before must be RFC3339")
			return
		}
		f.UploadedBefore = &t
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	result, err := h.catalog.Search(r.Context(), f)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "search failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	vs, err := h.catalog.ListRecent(r.Context(), viewerID(r), limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list videos")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, vs)
}

func (h *Handler) byCategory(w http.ResponseWriter, r *http.Request) {
	cat := Category(chi.URLParam(r, "category"))
	if !cat.Valid() {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_PARAM", "unknown category")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	vs, err := h.catalog.ListByCategory(r.Context(), viewerID(r), cat, limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list videos")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, vs)
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	v, err := h.catalog.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "lookup failed")
		return
	}
	if v == nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "video not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	v, err := h.catalog.GetByUniqueID(r.Context(), chi.URLParam(r, "uniqueID"))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "lookup failed")
		return
	}
	if v == nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "video not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil || !user.Role.Staff() {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "practitioner access required")
		return
	}

	var req UpdateRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	v, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil || !user.Role.Staff() {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "practitioner access required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		writeCatalogError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDuplicateID):
		httputil.WriteError(w, http.StatusConflict, "DUPLICATE_IDENTIFIER", err.Error())
	case errors.Is(err, ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "video not found")
	case errors.Is(err, ErrRevisionConflict):
		httputil.WriteError(w, http.StatusConflict, "REVISION_CONFLICT", "video was modified concurrently")
	case errors.Is(err, ErrValidation):
		httputil.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "operation failed")
	}
}

func viewerID(r *http.Request) string {
	if user := auth.UserFromContext(r.Context()); user != nil {
		return user.UserID
	}
	return ""
}
