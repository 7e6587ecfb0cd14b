package users

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lifearrow/platform/internal/httputil"
)

// Caller is the authenticated identity as seen by this package. The auth
// middleware provides it; declaring it here avoids an import cycle.
type Caller struct {
	UserID string
	Role   Role
}

type CallerFunc func(r *http.Request) *Caller

type Handler struct {
	repo   *Repository
	caller CallerFunc
}

func NewHandler(repo *Repository, caller CallerFunc) *Handler {
	return &Handler{repo: repo, caller: caller}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/me", h.me)
	r.Get("/me/profile", h.getProfile)
	r.Put("/me/profile", h.updateProfile)
	r.Get("/{id}", h.getByID)
	r.Put("/{id}", h.update)
	r.Put("/{id}/role", h.updateRole)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	u := h.caller(r)
	if u == nil || !u.Role.Staff() {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "staff access required")
		return
	}
	role := Role(r.URL.Query().Get("role"))
	if role != "" && !role.Valid() {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_PARAM", "unknown role")
		return
	}
	out, err := h.repo.List(role)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list users")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u := h.caller(r)
	if u == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
		return
	}
	user, err := h.repo.GetByID(u.UserID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	u := h.caller(r)
	id := chi.URLParam(r, "id")
	if u == nil || (u.UserID != id && !u.Role.Staff()) {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "cannot view this user")
		return
	}
	user, err := h.repo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := h.caller(r)
	if caller == nil || (caller.UserID != id && caller.Role != RoleAdmin) {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "cannot edit this user")
		return
	}

	var req struct {
		FirstName string  `json:"first_name"`
		LastName  string  `json:"last_name"`
		Phone     *string `json:"phone"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	user, err := h.repo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if err := h.repo.Update(user); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "update failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	caller := h.caller(r)
	if caller == nil || caller.Role != RoleAdmin {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
		return
	}

	var req struct {
		Role Role `json:"role"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil || !req.Role.Valid() {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_PARAM", "unknown role")
		return
	}
	if err := h.repo.UpdateRole(chi.URLParam(r, "id"), req.Role); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "role update failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"role": string(req.Role)})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	caller := h.caller(r)
	id := chi.URLParam(r, "id")
	if caller == nil || caller.Role != RoleAdmin {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
		return
	}
	if caller.UserID == id {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_PARAM", "cannot delete your own account")
		return
	}
	if err := h.repo.Delete(id); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "delete failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	u := h.caller(r)
	if u == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
		return
	}
	p, err := h.repo.GetProfile(u.UserID)
	if err != nil {
		if err := h.repo.CreateDefaultProfile(u.UserID); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load profile")
			return
		}
		p, err = h.repo.GetProfile(u.UserID)
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load profile")
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	u := h.caller(r)
	if u == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
		return
	}

	var prefs json.RawMessage
	if err := httputil.ReadJSON(r, &prefs); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	p, err := h.repo.GetProfile(u.UserID)
	if err != nil {
		if err := h.repo.CreateDefaultProfile(u.UserID); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load profile")
			return
		}
		p, err = h.repo.GetProfile(u.UserID)
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load profile")
			return
		}
	}
	p.Preferences = prefs
	if err := h.repo.UpdateProfile(p); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "profile update failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}
