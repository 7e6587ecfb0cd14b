package auth

import (
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/lifearrow/platform/internal/httputil"
	"github.com/lifearrow/platform/internal/users"
)

const sessionTTL = 7 * 24 * time.Hour

// Options carry the settings-backed knobs for the auth endpoints.
type Options struct {
	SignupEnabled     bool
	MinPasswordLength int
}

type Handler struct {
	svc      *Service
	users    *users.Repository
	sessions *SessionRepository
	validate *validator.Validate
	opts     Options

	limitMu  sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewHandler(svc *Service, userRepo *users.Repository, sessions *SessionRepository, opts Options) *Handler {
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = 8
	}
	return &Handler{
		svc:      svc,
		users:    userRepo,
		sessions: sessions,
		validate: validator.New(),
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (h *Handler) Router(mw *Middleware) chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.signup)
	r.Post("/signin", h.signin)
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Post("/signout", h.signout)
		r.Get("/session", h.session)
	})
	return r
}

type signupRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Phone     string `json:"phone,omitempty"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	if !h.opts.SignupEnabled {
		httputil.WriteError(w, http.StatusForbidden, "SIGNUP_DISABLED", "self-signup is disabled")
		return
	}

	var req signupRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := ValidatePassword(req.Password, h.opts.MinPasswordLength, true); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "WEAK_PASSWORD", "password does not meet requirements")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "signup failed")
		return
	}

	u := &users.User{
		Role:         users.RoleClient,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        NormalizeEmail(req.Email),
		PasswordHash: hash,
	}
	if req.Phone != "" {
		u.Phone = &req.Phone
	}
	if err := h.users.Create(u); err != nil {
		httputil.WriteError(w, http.StatusConflict, "EMAIL_IN_USE", "email already registered")
		return
	}
	if err := h.users.CreateDefaultProfile(u.ID); err != nil {
		log.Printf("auth: default profile for %s failed: %v", u.ID, err)
	}

	tokens, err := h.openSession(u)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "signup failed")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"user":   u,
		"tokens": tokens,
	})
}

type signinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	if !h.allow(r) {
		httputil.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many login attempts")
		return
	}

	var req signinRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	u, err := h.users.GetByEmail(NormalizeEmail(req.Email))
	if err != nil || !CheckPassword(u.PasswordHash, req.Password) {
		httputil.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		return
	}

	tokens, err := h.openSession(u)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "signin failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":   u,
		"tokens": tokens,
	})
}

func (h *Handler) signout(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)
	if err := h.sessions.Delete(token); err != nil {
		log.Printf("auth: signout delete failed: %v", err)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	u, err := h.users.GetByID(user.UserID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) openSession(u *users.User) (*Tokens, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}
	exp := time.Now().Add(sessionTTL).Unix()
	if err := h.sessions.Create(&Session{
		Token:     token,
		UserID:    u.ID,
		Role:      u.Role,
		ExpiresAt: exp,
	}); err != nil {
		return nil, err
	}
	access, _, err := h.svc.IssueAccessToken(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &Tokens{SessionToken: token, AccessToken: access, ExpiresAt: exp}, nil
}

// allow applies a per-IP limiter to the signin endpoint: 5 attempts burst,
// refilling one every 10 seconds.
func (h *Handler) allow(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	h.limitMu.Lock()
	defer h.limitMu.Unlock()
	lim, ok := h.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(10*time.Second), 5)
		h.limiters[host] = lim
	}
	return lim.Allow()
}
