package api

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lifearrow/platform/internal/appointments"
	"github.com/lifearrow/platform/internal/auth"
	"github.com/lifearrow/platform/internal/cache"
	"github.com/lifearrow/platform/internal/clients"
	"github.com/lifearrow/platform/internal/config"
	"github.com/lifearrow/platform/internal/eligibility"
	"github.com/lifearrow/platform/internal/events"
	"github.com/lifearrow/platform/internal/ingest"
	"github.com/lifearrow/platform/internal/offerings"
	"github.com/lifearrow/platform/internal/scans"
	"github.com/lifearrow/platform/internal/settings"
	"github.com/lifearrow/platform/internal/users"
	"github.com/lifearrow/platform/internal/videos"
)

// Server wires the feature packages into one HTTP handler.
type Server struct {
	router   chi.Router
	catalog  *videos.Catalog
	hub      *events.Hub
	cache    *cache.Cache
	enqueuer *ingest.Enqueuer
	sessions *auth.SessionRepository
}

func NewServer(database *sql.DB, cfg *config.Config, queue *ingest.Queue) *Server {
	userRepo := users.NewRepository(database)
	sessionRepo := auth.NewSessionRepository(database)
	clientRepo := clients.NewRepository(database)
	scanRepo := scans.NewRepository(database)
	apptRepo := appointments.NewRepository(database)
	offeringRepo := offerings.NewRepository(database)
	settingsRepo := settings.NewRepository(database)

	videoCache := cache.New(cfg.RedisAddr, cfg.CacheTTL)
	store := videos.NewPGStore(database)
	enqueuer := ingest.NewEnqueuer(queue, cfg.IngestDelay)
	catalog := videos.NewCatalog(store, enqueuer, videoCache)

	recommender := eligibility.NewRecommender(catalog, cfg.DefaultIntroSlug)

	authSvc := auth.NewService(cfg.JWTSecret, 15*time.Minute)
	mw := auth.NewMiddleware(sessionRepo)

	hub := events.NewHub(func(token string) (string, error) {
		s, err := sessionRepo.Get(token)
		if err != nil {
			return "", err
		}
		return s.UserID, nil
	})
	ingest.RegisterHandlers(queue, catalog, hub)

	callerFromRequest := func(r *http.Request) *users.Caller {
		u := auth.UserFromContext(r.Context())
		if u == nil {
			return nil
		}
		return &users.Caller{UserID: u.UserID, Role: u.Role}
	}

	authHandler := auth.NewHandler(authSvc, userRepo, sessionRepo, auth.Options{
		SignupEnabled:     cfg.SignupEnabled,
		MinPasswordLength: cfg.PasswordMinLength,
	})
	userHandler := users.NewHandler(userRepo, callerFromRequest)
	videoHandler := videos.NewHandler(catalog)
	eligHandler := eligibility.NewHandler(recommender, catalog)
	clientHandler := clients.NewHandler(clientRepo)
	scanHandler := scans.NewHandler(scanRepo, clientRepo, recommender)
	apptHandler := appointments.NewHandler(apptRepo)
	offeringHandler := offerings.NewHandler(offeringRepo)
	settingsHandler := settings.NewHandler(settingsRepo)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Router(mw))

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth)
			r.Mount("/users", userHandler.Router())
			r.Mount("/videos", videoHandler.Router())
			r.Mount("/eligibility", eligHandler.Router())
			r.Mount("/clients", clientHandler.Router(mw))
			r.Mount("/scans", scanHandler.Router(mw))
			r.Mount("/appointments", apptHandler.Router(mw))
			r.Mount("/offerings", offeringHandler.Router(mw))
			r.Mount("/settings", settingsHandler.Router(mw))
		})
	})

	r.Handle("/ws", hub)

	log.Println("api: routes registered")
	return &Server{
		router:   r,
		catalog:  catalog,
		hub:      hub,
		cache:    videoCache,
		enqueuer: enqueuer,
		sessions: sessionRepo,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Catalog exposes the video catalog for background jobs.
func (s *Server) Catalog() *videos.Catalog {
	return s.catalog
}

func (s *Server) Enqueuer() *ingest.Enqueuer {
	return s.enqueuer
}

func (s *Server) Sessions() *auth.SessionRepository {
	return s.sessions
}

func (s *Server) Close() {
	if err := s.cache.Close(); err != nil {
		log.Printf("api: cache close: %v", err)
	}
}
