package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"birthday-coupons/internal/config"
	"birthday-coupons/internal/usecase"
)

// IssuanceTrigger is the slice of the scheduler the admin API can poke.
type IssuanceTrigger interface {
	RunNow(ctx context.Context)
}

// Server is the JWT-protected admin API: the coupon log page, the
// stats dashboard, the effective settings, and a manual run trigger.
type Server struct {
	logsUC  usecase.CouponLogUseCase
	statsUC usecase.StatsUseCase
	issueUC usecase.IssuanceUseCase
	trigger IssuanceTrigger
	auth    *AuthManager
	cfg     *config.Config
	log     *zerolog.Logger
}

func NewServer(
	logsUC usecase.CouponLogUseCase,
	statsUC usecase.StatsUseCase,
	issueUC usecase.IssuanceUseCase,
	trigger IssuanceTrigger,
	cfg *config.Config,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "AdminAPI").Logger()
	return &Server{
		logsUC:  logsUC,
		statsUC: statsUC,
		issueUC: issueUC,
		trigger: trigger,
		auth:    NewAuthManager(cfg.Admin.JWTSecret, cfg.Admin.Password, !cfg.Runtime.Dev, 30*time.Minute),
		cfg:     cfg,
		log:     &compLog,
	}
}

// Router builds the chi router for the admin surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Post("/admin/api/v1/login", s.handleLogin)
	r.Post("/admin/api/v1/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/admin/api/v1/coupons", s.handleListCoupons)
		r.Get("/admin/api/v1/stats", s.handleStats)
		r.Get("/admin/api/v1/settings", s.handleSettings)
		r.Post("/admin/api/v1/issuance/run", s.handleRunNow)
		r.Post("/admin/api/v1/users/{userID}/issue", s.handleIssueForUser)
	})
	return r
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Authenticate(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
