package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"monipersonal/server/internal/auth"
	"monipersonal/server/internal/config"
	"monipersonal/server/internal/model"
	"monipersonal/server/internal/repository"
	"monipersonal/server/internal/session"
)

const sessionCookieName = "session_token"

// Store is the persistence surface the handlers need. *repository.Store
// implements it; tests substitute an in-memory fake.
type Store interface {
	auth.StudentFinder

	Ping(ctx context.Context) error

	CreateStudent(ctx context.Context, student model.Student) (model.Student, error)
	GetStudentByEmail(ctx context.Context, email string) (model.Student, error)
	GetActiveStudentByEmail(ctx context.Context, email string) (model.Student, error)
	GetStudentByID(ctx context.Context, id int64) (model.Student, error)
	UpdateStudent(ctx context.Context, id int64, update repository.StudentUpdate) (model.Student, error)
	DeactivateStudent(ctx context.Context, id int64) error

	GetActiveOperatorByEmail(ctx context.Context, email string) (model.Operator, error)

	CreateAssessment(ctx context.Context, assessment model.Assessment) (model.Assessment, error)
	ListAssessmentsByStudent(ctx context.Context, studentID int64) ([]model.Assessment, error)
	ListStudentOverviews(ctx context.Context) ([]repository.StudentOverview, error)

	GetSystemStats(ctx context.Context) (repository.SystemStats, error)
	CountAssessmentsSince(ctx context.Context, since time.Time) (int, error)
	GetBMIBands(ctx context.Context) (repository.BMIBands, error)
	CountStudentsWithProgress(ctx context.Context) (int, error)
	TopStudentsByAssessments(ctx context.Context, limit int) ([]repository.StudentActivity, error)
}

type Server struct {
	cfg      config.Config
	store    Store
	sessions session.Store
	codec    *auth.Codec
	resolver *auth.Resolver
	logger   zerolog.Logger
	now      func() time.Time
}

func NewServer(cfg config.Config, store Store, sessions session.Store, logger zerolog.Logger) *Server {
	codec := auth.NewCodec(cfg.SessionSecret, cfg.SessionTTL)
	return &Server{
		cfg:      cfg,
		store:    store,
		sessions: sessions,
		codec:    codec,
		resolver: auth.NewResolver(codec, sessions, store),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestLogger)
	r.Use(httprate.LimitByIP(120, time.Minute))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
	r.Get("/health", s.handleHealth)
	r.Get("/ping", s.handlePing)
	r.Get("/readiness", s.handleReadiness)
	r.Handle("/metrics", promhttp.Handler())

	// Credential endpoints get the strict tier.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(10, time.Minute))
		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Get("/register", s.handleRegisterPage)
		r.Post("/register", s.handleRegister)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)
		r.Get("/logout", s.handleLogout)
		r.Post("/logout", s.handleLogout)

		r.Route("/me", func(r chi.Router) {
			r.Use(s.requireStudent)
			r.Get("/history", s.handleMyHistory)
			r.Get("/profile", s.handleMyProfile)
			r.Post("/assessments", s.handleCreateAssessment)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(10, time.Minute))
			r.Get("/login", s.handleAdminLoginPage)
			r.Post("/login", s.handleAdminLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.sessionMiddleware)
			r.Use(s.requireAdmin)
			r.Get("/dashboard", s.handleAdminDashboard)
			r.Get("/stats", s.handleAdminStats)
			r.Get("/students", s.handleAdminListStudents)
			r.Get("/students/{studentID}", s.handleAdminGetStudent)
			r.Get("/students/{studentID}/progress", s.handleAdminStudentProgress)
			r.Get("/students/{studentID}/report.pdf", s.handleAdminStudentReport)
			r.Patch("/students/{studentID}", s.handleAdminPatchStudent)
			r.Delete("/students/{studentID}", s.handleAdminDeleteStudent)
		})
	})

	return r
}
