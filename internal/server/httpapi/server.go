// Package httpapi exposes the quiz services as a JSON API over HTTP using
// echo. Sessions travel in the gophquiz_session cookie.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophquiz/internal/common"
	"github.com/dmitrijs2005/gophquiz/internal/logging"
	"github.com/dmitrijs2005/gophquiz/internal/server/materials"
	"github.com/dmitrijs2005/gophquiz/internal/server/models"
	"github.com/dmitrijs2005/gophquiz/internal/server/services"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (int64, error)
	Login(ctx context.Context, previousToken, nickname, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, userID int64) (*models.Profile, error)
}

type SessionResolver interface {
	Current(ctx context.Context, token string) (*models.Session, error)
	TTL() time.Duration
}

type ProgressService interface {
	UpdateProgress(ctx context.Context, userID int64, subject string, score int) error
}

type Catalog interface {
	ListCourseSummaries(ctx context.Context) (map[string]models.CourseSummary, error)
	GetQuestions(ctx context.Context, subject string) ([]models.Question, error)
}

// Deps are the collaborators the handlers delegate to.
type Deps struct {
	Users     UserService
	Sessions  SessionResolver
	Progress  ProgressService
	Catalog   Catalog
	Materials materials.Store
}

type Options struct {
	// LoginRatePerSecond <= 0 disables login rate limiting.
	LoginRatePerSecond float64
	LoginBurst         int
}

type Server struct {
	address   string
	echo      *echo.Echo
	users     UserService
	sessions  SessionResolver
	progress  ProgressService
	catalog   Catalog
	materials materials.Store
	logger    logging.Logger
}

func NewServer(address string, l logging.Logger, d Deps, opts Options) *Server {
	s := &Server{
		address:   address,
		users:     d.Users,
		sessions:  d.Sessions,
		progress:  d.Progress,
		catalog:   d.Catalog,
		materials: d.Materials,
		logger:    l.With("module", "http_server"),
	}
	s.echo = s.newRouter(opts)
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) newRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler
	// The login limiter keys on this; forwarding headers are client controlled.
	e.IPExtractor = echo.ExtractIPDirect()

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:    uuid.NewString,
		TargetHeader: common.RequestIDHeader,
	}))
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())

	e.GET("/healthz", s.health)

	api := e.Group("/api")
	api.POST("/register", s.register)
	api.POST("/login", s.login, loginRateLimiter(opts)...)
	api.GET("/logout", s.logout)
	api.POST("/logout", s.logout)
	api.GET("/check_session", s.checkSession)
	api.GET("/courses", s.courses)

	api.GET("/data", s.appData, s.requireSession)
	api.GET("/quiz/:subject", s.quiz, s.requireSession)
	api.POST("/progress", s.updateProgress, s.requireSession)

	e.GET("/courses/*", s.courseMaterial)

	return e
}

// Run serves until ctx is cancelled, then shuts down gracefully. It returns
// only after in-flight requests have drained or the shutdown timeout hit.
func (s *Server) Run(ctx context.Context) error {
	s.echo.Server.ReadHeaderTimeout = readHeaderTimeout

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
