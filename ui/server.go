package ui

import (
	"context"
	stderrors "errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"surveystat/adapters/charts"
	"surveystat/app"
	"surveystat/internal"
	"surveystat/internal/config"
	"surveystat/internal/errors"
	"surveystat/ui/middleware"
)

// Server is the web front end of both dashboards. It keeps no per-user state:
// every request carries the upload it is about.
type Server struct {
	router    *gin.Engine
	templates *template.Template
	alpha     *app.AlphaService
	normality *app.NormalityService
	charts    *charts.Renderer
	config    config.ServerConfig
	logger    *internal.Logger
}

// Options wires the server to its services
type Options struct {
	Alpha     *app.AlphaService
	Normality *app.NormalityService
	Charts    *charts.Renderer
	Config    config.ServerConfig
	Logger    *internal.Logger
}

// NewServer creates the router, parses the templates and registers the routes
func NewServer(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = internal.DefaultLogger
	}
	if opts.Charts == nil {
		opts.Charts = charts.NewRenderer()
	}
	if opts.Alpha == nil || opts.Normality == nil {
		return nil, errors.ConfigInvalid("server needs both the alpha and the normality service")
	}
	if opts.Config.MaxUploadMB <= 0 {
		opts.Config.MaxUploadMB = config.Default().Server.MaxUploadMB
	}
	if opts.Config.ChartWorkers <= 0 {
		opts.Config.ChartWorkers = 1
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}

	s := &Server{
		router:    gin.New(),
		templates: templates,
		alpha:     opts.Alpha,
		normality: opts.Normality,
		charts:    opts.Charts,
		config:    opts.Config,
		logger:    opts.Logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	// a data URL inflates the upload by a third; leave headroom for the form fields
	bodyLimit := s.maxUploadBytes()*2 + 1<<20
	s.router.Use(gin.Recovery(), middleware.RequestLogger(s.logger), middleware.LimitRequestBody(bodyLimit))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	s.router.POST("/alpha", s.handleAlpha)
	s.router.POST("/alpha/report", s.handleAlphaReport)
	s.router.POST("/normality/columns", s.handleNormalityColumns)
	s.router.POST("/normality/test", s.handleNormalityTest)

	api := s.router.Group("/api")
	api.POST("/alpha", s.handleAPIAlpha)
	api.POST("/normality/columns", s.handleAPINormalityColumns)
	api.POST("/normality", s.handleAPINormality)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[Server] listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("[Server] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// statusFor maps a workflow error to an HTTP status
func statusFor(err error) int {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.CodeFormatError, errors.CodeComputationError:
		return http.StatusUnprocessableEntity
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeValidationError:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// logFailure logs errors that are not the user's doing
func (s *Server) logFailure(route string, err error) {
	if app.IsUserError(err) {
		s.logger.Debug("[%s] %v", route, err)
		return
	}
	s.logger.Error("[%s] %v", route, err)
}
