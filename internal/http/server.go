package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/jmehdipour/custdir/internal/config"
	"github.com/jmehdipour/custdir/internal/http/middleware"
	"github.com/jmehdipour/custdir/internal/metrics"
	"github.com/jmehdipour/custdir/internal/repository"
	"github.com/jmehdipour/custdir/internal/state"
	"github.com/jmehdipour/custdir/internal/util"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps are the collaborators injected into the handlers.
type Deps struct {
	Customers repository.CustomersRepository
	State     *state.State
	Redis     *redis.Client // optional, enables rate limiting
	Logger    *zap.Logger
}

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

func NewServer(cfg config.Config, deps Deps) (*Server, error) {
	lg := deps.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	if deps.State == nil {
		deps.State = state.New()
	}

	renderer, err := newRenderer()
	if err != nil {
		return nil, err
	}
	static, err := newStaticFiles(cfg.Static)
	if err != nil {
		return nil, err
	}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.OFF)
	e.Renderer = renderer

	e.Use(
		echoMid.Recover(),
		echoMid.RequestIDWithConfig(echoMid.RequestIDConfig{Generator: util.NewID}),
		middleware.RequestLogger(lg),
		middleware.Metrics(),
		echoMid.CORS(),
	)
	if deps.Redis != nil && cfg.RateLimit.RPS > 0 {
		e.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{
			Redis:          deps.Redis,
			RPS:            cfg.RateLimit.RPS,
			RetryAfterHint: true,
		}))
	}

	if cfg.Metrics.Enabled {
		metrics.MustRegister()
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	// routes
	list := listCustomersHandler(deps.Customers, static, lg)
	e.GET("/", list)
	e.GET("/customers", list)
	e.GET("/api/customers", list)

	get := getCustomerHandler(deps.Customers, lg)
	e.GET("/customer/:id", get)
	e.GET("/api/customer/:id", get)

	e.GET("/config", configHandler(cfg))
	e.GET("/health", healthHandler)
	e.GET("/ready", readyHandler(deps.State))

	e.RouteNotFound("/*", static.serve)

	return &Server{e: e, log: lg}, nil
}

// Listen binds addr so that the caller can run startup checks once connections are accepted.
func (s *Server) Listen(addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s.e.Listener = ln
	return ln.Addr(), nil
}

// Start serves on the listener bound by Listen, or binds addr itself.
// It returns nil after Shutdown.
func (s *Server) Start(addr string) error {
	err := s.e.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.e.ServeHTTP(w, r) }
