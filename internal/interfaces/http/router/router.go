package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/siscom/backend/internal/infrastructure/auth"
	"github.com/siscom/backend/internal/infrastructure/config"
	"github.com/siscom/backend/internal/infrastructure/logger"
	"github.com/siscom/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under the versioned API group
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// EngineConfig carries the dependencies of the middleware chain
type EngineConfig struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
}

// NewEngine builds a gin engine with the standard middleware chain:
// recovery, request ID, structured logging, tracing, CORS, body limit
// and JWT authentication.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	if cfg.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.Config.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.Config.HTTP.TrustedProxies); err != nil {
			return nil, err
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Config.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Config.HTTP.CORSAllowOrigins
	}
	if len(cfg.Config.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.Config.HTTP.CORSAllowMethods
	}
	if len(cfg.Config.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.Config.HTTP.CORSAllowHeaders
	}

	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Config.Telemetry.ServiceName,
		Enabled:     cfg.Config.Telemetry.Enabled,
	}))
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(middleware.DefaultMaxBodyBytes))

	if cfg.JWTService != nil {
		jwtConfig := middleware.DefaultJWTConfig(cfg.JWTService)
		jwtConfig.Logger = cfg.Logger
		engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
		engine.Use(middleware.TraceAttributes())
	}

	return engine, nil
}
