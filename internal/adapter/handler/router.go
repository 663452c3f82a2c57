package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/slidecast-team/slidecast/internal/infrastructure/http/middleware"
	"github.com/slidecast-team/slidecast/pkg/config"
	pkgjwt "github.com/slidecast-team/slidecast/pkg/jwt"
)

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	jwtManager       *pkgjwt.Manager
	authHandler      *Auth
	slidePackHandler *SlidePack
	courseHandler    *Course
	jobHandler       *Job
}

// NewRouter creates a new router with all handlers. jwtManager may be
// nil, which disables auth entirely.
func NewRouter(
	cfg *config.Config,
	jwtManager *pkgjwt.Manager,
	authHandler *Auth,
	slidePackHandler *SlidePack,
	courseHandler *Course,
	jobHandler *Job,
) *Router {
	return &Router{
		cfg:              cfg,
		jwtManager:       jwtManager,
		authHandler:      authHandler,
		slidePackHandler: slidePackHandler,
		courseHandler:    courseHandler,
		jobHandler:       jobHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// Token exchange stays outside the auth middleware
	v1 := e.Group("/v1")
	rt.setupAuthRoutes(v1)

	protected := e.Group("/v1", middleware.EchoAuth(rt.jwtManager))
	rt.setupSlidePackRoutes(protected)
	rt.setupCourseRoutes(protected)
	rt.setupJobRoutes(protected)
}

// setupAuthRoutes configures token exchange routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	if rt.authHandler != nil {
		authGroup.POST("/token", rt.authHandler.Token)
	} else {
		authGroup.POST("/token", rt.notImplemented)
	}
}

// setupSlidePackRoutes configures slide pack routes
func (rt *Router) setupSlidePackRoutes(g *echo.Group) {
	packGroup := g.Group("/slidepacks")

	if rt.slidePackHandler == nil {
		packGroup.Any("", rt.notImplemented)
		packGroup.Any("/*", rt.notImplemented)
		return
	}

	packGroup.POST("/generate", rt.slidePackHandler.Generate)
	packGroup.POST("/sync", rt.slidePackHandler.Sync)
	packGroup.POST("/import", rt.slidePackHandler.Import)
	packGroup.POST("/upload-batch", rt.slidePackHandler.UploadBatch)
	packGroup.POST("/merge", rt.slidePackHandler.Merge)

	packGroup.GET("", rt.slidePackHandler.List)
	packGroup.GET("/:id", rt.slidePackHandler.Get)
	packGroup.PATCH("/:id", rt.slidePackHandler.Rename)
	packGroup.DELETE("/:id", rt.slidePackHandler.Delete)
	packGroup.POST("/:id/sync", rt.slidePackHandler.Resync)
	packGroup.PUT("/:id/cards", rt.slidePackHandler.ReplaceCards)
	packGroup.POST("/:id/move", rt.slidePackHandler.Move)
	packGroup.GET("/:id/manifest", rt.slidePackHandler.ExportManifest)
}

// setupCourseRoutes configures course routes
func (rt *Router) setupCourseRoutes(g *echo.Group) {
	courseGroup := g.Group("/courses")

	if rt.courseHandler == nil {
		courseGroup.Any("", rt.notImplemented)
		courseGroup.Any("/*", rt.notImplemented)
		return
	}

	courseGroup.POST("", rt.courseHandler.Create)
	courseGroup.GET("", rt.courseHandler.List)
	courseGroup.GET("/:id", rt.courseHandler.Get)
	courseGroup.PATCH("/:id", rt.courseHandler.Rename)
	courseGroup.DELETE("/:id", rt.courseHandler.Delete)
	courseGroup.POST("/:id/reorder", rt.courseHandler.Reorder)
}

// setupJobRoutes configures job routes
func (rt *Router) setupJobRoutes(g *echo.Group) {
	jobGroup := g.Group("/jobs")

	if rt.jobHandler != nil {
		jobGroup.GET("/pending", rt.jobHandler.ListPending)
	} else {
		jobGroup.GET("/pending", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
