package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"mentor-booking/internal/handler/api"
	"mentor-booking/internal/handler/middleware"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/pkg/jwt"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// roles allowed to change an existing session
var sessionManagers = []string{jwt.RoleMentor, jwt.RoleService, jwt.RoleAdmin}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, sessionHandler *api.SessionHandler, mentorHandler *api.MentorHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, sessionHandler, mentorHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.RequestTimeout(cfg.DB.QueryTimeout))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, sessionHandler *api.SessionHandler, mentorHandler *api.MentorHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		mentors := apiGroup.Group("/mentors/:profileId")
		{
			addRoutes(mentors, []route{
				{Method: http.MethodPost, Path: "/sessions", Handler: sessionHandler.Create},
				{Method: http.MethodGet, Path: "/availability", Handler: mentorHandler.Availability},
				{Method: http.MethodGet, Path: "/stats", Handler: mentorHandler.Stats},
			})
		}

		sessions := apiGroup.Group("/sessions")
		{
			addRoutes(sessions, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: sessionHandler.Get},
				{Method: http.MethodPost, Path: "/:id/rating", Handler: sessionHandler.SubmitRating},
			})

			manage := []gin.HandlerFunc{authMiddleware.RequireAuth(), authMiddleware.RequireRole(sessionManagers...)}
			addRoutes(sessions, []route{
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: sessionHandler.Cancel, Mw: manage},
				{Method: http.MethodPost, Path: "/:id/reschedule", Handler: sessionHandler.Reschedule, Mw: manage},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: sessionHandler.Complete, Mw: manage},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
