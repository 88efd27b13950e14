package main

import (
	"net/http"

	"github.com/adegamar/backend/handler"
	"github.com/adegamar/backend/middleware"
	"github.com/adegamar/backend/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App bundles the services the router needs. Wired from live Mongo
// repositories in main and from fakes in tests.
type App struct {
	Auth        *usecase.AuthService
	Users       *usecase.UserService
	Content     *usecase.ContentStore
	UserRepo    usecase.UserRepository
	SessionRepo usecase.SessionRepository
	Cookie      middleware.CookieConfig
}

func setupRouter(app *App) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))

	authHandler := handler.NewAuthHandler(app.Auth, app.Cookie)
	contentHandler := handler.NewContentHandler(app.Content)
	usersHandler := handler.NewUsersHandler(app.Users)
	sessionsHandler := handler.NewSessionsHandler(app.Auth, app.Cookie)
	statsHandler := handler.NewStatsHandler(app.UserRepo, app.SessionRepo, app.Content)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}
	}

	// Protected routes (valid session required; the middleware slides
	// the session expiry and refreshes the cookie on every request)
	protected := router.Group("/api")
	protected.Use(middleware.SessionMiddleware(app.Auth, app.Cookie))
	{
		auth := protected.Group("/auth")
		{
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/session", authHandler.Session)
		}

		// The wildcard also matches the bare group path; Get serves
		// the allow-list when no document path is given.
		content := protected.Group("/content")
		{
			content.GET("/*path", contentHandler.Get)
			content.PUT("/*path", contentHandler.Put)
		}

		users := protected.Group("/users")
		{
			users.POST("", usersHandler.Create)
			users.GET("", usersHandler.List)
			users.PUT("/:id/password", usersHandler.ChangePassword)
			users.DELETE("/:id", usersHandler.Delete)
		}

		protected.GET("/user/profile", usersHandler.Profile)

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", sessionsHandler.Active)
			sessions.POST("/logout-all", sessionsHandler.LogoutAll)
		}

		protected.GET("/admin/stats", statsHandler.Stats)
	}

	return router
}
