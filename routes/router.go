package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/interntrack/backend/config"
	"github.com/interntrack/backend/controllers"
	"github.com/interntrack/backend/middleware"
	"github.com/interntrack/backend/utils"
)

// SetupRouter wires middleware, controllers and routes onto a gin engine.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	router := gin.New()

	// Access logs get their own file; sharing the app log would mean two
	// lumberjack writers rotating the same path.
	accessLogger, err := utils.NewRollingFileLogger(
		cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress,
	)
	if err != nil {
		accessLogger = utils.Logger
	}
	router.Use(utils.Ginzap(accessLogger, time.RFC3339, true))
	router.Use(utils.RecoveryWithZap(accessLogger, true))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	engagementController := controllers.NewEngagementController(db)
	watchlistController := controllers.NewWatchlistController(db)
	internshipController := controllers.NewInternshipController(db)
	statsController := controllers.NewStatsController(db)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware())
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/oauth/:provider", authController.OAuthRedirect)
		auth.GET("/oauth/:provider/callback", authController.OAuthCallback)
	}

	public := v1.Group("")
	{
		public.GET("/internships", internshipController.List)
		public.GET("/internships/:id", internshipController.Get)
		public.GET("/stats", statsController.GetStats)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthRequired())
	protected.Use(middleware.RateLimitMiddleware())
	{
		protected.POST("/auth/logout", authController.Logout)
		protected.GET("/auth/me", authController.Me)

		protected.POST("/checkin", engagementController.CheckIn)
		protected.GET("/checkin/status", engagementController.CheckInStatus)

		protected.POST("/applications", engagementController.LogApplication)
		protected.GET("/applications", engagementController.ListApplications)

		protected.GET("/badges", engagementController.BadgeProgress)

		protected.POST("/watchlist", watchlistController.Add)
		protected.GET("/watchlist", watchlistController.List)
		protected.DELETE("/watchlist/:id", watchlistController.Remove)

		protected.GET("/matches", watchlistController.Matches)
		protected.GET("/notifications", watchlistController.Notifications)
	}

	router.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			ctx.JSON(http.StatusNotFound, gin.H{"code": 40400, "message": "route not found"})
			return
		}
		ctx.Status(http.StatusNotFound)
	})

	return router
}
