package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"career-pilot/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	userH *UserHandler,
	sourceH *SourceHandler,
	analysisH *AnalysisHandler,
	scoreH *ScoreHandler,
	actionH *ActionHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := r.Group("/auth")
	auth.POST("/signup", authH.Signup)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", authH.Logout)
	auth.DELETE("/account", JWTAuthMiddleware(jwtSvc), authH.DeleteAccount)

	protected := r.Group("", JWTAuthMiddleware(jwtSvc))

	protected.GET("/users/me", userH.Me)
	protected.POST("/onboarding/profile", userH.UpdateProfile)

	sources := protected.Group("/sources")
	sources.POST("", sourceH.Create)
	sources.GET("", sourceH.List)
	sources.POST("/:id/rescan", sourceH.Rescan)
	sources.DELETE("/:id", sourceH.Delete)
	sources.GET("/:id/preview", sourceH.Preview)
	sources.PATCH("/:id/confirm", sourceH.Confirm)

	analysis := protected.Group("/analysis")
	analysis.POST("/run", analysisH.Run)
	analysis.GET("/status", analysisH.Status)

	scores := protected.Group("/scores")
	scores.GET("/latest", scoreH.Latest)
	scores.GET("/history", scoreH.History)
	scores.GET("/detail/:id", scoreH.Detail)
	scores.GET("/market-position", scoreH.MarketPosition)
	scores.POST("/recalculate", scoreH.Recalculate)

	actions := protected.Group("/actions")
	actions.GET("", actionH.List)
	actions.PATCH("/:id/complete", actionH.ToggleComplete)
	actions.PATCH("/:id/bookmark", actionH.ToggleBookmark)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
