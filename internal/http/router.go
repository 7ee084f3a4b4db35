package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skill-radar/internal/service"
)

// RequestObserver registra cada request servido (implementado por metrics.Prometheus).
type RequestObserver interface {
	ObserveRequest(method, route string, status int, latency time.Duration)
}

// Observability agrupa las dependencias de /metrics y /healthz. Todas son opcionales.
type Observability struct {
	Requests RequestObserver
	Metrics  http.Handler
	Health   func(ctx context.Context) error
}

// NewRouter configura el router de Gin con middlewares y rutas base.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	obs Observability,
	questionnaireH *QuestionnaireHandler,
	sessionH *SessionHandler,
	overviewH *OverviewHandler,
) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	// Middlewares basicos: logging, metricas y recovery.
	r.Use(zapLoggerMiddleware(logger), metricsMiddleware(obs.Requests), gin.Recovery())

	// El websocket no puede llevar Content-Type JSON forzado en el upgrade.
	r.GET("/sessions/:id/live", sessionH.LiveSession)

	if obs.Metrics != nil {
		r.GET("/metrics", gin.WrapH(obs.Metrics))
	}

	api := r.Group("", jsonContentTypeMiddleware())
	api.GET("/healthz", healthHandler(obs.Health))

	api.GET("/questionnaire", questionnaireH.GetQuestionnaire)
	api.POST("/questionnaire/score", questionnaireH.PreviewScores)
	api.GET("/sessions/:id", sessionH.GetSessionResults)

	auth := api.Group("", JWTAuthMiddleware(jwtSvc))
	auth.POST("/answers", questionnaireH.SubmitAnswers)
	auth.POST("/sessions", sessionH.StartSession)
	auth.GET("/sessions", sessionH.ListSessions)
	auth.GET("/overview", overviewH.GetOverview)
	auth.GET("/overview/similar", overviewH.GetSimilar)

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

// metricsMiddleware reporta method, ruta y status de cada request.
func metricsMiddleware(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if obs == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		obs.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

// healthHandler maneja GET /healthz.
func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
