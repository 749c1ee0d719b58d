package bootstrap

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	httpHandler "flow-board/internal/handler/http"
	wsHandler "flow-board/internal/handler/websocket"
)

// Handlers 汇总路由需要的所有处理器和中间件
type Handlers struct {
	Auth      *httpHandler.AuthHandler
	Boards    *httpHandler.BoardHandler
	Solutions *httpHandler.SolutionHandler
	WS        *wsHandler.WebSocketHandler
	AuthMW    gin.HandlerFunc
	RateLimit gin.HandlerFunc // 可以为 nil
}

// NewRouter 创建 Gin Engine 并注册路由
func NewRouter(log *logrus.Logger, corsOrigin string, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(corsOrigin))
	if h.RateLimit != nil {
		router.Use(h.RateLimit)
	}

	api := router.Group("/api")
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
	}
	boardRoutes := api.Group("/boards").Use(h.AuthMW)
	{
		boardRoutes.GET("", h.Boards.ListBoards)
		boardRoutes.GET("/my", h.Boards.ListMyBoards)
		boardRoutes.POST("", h.Boards.CreateBoard)
		boardRoutes.GET("/:boardId", h.Boards.GetBoard)
		boardRoutes.PUT("/:boardId", h.Boards.UpdateBoard)
		boardRoutes.DELETE("/:boardId", h.Boards.DeleteBoard)
		boardRoutes.GET("/:boardId/solutions", h.Solutions.ListSolutions)
		boardRoutes.POST("/:boardId/solutions", h.Solutions.CreateSolution)
		boardRoutes.GET("/:boardId/solutions/:solutionId", h.Solutions.GetSolution)
		boardRoutes.PUT("/:boardId/solutions/:solutionId", h.Solutions.UpdateSolution)
	}
	wsRoutes := router.Group("/ws").Use(h.AuthMW)
	{
		wsRoutes.GET("/boards/:boardId", h.WS.HandleConnection)
	}
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

// CORSMiddleware 设置跨域响应头，预检请求直接返回
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggerMiddleware 创建一个 Gin 中间件用于记录请求日志
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			query := c.Request.URL.Query()
			if query.Has("token") {
				query.Set("token", "REDACTED") // WebSocket 连接的 JWT 不写入日志
			}
			path = path + "?" + query.Encode()
		}
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		switch {
		case errorMessage != "":
			entry.Error(errorMessage)
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}
