package websocket

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"flow-board/internal/hub"
	"flow-board/internal/service"
)

// WebSocketHandler 负责处理 WebSocket 升级请求：打开绘制会话并把客户端注册到 Hub
type WebSocketHandler struct {
	upgrader   websocket.Upgrader
	hub        *hub.Hub
	drawingSvc *service.DrawingService
}

// NewWebSocketHandler 创建 WebSocketHandler 实例。allowedOrigin 为空时允许所有来源。
func NewWebSocketHandler(hub *hub.Hub, drawingSvc *service.DrawingService, allowedOrigin string) *WebSocketHandler {
	if hub == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if drawingSvc == nil {
		panic("DrawingService cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return &WebSocketHandler{
		upgrader:   upgrader,
		hub:        hub,
		drawingSvc: drawingSvc,
	}
}

// HandleConnection 处理 WebSocket 连接请求
// URL 格式: /ws/boards/{boardId}?solution_id={solutionId}
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	logCtx := logrus.WithFields(logrus.Fields{})

	// 1. 获取认证用户 ID (由 Auth 中间件设置)
	userIDAny, exists := c.Get("user_id")
	if !exists {
		logCtx.Warn("WS Handler: User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		logCtx.Error("WS Handler: User ID in context is not uint")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	boardID := c.Param("boardId")
	solutionID := c.Query("solution_id")
	logCtx = logCtx.WithFields(logrus.Fields{"user_id": userID, "board_id": boardID, "solution_id": solutionID})

	// 2. 升级前打开绘制会话，谜题板或解答不存在时仍可返回 HTTP 错误
	session, err := h.drawingSvc.OpenSession(c.Request.Context(), userID, boardID, solutionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Game board not found"})
		case errors.Is(err, service.ErrSolutionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Solution not found"})
		default:
			logCtx.WithError(err).Error("WS Handler: Failed to open drawing session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open drawing session"})
		}
		return
	}

	// 3. 升级 HTTP 连接到 WebSocket
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 会自动写入 HTTP 错误响应
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		session.Close()
		return
	}
	logCtx.Info("WS Handler: Connection upgraded to WebSocket")

	// 4. 发送初始状态并注册
	client := hub.NewClient(h.hub, conn, userID, session)
	client.SendSession()
	if !h.hub.QueueMessage(hub.HubMessage{Type: hub.MessageRegister, Client: client}) {
		logCtx.Error("WS Handler: Hub message channel full, failed to register client")
		session.Close()
		client.CloseConn()
		return
	}

	// 5. 启动读写 goroutine
	client.Run()
	logCtx.Info("WS Handler: Client read/write pumps started")
}
