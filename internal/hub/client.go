package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"flow-board/internal/domain"
	"flow-board/internal/dto"
	"flow-board/internal/engine"
)

// DrawingSession 是客户端驱动的绘制会话，由 service.DrawingSession 实现
type DrawingSession interface {
	Handle(ctx context.Context, ev engine.Event) ([]engine.Effect, error)
	Save(ctx context.Context) (*domain.Solution, error)
	Board() (*domain.Board, []domain.Point)
	Paths() []domain.Path
	SolutionID() string
	Close()
}

// Client 代表一个连接到 Hub 的 WebSocket 客户端，独占一个绘制会话。
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	userID  uint
	boardID string
	session DrawingSession
	send    chan []byte
	saves   *rate.Limiter // 保存会写数据库，限制单个连接的保存频率
	logCtx  *logrus.Entry
}

const (
	saveRate  = rate.Limit(1) // 每秒
	saveBurst = 3
)

// ErrSaveRateLimited 保存过于频繁
var ErrSaveRateLimited = errors.New("saving too frequently, try again later")

// NewClient 创建一个新的 Client 实例
func NewClient(hub *Hub, conn *websocket.Conn, userID uint, session DrawingSession) *Client {
	board, _ := session.Board()
	return &Client{
		hub:     hub,
		conn:    conn,
		userID:  userID,
		boardID: board.ID,
		session: session,
		send:    make(chan []byte, 256),
		saves:   rate.NewLimiter(saveRate, saveBurst),
		logCtx:  logrus.WithFields(logrus.Fields{"user_id": userID, "board_id": board.ID}),
	}
}

// Run 启动客户端的读写 goroutine
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

func (c *Client) BoardID() string { return c.boardID }
func (c *Client) UserID() uint    { return c.userID }
func (c *Client) CloseConn()      { c.conn.Close() }

// SendSession 发送会话的初始状态：谜题板以及已恢复的路径
func (c *Client) SendSession() {
	board, points := c.session.Board()
	sol := &domain.Solution{ID: c.session.SolutionID(), BoardID: board.ID, UserID: c.userID}
	c.queue(dto.SessionMessage{
		Type:     dto.ServerSession,
		Board:    dto.NewBoardResponse(board, points),
		Solution: dto.NewSolutionResponse(sol, c.session.Paths()),
	})
}

// ReadPump 读取客户端消息并同步交给绘制会话处理。
// 它在自己的 goroutine 中运行，是会话唯一的驱动者。
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.messageChan <- HubMessage{Type: MessageUnregister, Client: c}:
		case <-time.After(1 * time.Second):
			c.logCtx.Warn("Timeout sending unregister message to Hub channel")
		}
		c.session.Close()
		c.conn.Close()
		c.logCtx.Info("readPump exited, unregistered client")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				c.logCtx.Debug("WebSocket connection closed normally or read error")
			}
			break
		}
		if messageType != websocket.TextMessage {
			c.logCtx.Debugf("Received non-text message type: %d", messageType)
			continue
		}
		c.handleMessage(context.Background(), message)
	}
}

// handleMessage 解析一条客户端消息并把结果放入发送队列
func (c *Client) handleMessage(ctx context.Context, raw []byte) {
	var msg dto.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.logCtx.WithError(err).Warn("Failed to parse client message")
		c.sendErrors("invalid message format")
		return
	}

	if msg.Type == dto.ClientSave {
		c.save(ctx)
		return
	}

	ev, err := toEvent(msg)
	if err != nil {
		c.logCtx.WithError(err).Warn("Invalid client event")
		c.sendErrors(err.Error())
		return
	}
	effects, err := c.session.Handle(ctx, ev)
	if err != nil {
		c.sendErrors(err.Error())
		return
	}
	for _, eff := range effects {
		c.queue(eff)
	}
}

func (c *Client) save(ctx context.Context) {
	if !c.saves.Allow() {
		c.logCtx.Warn("Save rate limit exceeded")
		c.sendErrors(ErrSaveRateLimited.Error())
		return
	}
	sol, err := c.session.Save(ctx)
	if err != nil {
		var verrs engine.ValidationErrors
		if errors.As(err, &verrs) {
			c.sendErrors(verrs...)
		} else {
			c.sendErrors(err.Error())
		}
		return
	}
	c.queue(dto.SavedMessage{
		Type:     dto.ServerSaved,
		Solution: dto.NewSolutionResponse(sol, c.session.Paths()),
	})
}

// toEvent 把客户端消息转换为引擎事件
func toEvent(msg dto.ClientMessage) (engine.Event, error) {
	if msg.Cell == nil && msg.Type != dto.ClientPointerUp {
		return engine.Event{}, fmt.Errorf("%s requires a cell", msg.Type)
	}
	switch msg.Type {
	case dto.ClientPointerDown:
		return engine.PointerDown(*msg.Cell), nil
	case dto.ClientPointerMove:
		return engine.PointerMove(*msg.Cell), nil
	case dto.ClientPointerUp:
		if msg.Cell == nil {
			return engine.PointerUpOutside(), nil
		}
		return engine.PointerUp(*msg.Cell), nil
	case dto.ClientRemove:
		return engine.RemoveRequested(*msg.Cell), nil
	}
	return engine.Event{}, fmt.Errorf("unknown message type %q", msg.Type)
}

func (c *Client) sendErrors(messages ...string) {
	c.queue(dto.ErrorsMessage{Type: dto.ServerErrors, Messages: messages})
}

// queue 序列化消息并非阻塞地放入发送通道
func (c *Client) queue(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logCtx.WithError(err).Error("Failed to marshal outgoing message")
		return
	}
	select {
	case c.send <- data:
	default:
		c.logCtx.Warn("Client send channel full, message dropped")
	}
}

// WritePump 将消息从 Client 的 send 通道写入 WebSocket 连接。
// 它在自己的 goroutine 中运行。
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logCtx.Info("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// send 通道被 Hub 关闭了 (注销时)
				c.logCtx.Info("Hub closed send channel")
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logCtx.WithError(err).Warn("Failed to write message to websocket")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logCtx.WithError(err).Warn("Failed to send ping message")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
		}
	}
}
