package hub

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"flow-board/internal/repository"
)

// 包级别的 WebSocket 常量，供 hub 和 client 使用
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	// 客户端消息只有 type 和单个 cell；新增批量消息时需要同步调大。
	maxMessageSize = 1024
)

// HubMessage 类型
const (
	MessageRegister     = "register"
	MessageUnregister   = "unregister"
	MessageNotification = "notification"
)

// HubMessage 定义了在 Hub 内部通道传递的消息
type HubMessage struct {
	Type    string  // register / unregister / notification
	Client  *Client // 仅用于 register/unregister
	RawData []byte  // 仅用于 notification (已序列化的消息)
}

// Hub 维护所有在线的绘制连接，并把通知广播给它们。
// 绘制事件由每个连接自己的读循环同步处理，不经过 Hub。
type Hub struct {
	messageChan chan HubMessage

	// map[boardID]map[*Client]bool
	boards   map[string]map[*Client]bool
	boardsMu sync.RWMutex

	relayCancel context.CancelFunc
	relayMu     sync.Mutex
}

// NewHub 创建并返回一个新的 Hub 实例
func NewHub() *Hub {
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		boards:      make(map[string]map[*Client]bool),
	}
}

// Run 启动 Hub 的主事件处理循环。
// 它应该在一个单独的 goroutine 中运行。
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")

	for msg := range h.messageChan {
		switch msg.Type {
		case MessageRegister:
			h.registerClient(msg.Client)
		case MessageUnregister:
			h.unregisterClient(msg.Client)
		case MessageNotification:
			h.broadcast(msg.RawData)
		default:
			log.Warnf("Hub: Received unknown message type: %s", msg.Type)
		}
	}
	log.Info("Hub is shutting down...")
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to register a nil client")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id": client.BoardID(),
		"user_id":  client.UserID(),
		"action":   "registerClient",
	})

	h.boardsMu.Lock()
	if _, ok := h.boards[client.BoardID()]; !ok {
		h.boards[client.BoardID()] = make(map[*Client]bool)
	}
	h.boards[client.BoardID()][client] = true
	h.boardsMu.Unlock()
	logCtx.Info("Client registered to Hub")
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to unregister a nil client")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id": client.BoardID(),
		"user_id":  client.UserID(),
		"action":   "unregisterClient",
	})

	h.boardsMu.Lock()
	defer h.boardsMu.Unlock()
	clients, ok := h.boards[client.BoardID()]
	if !ok || !clients[client] {
		logCtx.Warn("Client not found during unregister")
		return
	}
	delete(clients, client)
	// 关闭 send 通道让 WritePump 退出。客户端已从集合中移除，不会被关闭第二次
	close(client.send)
	if len(clients) == 0 {
		delete(h.boards, client.BoardID())
	}
	logCtx.Info("Client unregistered from Hub")
}

// broadcast 把通知发送给所有在线客户端
func (h *Hub) broadcast(message []byte) {
	h.boardsMu.RLock()
	recipients := make([]*Client, 0)
	for _, clients := range h.boards {
		for client := range clients {
			recipients = append(recipients, client)
		}
	}
	h.boardsMu.RUnlock()

	logCtx := logrus.WithFields(logrus.Fields{
		"message_size":    len(message),
		"recipient_count": len(recipients),
	})
	logCtx.Debug("Broadcasting notification to clients")

	for _, client := range recipients {
		select {
		case client.send <- message:
		default:
			logCtx.WithField("receiver_user_id", client.UserID()).Warn("Client send channel full during broadcast, skipping this client")
		}
	}
}

// QueueMessage 将消息放入 Hub 的处理队列 (非阻塞)。
// 返回 false 表示队列已满。
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithField("message_type", msg.Type).Warn("Hub message channel full, dropping message")
		return false
	}
}

// ClientCount 返回某个谜题板上的在线连接数
func (h *Hub) ClientCount(boardID string) int {
	h.boardsMu.RLock()
	defer h.boardsMu.RUnlock()
	return len(h.boards[boardID])
}

// StartNotificationRelay 订阅 Redis 通知频道，把收到的通知交给 Run 循环广播。
// Worker 可能运行在其他实例上，所以通知统一经过 Redis 转发。
func (h *Hub) StartNotificationRelay(ctx context.Context, stateRepo repository.StateRepository) error {
	relayCtx, cancel := context.WithCancel(ctx)
	ch, err := stateRepo.SubscribeNotifications(relayCtx)
	if err != nil {
		cancel()
		return err
	}
	h.relayMu.Lock()
	h.relayCancel = cancel
	h.relayMu.Unlock()

	go func() {
		log := logrus.WithField("component", "hub_relay")
		log.Info("Notification relay started")
		for payload := range ch {
			h.QueueMessage(HubMessage{Type: MessageNotification, RawData: payload})
		}
		log.Info("Notification relay stopped")
	}()
	return nil
}

// StopAllSubscriptions 停止通知转发
func (h *Hub) StopAllSubscriptions() {
	h.relayMu.Lock()
	defer h.relayMu.Unlock()
	if h.relayCancel != nil {
		h.relayCancel()
		h.relayCancel = nil
	}
}
