package dto

import (
	"encoding/json"

	"flow-board/internal/domain"
)

// 客户端发送的 WebSocket 消息类型
const (
	ClientPointerDown = "pointer_down"
	ClientPointerMove = "pointer_move"
	ClientPointerUp   = "pointer_up"
	ClientRemove      = "remove"
	ClientSave        = "save"
)

// 服务端发送的 WebSocket 消息类型 (引擎副作用之外的部分)
const (
	ServerSession      = "session"
	ServerSaved        = "saved"
	ServerNotification = "notification"
	ServerErrors       = "errors"
)

// ClientMessage 从客户端 WebSocket 消息中解析出的输入。
// pointer_up 省略 cell 表示在任何格子之外松开。
type ClientMessage struct {
	Type string       `json:"type" binding:"required,oneof=pointer_down pointer_move pointer_up remove save"`
	Cell *domain.Cell `json:"cell,omitempty"`
}

// SessionMessage 连接建立后发送的初始状态
type SessionMessage struct {
	Type     string           `json:"type"`
	Board    BoardResponse    `json:"board"`
	Solution SolutionResponse `json:"solution"`
}

// SavedMessage 保存成功后发送
type SavedMessage struct {
	Type     string           `json:"type"`
	Solution SolutionResponse `json:"solution"`
}

// ErrorsMessage 发送给客户端的错误列表
type ErrorsMessage struct {
	Type     string   `json:"type"`
	Messages []string `json:"messages"`
}

// NotificationMessage 广播给所有连接的通知
type NotificationMessage struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewBoardNotification / NewPathNotification 是通知的 data 部分
type NewBoardNotification struct {
	BoardID         string `json:"board_id"`
	BoardName       string `json:"board_name"`
	CreatorUsername string `json:"creator_username"`
}

type NewPathNotification struct {
	PathID       string `json:"path_id"`
	BoardID      string `json:"board_id"`
	BoardName    string `json:"board_name"`
	UserUsername string `json:"user_username"`
}
