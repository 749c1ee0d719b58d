package tasks

import (
	"encoding/json"
)

// 定义任务类型常量
const (
	TypeNotificationFanout = "notification:fanout" // 创建谜题板或解答后广播通知
	TypeDraftSweep         = "draft:sweep"         // 周期性清理残留草稿
)

// 通知事件名，与前端监听的事件名一致
const (
	EventNewBoard = "newBoard"
	EventNewPath  = "newPath"
)

// NotificationPayload 定义了通知任务的数据结构。
// 只传递 ID，用户名和谜题板名称由 Worker 查询补全。
type NotificationPayload struct {
	Event      string `json:"event"`
	BoardID    string `json:"board_id"`
	SolutionID string `json:"solution_id,omitempty"`
	UserID     uint   `json:"user_id"`
}

// NewNotificationTask 序列化通知任务的 payload
func NewNotificationTask(payload NotificationPayload) ([]byte, error) {
	return json.Marshal(payload)
}

// DraftSweepPayload 周期性清理任务的 payload (目前为空)
type DraftSweepPayload struct{}

// NewDraftSweepTask 序列化清理任务的 payload
func NewDraftSweepTask() ([]byte, error) {
	return json.Marshal(DraftSweepPayload{})
}
