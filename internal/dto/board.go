package dto

import (
	"time"

	"flow-board/internal/domain"
)

// BoardRequest 创建或编辑谜题板的请求体
type BoardRequest struct {
	Name    string         `json:"name" binding:"required,max=255"`
	Rows    int            `json:"rows" binding:"required,min=1"`
	Columns int            `json:"columns" binding:"required,min=1"`
	Points  []domain.Point `json:"points" binding:"required"`
}

// BoardResponse 返回给客户端的谜题板
type BoardResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	OwnerID   uint           `json:"owner_id"`
	Rows      int            `json:"rows"`
	Columns   int            `json:"columns"`
	Points    []domain.Point `json:"points"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewBoardResponse 把数据库模型转换为响应。points 由调用者解析 (解析失败时传空列表)。
func NewBoardResponse(b *domain.Board, points []domain.Point) BoardResponse {
	if points == nil {
		points = []domain.Point{}
	}
	return BoardResponse{
		ID:        b.ID,
		Name:      b.Name,
		OwnerID:   b.OwnerID,
		Rows:      b.Rows,
		Columns:   b.Columns,
		Points:    points,
		CreatedAt: b.CreatedAt,
	}
}
