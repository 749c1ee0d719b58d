package dto

import (
	"time"

	"flow-board/internal/domain"
)

// SolutionRequest 保存解答的请求体
type SolutionRequest struct {
	BoardID string        `json:"board_id,omitempty"`
	Paths   []domain.Path `json:"paths"`
}

// SolutionResponse 返回给客户端的解答
type SolutionResponse struct {
	ID        string        `json:"id"`
	BoardID   string        `json:"board_id"`
	UserID    uint          `json:"user_id"`
	Paths     []domain.Path `json:"paths"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewSolutionResponse 把数据库模型转换为响应
func NewSolutionResponse(s *domain.Solution, paths []domain.Path) SolutionResponse {
	if paths == nil {
		paths = []domain.Path{}
	}
	return SolutionResponse{
		ID:        s.ID,
		BoardID:   s.BoardID,
		UserID:    s.UserID,
		Paths:     paths,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
