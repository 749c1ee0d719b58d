package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"flow-board/internal/domain"
	"flow-board/internal/dto"
	"flow-board/internal/engine"
	"flow-board/internal/service"
)

// BoardHandler 封装了谜题板管理的 HTTP 处理逻辑
type BoardHandler struct {
	boardService *service.BoardService
}

// NewBoardHandler 创建 BoardHandler 实例
func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	if boardService == nil {
		panic("BoardService cannot be nil for BoardHandler")
	}
	return &BoardHandler{boardService: boardService}
}

// ListBoards 返回所有谜题板
func (h *BoardHandler) ListBoards(c *gin.Context) {
	boards, err := h.boardService.ListBoards(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toBoardResponses(boards))
}

// ListMyBoards 返回当前用户创建的谜题板
func (h *BoardHandler) ListMyBoards(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boards, err := h.boardService.ListMyBoards(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toBoardResponses(boards))
}

// GetBoard 返回单个谜题板
func (h *BoardHandler) GetBoard(c *gin.Context) {
	board, err := h.boardService.GetBoard(c.Request.Context(), c.Param("boardId"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toBoardResponse(board))
}

// CreateBoard 创建谜题板
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithField("user_id", userID).WithError(err).Warn("Handler.CreateBoard: Invalid input format")
		HandleBindingError(c, err)
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), userID, toBoardInput(req))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, toBoardResponse(board))
}

// UpdateBoard 编辑谜题板
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithField("user_id", userID).WithError(err).Warn("Handler.UpdateBoard: Invalid input format")
		HandleBindingError(c, err)
		return
	}

	board, err := h.boardService.UpdateBoard(c.Request.Context(), userID, c.Param("boardId"), toBoardInput(req))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toBoardResponse(board))
}

// DeleteBoard 删除谜题板
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.boardService.DeleteBoard(c.Request.Context(), userID, c.Param("boardId")); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toBoardInput(req dto.BoardRequest) service.BoardInput {
	return service.BoardInput{Name: req.Name, Rows: req.Rows, Columns: req.Columns, Points: req.Points}
}

func toBoardResponse(b *domain.Board) dto.BoardResponse {
	points := engine.ParsePoints([]byte(b.PointsData), logrus.WithField("board_id", b.ID))
	return dto.NewBoardResponse(b, points)
}

func toBoardResponses(boards []domain.Board) []dto.BoardResponse {
	out := make([]dto.BoardResponse, 0, len(boards))
	for i := range boards {
		out = append(out, toBoardResponse(&boards[i]))
	}
	return out
}
