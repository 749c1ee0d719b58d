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

// SolutionHandler 封装了解答的 HTTP 处理逻辑
type SolutionHandler struct {
	solutionService *service.SolutionService
}

// NewSolutionHandler 创建 SolutionHandler 实例
func NewSolutionHandler(solutionService *service.SolutionService) *SolutionHandler {
	if solutionService == nil {
		panic("SolutionService cannot be nil for SolutionHandler")
	}
	return &SolutionHandler{solutionService: solutionService}
}

// ListSolutions 返回谜题板的全部解答
func (h *SolutionHandler) ListSolutions(c *gin.Context) {
	solutions, err := h.solutionService.ListSolutions(c.Request.Context(), c.Param("boardId"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	out := make([]dto.SolutionResponse, 0, len(solutions))
	for i := range solutions {
		out = append(out, toSolutionResponse(&solutions[i]))
	}
	SuccessResponse(c, http.StatusOK, out)
}

// GetSolution 返回单个解答
func (h *SolutionHandler) GetSolution(c *gin.Context) {
	sol, err := h.solutionService.GetSolution(c.Request.Context(), c.Param("boardId"), c.Param("solutionId"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toSolutionResponse(sol))
}

// CreateSolution 保存新的解答。提交的路径由引擎重新校验，失败时返回错误列表。
func (h *SolutionHandler) CreateSolution(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.SolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithField("user_id", userID).WithError(err).Warn("Handler.CreateSolution: Invalid input format")
		HandleBindingError(c, err)
		return
	}

	sol, err := h.solutionService.CreateSolution(c.Request.Context(), userID, c.Param("boardId"), req.Paths)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, toSolutionResponse(sol))
}

// UpdateSolution 覆盖已有解答
func (h *SolutionHandler) UpdateSolution(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.SolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithField("user_id", userID).WithError(err).Warn("Handler.UpdateSolution: Invalid input format")
		HandleBindingError(c, err)
		return
	}

	sol, err := h.solutionService.UpdateSolution(c.Request.Context(), userID, c.Param("boardId"), c.Param("solutionId"), req.Paths)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toSolutionResponse(sol))
}

func toSolutionResponse(s *domain.Solution) dto.SolutionResponse {
	paths := engine.ParsePaths([]byte(s.PathsData), logrus.WithField("solution_id", s.ID))
	return dto.NewSolutionResponse(s, paths)
}
