package engine

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"flow-board/internal/domain"
)

// ParsePaths 是恢复会话时的显式解析步骤：解析失败时返回空集合并记录警告，
// 绝不让格式错误的数据进入带不变量的结构。
func ParsePaths(raw []byte, logCtx *logrus.Entry) []domain.Path {
	if len(raw) == 0 || string(raw) == "null" {
		return []domain.Path{}
	}
	var paths []domain.Path
	if err := json.Unmarshal(raw, &paths); err != nil {
		logCtx.WithError(err).Warn("Malformed persisted paths, starting with an empty solution")
		return []domain.Path{}
	}
	if paths == nil {
		return []domain.Path{}
	}
	return paths
}

// ParsePoints 同上，用于谜题板的点列表。
func ParsePoints(raw []byte, logCtx *logrus.Entry) []domain.Point {
	if len(raw) == 0 || string(raw) == "null" {
		return []domain.Point{}
	}
	var points []domain.Point
	if err := json.Unmarshal(raw, &points); err != nil {
		logCtx.WithError(err).Warn("Malformed persisted points, using an empty point list")
		return []domain.Point{}
	}
	if points == nil {
		return []domain.Point{}
	}
	return points
}

// Hydrate 用持久化的路径初始化解答存储。每条路径都要重新通过提交校验，
// 不合法的路径会被丢弃并记录警告。
func Hydrate(board *BoardIndex, boardID, solutionID string, paths []domain.Path, logCtx *logrus.Entry) *SolutionStore {
	store, errs := VerifySolution(board, boardID, paths)
	store.SetID(solutionID)
	for _, msg := range errs {
		logCtx.WithField("reason", msg).Warn("Dropped invalid persisted path during hydration")
	}
	return store
}
