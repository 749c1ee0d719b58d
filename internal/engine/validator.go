package engine

import "flow-board/internal/domain"

// CheckExtend 判断候选格子能否追加到正在绘制的路径末尾。
// 返回 nil 表示接受；否则返回拒绝原因。终点连接由 Session 的 End 单独处理，
// 所以任何有点的格子在这里都会被拒绝。
func CheckExtend(board *BoardIndex, store *SolutionStore, path *domain.Path, candidate domain.Cell) error {
	if !board.InBounds(candidate) {
		return ErrOutOfBounds
	}
	if !path.Last().Adjacent(candidate) {
		return ErrNotAdjacent
	}
	// 退回上一个格子同样被拒绝，也就是不支持回撤
	if path.Contains(candidate) {
		return ErrCellInPath
	}
	if store.Occupied(candidate) {
		return ErrCellOccupied
	}
	if _, ok := board.PointAt(candidate); ok {
		return ErrCellHasDot
	}
	return nil
}
