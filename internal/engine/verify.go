package engine

import (
	"fmt"

	"flow-board/internal/domain"
)

// VerifyPath 检查一条完整路径是否满足提交条件 (相对于 store 中已有的路径)。
// 用于服务端复核客户端提交的解答以及从持久化数据恢复会话。
// 通过校验时会把 Start/End 规范化为首尾格子。
func VerifyPath(board *BoardIndex, store *SolutionStore, path *domain.Path) error {
	if len(path.Cells) < 2 {
		return ErrPathTooShort
	}
	dots := board.PointsOf(path.Color)
	if len(dots) == 0 {
		return ErrUnknownColor
	}
	first, last := path.Cells[0], path.Last()
	if first == last {
		return ErrSelfConnect
	}
	if !isDotOf(board, first, path.Color) || !isDotOf(board, last, path.Color) {
		return ErrBadEndpoints
	}
	if store.Occupied(first) || store.Occupied(last) {
		return ErrDotAlreadyUsed
	}

	seen := make(map[domain.Cell]struct{}, len(path.Cells))
	for i, c := range path.Cells {
		if !board.InBounds(c) {
			return fmt.Errorf("cell %s: %w", c, ErrOutOfBounds)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("cell %s: %w", c, ErrCellInPath)
		}
		seen[c] = struct{}{}
		if i > 0 && !path.Cells[i-1].Adjacent(c) {
			return fmt.Errorf("cell %s: %w", c, ErrNotAdjacent)
		}
		if i > 0 && i < len(path.Cells)-1 {
			if _, ok := board.PointAt(c); ok {
				return fmt.Errorf("cell %s: %w", c, ErrCellHasDot)
			}
		}
		if store.Occupied(c) {
			return fmt.Errorf("cell %s: %w", c, ErrCellOccupied)
		}
	}
	if CrossesAny(*path, store.paths) {
		return ErrPathsCross
	}

	path.Start, path.End = first, last
	return nil
}

func isDotOf(board *BoardIndex, c domain.Cell, color domain.Color) bool {
	p, ok := board.PointAt(c)
	return ok && p.Color.Same(color)
}

// VerifySolution 依次校验并提交每条路径，返回构建好的存储以及所有失败信息。
// 失败的路径不会进入存储。
func VerifySolution(board *BoardIndex, boardID string, paths []domain.Path) (*SolutionStore, ValidationErrors) {
	store := NewSolutionStore(boardID)
	var errs ValidationErrors
	for i := range paths {
		p := paths[i].Clone()
		if err := VerifyPath(board, store, &p); err != nil {
			errs = append(errs, fmt.Sprintf("path %d (%s): %s", i+1, p.Color.HexValue, err.Error()))
			continue
		}
		store.Commit(p)
	}
	return store, errs
}
