package engine

import (
	"errors"
	"strings"
)

// 拖拽过程中被拒绝的原因。消息文本直接展示给用户。
var (
	ErrDotAlreadyUsed = errors.New("dot already used")
	ErrColorMismatch  = errors.New("only same-color dots may be connected")
	ErrSelfConnect    = errors.New("cannot connect a dot to itself")
	ErrEndNotAdjacent = errors.New("end dot must be adjacent to the last cell of the path")
	ErrPathsCross     = errors.New("paths cannot cross")
)

// ErrDotNotInPath 表示对不属于任何路径的点请求删除。
// 这是调用方契约错误 (界面状态与引擎不同步)，所以直接返回错误而不是静默忽略。
var ErrDotNotInPath = errors.New("dot is not part of any path")

// 单步延伸被拒绝的原因，拖拽时会被静默忽略。
var (
	ErrOutOfBounds  = errors.New("cell is out of bounds")
	ErrNotAdjacent  = errors.New("cell is not adjacent to the last cell of the path")
	ErrCellInPath   = errors.New("cell is already part of the path")
	ErrCellOccupied = errors.New("cell is already used by another path")
	ErrCellHasDot   = errors.New("cell is occupied by a dot")
)

// 校验完整路径时的额外错误。
var (
	ErrPathTooShort = errors.New("path must contain at least two cells")
	ErrUnknownColor = errors.New("color has no dots on this board")
	ErrBadEndpoints = errors.New("path must start and end at the two dots of its color")
	ErrNoPaths      = errors.New("no paths have been drawn")
)

// ErrDragInProgress 表示拖拽尚未结束时请求保存
var ErrDragInProgress = errors.New("finish the current path before saving")

// ValidationErrors 汇总多条面向用户的错误信息。
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}

// Add 追加一条错误信息。
func (v *ValidationErrors) Add(err error) {
	*v = append(*v, err.Error())
}

// Empty 判断是否没有错误。
func (v ValidationErrors) Empty() bool { return len(v) == 0 }
