package engine

import (
	"fmt"

	"flow-board/internal/domain"
)

// BoardIndex 是谜题板在一次会话中的只读索引，提供 O(1) 的点查找。
type BoardIndex struct {
	rows    int
	columns int
	points  map[domain.Cell]domain.Point
	byColor map[string][]domain.Cell
}

// NewBoardIndex 根据网格尺寸和点列表构建索引。
// 每种颜色恰好两个点由谜题板编辑流程保证，这里不做校验。
func NewBoardIndex(rows, columns int, points []domain.Point) *BoardIndex {
	idx := &BoardIndex{
		rows:    rows,
		columns: columns,
		points:  make(map[domain.Cell]domain.Point, len(points)),
		byColor: make(map[string][]domain.Cell),
	}
	for _, p := range points {
		idx.points[p.Cell()] = p
		key := p.Color.Key()
		idx.byColor[key] = append(idx.byColor[key], p.Cell())
	}
	return idx
}

// IndexBoard 解析持久化的谜题板并构建索引。
func IndexBoard(b *domain.Board) (*BoardIndex, error) {
	points, err := b.ParsePoints()
	if err != nil {
		return nil, fmt.Errorf("index board %s: %w", b.ID, err)
	}
	return NewBoardIndex(b.Rows, b.Columns, points), nil
}

func (b *BoardIndex) Rows() int    { return b.rows }
func (b *BoardIndex) Columns() int { return b.columns }

// InBounds 判断格子是否在网格内。
func (b *BoardIndex) InBounds(c domain.Cell) bool {
	return c.X >= 0 && c.X < b.columns && c.Y >= 0 && c.Y < b.rows
}

// PointAt 返回占据该格子的点。
func (b *BoardIndex) PointAt(c domain.Cell) (domain.Point, bool) {
	p, ok := b.points[c]
	return p, ok
}

// PointsOf 返回某种颜色的所有点所在格子。
func (b *BoardIndex) PointsOf(color domain.Color) []domain.Cell {
	return b.byColor[color.Key()]
}

// Points 返回全部点 (顺序不保证)。
func (b *BoardIndex) Points() []domain.Point {
	out := make([]domain.Point, 0, len(b.points))
	for _, p := range b.points {
		out = append(out, p)
	}
	return out
}
