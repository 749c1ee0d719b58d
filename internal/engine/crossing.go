package engine

import "flow-board/internal/domain"

// segment 是路径上相邻两个格子之间的轴对齐线段。
type segment struct {
	a, b domain.Cell
}

func (s segment) vertical() bool { return s.a.X == s.b.X }

func segmentsOf(cells []domain.Cell) []segment {
	if len(cells) < 2 {
		return nil
	}
	segs := make([]segment, 0, len(cells)-1)
	for i := 1; i < len(cells); i++ {
		segs = append(segs, segment{a: cells[i-1], b: cells[i]})
	}
	return segs
}

// intersects 只在一条竖线段、一条横线段时才可能相交，区间为闭区间 (共享端点也算相交)。
// 同方向的两条线段 (包括共线重叠) 按约定永不相交。
func intersects(s, t segment) bool {
	if s.vertical() == t.vertical() {
		return false
	}
	v, h := s, t
	if !s.vertical() {
		v, h = t, s
	}
	x := v.a.X
	minY, maxY := minMax(v.a.Y, v.b.Y)
	y := h.a.Y
	minX, maxX := minMax(h.a.X, h.b.X)
	return x >= minX && x <= maxX && y >= minY && y <= maxY
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

// Crosses 判断两条格子序列的任意线段之间是否相交。
func Crosses(a, b []domain.Cell) bool {
	segsB := segmentsOf(b)
	for _, s := range segmentsOf(a) {
		for _, t := range segsB {
			if intersects(s, t) {
				return true
			}
		}
	}
	return false
}

// CrossesAny 将候选路径与所有已提交路径逐段比较，不区分颜色。
func CrossesAny(candidate domain.Path, committed []domain.Path) bool {
	for _, existing := range committed {
		if Crosses(candidate.Cells, existing.Cells) {
			return true
		}
	}
	return false
}
