package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"flow-board/internal/domain"
	"flow-board/internal/engine"
)

func TestCrosses_VerticalOverHorizontal(t *testing.T) {
	// 候选路径最后一段为 x=2 上 y∈[1,3] 的竖线，已有路径在 y=2 上有 x∈[0,4] 的横线
	candidate := []domain.Cell{c(1, 1), c(2, 1), c(2, 3)}
	existing := []domain.Cell{c(0, 2), c(4, 2)}

	assert.True(t, engine.Crosses(candidate, existing), "竖线穿过横线应判定为相交")
}

func TestCrosses_IsSymmetric(t *testing.T) {
	cases := []struct {
		name string
		a, b []domain.Cell
	}{
		{"crossing", []domain.Cell{c(2, 1), c(2, 3)}, []domain.Cell{c(0, 2), c(4, 2)}},
		{"disjoint", []domain.Cell{c(0, 0), c(0, 1)}, []domain.Cell{c(3, 3), c(4, 3)}},
		{"shared endpoint", []domain.Cell{c(1, 1), c(1, 2)}, []domain.Cell{c(1, 2), c(2, 2)}},
		{"parallel", column(0, 0, 4), column(1, 0, 4)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, engine.Crosses(tc.a, tc.b), engine.Crosses(tc.b, tc.a))
		})
	}
}

func TestCrosses_SharedEndpointCounts(t *testing.T) {
	// 闭区间：只共享一个端点也算相交
	assert.True(t, engine.Crosses([]domain.Cell{c(1, 1), c(1, 2)}, []domain.Cell{c(1, 2), c(2, 2)}))
}

func TestCrosses_SameOrientationNeverCrosses(t *testing.T) {
	// 当前行为：同方向线段即使共线重叠也不判定为相交 (两条竖直路径共享一段)
	a := column(2, 0, 3)
	b := column(2, 1, 4)
	assert.False(t, engine.Crosses(a, b), "共线重叠的竖线段按约定不相交")

	h1 := []domain.Cell{c(0, 1), c(1, 1), c(2, 1)}
	h2 := []domain.Cell{c(1, 1), c(2, 1), c(3, 1)}
	assert.False(t, engine.Crosses(h1, h2), "共线重叠的横线段按约定不相交")
}

func TestCrosses_SingleCellHasNoSegments(t *testing.T) {
	assert.False(t, engine.Crosses([]domain.Cell{c(2, 2)}, []domain.Cell{c(0, 2), c(4, 2)}))
}

func TestCrossesAny_ChecksEveryCommittedPath(t *testing.T) {
	committed := []domain.Path{
		{Color: red, Cells: column(0, 0, 4)},
		{Color: green, Cells: []domain.Cell{c(0, 2), c(4, 2)}},
	}
	candidate := domain.Path{Color: blue, Cells: []domain.Cell{c(2, 1), c(2, 3)}}

	assert.True(t, engine.CrossesAny(candidate, committed))
	assert.False(t, engine.CrossesAny(candidate, committed[:1]))
}
