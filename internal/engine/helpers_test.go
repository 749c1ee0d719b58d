package engine_test

import (
	"flow-board/internal/domain"
	"flow-board/internal/engine"
)

var (
	red   = domain.Color{Name: "red", HexValue: "#FF0000"}
	blue  = domain.Color{Name: "blue", HexValue: "#0000FF"}
	green = domain.Color{Name: "green", HexValue: "#00FF00"}
)

func c(x, y int) domain.Cell { return domain.Cell{X: x, Y: y} }

func pt(x, y int, color domain.Color) domain.Point {
	return domain.Point{X: x, Y: y, Color: color}
}

func column(x, from, to int) []domain.Cell {
	cells := make([]domain.Cell, 0)
	for y := from; y <= to; y++ {
		cells = append(cells, c(x, y))
	}
	return cells
}

// newSession 创建 5x5 谜题板：红点 (0,0)/(0,4)，以及额外传入的点。
func newSession(extra ...domain.Point) *engine.Session {
	points := append([]domain.Point{pt(0, 0, red), pt(0, 4, red)}, extra...)
	board := engine.NewBoardIndex(5, 5, points)
	return engine.NewSession(board, engine.NewSolutionStore("board-1"))
}

// drag 依次发送按下、移动和松开事件，返回最后一次松开产生的副作用。
func drag(s *engine.Session, cells ...domain.Cell) []engine.Effect {
	s.Handle(engine.PointerDown(cells[0]))
	for _, cell := range cells[1 : len(cells)-1] {
		s.Handle(engine.PointerMove(cell))
	}
	_, effects, _ := s.Handle(engine.PointerUp(cells[len(cells)-1]))
	return effects
}

func errorMessages(effects []engine.Effect) []string {
	var msgs []string
	for _, e := range effects {
		if e.Kind == engine.EffectShowErrors {
			msgs = append(msgs, e.Messages...)
		}
	}
	return msgs
}
