package domain

// Point 是谜题板上带颜色的锚点。每种颜色在保存的谜题板上恰好有两个点。
type Point struct {
	X     int   `json:"x" yaml:"x" validate:"min=0"`
	Y     int   `json:"y" yaml:"y" validate:"min=0"`
	Color Color `json:"color" yaml:"color" validate:"required"`
}

// Cell 返回该点所在的格子。
func (p Point) Cell() Cell {
	return Cell{X: p.X, Y: p.Y}
}
