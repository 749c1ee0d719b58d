package domain

// Path 连接同一颜色两个点的一条路径。
// 序列化格式与前端保存解答时提交的格式一致：
// {"start":{x,y}, "end":{x,y}, "color":{"hex_value":...}, "path":[{x,y},...]}
type Path struct {
	Start     Cell   `json:"start" yaml:"start"`
	End       Cell   `json:"end" yaml:"end"`
	Color     Color  `json:"color" yaml:"color"`
	Cells     []Cell `json:"path" yaml:"path"`
	Completed bool   `json:"-" yaml:"-"`
}

// Last 返回路径当前的最后一个格子。调用者保证路径非空。
func (p *Path) Last() Cell {
	return p.Cells[len(p.Cells)-1]
}

// Contains 判断格子是否已经在路径中。
func (p *Path) Contains(c Cell) bool {
	for _, pc := range p.Cells {
		if pc == c {
			return true
		}
	}
	return false
}

// HasEndpoint 判断格子是否为路径的起点或终点。
func (p *Path) HasEndpoint(c Cell) bool {
	if len(p.Cells) == 0 {
		return false
	}
	return p.Cells[0] == c || p.Last() == c
}

// Clone 返回路径的深拷贝，避免调用者修改内部的格子切片。
func (p Path) Clone() Path {
	cells := make([]Cell, len(p.Cells))
	copy(cells, p.Cells)
	p.Cells = cells
	return p
}
