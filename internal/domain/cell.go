package domain

import "fmt"

// Cell 是网格中的一个格子坐标，0 <= X < columns, 0 <= Y < rows。
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Adjacent 判断两个格子是否相邻 (曼哈顿距离为 1，不允许对角线)。
func (c Cell) Adjacent(o Cell) bool {
	return abs(c.X-o.X)+abs(c.Y-o.Y) == 1
}

// String 返回 "x:y" 格式，与 Redis 中使用的字段键一致。
func (c Cell) String() string {
	return fmt.Sprintf("%d:%d", c.X, c.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
