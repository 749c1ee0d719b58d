package domain

import "strings"

// Color 以十六进制值作为唯一标识，Name 只是展示用的标签。
type Color struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	HexValue string `json:"hex_value" yaml:"hex_value" validate:"required,hexcolor,len=7"`
}

// Key 返回颜色的规范键 (小写十六进制值)，比较颜色时只使用它。
func (c Color) Key() string {
	return strings.ToLower(strings.TrimSpace(c.HexValue))
}

// Same 判断两个颜色是否为同一种颜色。
func (c Color) Same(o Color) bool {
	return c.Key() == o.Key()
}
