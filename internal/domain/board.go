package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// PointsPerColor 每种颜色在谜题板上必须拥有的点数。
const PointsPerColor = 2

// Board 表示一个谜题板：网格尺寸以及放置在其上的彩色点。
// 在一次绘制会话期间，谜题板是只读的。
type Board struct {
	ID         string    `gorm:"type:char(36);primaryKey"`    // UUID
	Name       string    `gorm:"size:255;not null"`           // 谜题板名称
	OwnerID    uint      `gorm:"index;not null"`              // 创建者 (外键关联 User.ID)
	Rows       int       `gorm:"not null"`                    // 行数
	Columns    int       `gorm:"not null"`                    // 列数
	PointsData string    `gorm:"type:text;not null"`          // 彩色点列表的 JSON
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// InBounds 判断格子是否位于网格范围内。
func (b *Board) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < b.Columns && c.Y >= 0 && c.Y < b.Rows
}

// ParsePoints 将 PointsData 字段解析为点列表。
func (b *Board) ParsePoints() ([]Point, error) {
	if b.PointsData == "" || b.PointsData == "null" {
		return []Point{}, nil
	}
	var points []Point
	if err := json.Unmarshal([]byte(b.PointsData), &points); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board points: %w", err)
	}
	if points == nil {
		return []Point{}, nil
	}
	return points, nil
}

// SetPoints 将点列表序列化后写入 PointsData 字段。
func (b *Board) SetPoints(points []Point) error {
	if len(points) == 0 {
		b.PointsData = "[]"
		return nil
	}
	bytes, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("failed to marshal board points: %w", err)
	}
	b.PointsData = string(bytes)
	return nil
}
