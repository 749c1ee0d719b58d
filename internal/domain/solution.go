package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Solution 存储某个用户对某个谜题板提交的全部已提交路径。
type Solution struct {
	ID        string    `gorm:"type:char(36);primaryKey"` // UUID
	BoardID   string    `gorm:"type:char(36);index;not null"`
	UserID    uint      `gorm:"index;not null"`
	PathsData string    `gorm:"type:longtext;not null"` // 路径列表的 JSON
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// ParsePaths 将 PathsData 字段解析为路径列表。
func (s *Solution) ParsePaths() ([]Path, error) {
	if s.PathsData == "" || s.PathsData == "null" {
		return []Path{}, nil
	}
	var paths []Path
	if err := json.Unmarshal([]byte(s.PathsData), &paths); err != nil {
		return nil, fmt.Errorf("failed to unmarshal solution paths: %w", err)
	}
	if paths == nil {
		return []Path{}, nil
	}
	return paths, nil
}

// SetPaths 将路径列表序列化后写入 PathsData 字段。
func (s *Solution) SetPaths(paths []Path) error {
	if len(paths) == 0 {
		s.PathsData = "[]"
		return nil
	}
	bytes, err := json.Marshal(paths)
	if err != nil {
		return fmt.Errorf("failed to marshal solution paths: %w", err)
	}
	s.PathsData = string(bytes)
	return nil
}
