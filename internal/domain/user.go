// Package domain 定义了谜题、路径、解答和用户的核心数据结构 (同时也是数据库模型)。
package domain

import "time"

// User 表示应用程序中的用户，拥有自己创建的谜题板和解答。
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null"`
	Password  string    `gorm:"type:text;not null"` // bcrypt 哈希，不回传给客户端
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_email"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
